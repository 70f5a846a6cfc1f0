package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/vitalsign/vitalsign/internal/engine"
	"github.com/vitalsign/vitalsign/pkg/playbook"
)

type updateActionRequest struct {
	Status         playbook.ActionStatus `json:"status"`
	OutcomeNotes   string                `json:"outcome_notes"`
	SuccessMetrics map[string]any        `json:"success_metrics"`
}

func (h *Handler) handleListPlaybooks(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("customerID")
	if _, err := h.engine.Customer(customerID); err != nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	playbooks := h.engine.PlaybooksForCustomer(customerID)
	if playbooks == nil {
		playbooks = []*playbook.Playbook{}
	}
	writeJSON(w, http.StatusOK, playbooks)
}

func (h *Handler) handleListActivePlaybooks(w http.ResponseWriter, r *http.Request) {
	playbooks := h.engine.ActivePlaybooks()
	if playbooks == nil {
		playbooks = []*playbook.Playbook{}
	}
	writeJSON(w, http.StatusOK, playbooks)
}

func (h *Handler) handleGetPlaybook(w http.ResponseWriter, r *http.Request) {
	pb, err := h.engine.Playbook(r.PathValue("playbookID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "playbook not found")
		return
	}
	writeJSON(w, http.StatusOK, pb)
}

func (h *Handler) handleUpdateAction(w http.ResponseWriter, r *http.Request) {
	playbookID := r.PathValue("playbookID")
	actionID := r.PathValue("actionID")

	var req updateActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Status {
	case playbook.ActionPending, playbook.ActionInProgress, playbook.ActionCompleted, playbook.ActionSkipped:
	default:
		writeError(w, http.StatusBadRequest, "unknown action status")
		return
	}

	err := h.engine.UpdatePlaybookAction(playbookID, actionID, req.Status, req.OutcomeNotes, req.SuccessMetrics)
	if err != nil {
		if errors.Is(err, engine.ErrPlaybookNotFound) || errors.Is(err, engine.ErrActionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, "action update failed")
		}
		return
	}

	pb, err := h.engine.Playbook(playbookID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "playbook lookup failed")
		return
	}
	if h.store != nil {
		if err := h.store.SavePlaybook(r.Context(), pb); err != nil {
			log.Printf("persist playbook %s: %v", pb.PlaybookID, err)
		}
	}
	writeJSON(w, http.StatusOK, pb)
}
