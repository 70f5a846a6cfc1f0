package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/vitalsign/vitalsign/internal/engine"
	"github.com/vitalsign/vitalsign/pkg/health"
)

type createCustomerRequest struct {
	CustomerID              string            `json:"customer_id"`
	Name                    string            `json:"name"`
	Segment                 string            `json:"segment"`
	ContractValue           float64           `json:"contract_value"`
	StartDate               time.Time         `json:"start_date"`
	RenewalDate             time.Time         `json:"renewal_date"`
	Industry                string            `json:"industry"`
	PrimaryContact          map[string]string `json:"primary_contact"`
	SuccessManager          string            `json:"success_manager"`
	IncidentImpactLevel     string            `json:"incident_impact_level"`
	IsPostIncident          bool              `json:"is_post_incident"`
	TrustRebuildingRequired bool              `json:"trust_rebuilding_required"`
}

func (h *Handler) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CustomerID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "customer_id and name are required")
		return
	}

	customer := &health.CustomerProfile{
		CustomerID:              req.CustomerID,
		Name:                    req.Name,
		Segment:                 req.Segment,
		ContractValue:           req.ContractValue,
		StartDate:               req.StartDate,
		RenewalDate:             req.RenewalDate,
		Industry:                req.Industry,
		PrimaryContact:          req.PrimaryContact,
		SuccessManager:          req.SuccessManager,
		IncidentImpactLevel:     req.IncidentImpactLevel,
		IsPostIncident:          req.IsPostIncident,
		TrustRebuildingRequired: req.TrustRebuildingRequired,
	}
	h.engine.AddCustomer(customer)
	h.persistCustomer(r.Context(), customer)

	writeJSON(w, http.StatusCreated, customer)
}

func (h *Handler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers := h.engine.Customers()
	if customers == nil {
		customers = []*health.CustomerProfile{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *Handler) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.engine.Customer(r.PathValue("customerID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) handleSubmitSignals(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("customerID")

	var bag health.SignalBag
	if err := json.NewDecoder(r.Body).Decode(&bag); err != nil {
		writeError(w, http.StatusBadRequest, "invalid signal payload")
		return
	}

	metrics, err := h.engine.UpdateCustomerHealth(customerID, bag)
	if err != nil {
		if errors.Is(err, engine.ErrCustomerNotFound) {
			writeError(w, http.StatusNotFound, "customer not found")
		} else {
			writeError(w, http.StatusInternalServerError, "health update failed")
		}
		return
	}

	h.archiveSignals(r.Context(), customerID, bag)
	h.persistHealthUpdate(r.Context(), customerID, metrics)

	writeJSON(w, http.StatusOK, map[string]any{
		"customer_id":     customerID,
		"metrics":         metrics,
		"composite_score": metrics.Composite(),
		"tier":            metrics.Tier(),
	})
}

// archiveSignals writes the raw submission to blob storage for audit.
// Best-effort: failures are logged, never surfaced.
func (h *Handler) archiveSignals(ctx context.Context, customerID string, bag health.SignalBag) {
	if h.archiver == nil {
		return
	}
	data, err := json.Marshal(bag)
	if err != nil {
		log.Printf("archive signals for %s: marshal: %v", customerID, err)
		return
	}
	snapshotID := time.Now().UTC().Format("20060102T150405.000000000")
	if err := h.archiver.PutSignals(ctx, customerID, snapshotID, data); err != nil {
		log.Printf("archive signals for %s: %v", customerID, err)
	}
}

// persistCustomer writes through to Postgres when a store is wired.
func (h *Handler) persistCustomer(ctx context.Context, c *health.CustomerProfile) {
	if h.store == nil {
		return
	}
	if err := h.store.UpsertCustomer(ctx, c); err != nil {
		log.Printf("persist customer %s: %v", c.CustomerID, err)
	}
}

// persistHealthUpdate writes the score row, refreshed customer flags,
// and any playbooks the update triggered.
func (h *Handler) persistHealthUpdate(ctx context.Context, customerID string, metrics health.Metrics) {
	if h.store == nil {
		return
	}
	if err := h.store.InsertHealthScore(ctx, customerID, metrics); err != nil {
		log.Printf("persist health score for %s: %v", customerID, err)
	}
	if customer, err := h.engine.Customer(customerID); err == nil {
		if err := h.store.UpsertCustomer(ctx, customer); err != nil {
			log.Printf("persist customer %s: %v", customerID, err)
		}
	}
	for _, pb := range h.engine.PlaybooksForCustomer(customerID) {
		if err := h.store.SavePlaybook(ctx, pb); err != nil {
			log.Printf("persist playbook %s: %v", pb.PlaybookID, err)
		}
	}
}
