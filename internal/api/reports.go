package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

func (h *Handler) handleRecoveryReport(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	report := h.engine.GenerateRecoveryReport(customerID)

	h.archiveReport(r, "recovery-"+report.ReportGeneratedAt.UTC().Format("20060102T150405"), report)
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleValueReport(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("customerID")
	if _, err := h.engine.Customer(customerID); err != nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	start, ok := parseDateParam(r, "start_date")
	if !ok {
		writeError(w, http.StatusBadRequest, "start_date must be RFC 3339 or YYYY-MM-DD")
		return
	}
	end, ok := parseDateParam(r, "end_date")
	if !ok {
		writeError(w, http.StatusBadRequest, "end_date must be RFC 3339 or YYYY-MM-DD")
		return
	}

	report := h.amp.GenerateValueReport(customerID, start, end)
	writeJSON(w, http.StatusOK, map[string]any{
		"report":  report,
		"summary": report.Summary(),
	})
}

// parseDateParam reads an optional query parameter as RFC 3339 or plain
// date. A missing parameter returns a zero time with ok true.
func parseDateParam(r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// archiveReport stores a generated report in blob storage. Best-effort.
func (h *Handler) archiveReport(r *http.Request, reportID string, report any) {
	if h.archiver == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		log.Printf("archive report %s: marshal: %v", reportID, err)
		return
	}
	if err := h.archiver.PutReport(r.Context(), reportID, data); err != nil {
		log.Printf("archive report %s: %v", reportID, err)
	}
}
