// Package api implements the VitalSign REST API: customer registration,
// signal ingestion, playbook lifecycle, and recovery/value reporting.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/vitalsign/vitalsign/internal/amplification"
	"github.com/vitalsign/vitalsign/internal/archive"
	"github.com/vitalsign/vitalsign/internal/engine"
	"github.com/vitalsign/vitalsign/internal/store"
)

// Handler is the top-level API handler for the VitalSign service.
// Store and archiver are optional: a nil store runs in-memory only, a
// nil archiver skips the signal audit trail.
type Handler struct {
	engine   *engine.Engine
	amp      *amplification.Engine
	store    *store.Service
	archiver archive.StorageClient
}

// NewHandler creates a new API handler.
func NewHandler(eng *engine.Engine, amp *amplification.Engine, st *store.Service, archiver archive.StorageClient) *Handler {
	return &Handler{
		engine:   eng,
		amp:      amp,
		store:    st,
		archiver: archiver,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Write endpoints (auth-protected)
	mux.HandleFunc("POST /api/v1/customers", h.handleCreateCustomer)
	mux.HandleFunc("POST /api/v1/customers/{customerID}/signals", h.handleSubmitSignals)
	mux.HandleFunc("POST /api/v1/playbooks/{playbookID}/actions/{actionID}", h.handleUpdateAction)

	// Read endpoints
	mux.HandleFunc("GET /api/v1/customers", h.handleListCustomers)
	mux.HandleFunc("GET /api/v1/customers/{customerID}", h.handleGetCustomer)
	mux.HandleFunc("GET /api/v1/customers/{customerID}/playbooks", h.handleListPlaybooks)
	mux.HandleFunc("GET /api/v1/customers/{customerID}/value-report", h.handleValueReport)
	mux.HandleFunc("GET /api/v1/playbooks", h.handleListActivePlaybooks)
	mux.HandleFunc("GET /api/v1/playbooks/{playbookID}", h.handleGetPlaybook)
	mux.HandleFunc("GET /api/v1/reports/recovery", h.handleRecoveryReport)

	mux.HandleFunc("GET /healthz", h.handleHealthz)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
