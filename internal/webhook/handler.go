package webhook

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/vitalsign/vitalsign/internal/amplification"
	"github.com/vitalsign/vitalsign/internal/engine"
)

// Handler processes incoming telemetry webhook events.
type Handler struct {
	webhookSecret []byte
	engine        *engine.Engine
	amp           *amplification.Engine
}

// NewHandler creates a new webhook Handler.
func NewHandler(webhookSecret []byte, eng *engine.Engine, amp *amplification.Engine) *Handler {
	return &Handler{
		webhookSecret: webhookSecret,
		engine:        eng,
		amp:           amp,
	}
}

// ServeHTTP handles incoming webhook requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1 MB limit
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-VitalSign-Signature-256")
	if err := VerifySignature(body, signature, h.webhookSecret); err != nil {
		log.Printf("webhook signature verification failed: %v", err)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-VitalSign-Event")
	if eventType == "" {
		http.Error(w, "missing X-VitalSign-Event header", http.StatusBadRequest)
		return
	}

	event, err := ParseEvent(eventType, body)
	if err != nil {
		log.Printf("webhook parse error for %s: %v", eventType, err)
		http.Error(w, "unsupported event", http.StatusBadRequest)
		return
	}

	switch e := event.(type) {
	case *CustomerEvent:
		if err := h.handleCustomer(e); err != nil {
			log.Printf("handle customer event: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

	case *SignalsEvent:
		if err := h.handleSignals(e); err != nil {
			log.Printf("handle signals event: %v", err)
			http.Error(w, "unknown customer", http.StatusUnprocessableEntity)
			return
		}

	case *ROIMetricEvent:
		h.handleROIMetric(e)
	}

	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

func (h *Handler) handleCustomer(e *CustomerEvent) error {
	if e.Customer.CustomerID == "" {
		return fmt.Errorf("customer event from %s missing customer_id", e.Source)
	}
	customer := e.Customer
	h.engine.AddCustomer(&customer)
	log.Printf("registered customer %s from %s", customer.CustomerID, e.Source)
	return nil
}

func (h *Handler) handleSignals(e *SignalsEvent) error {
	metrics, err := h.engine.UpdateCustomerHealth(e.CustomerID, e.Signals)
	if err != nil {
		return fmt.Errorf("update health for %s: %w", e.CustomerID, err)
	}
	log.Printf("scored signals from %s for %s: %.1f (%s)",
		e.Source, e.CustomerID, metrics.Composite(), metrics.Tier())
	return nil
}

func (h *Handler) handleROIMetric(e *ROIMetricEvent) {
	h.amp.AddROIMetric(e.CustomerID, &amplification.ROIMetric{
		MetricID:      e.MetricID,
		Category:      amplification.ValueCategory(e.Category),
		Description:   e.Description,
		BaselineValue: e.BaselineValue,
		CurrentValue:  e.CurrentValue,
		Currency:      e.Currency,
	})
	log.Printf("recorded ROI metric %s from %s for %s", e.MetricID, e.Source, e.CustomerID)
}
