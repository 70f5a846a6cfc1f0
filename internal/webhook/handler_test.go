package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vitalsign/vitalsign/internal/amplification"
	"github.com/vitalsign/vitalsign/internal/engine"
	"github.com/vitalsign/vitalsign/pkg/health"
)

func computeHMAC(payload, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := []byte("webhook-secret-123")
	payload := []byte(`{"customer_id":"CUST-001"}`)

	tests := []struct {
		name      string
		payload   []byte
		signature string
		secret    []byte
		wantErr   bool
	}{
		{
			name:      "valid signature",
			payload:   payload,
			signature: computeHMAC(payload, secret),
			secret:    secret,
			wantErr:   false,
		},
		{
			name:      "wrong secret",
			payload:   payload,
			signature: computeHMAC(payload, []byte("wrong-secret")),
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "tampered payload",
			payload:   []byte(`{"customer_id":"CUST-002"}`),
			signature: computeHMAC(payload, secret),
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "missing sha256= prefix",
			payload:   payload,
			signature: "not-a-valid-sig",
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "invalid hex after prefix",
			payload:   payload,
			signature: "sha256=zzzz",
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "empty signature",
			payload:   payload,
			signature: "",
			secret:    secret,
			wantErr:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := VerifySignature(tc.payload, tc.signature, tc.secret)
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseEvent_Signals(t *testing.T) {
	payload := SignalsEvent{
		Source:     "product-analytics",
		CustomerID: "CUST-001",
		Signals: health.SignalBag{
			"logins_per_week": 4.0,
			"nps_score":       35.0,
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	event, err := ParseEvent("signals", data)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}

	sig, ok := event.(*SignalsEvent)
	if !ok {
		t.Fatalf("expected *SignalsEvent, got %T", event)
	}
	if sig.CustomerID != "CUST-001" {
		t.Errorf("customer_id = %q, want CUST-001", sig.CustomerID)
	}
	if sig.Signals.Number("logins_per_week", 0) != 4.0 {
		t.Errorf("signals not decoded: %v", sig.Signals)
	}
}

func TestParseEvent_UnsupportedType(t *testing.T) {
	_, err := ParseEvent("unknown_event", []byte(`{}`))
	if err == nil {
		t.Error("expected error for unsupported event type, got nil")
	}
}

func TestParseEvent_InvalidJSON(t *testing.T) {
	types := []string{"customer", "signals", "roi_metric"}
	for _, eventType := range types {
		t.Run(eventType, func(t *testing.T) {
			_, err := ParseEvent(eventType, []byte(`{invalid json`))
			if err == nil {
				t.Errorf("expected error parsing invalid JSON for %s, got nil", eventType)
			}
		})
	}
}

func newTestHandler() (*Handler, *engine.Engine, *amplification.Engine) {
	eng := engine.New(nil, nil)
	amp := amplification.New(nil)
	return NewHandler([]byte("secret"), eng, amp), eng, amp
}

func post(t *testing.T, h *Handler, eventType string, payload any, sign bool) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/telemetry", bytes.NewReader(data))
	req.Header.Set("X-VitalSign-Event", eventType)
	if sign {
		req.Header.Set("X-VitalSign-Signature-256", computeHMAC(data, []byte("secret")))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RejectsUnsigned(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := post(t, h, "signals", SignalsEvent{CustomerID: "CUST-001"}, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandler_CustomerThenSignals(t *testing.T) {
	h, eng, _ := newTestHandler()

	rec := post(t, h, "customer", CustomerEvent{
		Source:   "crm",
		Customer: health.CustomerProfile{CustomerID: "CUST-001", Name: "TechCorp", Segment: "enterprise"},
	}, true)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("customer event status = %d, want 202", rec.Code)
	}

	rec = post(t, h, "signals", SignalsEvent{
		Source:     "product-analytics",
		CustomerID: "CUST-001",
		Signals:    health.SignalBag{"logins_per_week": 5.0},
	}, true)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("signals event status = %d, want 202", rec.Code)
	}

	customer, err := eng.Customer("CUST-001")
	if err != nil {
		t.Fatalf("customer not registered: %v", err)
	}
	if customer.CurrentHealth == nil {
		t.Error("signals event did not score the customer")
	}
}

func TestHandler_SignalsUnknownCustomer(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := post(t, h, "signals", SignalsEvent{CustomerID: "nope"}, true)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestHandler_ROIMetric(t *testing.T) {
	h, _, amp := newTestHandler()

	rec := post(t, h, "roi_metric", ROIMetricEvent{
		Source:        "billing",
		CustomerID:    "CUST-001",
		MetricID:      "COST-001",
		Category:      string(amplification.CategoryCostSavings),
		BaselineValue: 100000,
		CurrentValue:  125000,
	}, true)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	if got := amp.TotalROI("CUST-001"); got != 25.0 {
		t.Errorf("TotalROI = %v, want 25", got)
	}
}
