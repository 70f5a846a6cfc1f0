// Package webhook handles incoming telemetry webhook events. External
// systems (product analytics, CRM, billing) push signed events instead
// of polling the API.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vitalsign/vitalsign/pkg/health"
)

// VerifySignature validates the X-VitalSign-Signature-256 header against
// the payload.
func VerifySignature(payload []byte, signature string, secret []byte) error {
	if !strings.HasPrefix(signature, "sha256=") {
		return fmt.Errorf("invalid signature format")
	}
	sig, err := hex.DecodeString(signature[7:])
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := mac.Sum(nil)

	if !hmac.Equal(sig, expected) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

// CustomerEvent registers or updates a customer profile.
type CustomerEvent struct {
	Source   string                 `json:"source"`
	Customer health.CustomerProfile `json:"customer"`
}

// SignalsEvent reports a batch of health signals for one customer.
type SignalsEvent struct {
	Source     string           `json:"source"`
	CustomerID string           `json:"customer_id"`
	ObservedAt time.Time        `json:"observed_at"`
	Signals    health.SignalBag `json:"signals"`
}

// ROIMetricEvent reports a measured value metric for one customer.
type ROIMetricEvent struct {
	Source        string  `json:"source"`
	CustomerID    string  `json:"customer_id"`
	MetricID      string  `json:"metric_id"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	BaselineValue float64 `json:"baseline_value"`
	CurrentValue  float64 `json:"current_value"`
	Currency      string  `json:"currency"`
}

// ParseEvent parses a webhook payload based on the event type.
func ParseEvent(eventType string, payload []byte) (interface{}, error) {
	switch eventType {
	case "customer":
		var e CustomerEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse customer event: %w", err)
		}
		return &e, nil
	case "signals":
		var e SignalsEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse signals event: %w", err)
		}
		return &e, nil
	case "roi_metric":
		var e ROIMetricEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse roi_metric event: %w", err)
		}
		return &e, nil
	default:
		return nil, fmt.Errorf("unsupported event type: %s", eventType)
	}
}
