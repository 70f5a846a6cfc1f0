// Package notify delivers engine events to external sinks. Delivery is
// fire-and-forget: a failing sink never propagates into scoring or
// trigger logic.
package notify

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Event kinds emitted by the engines.
const (
	EventPlaybookAssigned     = "playbook_assigned"
	EventExecutiveEscalation  = "executive_escalation"
	EventPlaybookCompleted    = "playbook_completed"
	EventROIImprovement       = "roi_improvement"
	EventMilestoneCelebration = "milestone_celebration"
	EventAdvocacySuggestion   = "advocacy_enrollment_suggestion"
)

// Notifier is the sink for engine events.
type Notifier interface {
	Notify(event string, payload map[string]any)
}

// LogNotifier writes events to the process log. It is the default sink.
type LogNotifier struct{}

func (LogNotifier) Notify(event string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("notify %s: marshal payload: %v", event, err)
		return
	}
	log.Printf("notify %s: %s", event, data)
}

// WebhookNotifier POSTs events as JSON to a configured endpoint.
// Requests run in a goroutine so a slow or failing endpoint cannot
// block the caller; failures are logged and dropped.
type WebhookNotifier struct {
	URL    string
	Client *http.Client
}

// NewWebhookNotifier creates a webhook sink with a bounded timeout.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *WebhookNotifier) Notify(event string, payload map[string]any) {
	body, err := json.Marshal(map[string]any{
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		log.Printf("notify %s: marshal payload: %v", event, err)
		return
	}

	go func() {
		resp, err := n.Client.Post(n.URL, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("notify %s: post %s: %v", event, n.URL, err)
			return
		}
		resp.Body.Close()
		if resp.StatusCode >= 300 {
			log.Printf("notify %s: post %s: status %d", event, n.URL, resp.StatusCode)
		}
	}()
}
