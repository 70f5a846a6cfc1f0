// Package playbook defines recovery playbooks: structured, templated
// action plans instantiated when a customer health trigger fires.
package playbook

import "time"

// Type identifies a playbook kind.
type Type string

const (
	TypePostIncidentRecovery Type = "post_incident_recovery"
	TypeEngagementRevival    Type = "engagement_revival"
	TypeValueAcceleration    Type = "value_acceleration"
	TypeChurnPrevention      Type = "churn_prevention"
	TypeTrustRebuilding      Type = "trust_rebuilding"
)

// Types lists all playbook kinds.
func Types() []Type {
	return []Type{
		TypePostIncidentRecovery,
		TypeEngagementRevival,
		TypeValueAcceleration,
		TypeChurnPrevention,
		TypeTrustRebuilding,
	}
}

// ActionStatus is the lifecycle state of a single playbook action.
type ActionStatus string

const (
	ActionPending    ActionStatus = "pending"
	ActionInProgress ActionStatus = "in_progress"
	ActionCompleted  ActionStatus = "completed"
	ActionSkipped    ActionStatus = "skipped"
)

// Status is the lifecycle state of a playbook.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

// Action is a single step in a playbook. Dependencies reference other
// action IDs within the same playbook; they are stored as metadata and
// never enforced by the engine.
type Action struct {
	ActionID             string         `json:"action_id"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	AssignedTo           string         `json:"assigned_to"`
	DueDate              time.Time      `json:"due_date"`
	Priority             string         `json:"priority"` // high, medium, low
	EstimatedEffortHours int            `json:"estimated_effort_hours"`
	Dependencies         []string       `json:"dependencies,omitempty"`
	Status               ActionStatus   `json:"status"`
	CompletionDate       *time.Time     `json:"completion_date,omitempty"`
	OutcomeNotes         string         `json:"outcome_notes,omitempty"`
	SuccessMetrics       map[string]any `json:"success_metrics,omitempty"`
}

// Playbook is a recovery playbook instance for one customer. Action
// insertion order is execution order.
type Playbook struct {
	PlaybookID           string    `json:"playbook_id"`
	PlaybookType         Type      `json:"playbook_type"`
	CustomerID           string    `json:"customer_id"`
	TriggeredBy          string    `json:"triggered_by"` // health_score_drop, incident_impact, manual
	TriggeredAt          time.Time `json:"triggered_at"`
	TargetCompletionDate time.Time `json:"target_completion_date"`

	Objectives      []string       `json:"objectives"`
	SuccessCriteria map[string]any `json:"success_criteria"`
	Actions         []*Action      `json:"actions"`

	Status           Status `json:"status"`
	AssignedCSM      string `json:"assigned_csm"`
	ExecutiveSponsor string `json:"executive_sponsor,omitempty"`

	BaselineHealthScore *float64 `json:"baseline_health_score,omitempty"`
	CurrentHealthScore  *float64 `json:"current_health_score,omitempty"`
	OutcomeSummary      string   `json:"outcome_summary,omitempty"`
}

// Action returns the action with the given ID, or nil.
func (p *Playbook) Action(actionID string) *Action {
	for _, a := range p.Actions {
		if a.ActionID == actionID {
			return a
		}
	}
	return nil
}

// Improvement returns the baseline-to-final score delta. The second
// return is false until both snapshots have been captured.
func (p *Playbook) Improvement() (float64, bool) {
	if p.BaselineHealthScore == nil || p.CurrentHealthScore == nil {
		return 0, false
	}
	return *p.CurrentHealthScore - *p.BaselineHealthScore, true
}

// CompletionPercentage derives completion from action statuses. It is
// never stored: completed_actions / total_actions * 100 at all times.
func (p *Playbook) CompletionPercentage() float64 {
	if len(p.Actions) == 0 {
		return 0
	}
	completed := 0
	for _, a := range p.Actions {
		if a.Status == ActionCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(p.Actions)) * 100
}
