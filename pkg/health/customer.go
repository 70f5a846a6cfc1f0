package health

import "time"

// CustomerProfile carries customer identity, contract context, and the
// flags that participate in scoring adjustments and playbook triggers.
// A profile exclusively owns its metrics history: CurrentHealth always
// points at the last element of HealthHistory after an update.
type CustomerProfile struct {
	CustomerID          string            `json:"customer_id"`
	Name                string            `json:"name"`
	Segment             string            `json:"segment"` // enterprise, business, startup
	ContractValue       float64           `json:"contract_value"`
	StartDate           time.Time         `json:"start_date"`
	RenewalDate         time.Time         `json:"renewal_date"`
	Industry            string            `json:"industry"`
	PrimaryContact      map[string]string `json:"primary_contact"`
	SuccessManager      string            `json:"success_manager"`
	IncidentImpactLevel string            `json:"incident_impact_level"` // high, medium, low

	CurrentHealth *Metrics  `json:"current_health,omitempty"`
	HealthHistory []Metrics `json:"health_history,omitempty"`

	IsPostIncident              bool       `json:"is_post_incident"`
	TrustRebuildingRequired     bool       `json:"trust_rebuilding_required"`
	ExecutiveEscalationRequired bool       `json:"executive_escalation_required"`
	LastEngagement              *time.Time `json:"last_engagement,omitempty"`
}

// RecordMetrics appends m to the history and updates CurrentHealth.
func (c *CustomerProfile) RecordMetrics(m Metrics) {
	c.HealthHistory = append(c.HealthHistory, m)
	c.CurrentHealth = &c.HealthHistory[len(c.HealthHistory)-1]
}
