package engine

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vitalsign/vitalsign/internal/notify"
	"github.com/vitalsign/vitalsign/pkg/health"
	"github.com/vitalsign/vitalsign/pkg/playbook"
)

// Thresholds are the tunable trigger boundaries.
type Thresholds struct {
	LowEngagement       float64
	LowValueRealization float64
	SignificantDrop     float64
}

// DefaultThresholds returns the standard trigger boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowEngagement:       60,
		LowValueRealization: 50,
		SignificantDrop:     15,
	}
}

// evaluateTriggers runs the trigger rules in their fixed order. Rules
// 1-4 are each gated on no active playbook of that kind existing for
// the customer; rule 5 (escalation) has no such guard and re-fires on
// every qualifying drop. Caller holds e.mu.
func (e *Engine) evaluateTriggers(customer *health.CustomerProfile, previous *health.Metrics, current health.Metrics) {
	// 1. Post-incident customers still rebuilding trust.
	if customer.IsPostIncident && customer.TrustRebuildingRequired {
		e.ensurePlaybook(customer, playbook.TypePostIncidentRecovery)
	}

	// 2. Critical or red-alert composite health.
	if tier := current.Tier(); tier == health.TierCritical || tier == health.TierRedAlert {
		e.ensurePlaybook(customer, playbook.TypeChurnPrevention)
	}

	// 3. Low engagement.
	if current.EngagementScore < e.thresholds.LowEngagement {
		e.ensurePlaybook(customer, playbook.TypeEngagementRevival)
	}

	// 4. Low value realization.
	if current.ValueRealizationScore < e.thresholds.LowValueRealization {
		e.ensurePlaybook(customer, playbook.TypeValueAcceleration)
	}

	// 5. Significant composite drop escalates to the executive team.
	if previous != nil {
		prevScore := previous.Composite()
		curScore := current.Composite()
		if prevScore-curScore > e.thresholds.SignificantDrop {
			log.Printf("significant health drop for %s: %.1f -> %.1f", customer.Name, prevScore, curScore)
			e.escalateToExecutive(customer, "significant_health_drop", prevScore, curScore)
		}
	}
}

// ensurePlaybook triggers a playbook of the given kind unless the
// customer already has one active. Caller holds e.mu, which makes the
// check-and-insert atomic.
func (e *Engine) ensurePlaybook(customer *health.CustomerProfile, typ playbook.Type) {
	if e.hasActivePlaybook(customer.CustomerID, typ) {
		return
	}

	pb, ok := playbook.ForType(typ, customer, time.Now())
	if !ok {
		log.Printf("playbook type %s not implemented yet", typ)
		return
	}

	if customer.CurrentHealth != nil {
		baseline := customer.CurrentHealth.Composite()
		pb.BaselineHealthScore = &baseline
	}

	e.playbooks[pb.PlaybookID] = pb
	log.Printf("triggered %s playbook for %s: %s", typ, customer.Name, pb.PlaybookID)

	e.notifier.Notify(notify.EventPlaybookAssigned, map[string]any{
		"playbook_id":   pb.PlaybookID,
		"playbook_type": string(typ),
		"customer_id":   customer.CustomerID,
		"assigned_csm":  pb.AssignedCSM,
	})
}

// hasActivePlaybook reports whether the customer has an active playbook
// of the given kind. Paused and cancelled playbooks do not block
// re-triggering. Caller holds e.mu.
func (e *Engine) hasActivePlaybook(customerID string, typ playbook.Type) bool {
	for _, pb := range e.playbooks {
		if pb.CustomerID == customerID && pb.PlaybookType == typ && pb.Status == playbook.StatusActive {
			return true
		}
	}
	return false
}

// escalateToExecutive flags the customer for executive attention. No
// cooldown: every qualifying drop escalates again. Caller holds e.mu.
func (e *Engine) escalateToExecutive(customer *health.CustomerProfile, reason string, prevScore, curScore float64) {
	customer.ExecutiveEscalationRequired = true
	log.Printf("executive escalation required for %s: %s", customer.Name, reason)

	e.notifier.Notify(notify.EventExecutiveEscalation, map[string]any{
		"event_id":       uuid.New().String(),
		"customer_id":    customer.CustomerID,
		"reason":         reason,
		"previous_score": prevScore,
		"current_score":  curScore,
	})
}
