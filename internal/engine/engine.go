// Package engine is the customer success decision core: it owns the
// customer and playbook registries, scores incoming signals, evaluates
// playbook triggers, and drives the playbook action lifecycle.
package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/vitalsign/vitalsign/internal/notify"
	"github.com/vitalsign/vitalsign/pkg/health"
	"github.com/vitalsign/vitalsign/pkg/playbook"
)

// Lookup failures surfaced to callers. Everything else degrades
// gracefully: bad signals are defaulted, unimplemented playbook kinds
// are logged no-ops.
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrPlaybookNotFound = errors.New("playbook not found")
	ErrActionNotFound   = errors.New("action not found")
)

// Engine holds all mutable state behind one mutex. Both registries live
// and die with the engine, which keeps tests isolated: a fresh engine is
// a fresh world.
type Engine struct {
	mu        sync.Mutex
	customers map[string]*health.CustomerProfile
	playbooks map[string]*playbook.Playbook

	calc       *health.Calculator
	notifier   notify.Notifier
	thresholds Thresholds
}

// New creates an engine with the given calculator and notifier. A nil
// calculator gets the default component budgets; a nil notifier logs.
func New(calc *health.Calculator, notifier notify.Notifier) *Engine {
	if calc == nil {
		calc = health.DefaultCalculator()
	}
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Engine{
		customers:  make(map[string]*health.CustomerProfile),
		playbooks:  make(map[string]*playbook.Playbook),
		calc:       calc,
		notifier:   notifier,
		thresholds: DefaultThresholds(),
	}
}

// SetThresholds replaces the trigger boundaries. Call before the engine
// starts receiving updates.
func (e *Engine) SetThresholds(t Thresholds) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.thresholds = t
}

// AddCustomer registers or replaces a customer profile.
func (e *Engine) AddCustomer(c *health.CustomerProfile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.customers[c.CustomerID] = c
	log.Printf("registered customer %s (%s)", c.Name, c.CustomerID)
}

// Customers returns all registered customer profiles, in no particular
// order.
func (e *Engine) Customers() []*health.CustomerProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*health.CustomerProfile, 0, len(e.customers))
	for _, c := range e.customers {
		out = append(out, c)
	}
	return out
}

// Customer returns the profile for customerID.
func (e *Engine) Customer(customerID string) (*health.CustomerProfile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", customerID, ErrCustomerNotFound)
	}
	return c, nil
}

// UpdateCustomerHealth scores a signal bag for a customer, appends the
// result to the customer's history, and evaluates playbook triggers
// against the previous score.
func (e *Engine) UpdateCustomerHealth(customerID string, bag health.SignalBag) (health.Metrics, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	customer, ok := e.customers[customerID]
	if !ok {
		return health.Metrics{}, fmt.Errorf("customer %s: %w", customerID, ErrCustomerNotFound)
	}

	previous := customer.CurrentHealth
	metrics := e.calc.Calculate(customer, bag)
	customer.RecordMetrics(metrics)
	now := time.Now()
	customer.LastEngagement = &now

	e.evaluateTriggers(customer, previous, metrics)

	log.Printf("updated health for %s: %.1f (%s)", customer.Name, metrics.Composite(), metrics.Tier())
	return metrics, nil
}

// UpdatePlaybookAction applies a status change to one action, merges
// extra success metrics, and recomputes playbook completion. Reaching
// 100%% completes the playbook and records the outcome.
func (e *Engine) UpdatePlaybookAction(playbookID, actionID string, status playbook.ActionStatus, notes string, metrics map[string]any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pb, ok := e.playbooks[playbookID]
	if !ok {
		return fmt.Errorf("playbook %s: %w", playbookID, ErrPlaybookNotFound)
	}

	action := pb.Action(actionID)
	if action == nil {
		return fmt.Errorf("action %s in playbook %s: %w", actionID, playbookID, ErrActionNotFound)
	}

	action.Status = status
	action.OutcomeNotes = notes
	if status == playbook.ActionCompleted {
		now := time.Now()
		action.CompletionDate = &now
	}
	if len(metrics) > 0 {
		if action.SuccessMetrics == nil {
			action.SuccessMetrics = make(map[string]any, len(metrics))
		}
		for k, v := range metrics {
			action.SuccessMetrics[k] = v
		}
	}

	log.Printf("updated action %s in playbook %s: %s", actionID, playbookID, status)

	if pb.CompletionPercentage() == 100 {
		e.completePlaybook(pb)
	}
	return nil
}

// completePlaybook transitions a fully-completed playbook and captures
// the outcome against the customer's latest composite score. Caller
// holds e.mu.
func (e *Engine) completePlaybook(pb *playbook.Playbook) {
	pb.Status = playbook.StatusCompleted

	customer, ok := e.customers[pb.CustomerID]
	if ok && customer.CurrentHealth != nil {
		current := customer.CurrentHealth.Composite()
		pb.CurrentHealthScore = &current

		if pb.BaselineHealthScore != nil {
			improvement := current - *pb.BaselineHealthScore
			if improvement >= 0 {
				pb.OutcomeSummary = fmt.Sprintf("Health score improved by %.1f points", improvement)
			} else {
				pb.OutcomeSummary = fmt.Sprintf("Health score declined by %.1f points", -improvement)
			}
		}
	}

	log.Printf("completed playbook %s for customer %s", pb.PlaybookID, pb.CustomerID)
	e.notifier.Notify(notify.EventPlaybookCompleted, map[string]any{
		"playbook_id":   pb.PlaybookID,
		"playbook_type": string(pb.PlaybookType),
		"customer_id":   pb.CustomerID,
		"outcome":       pb.OutcomeSummary,
	})
}

// RestorePlaybook registers a previously persisted playbook without
// re-evaluating triggers or notifying. Used when rehydrating from the
// database at startup.
func (e *Engine) RestorePlaybook(pb *playbook.Playbook) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playbooks[pb.PlaybookID] = pb
}

// Playbook returns the playbook with the given ID.
func (e *Engine) Playbook(playbookID string) (*playbook.Playbook, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pb, ok := e.playbooks[playbookID]
	if !ok {
		return nil, fmt.Errorf("playbook %s: %w", playbookID, ErrPlaybookNotFound)
	}
	return pb, nil
}

// PlaybooksForCustomer returns all playbooks registered for a customer,
// in no particular order.
func (e *Engine) PlaybooksForCustomer(customerID string) []*playbook.Playbook {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*playbook.Playbook
	for _, pb := range e.playbooks {
		if pb.CustomerID == customerID {
			out = append(out, pb)
		}
	}
	return out
}

// ActivePlaybooks returns every playbook currently in the active state.
func (e *Engine) ActivePlaybooks() []*playbook.Playbook {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*playbook.Playbook
	for _, pb := range e.playbooks {
		if pb.Status == playbook.StatusActive {
			out = append(out, pb)
		}
	}
	return out
}
