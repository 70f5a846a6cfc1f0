package engine

import (
	"math"
	"time"

	"github.com/vitalsign/vitalsign/pkg/health"
	"github.com/vitalsign/vitalsign/pkg/playbook"
)

// RecoveryReport is a read-only aggregation over the registries.
type RecoveryReport struct {
	ReportGeneratedAt     time.Time                               `json:"report_generated_at"`
	TotalCustomers        int                                     `json:"total_customers"`
	PostIncidentCustomers int                                     `json:"post_incident_customers"`
	HealthDistribution    map[health.Tier]int                     `json:"health_distribution"`
	ActivePlaybooks       int                                     `json:"active_playbooks"`
	RecoveryMetrics       RecoveryMetrics                         `json:"recovery_metrics"`
	PlaybookEffectiveness map[playbook.Type]PlaybookEffectiveness `json:"playbook_effectiveness"`
}

// RecoveryMetrics summarizes score movement across customers with at
// least two history entries.
type RecoveryMetrics struct {
	AverageHealthImprovement float64 `json:"average_health_improvement"`
	CustomersWithImprovement int     `json:"customers_with_improvement"`
	CustomersWithDecline     int     `json:"customers_with_decline"`
	SignificantImprovements  int     `json:"significant_improvements"`
}

// PlaybookEffectiveness rolls up outcomes per playbook kind. A playbook
// counts as successful when it completed with a final score above its
// baseline; the success rate is successful/completed, 0 with no
// completions.
type PlaybookEffectiveness struct {
	TotalTriggered          int     `json:"total_triggered"`
	Completed               int     `json:"completed"`
	Successful              int     `json:"successful"`
	SuccessRate             float64 `json:"success_rate"`
	AvgCompletionPercentage float64 `json:"avg_completion_percentage"`
}

// GenerateRecoveryReport aggregates the current registries. An empty
// customerID reports across all customers; an unknown one yields an
// empty report rather than an error, matching read-only semantics.
func (e *Engine) GenerateRecoveryReport(customerID string) RecoveryReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	var customers []*health.CustomerProfile
	if customerID != "" {
		if c, ok := e.customers[customerID]; ok {
			customers = append(customers, c)
		}
	} else {
		for _, c := range e.customers {
			customers = append(customers, c)
		}
	}

	report := RecoveryReport{
		ReportGeneratedAt:  time.Now(),
		TotalCustomers:     len(customers),
		HealthDistribution: make(map[health.Tier]int, 4),
	}
	for _, tier := range health.Tiers() {
		report.HealthDistribution[tier] = 0
	}

	var improvements []float64
	for _, c := range customers {
		if c.CurrentHealth == nil {
			continue
		}
		report.HealthDistribution[c.CurrentHealth.Tier()]++
		if c.IsPostIncident {
			report.PostIncidentCustomers++
		}
		if len(c.HealthHistory) >= 2 {
			initial := c.HealthHistory[0].Composite()
			current := c.CurrentHealth.Composite()
			improvements = append(improvements, current-initial)
		}
	}

	for _, pb := range e.playbooks {
		if pb.Status == playbook.StatusActive {
			report.ActivePlaybooks++
		}
	}

	report.RecoveryMetrics = summarizeImprovements(improvements)
	report.PlaybookEffectiveness = e.playbookEffectiveness()
	return report
}

func summarizeImprovements(improvements []float64) RecoveryMetrics {
	m := RecoveryMetrics{}
	if len(improvements) == 0 {
		return m
	}

	var sum float64
	for _, imp := range improvements {
		sum += imp
		switch {
		case imp > 0:
			m.CustomersWithImprovement++
		case imp < 0:
			m.CustomersWithDecline++
		}
		if imp >= 15 {
			m.SignificantImprovements++
		}
	}
	m.AverageHealthImprovement = math.Round(sum/float64(len(improvements))*100) / 100
	return m
}

// playbookEffectiveness computes per-kind rollups. Kinds with no
// playbooks are omitted. Caller holds e.mu.
func (e *Engine) playbookEffectiveness() map[playbook.Type]PlaybookEffectiveness {
	out := make(map[playbook.Type]PlaybookEffectiveness)

	for _, typ := range playbook.Types() {
		var stats PlaybookEffectiveness
		var completionSum float64

		for _, pb := range e.playbooks {
			if pb.PlaybookType != typ {
				continue
			}
			stats.TotalTriggered++
			completionSum += pb.CompletionPercentage()

			if pb.Status != playbook.StatusCompleted {
				continue
			}
			stats.Completed++
			if pb.CurrentHealthScore != nil && pb.BaselineHealthScore != nil &&
				*pb.CurrentHealthScore > *pb.BaselineHealthScore {
				stats.Successful++
			}
		}

		if stats.TotalTriggered == 0 {
			continue
		}
		if stats.Completed > 0 {
			stats.SuccessRate = float64(stats.Successful) / float64(stats.Completed)
		}
		stats.AvgCompletionPercentage = completionSum / float64(stats.TotalTriggered)
		out[typ] = stats
	}
	return out
}
