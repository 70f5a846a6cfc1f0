package playbook

import (
	"fmt"
	"time"

	"github.com/vitalsign/vitalsign/pkg/health"
)

// ForType instantiates the template for the given playbook kind. The
// second return is false for kinds that have no template yet; callers
// treat that as a no-op, not an error.
func ForType(t Type, customer *health.CustomerProfile, now time.Time) (*Playbook, bool) {
	switch t {
	case TypePostIncidentRecovery:
		return NewPostIncidentRecovery(customer, now), true
	case TypeEngagementRevival:
		return NewEngagementRevival(customer, now), true
	default:
		return nil, false
	}
}

func playbookID(prefix, customerID string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", prefix, customerID, now.Format("20060102"))
}

// NewPostIncidentRecovery builds the post-incident recovery playbook:
// five actions over a 30-day window aimed at restoring trust after a
// high-impact incident.
func NewPostIncidentRecovery(customer *health.CustomerProfile, now time.Time) *Playbook {
	actions := []*Action{
		{
			ActionID:             "pir_001",
			Title:                "Executive Apology Call",
			Description:          "Schedule and conduct executive-level apology call with customer leadership",
			AssignedTo:           "executive-team@company.com",
			DueDate:              now.AddDate(0, 0, 2),
			Priority:             "high",
			EstimatedEffortHours: 2,
			Status:               ActionPending,
			SuccessMetrics: map[string]any{
				"call_completed":     false,
				"trust_score_impact": 0,
			},
		},
		{
			ActionID:             "pir_002",
			Title:                "Detailed Incident Post-Mortem Sharing",
			Description:          "Share comprehensive post-mortem with customer including prevention measures",
			AssignedTo:           customer.SuccessManager,
			DueDate:              now.AddDate(0, 0, 5),
			Priority:             "high",
			EstimatedEffortHours: 4,
			Dependencies:         []string{"pir_001"},
			Status:               ActionPending,
			SuccessMetrics: map[string]any{
				"post_mortem_shared":         false,
				"customer_feedback_received": false,
			},
		},
		{
			ActionID:             "pir_003",
			Title:                "Trust Rebuilding Sessions",
			Description:          "Conduct weekly trust rebuilding sessions with customer stakeholders",
			AssignedTo:           customer.SuccessManager,
			DueDate:              now.AddDate(0, 0, 28),
			Priority:             "medium",
			EstimatedEffortHours: 16,
			Status:               ActionPending,
			SuccessMetrics: map[string]any{
				"sessions_completed":      0,
				"trust_score_improvement": 0,
			},
		},
		{
			ActionID:             "pir_004",
			Title:                "Enhanced Monitoring Setup",
			Description:          "Implement customer-specific monitoring and alerting",
			AssignedTo:           "engineering-team@company.com",
			DueDate:              now.AddDate(0, 0, 7),
			Priority:             "high",
			EstimatedEffortHours: 8,
			Status:               ActionPending,
			SuccessMetrics: map[string]any{
				"monitoring_implemented":    false,
				"customer_dashboard_access": false,
			},
		},
		{
			ActionID:             "pir_005",
			Title:                "Value Recovery Demonstration",
			Description:          "Demonstrate renewed value delivery through success metrics review",
			AssignedTo:           customer.SuccessManager,
			DueDate:              now.AddDate(0, 0, 14),
			Priority:             "medium",
			EstimatedEffortHours: 6,
			Dependencies:         []string{"pir_002"},
			Status:               ActionPending,
			SuccessMetrics: map[string]any{
				"value_demonstration_completed": false,
				"roi_improvement_shown":         false,
			},
		},
	}

	return &Playbook{
		PlaybookID:           playbookID("PIR", customer.CustomerID, now),
		PlaybookType:         TypePostIncidentRecovery,
		CustomerID:           customer.CustomerID,
		TriggeredBy:          "incident_impact",
		TriggeredAt:          now,
		TargetCompletionDate: now.AddDate(0, 0, 30),
		Objectives: []string{
			"Restore customer trust and confidence",
			"Demonstrate commitment to reliability",
			"Strengthen relationship through transparency",
			"Prevent customer churn",
			"Position for future expansion",
		},
		SuccessCriteria: map[string]any{
			"trust_score_target":         7.0,
			"health_score_target":        75.0,
			"renewal_probability_target": 0.85,
			"nps_improvement_target":     20,
		},
		Actions:     actions,
		Status:      StatusActive,
		AssignedCSM: customer.SuccessManager,
	}
}

// NewEngagementRevival builds the engagement revival playbook: four
// actions over a 28-day window for customers with low engagement scores.
func NewEngagementRevival(customer *health.CustomerProfile, now time.Time) *Playbook {
	actions := []*Action{
		{
			ActionID:             "er_001",
			Title:                "Usage Pattern Analysis",
			Description:          "Analyze customer usage patterns to identify engagement barriers",
			AssignedTo:           customer.SuccessManager,
			DueDate:              now.AddDate(0, 0, 3),
			Priority:             "high",
			EstimatedEffortHours: 4,
			Status:               ActionPending,
			SuccessMetrics: map[string]any{
				"analysis_completed":  false,
				"barriers_identified": 0,
			},
		},
		{
			ActionID:             "er_002",
			Title:                "Personalized Training Program",
			Description:          "Design and deliver personalized training based on usage gaps",
			AssignedTo:           "training-team@company.com",
			DueDate:              now.AddDate(0, 0, 10),
			Priority:             "high",
			EstimatedEffortHours: 12,
			Dependencies:         []string{"er_001"},
			Status:               ActionPending,
			SuccessMetrics: map[string]any{
				"training_sessions_delivered": 0,
				"feature_adoption_increase":   0,
			},
		},
		{
			ActionID:             "er_003",
			Title:                "Champion Identification Program",
			Description:          "Identify and develop internal champions within customer organization",
			AssignedTo:           customer.SuccessManager,
			DueDate:              now.AddDate(0, 0, 14),
			Priority:             "medium",
			EstimatedEffortHours: 8,
			Status:               ActionPending,
			SuccessMetrics: map[string]any{
				"champions_identified":        0,
				"champion_training_completed": false,
			},
		},
		{
			ActionID:             "er_004",
			Title:                "Integration Optimization",
			Description:          "Optimize existing integrations and identify new integration opportunities",
			AssignedTo:           "technical-team@company.com",
			DueDate:              now.AddDate(0, 0, 21),
			Priority:             "medium",
			EstimatedEffortHours: 16,
			Status:               ActionPending,
			SuccessMetrics: map[string]any{
				"integrations_optimized":       0,
				"new_integrations_implemented": 0,
			},
		},
	}

	return &Playbook{
		PlaybookID:           playbookID("ER", customer.CustomerID, now),
		PlaybookType:         TypeEngagementRevival,
		CustomerID:           customer.CustomerID,
		TriggeredBy:          "low_engagement_score",
		TriggeredAt:          now,
		TargetCompletionDate: now.AddDate(0, 0, 28),
		Objectives: []string{
			"Increase product engagement and adoption",
			"Improve user experience and satisfaction",
			"Develop internal champions",
			"Optimize workflow integration",
		},
		SuccessCriteria: map[string]any{
			"engagement_score_target": 80.0,
			"login_frequency_target":  5.0,
			"feature_adoption_target": 0.7,
		},
		Actions:     actions,
		Status:      StatusActive,
		AssignedCSM: customer.SuccessManager,
	}
}
