package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vitalsign/vitalsign/internal/amplification"
	"github.com/vitalsign/vitalsign/internal/engine"
	"github.com/vitalsign/vitalsign/pkg/health"
	"github.com/vitalsign/vitalsign/pkg/playbook"
	"github.com/vitalsign/vitalsign/pkg/render"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run an end-to-end scenario in memory",
		Long: `Walks two sample customers through scoring, playbook triggering,
action completion, recovery, and value tracking. No service or
database required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
}

func runDemo() error {
	eng := engine.New(nil, nil)
	amp := amplification.New(nil)

	now := time.Now()
	eng.AddCustomer(&health.CustomerProfile{
		CustomerID:    "CUST-001",
		Name:          "TechCorp Enterprise",
		Segment:       "enterprise",
		ContractValue: 500000,
		StartDate:     now.AddDate(-1, 0, 0),
		RenewalDate:   now.AddDate(0, 3, 0),
		Industry:      "Technology",
		PrimaryContact: map[string]string{
			"name":  "Sarah Johnson",
			"email": "sarah.johnson@techcorp.com",
			"role":  "CTO",
		},
		SuccessManager:          "csm-sarah@company.com",
		IncidentImpactLevel:     "high",
		IsPostIncident:          true,
		TrustRebuildingRequired: true,
	})
	eng.AddCustomer(&health.CustomerProfile{
		CustomerID:    "CUST-002",
		Name:          "MidSize Solutions",
		Segment:       "business",
		ContractValue: 75000,
		StartDate:     now.AddDate(0, -6, 0),
		RenewalDate:   now.AddDate(0, 5, 0),
		Industry:      "Financial Services",
		PrimaryContact: map[string]string{
			"name":  "Mike Chen",
			"email": "mike.chen@midsize.com",
			"role":  "Operations Director",
		},
		SuccessManager:      "csm-mike@company.com",
		IncidentImpactLevel: "medium",
		IsPostIncident:      true,
	})

	enterpriseSignals := health.SignalBag{
		"logins_per_week":              3.0,
		"features_used":                6.0,
		"total_available_features":     15.0,
		"support_satisfaction":         2.5,
		"office_hours_attendance_rate": 0.8,
		"help_articles_viewed":         12.0,
		"goals_achieved":               2.0,
		"total_goals_set":              5.0,
		"measured_roi":                 1.2,
		"expected_roi":                 2.0,
		"business_outcomes_achieved":   3.0,
		"days_to_first_value":          45.0,
		"target_days_to_value":         30.0,
		"nps_score":                    -20.0,
		"csat_score":                   2.8,
		"trust_index":                  3.5,
		"stakeholder_engagement_rate":  0.6,
		"avg_response_time_hours":      36.0,
		"contract_risk_level":          3.0,
		"payment_delays_count":         0.0,
		"competitive_evaluation":       true,
		"usage_trend_30d":              -0.15,
		"support_escalations_30d":      2.0,
		"key_contact_changes_90d":      1.0,
	}
	businessSignals := health.SignalBag{
		"logins_per_week":              4.0,
		"features_used":                8.0,
		"total_available_features":     12.0,
		"support_satisfaction":         3.5,
		"office_hours_attendance_rate": 0.4,
		"help_articles_viewed":         5.0,
		"goals_achieved":               3.0,
		"total_goals_set":              4.0,
		"measured_roi":                 1.8,
		"expected_roi":                 1.5,
		"business_outcomes_achieved":   2.0,
		"days_to_first_value":          25.0,
		"target_days_to_value":         30.0,
		"nps_score":                    10.0,
		"csat_score":                   3.8,
		"trust_index":                  6.5,
		"stakeholder_engagement_rate":  0.7,
		"avg_response_time_hours":      18.0,
		"contract_risk_level":          1.0,
		"payment_delays_count":         0.0,
		"competitive_evaluation":       false,
		"usage_trend_30d":              0.05,
		"support_escalations_30d":      0.0,
		"key_contact_changes_90d":      0.0,
	}

	fmt.Println("=== Initial Health Assessment ===")
	if _, err := eng.UpdateCustomerHealth("CUST-001", enterpriseSignals); err != nil {
		return err
	}
	if _, err := eng.UpdateCustomerHealth("CUST-002", businessSignals); err != nil {
		return err
	}
	if err := renderCustomer(eng, "CUST-001"); err != nil {
		return err
	}
	if err := renderCustomer(eng, "CUST-002"); err != nil {
		return err
	}

	fmt.Println("=== Simulating Playbook Execution ===")
	playbooks := eng.PlaybooksForCustomer("CUST-001")
	if len(playbooks) > 0 {
		pb := playbooks[0]
		fmt.Printf("Executing playbook: %s (%s)\n", pb.PlaybookID, pb.PlaybookType)
		for i, action := range pb.Actions {
			if i == 3 {
				break
			}
			err := eng.UpdatePlaybookAction(pb.PlaybookID, action.ActionID, playbook.ActionCompleted,
				fmt.Sprintf("Action %d completed successfully", i+1),
				map[string]any{"completion_quality": "high"})
			if err != nil {
				return err
			}
		}
		fmt.Printf("Playbook completion: %.0f%%\n\n", pb.CompletionPercentage())
	}

	fmt.Println("=== Health Improvement After Interventions ===")
	improved := health.SignalBag{}
	for k, v := range enterpriseSignals {
		improved[k] = v
	}
	improved["support_satisfaction"] = 4.0
	improved["nps_score"] = 20.0
	improved["trust_index"] = 7.0
	improved["contract_risk_level"] = 1.0
	improved["competitive_evaluation"] = false
	improved["usage_trend_30d"] = 0.10

	if _, err := eng.UpdateCustomerHealth("CUST-001", improved); err != nil {
		return err
	}
	if err := renderCustomer(eng, "CUST-001"); err != nil {
		return err
	}

	fmt.Println("=== Value Tracking ===")
	amp.AddROIMetric("CUST-001", &amplification.ROIMetric{
		MetricID:      "COST-001",
		Category:      amplification.CategoryCostSavings,
		Description:   "Infrastructure cost reduction",
		BaselineValue: 100000,
		CurrentValue:  128000,
		Currency:      "USD",
	})
	amp.CreateMilestone("CUST-001", "First measurable savings",
		"Demonstrate 10% cost reduction from platform adoption",
		amplification.KindQuickWin, now.AddDate(0, 0, 45), "csm-sarah@company.com")

	valueReport := amp.GenerateValueReport("CUST-001", time.Time{}, time.Time{})
	fmt.Printf("Total ROI: %.2f%% (%s impact)\n\n",
		valueReport.TotalROI, valueReport.Summary().ROIImpactLevel)

	fmt.Println("=== Recovery Report ===")
	report := eng.GenerateRecoveryReport("")
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func renderCustomer(eng *engine.Engine, customerID string) error {
	customer, err := eng.Customer(customerID)
	if err != nil {
		return err
	}
	summary := &render.Summary{
		Customer:  customer,
		Metrics:   *customer.CurrentHealth,
		Playbooks: eng.PlaybooksForCustomer(customerID),
	}
	renderer := &render.TerminalRenderer{}
	return renderer.Render(os.Stdout, summary)
}
