package playbook_test

import (
	"testing"
	"time"

	"github.com/vitalsign/vitalsign/pkg/health"
	"github.com/vitalsign/vitalsign/pkg/playbook"
)

func testCustomer() *health.CustomerProfile {
	return &health.CustomerProfile{
		CustomerID:     "CUST-001",
		Name:           "TechCorp Enterprise",
		Segment:        "enterprise",
		SuccessManager: "csm-sarah@company.com",
	}
}

func TestPostIncidentRecoveryTemplate(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	pb := playbook.NewPostIncidentRecovery(testCustomer(), now)

	if pb.PlaybookID != "PIR-CUST-001-20260310" {
		t.Errorf("PlaybookID = %q", pb.PlaybookID)
	}
	if pb.PlaybookType != playbook.TypePostIncidentRecovery {
		t.Errorf("PlaybookType = %q", pb.PlaybookType)
	}
	if len(pb.Actions) != 5 {
		t.Fatalf("got %d actions, want 5", len(pb.Actions))
	}
	if pb.Status != playbook.StatusActive {
		t.Errorf("Status = %q, want active", pb.Status)
	}
	if want := now.AddDate(0, 0, 30); !pb.TargetCompletionDate.Equal(want) {
		t.Errorf("TargetCompletionDate = %v, want %v", pb.TargetCompletionDate, want)
	}
	if pb.AssignedCSM != "csm-sarah@company.com" {
		t.Errorf("AssignedCSM = %q", pb.AssignedCSM)
	}

	for _, a := range pb.Actions {
		if a.Status != playbook.ActionPending {
			t.Errorf("action %s starts %q, want pending", a.ActionID, a.Status)
		}
		if len(a.SuccessMetrics) == 0 {
			t.Errorf("action %s has no success metrics schema", a.ActionID)
		}
	}

	if pb.CompletionPercentage() != 0 {
		t.Errorf("fresh playbook completion = %v, want 0", pb.CompletionPercentage())
	}
}

func TestEngagementRevivalTemplate(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	pb := playbook.NewEngagementRevival(testCustomer(), now)

	if pb.PlaybookID != "ER-CUST-001-20260310" {
		t.Errorf("PlaybookID = %q", pb.PlaybookID)
	}
	if len(pb.Actions) != 4 {
		t.Fatalf("got %d actions, want 4", len(pb.Actions))
	}
	if want := now.AddDate(0, 0, 28); !pb.TargetCompletionDate.Equal(want) {
		t.Errorf("TargetCompletionDate = %v, want %v", pb.TargetCompletionDate, want)
	}
	if pb.TriggeredBy != "low_engagement_score" {
		t.Errorf("TriggeredBy = %q", pb.TriggeredBy)
	}
}

func TestForTypeUnimplementedKinds(t *testing.T) {
	now := time.Now()
	for _, typ := range []playbook.Type{
		playbook.TypeValueAcceleration,
		playbook.TypeChurnPrevention,
		playbook.TypeTrustRebuilding,
	} {
		if pb, ok := playbook.ForType(typ, testCustomer(), now); ok || pb != nil {
			t.Errorf("ForType(%s) = (%v, %v), want (nil, false)", typ, pb, ok)
		}
	}

	if _, ok := playbook.ForType(playbook.TypePostIncidentRecovery, testCustomer(), now); !ok {
		t.Error("ForType(post_incident_recovery) not implemented")
	}
	if _, ok := playbook.ForType(playbook.TypeEngagementRevival, testCustomer(), now); !ok {
		t.Error("ForType(engagement_revival) not implemented")
	}
}

func TestCompletionPercentageDerived(t *testing.T) {
	now := time.Now()
	pb := playbook.NewEngagementRevival(testCustomer(), now)

	pb.Actions[0].Status = playbook.ActionCompleted
	if got := pb.CompletionPercentage(); got != 25 {
		t.Errorf("completion = %v, want 25", got)
	}

	// Skipped and in-progress actions do not count as completed.
	pb.Actions[1].Status = playbook.ActionSkipped
	pb.Actions[2].Status = playbook.ActionInProgress
	if got := pb.CompletionPercentage(); got != 25 {
		t.Errorf("completion = %v, want 25", got)
	}

	for _, a := range pb.Actions {
		a.Status = playbook.ActionCompleted
	}
	if got := pb.CompletionPercentage(); got != 100 {
		t.Errorf("completion = %v, want 100", got)
	}
}
