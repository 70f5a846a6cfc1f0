package amplification_test

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vitalsign/vitalsign/internal/amplification"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Notify(event string, payload map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func costMetric(id string, baseline, current float64) *amplification.ROIMetric {
	return &amplification.ROIMetric{
		MetricID:      id,
		Category:      amplification.CategoryCostSavings,
		Description:   "Labor Cost Reduction through Automation",
		BaselineValue: baseline,
		CurrentValue:  current,
		Currency:      "USD",
	}
}

func TestROIMetricImprovement(t *testing.T) {
	tests := []struct {
		name       string
		baseline   float64
		current    float64
		wantPct    float64
		wantImpact string
	}{
		{"exceptional", 100000, 160000, 60, "Exceptional"},
		{"significant", 100000, 125000, 25, "Significant"},
		{"moderate", 50000, 55000, 10, "Moderate"},
		{"minimal", 50000, 50500, 1, "Minimal"},
		{"negative", 50000, 45000, -10, "Negative"},
		{"flat", 50000, 50000, 0, "Negative"},
		{"zero baseline", 0, 10000, 0, "Negative"},
		{"rounded", 30000, 40000, 33.33, "Significant"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := costMetric("COST-001", tt.baseline, tt.current)
			if got := m.ImprovementPercentage(); got != tt.wantPct {
				t.Errorf("ImprovementPercentage() = %v, want %v", got, tt.wantPct)
			}
			if got := m.ValueImpact(); got != tt.wantImpact {
				t.Errorf("ValueImpact() = %q, want %q", got, tt.wantImpact)
			}
		})
	}
}

func TestAddROIMetricAlertsOnSignificantImprovement(t *testing.T) {
	rec := &recorder{}
	e := amplification.New(rec)

	e.AddROIMetric("c1", costMetric("COST-001", 100000, 110000)) // 10%
	if got := rec.count("roi_improvement"); got != 0 {
		t.Errorf("alerts after modest improvement = %d, want 0", got)
	}

	e.AddROIMetric("c1", costMetric("EFF-001", 50000, 80000)) // 60%
	if got := rec.count("roi_improvement"); got != 1 {
		t.Errorf("alerts after significant improvement = %d, want 1", got)
	}
}

func TestUpdateROIMetric(t *testing.T) {
	e := amplification.New(nil)
	m := costMetric("COST-001", 100000, 125000)
	m.Metadata = map[string]any{"department": "Operations"}
	e.AddROIMetric("c1", m)

	updated, err := e.UpdateROIMetric("c1", "COST-001", 140000, map[string]any{"period": "Q2"})
	if err != nil {
		t.Fatalf("UpdateROIMetric: %v", err)
	}
	if updated.CurrentValue != 140000 {
		t.Errorf("CurrentValue = %v, want 140000", updated.CurrentValue)
	}
	if updated.BaselineValue != 100000 {
		t.Errorf("BaselineValue = %v, want 100000", updated.BaselineValue)
	}
	if updated.Metadata["department"] != "Operations" || updated.Metadata["period"] != "Q2" {
		t.Errorf("metadata not merged: %v", updated.Metadata)
	}
	// The original metric value is untouched: updates replace.
	if m.CurrentValue != 125000 {
		t.Errorf("original metric mutated: %v", m.CurrentValue)
	}

	_, err = e.UpdateROIMetric("c1", "nope", 1, nil)
	if !errors.Is(err, amplification.ErrMetricNotFound) {
		t.Errorf("err = %v, want ErrMetricNotFound", err)
	}
}

func TestTotalROIAndByCategory(t *testing.T) {
	e := amplification.New(nil)
	e.AddROIMetric("c1", costMetric("COST-001", 100000, 125000))
	e.AddROIMetric("c1", &amplification.ROIMetric{
		MetricID:      "EFF-001",
		Category:      amplification.CategoryEfficiencyGains,
		Description:   "Process Automation Time Savings",
		BaselineValue: 50000,
		CurrentValue:  80000,
		Currency:      "USD",
	})

	// (205000-150000)/150000 = 36.67% rounded.
	if got := e.TotalROI("c1"); got != 36.67 {
		t.Errorf("TotalROI = %v, want 36.67", got)
	}
	if got := e.TotalROI("unknown"); got != 0 {
		t.Errorf("TotalROI(unknown) = %v, want 0", got)
	}

	byCat := e.ROIByCategory("c1")
	if len(byCat) != len(amplification.ValueCategories()) {
		t.Fatalf("categories = %d, want %d", len(byCat), len(amplification.ValueCategories()))
	}
	if byCat[amplification.CategoryCostSavings] != 25 {
		t.Errorf("cost savings ROI = %v, want 25", byCat[amplification.CategoryCostSavings])
	}
	if byCat[amplification.CategoryEfficiencyGains] != 60 {
		t.Errorf("efficiency ROI = %v, want 60", byCat[amplification.CategoryEfficiencyGains])
	}
	if byCat[amplification.CategoryRevenueImpact] != 0 {
		t.Errorf("empty category ROI = %v, want 0", byCat[amplification.CategoryRevenueImpact])
	}
}

func TestMilestoneLifecycle(t *testing.T) {
	rec := &recorder{}
	e := amplification.New(rec)

	id := e.CreateMilestone("c1", "Initial Workflow Automation",
		"Automate first critical business process",
		amplification.KindQuickWin, time.Now().AddDate(0, 0, 45), "success-manager@company.com")

	if !strings.HasPrefix(id, "MILESTONE-c1-QUICK_WIN-") {
		t.Errorf("milestone ID = %q, want MILESTONE-c1-QUICK_WIN- prefix", id)
	}

	upcoming := e.UpcomingMilestones("c1", 60)
	if len(upcoming) != 1 {
		t.Fatalf("upcoming = %d, want 1", len(upcoming))
	}
	if len(e.UpcomingMilestones("c1", 30)) != 0 {
		t.Error("milestone due in 45 days reported within 30-day window")
	}

	err := e.AchieveMilestone("c1", id, map[string]any{"processes_automated": 5}, "Team celebration lunch")
	if err != nil {
		t.Fatalf("AchieveMilestone: %v", err)
	}
	m := upcoming[0]
	if m.Status != amplification.MilestoneAchieved {
		t.Errorf("status = %s, want achieved", m.Status)
	}
	if m.AchievedDate == nil {
		t.Error("achieved date not set")
	}
	if m.AchievementMetrics["processes_automated"] != 5 {
		t.Error("achievement metrics not recorded")
	}
	if m.CelebrationPlan != "Team celebration lunch" {
		t.Error("celebration plan not recorded")
	}
	if got := rec.count("milestone_celebration"); got != 1 {
		t.Errorf("celebration notifications = %d, want 1", got)
	}

	if err := e.AchieveMilestone("c1", "nope", nil, ""); !errors.Is(err, amplification.ErrMilestoneNotFound) {
		t.Errorf("err = %v, want ErrMilestoneNotFound", err)
	}
}

func TestMilestoneAutoCompletionFromROI(t *testing.T) {
	rec := &recorder{}
	e := amplification.New(rec)

	quickWin := e.CreateMilestone("c1", "Quick win", "",
		amplification.KindQuickWin, time.Now().AddDate(0, 0, 45), "owner")
	strategic := e.CreateMilestone("c1", "Strategic goal", "",
		amplification.KindStrategicGoal, time.Now().AddDate(0, 0, 300), "owner")
	planned := e.CreateMilestone("c1", "Still planned", "",
		amplification.KindQuickWin, time.Now().AddDate(0, 0, 45), "owner")

	if err := e.StartMilestone("c1", quickWin); err != nil {
		t.Fatalf("StartMilestone: %v", err)
	}
	if err := e.StartMilestone("c1", strategic); err != nil {
		t.Fatalf("StartMilestone: %v", err)
	}

	// 25% clears the quick-win threshold (10%) but not the strategic
	// one (50%). Planned milestones never auto-complete.
	e.AddROIMetric("c1", costMetric("COST-001", 100000, 125000))

	byID := map[string]amplification.MilestoneStatus{}
	for _, m := range append(e.UpcomingMilestones("c1", 365), e.OverdueMilestones("c1")...) {
		byID[m.MilestoneID] = m.Status
	}
	if byID[strategic] != amplification.MilestoneInProgress {
		t.Errorf("strategic milestone status = %s, want in_progress", byID[strategic])
	}
	if byID[planned] != amplification.MilestonePlanned {
		t.Errorf("planned milestone status = %s, want planned", byID[planned])
	}
	// The achieved quick win no longer shows as upcoming.
	if _, ok := byID[quickWin]; ok {
		t.Error("achieved milestone still listed as upcoming")
	}
	if got := rec.count("milestone_celebration"); got != 1 {
		t.Errorf("celebration notifications = %d, want 1", got)
	}
}

func TestOverdueMilestones(t *testing.T) {
	e := amplification.New(nil)

	overdue := e.CreateMilestone("c1", "Missed", "",
		amplification.KindQuickWin, time.Now().AddDate(0, 0, -3), "owner")
	deferred := e.CreateMilestone("c1", "Deferred", "",
		amplification.KindQuickWin, time.Now().AddDate(0, 0, -3), "owner")
	e.CreateMilestone("c1", "Future", "",
		amplification.KindQuickWin, time.Now().AddDate(0, 0, 30), "owner")

	// Achieving or deferring removes a milestone from the overdue list.
	for _, m := range e.UpcomingMilestones("c1", 365) {
		if m.MilestoneID == deferred {
			m.Status = amplification.MilestoneDeferred
		}
	}

	got := e.OverdueMilestones("c1")
	if len(got) != 1 || got[0].MilestoneID != overdue {
		t.Errorf("overdue = %v, want exactly %s", got, overdue)
	}
}

func TestSessionLifecycle(t *testing.T) {
	rec := &recorder{}
	e := amplification.New(rec)
	e.AddROIMetric("c1", costMetric("COST-001", 100000, 110000))

	id := e.ScheduleSession("c1", amplification.SessionMonthlyReview,
		time.Now().AddDate(0, 0, 7), 60, "senior-csm@company.com")
	if !strings.HasPrefix(id, "SESSION-c1-monthly_review-") {
		t.Errorf("session ID = %q, want SESSION-c1-monthly_review- prefix", id)
	}

	// Nothing completed yet.
	if got := e.SessionHistory("c1", 10); len(got) != 0 {
		t.Errorf("history before completion = %d sessions, want 0", len(got))
	}

	err := e.CompleteSession("c1", id, 9, "Excellent engagement",
		[]string{"Customer agreed to participate in case study"},
		[]string{"Schedule technical deep-dive"})
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}

	history := e.SessionHistory("c1", 10)
	if len(history) != 1 {
		t.Fatalf("history = %d sessions, want 1", len(history))
	}
	s := history[0]
	if s.SatisfactionRating != 9 || !s.Completed {
		t.Errorf("session not completed correctly: %+v", s)
	}
	if s.PresentedMetrics["COST-001"] == "" {
		t.Error("existing ROI metric not pre-populated into session")
	}
	if len(s.KeyOutcomes) != 1 || len(s.FollowUpActions) != 1 {
		t.Error("outcomes/follow-ups not recorded")
	}

	// High satisfaction from an unenrolled customer suggests advocacy.
	if got := rec.count("advocacy_enrollment_suggestion"); got != 1 {
		t.Errorf("advocacy suggestions = %d, want 1", got)
	}

	if err := e.CompleteSession("c1", "nope", 5, "", nil, nil); !errors.Is(err, amplification.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestCompleteSessionNoSuggestionWhenEnrolled(t *testing.T) {
	rec := &recorder{}
	e := amplification.New(rec)
	e.EnrollInAdvocacy("c1", "advocacy-manager@company.com")

	id := e.ScheduleSession("c1", amplification.SessionQuarterlySummit, time.Now(), 120, "exec")
	if err := e.CompleteSession("c1", id, 10, "", nil, nil); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	if got := rec.count("advocacy_enrollment_suggestion"); got != 0 {
		t.Errorf("advocacy suggestions for enrolled customer = %d, want 0", got)
	}
}

func TestAdvocacyActivityPromotion(t *testing.T) {
	e := amplification.New(nil)
	e.EnrollInAdvocacy("c1", "advocacy-manager@company.com")

	profile, ok := e.AdvocacyProfileFor("c1")
	if !ok {
		t.Fatal("profile missing after enrollment")
	}
	if profile.CurrentLevel != amplification.AdvocacyNone {
		t.Errorf("initial level = %v, want none", profile.CurrentLevel)
	}

	err := e.RecordAdvocacyActivity("c1", "Agreed to participate in customer case study",
		map[string]any{"case_study_type": "written"})
	if err != nil {
		t.Fatalf("RecordAdvocacyActivity: %v", err)
	}
	if profile.CurrentLevel != amplification.AdvocacyCaseStudy {
		t.Errorf("level after case study = %v, want case study", profile.CurrentLevel)
	}
	if profile.ContributionMetrics["case_study_type"] != "written" {
		t.Error("contribution metrics not recorded")
	}

	// A lower-tier activity never demotes.
	if err := e.RecordAdvocacyActivity("c1", "Reference call", nil); err != nil {
		t.Fatalf("RecordAdvocacyActivity: %v", err)
	}
	if profile.CurrentLevel != amplification.AdvocacyCaseStudy {
		t.Errorf("level after reference call = %v, want case study", profile.CurrentLevel)
	}

	if err := e.RecordAdvocacyActivity("c1", "Speaking slot at user conference", nil); err != nil {
		t.Fatalf("RecordAdvocacyActivity: %v", err)
	}
	if profile.CurrentLevel != amplification.AdvocacySpeaker {
		t.Errorf("level after speaking = %v, want speaker", profile.CurrentLevel)
	}

	if err := e.RecordAdvocacyActivity("nope", "anything", nil); !errors.Is(err, amplification.ErrNotEnrolled) {
		t.Errorf("err = %v, want ErrNotEnrolled", err)
	}
}

func TestStrategicMilestonePromotesToReference(t *testing.T) {
	e := amplification.New(nil)
	e.EnrollInAdvocacy("c1", "coordinator")

	id := e.CreateMilestone("c1", "Digital Transformation Leadership", "",
		amplification.KindStrategicGoal, time.Now().AddDate(0, 0, 300), "executive-team@company.com")
	if err := e.AchieveMilestone("c1", id, nil, ""); err != nil {
		t.Fatalf("AchieveMilestone: %v", err)
	}

	profile, _ := e.AdvocacyProfileFor("c1")
	if profile.CurrentLevel != amplification.AdvocacyReference {
		t.Errorf("level = %v, want reference", profile.CurrentLevel)
	}
}

func TestAdvocacyCandidates(t *testing.T) {
	e := amplification.New(nil)

	// qualified: 25% ROI and a satisfied session.
	e.AddROIMetric("qualified", costMetric("COST-001", 100000, 125000))
	sid := e.ScheduleSession("qualified", amplification.SessionMonthlyReview, time.Now(), 60, "csm")
	if err := e.CompleteSession("qualified", sid, 9, "", nil, nil); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}

	// low-roi: satisfied but only 5% ROI.
	e.AddROIMetric("low-roi", costMetric("COST-002", 100000, 105000))
	sid = e.ScheduleSession("low-roi", amplification.SessionMonthlyReview, time.Now(), 60, "csm")
	if err := e.CompleteSession("low-roi", sid, 10, "", nil, nil); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}

	// no-sessions: strong ROI but nothing completed.
	e.AddROIMetric("no-sessions", costMetric("COST-003", 100000, 150000))

	// enrolled: would qualify but already in the program.
	e.AddROIMetric("enrolled", costMetric("COST-004", 100000, 150000))
	sid = e.ScheduleSession("enrolled", amplification.SessionMonthlyReview, time.Now(), 60, "csm")
	if err := e.CompleteSession("enrolled", sid, 9, "", nil, nil); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	e.EnrollInAdvocacy("enrolled", "coordinator")

	got := e.AdvocacyCandidates(8, 20)
	if len(got) != 1 || got[0] != "qualified" {
		t.Errorf("candidates = %v, want [qualified]", got)
	}
}
