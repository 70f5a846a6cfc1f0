// Package amplification tracks the value side of the customer
// lifecycle: ROI metrics against baselines, success milestones, value
// demonstration sessions, and the advocacy program.
package amplification

import (
	"math"
	"time"
)

// ValueCategory classifies an ROI metric by the kind of business value
// it captures. The values double as display names.
type ValueCategory string

const (
	CategoryCostSavings     ValueCategory = "Direct Cost Savings"
	CategoryEfficiencyGains ValueCategory = "Operational Efficiency"
	CategoryRevenueImpact   ValueCategory = "Revenue Generation"
	CategoryRiskMitigation  ValueCategory = "Risk Reduction"
	CategoryStrategicValue  ValueCategory = "Strategic Benefits"
)

// ValueCategories lists all value categories in reporting order.
func ValueCategories() []ValueCategory {
	return []ValueCategory{
		CategoryCostSavings,
		CategoryEfficiencyGains,
		CategoryRevenueImpact,
		CategoryRiskMitigation,
		CategoryStrategicValue,
	}
}

// MilestoneKind distinguishes milestones by ambition and time horizon.
type MilestoneKind string

const (
	KindQuickWin        MilestoneKind = "QUICK_WIN"
	KindGrowthMilestone MilestoneKind = "GROWTH_MILESTONE"
	KindStrategicGoal   MilestoneKind = "STRATEGIC_GOAL"
)

// DisplayName returns the human-readable name for the kind.
func (k MilestoneKind) DisplayName() string {
	switch k {
	case KindQuickWin:
		return "Quick Win"
	case KindGrowthMilestone:
		return "Growth Milestone"
	case KindStrategicGoal:
		return "Strategic Goal"
	}
	return string(k)
}

// Window returns the expected min and max days to achievement.
func (k MilestoneKind) Window() (minDays, maxDays int) {
	switch k {
	case KindQuickWin:
		return 30, 60
	case KindGrowthMilestone:
		return 90, 180
	case KindStrategicGoal:
		return 180, 365
	}
	return 0, 0
}

// ImprovementThreshold is the ROI improvement percentage at which a
// metric update auto-completes an in-progress milestone of this kind.
func (k MilestoneKind) ImprovementThreshold() float64 {
	switch k {
	case KindGrowthMilestone:
		return 25
	case KindStrategicGoal:
		return 50
	}
	return 10
}

// MilestoneStatus is the lifecycle state of a milestone.
type MilestoneStatus string

const (
	MilestonePlanned    MilestoneStatus = "planned"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneAchieved   MilestoneStatus = "achieved"
	MilestoneMissed     MilestoneStatus = "missed"
	MilestoneDeferred   MilestoneStatus = "deferred"
)

// AdvocacyLevel is an ordered progression through the advocacy program.
type AdvocacyLevel int

const (
	AdvocacyNone AdvocacyLevel = iota
	AdvocacyReference
	AdvocacyCaseStudy
	AdvocacySpeaker
	AdvocacyChampion
	AdvocacyStrategicPartner
)

func (l AdvocacyLevel) String() string {
	switch l {
	case AdvocacyNone:
		return "Not Engaged"
	case AdvocacyReference:
		return "Reference Customer"
	case AdvocacyCaseStudy:
		return "Case Study Participant"
	case AdvocacySpeaker:
		return "Speaking Engagements"
	case AdvocacyChampion:
		return "Community Champion"
	case AdvocacyStrategicPartner:
		return "Strategic Partner"
	}
	return "Unknown"
}

// SessionType identifies the format of a value demonstration session.
type SessionType string

const (
	SessionMonthlyReview     SessionType = "monthly_review"
	SessionQuarterlySummit   SessionType = "quarterly_summit"
	SessionExecutiveBriefing SessionType = "executive_briefing"
	SessionValueWorkshop     SessionType = "value_workshop"
	SessionROIDeepDive       SessionType = "roi_deep_dive"
)

// ROIMetric is one measurable value metric tracked against a baseline.
// Monetary values are plain float64: the percentages derived from them
// are rounded to two decimals at the reporting edge, which is all the
// precision the consumers of these numbers use.
type ROIMetric struct {
	MetricID      string         `json:"metric_id"`
	Category      ValueCategory  `json:"category"`
	Description   string         `json:"description"`
	BaselineValue float64        `json:"baseline_value"`
	CurrentValue  float64        `json:"current_value"`
	Currency      string         `json:"currency"`
	MeasuredAt    time.Time      `json:"measured_at"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Improvement is the absolute gain over the baseline.
func (m *ROIMetric) Improvement() float64 {
	return m.CurrentValue - m.BaselineValue
}

// ImprovementPercentage is the gain relative to the baseline, rounded
// to two decimals. A zero baseline yields 0 rather than a division.
func (m *ROIMetric) ImprovementPercentage() float64 {
	if m.BaselineValue == 0 {
		return 0
	}
	return round2(m.Improvement() / m.BaselineValue * 100)
}

// ValueImpact maps the improvement percentage to a qualitative band.
func (m *ROIMetric) ValueImpact() string {
	return impactLevel(m.ImprovementPercentage())
}

func impactLevel(pct float64) string {
	switch {
	case pct >= 50:
		return "Exceptional"
	case pct >= 25:
		return "Significant"
	case pct >= 10:
		return "Moderate"
	case pct > 0:
		return "Minimal"
	default:
		return "Negative"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SuccessMilestone is a dated, owned customer achievement target.
type SuccessMilestone struct {
	MilestoneID        string          `json:"milestone_id"`
	CustomerID         string          `json:"customer_id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Kind               MilestoneKind   `json:"milestone_type"`
	TargetDate         time.Time       `json:"target_date"`
	AssignedOwner      string          `json:"assigned_owner"`
	Status             MilestoneStatus `json:"status"`
	AchievedDate       *time.Time      `json:"achieved_date,omitempty"`
	SuccessCriteria    []string        `json:"success_criteria,omitempty"`
	AchievementMetrics map[string]any  `json:"achievement_metrics,omitempty"`
	CelebrationPlan    string          `json:"celebration_plan,omitempty"`
	Stakeholders       []string        `json:"stakeholders,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// MarkAchieved transitions the milestone to achieved, merging the
// achievement metrics into any already recorded.
func (m *SuccessMilestone) MarkAchieved(achievedAt time.Time, metrics map[string]any) {
	m.Status = MilestoneAchieved
	m.AchievedDate = &achievedAt
	if m.AchievementMetrics == nil {
		m.AchievementMetrics = make(map[string]any, len(metrics))
	}
	for k, v := range metrics {
		m.AchievementMetrics[k] = v
	}
}

// DaysUntilDue is the number of whole days from now to the target date;
// negative once the target has passed.
func (m *SuccessMilestone) DaysUntilDue(now time.Time) int {
	return int(m.TargetDate.Sub(now).Hours() / 24)
}

// IsOverdue reports whether the target date has passed without the
// milestone being achieved or deferred.
func (m *SuccessMilestone) IsOverdue(now time.Time) bool {
	if m.Status == MilestoneAchieved || m.Status == MilestoneDeferred {
		return false
	}
	return now.After(m.TargetDate)
}

// ValueDemonstrationSession is a scheduled customer-facing review of
// delivered value. PresentedMetrics maps metric IDs to presentation
// notes.
type ValueDemonstrationSession struct {
	SessionID          string            `json:"session_id"`
	CustomerID         string            `json:"customer_id"`
	SessionType        SessionType       `json:"session_type"`
	ScheduledDate      time.Time         `json:"scheduled_date"`
	DurationMinutes    int               `json:"duration_minutes"`
	Facilitator        string            `json:"facilitator"`
	Attendees          []string          `json:"attendees,omitempty"`
	Agenda             []string          `json:"agenda,omitempty"`
	PresentedMetrics   map[string]string `json:"presented_metrics,omitempty"`
	KeyOutcomes        []string          `json:"key_outcomes,omitempty"`
	FollowUpActions    []string          `json:"follow_up_actions,omitempty"`
	Completed          bool              `json:"completed"`
	SatisfactionRating int               `json:"satisfaction_rating"` // 1-10
	SessionNotes       string            `json:"session_notes,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}

// Complete records the session outcome.
func (s *ValueDemonstrationSession) Complete(rating int, notes string, outcomes, followUps []string) {
	s.Completed = true
	s.SatisfactionRating = rating
	s.SessionNotes = notes
	s.KeyOutcomes = append(s.KeyOutcomes, outcomes...)
	s.FollowUpActions = append(s.FollowUpActions, followUps...)
}

// AdvocacyProfile tracks a customer's standing in the advocacy program.
type AdvocacyProfile struct {
	CustomerID           string         `json:"customer_id"`
	CurrentLevel         AdvocacyLevel  `json:"current_level"`
	EnrolledDate         time.Time      `json:"enrolled_date"`
	Coordinator          string         `json:"advocacy_coordinator"`
	WillingToParticipate bool           `json:"willing_to_participate"`
	Activities           []string       `json:"participated_activities,omitempty"`
	ContributionMetrics  map[string]any `json:"contribution_metrics,omitempty"`
	Recognition          []string       `json:"recognition_received,omitempty"`
	ExpertiseAreas       []string       `json:"expertise_areas,omitempty"`
}

// Promote raises the advocacy level. Demotions and no-op promotions are
// rejected.
func (p *AdvocacyProfile) Promote(level AdvocacyLevel, reason string) bool {
	if level <= p.CurrentLevel {
		return false
	}
	old := p.CurrentLevel
	p.CurrentLevel = level
	p.Activities = append(p.Activities,
		"Promoted from "+old.String()+" to "+level.String()+": "+reason)
	return true
}
