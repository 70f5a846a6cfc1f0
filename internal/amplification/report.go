package amplification

import (
	"sort"
	"time"
)

// ValueReport is a point-in-time value summary for one customer over a
// reporting window.
type ValueReport struct {
	CustomerID      string                       `json:"customer_id"`
	ReportStartDate time.Time                    `json:"report_start_date"`
	ReportEndDate   time.Time                    `json:"report_end_date"`
	TotalROI        float64                      `json:"total_roi"`
	ROIByCategory   map[ValueCategory]float64    `json:"roi_by_category"`
	Metrics         []*ROIMetric                 `json:"roi_metrics"`
	Milestones      []*SuccessMilestone          `json:"milestones"`
	Sessions        []*ValueDemonstrationSession `json:"sessions"`
	Advocacy        *AdvocacyProfile             `json:"advocacy_profile,omitempty"`
	GeneratedAt     time.Time                    `json:"generated_at"`
}

// ValueSummary is the executive rollup of a value report.
type ValueSummary struct {
	TotalROI                   float64       `json:"total_roi"`
	ROIImpactLevel             string        `json:"roi_impact_level"`
	AchievedMilestones         int           `json:"achieved_milestones"`
	TotalMilestones            int           `json:"total_milestones"`
	MilestoneAchievementRate   float64       `json:"milestone_achievement_rate"`
	AverageSessionSatisfaction float64       `json:"average_session_satisfaction"`
	AdvocacyLevel              AdvocacyLevel `json:"advocacy_level"`
	ActiveROIMetrics           int           `json:"active_roi_metrics"`
	ReportPeriodDays           int           `json:"report_period_days"`
}

// GenerateValueReport builds a value report for the customer. A zero
// start date defaults to one year back, a zero end date to now.
// Sessions and milestones are filtered to the window; a milestone
// qualifies by its achieved date or, failing that, its target date.
func (e *Engine) GenerateValueReport(customerID string, startDate, endDate time.Time) *ValueReport {
	if endDate.IsZero() {
		endDate = time.Now()
	}
	if startDate.IsZero() {
		startDate = endDate.AddDate(-1, 0, 0)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	metrics := make([]*ROIMetric, 0, len(e.roiMetrics[customerID]))
	for _, m := range e.roiMetrics[customerID] {
		metrics = append(metrics, m)
	}
	sort.Slice(metrics, func(i, j int) bool { return metrics[i].MetricID < metrics[j].MetricID })

	var milestones []*SuccessMilestone
	for _, m := range e.milestones[customerID] {
		if m.AchievedDate != nil && within(*m.AchievedDate, startDate, endDate) {
			milestones = append(milestones, m)
		} else if within(m.TargetDate, startDate, endDate) {
			milestones = append(milestones, m)
		}
	}

	var sessions []*ValueDemonstrationSession
	for _, s := range e.sessions[customerID] {
		if within(s.ScheduledDate, startDate, endDate) {
			sessions = append(sessions, s)
		}
	}

	return &ValueReport{
		CustomerID:      customerID,
		ReportStartDate: startDate,
		ReportEndDate:   endDate,
		TotalROI:        e.totalROILocked(customerID),
		ROIByCategory:   e.roiByCategoryLocked(customerID),
		Metrics:         metrics,
		Milestones:      milestones,
		Sessions:        sessions,
		Advocacy:        e.advocacy[customerID],
		GeneratedAt:     time.Now(),
	}
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// Summary derives the executive rollup from the report.
func (r *ValueReport) Summary() ValueSummary {
	achieved := 0
	for _, m := range r.Milestones {
		if m.Status == MilestoneAchieved {
			achieved++
		}
	}

	var ratingSum, rated float64
	for _, s := range r.Sessions {
		if s.Completed {
			ratingSum += float64(s.SatisfactionRating)
			rated++
		}
	}
	var avgSatisfaction float64
	if rated > 0 {
		avgSatisfaction = ratingSum / rated
	}

	level := AdvocacyNone
	if r.Advocacy != nil {
		level = r.Advocacy.CurrentLevel
	}

	var achievementRate float64
	if len(r.Milestones) > 0 {
		achievementRate = float64(achieved) / float64(len(r.Milestones)) * 100
	}

	return ValueSummary{
		TotalROI:                   r.TotalROI,
		ROIImpactLevel:             impactLevel(r.TotalROI),
		AchievedMilestones:         achieved,
		TotalMilestones:            len(r.Milestones),
		MilestoneAchievementRate:   achievementRate,
		AverageSessionSatisfaction: avgSatisfaction,
		AdvocacyLevel:              level,
		ActiveROIMetrics:           len(r.Metrics),
		ReportPeriodDays:           int(r.ReportEndDate.Sub(r.ReportStartDate).Hours() / 24),
	}
}

// TopPerformingMetrics returns up to limit metrics ordered by
// improvement percentage, best first.
func (r *ValueReport) TopPerformingMetrics(limit int) []*ROIMetric {
	out := make([]*ROIMetric, len(r.Metrics))
	copy(out, r.Metrics)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ImprovementPercentage() > out[j].ImprovementPercentage()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// PortfolioReport aggregates value reports across customers.
type PortfolioReport struct {
	CustomerReports []*ValueReport `json:"customer_reports"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// PortfolioSummary is the portfolio-level rollup.
type PortfolioSummary struct {
	TotalCustomers           int                  `json:"total_customers"`
	AverageROI               float64              `json:"average_roi"`
	MilestoneAchievementRate float64              `json:"portfolio_milestone_achievement_rate"`
	AdvocacyDistribution     map[string]int       `json:"advocacy_distribution"`
	TopPerformers            []PortfolioPerformer `json:"top_performing_customers"`
}

// PortfolioPerformer is one row in the top-performers ranking.
type PortfolioPerformer struct {
	CustomerID         string  `json:"customer_id"`
	TotalROI           float64 `json:"total_roi"`
	AchievedMilestones int     `json:"achieved_milestones"`
	AdvocacyLevel      string  `json:"advocacy_level"`
}

// GeneratePortfolioReport builds per-customer value reports over the
// default window and wraps them in a portfolio report.
func (e *Engine) GeneratePortfolioReport(customerIDs []string) *PortfolioReport {
	reports := make([]*ValueReport, 0, len(customerIDs))
	for _, id := range customerIDs {
		reports = append(reports, e.GenerateValueReport(id, time.Time{}, time.Time{}))
	}
	return &PortfolioReport{CustomerReports: reports, GeneratedAt: time.Now()}
}

// Summary computes the portfolio rollup.
func (p *PortfolioReport) Summary() PortfolioSummary {
	s := PortfolioSummary{
		TotalCustomers:       len(p.CustomerReports),
		AdvocacyDistribution: make(map[string]int),
	}
	if len(p.CustomerReports) == 0 {
		return s
	}

	var roiSum float64
	var totalMilestones, totalAchieved int
	for _, r := range p.CustomerReports {
		roiSum += r.TotalROI
		totalMilestones += len(r.Milestones)
		for _, m := range r.Milestones {
			if m.Status == MilestoneAchieved {
				totalAchieved++
			}
		}
		level := AdvocacyNone
		if r.Advocacy != nil {
			level = r.Advocacy.CurrentLevel
		}
		s.AdvocacyDistribution[level.String()]++
	}

	s.AverageROI = round2(roiSum / float64(len(p.CustomerReports)))
	if totalMilestones > 0 {
		s.MilestoneAchievementRate = float64(totalAchieved) / float64(totalMilestones) * 100
	}
	s.TopPerformers = p.topPerformers(5)
	return s
}

func (p *PortfolioReport) topPerformers(limit int) []PortfolioPerformer {
	sorted := make([]*ValueReport, len(p.CustomerReports))
	copy(sorted, p.CustomerReports)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TotalROI > sorted[j].TotalROI })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]PortfolioPerformer, 0, len(sorted))
	for _, r := range sorted {
		achieved := 0
		for _, m := range r.Milestones {
			if m.Status == MilestoneAchieved {
				achieved++
			}
		}
		level := AdvocacyNone
		if r.Advocacy != nil {
			level = r.Advocacy.CurrentLevel
		}
		out = append(out, PortfolioPerformer{
			CustomerID:         r.CustomerID,
			TotalROI:           r.TotalROI,
			AchievedMilestones: achieved,
			AdvocacyLevel:      level.String(),
		})
	}
	return out
}
