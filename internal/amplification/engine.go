package amplification

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vitalsign/vitalsign/internal/notify"
)

var (
	ErrMetricNotFound    = errors.New("roi metric not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrNotEnrolled       = errors.New("customer not enrolled in advocacy program")
)

// roiImprovementAlertThreshold is the improvement percentage at which
// adding a metric emits a notification.
const roiImprovementAlertThreshold = 25.0

// Engine owns the value-tracking registries for all customers.
type Engine struct {
	mu         sync.Mutex
	roiMetrics map[string]map[string]*ROIMetric // customer -> metric ID -> metric
	milestones map[string][]*SuccessMilestone
	sessions   map[string][]*ValueDemonstrationSession
	advocacy   map[string]*AdvocacyProfile

	notifier notify.Notifier
}

// New creates an engine. A nil notifier logs.
func New(notifier notify.Notifier) *Engine {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Engine{
		roiMetrics: make(map[string]map[string]*ROIMetric),
		milestones: make(map[string][]*SuccessMilestone),
		sessions:   make(map[string][]*ValueDemonstrationSession),
		advocacy:   make(map[string]*AdvocacyProfile),
		notifier:   notifier,
	}
}

// AddROIMetric registers a metric for a customer, auto-completes any
// in-progress milestones the improvement satisfies, and alerts on
// improvements at or above the alert threshold.
func (e *Engine) AddROIMetric(customerID string, metric *ROIMetric) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if metric.MeasuredAt.IsZero() {
		metric.MeasuredAt = time.Now()
	}
	if e.roiMetrics[customerID] == nil {
		e.roiMetrics[customerID] = make(map[string]*ROIMetric)
	}
	e.roiMetrics[customerID][metric.MetricID] = metric

	log.Printf("added ROI metric for %s: %s = %.2f %s (%.2f%% improvement)",
		customerID, metric.Description, metric.CurrentValue, metric.Currency,
		metric.ImprovementPercentage())

	e.checkMilestoneTriggers(customerID, metric)

	if metric.ImprovementPercentage() >= roiImprovementAlertThreshold {
		e.notifier.Notify(notify.EventROIImprovement, map[string]any{
			"customer_id":            customerID,
			"metric_id":              metric.MetricID,
			"description":            metric.Description,
			"improvement_percentage": metric.ImprovementPercentage(),
		})
	}
}

// UpdateROIMetric replaces the current value of an existing metric,
// re-stamping the measurement time and merging extra metadata.
func (e *Engine) UpdateROIMetric(customerID, metricID string, newValue float64, metadata map[string]any) (*ROIMetric, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	existing, ok := e.roiMetrics[customerID][metricID]
	if !ok {
		return nil, fmt.Errorf("metric %s for customer %s: %w", metricID, customerID, ErrMetricNotFound)
	}

	updated := &ROIMetric{
		MetricID:      existing.MetricID,
		Category:      existing.Category,
		Description:   existing.Description,
		BaselineValue: existing.BaselineValue,
		CurrentValue:  newValue,
		Currency:      existing.Currency,
		MeasuredAt:    time.Now(),
		Metadata:      make(map[string]any, len(existing.Metadata)+len(metadata)),
	}
	for k, v := range existing.Metadata {
		updated.Metadata[k] = v
	}
	for k, v := range metadata {
		updated.Metadata[k] = v
	}
	e.roiMetrics[customerID][metricID] = updated

	log.Printf("updated ROI metric for %s: %s improved by %.2f%%",
		customerID, updated.Description, updated.ImprovementPercentage())
	return updated, nil
}

// TotalROI computes the customer's aggregate ROI percentage across all
// metrics: total improvement over total baseline.
func (e *Engine) TotalROI(customerID string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalROILocked(customerID)
}

func (e *Engine) totalROILocked(customerID string) float64 {
	var baseline, current float64
	for _, m := range e.roiMetrics[customerID] {
		baseline += m.BaselineValue
		current += m.CurrentValue
	}
	if baseline == 0 {
		return 0
	}
	return round2((current - baseline) / baseline * 100)
}

// ROIByCategory breaks the customer's ROI down per value category.
// Every category appears in the result; categories without metrics or
// without a positive baseline report 0.
func (e *Engine) ROIByCategory(customerID string) map[ValueCategory]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.roiByCategoryLocked(customerID)
}

func (e *Engine) roiByCategoryLocked(customerID string) map[ValueCategory]float64 {
	out := make(map[ValueCategory]float64, len(ValueCategories()))
	for _, cat := range ValueCategories() {
		var baseline, current float64
		for _, m := range e.roiMetrics[customerID] {
			if m.Category != cat {
				continue
			}
			baseline += m.BaselineValue
			current += m.CurrentValue
		}
		if baseline > 0 {
			out[cat] = round2((current - baseline) / baseline * 100)
		} else {
			out[cat] = 0
		}
	}
	return out
}

// CreateMilestone registers a new milestone and returns its ID.
func (e *Engine) CreateMilestone(customerID, title, description string, kind MilestoneKind, targetDate time.Time, owner string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	milestone := &SuccessMilestone{
		MilestoneID:   fmt.Sprintf("MILESTONE-%s-%s-%s", customerID, kind, uuid.New().String()[:8]),
		CustomerID:    customerID,
		Title:         title,
		Description:   description,
		Kind:          kind,
		TargetDate:    targetDate,
		AssignedOwner: owner,
		Status:        MilestonePlanned,
		CreatedAt:     time.Now(),
	}
	e.milestones[customerID] = append(e.milestones[customerID], milestone)

	log.Printf("created %s milestone for %s: %s", kind.DisplayName(), customerID, title)

	if reminder := targetDate.AddDate(0, 0, -7); reminder.After(time.Now()) {
		log.Printf("milestone %s reminder scheduled for %s", title, reminder.Format("2006-01-02"))
	}
	return milestone.MilestoneID
}

// StartMilestone moves a planned milestone into progress, making it
// eligible for ROI-driven auto-completion.
func (e *Engine) StartMilestone(customerID, milestoneID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := e.findMilestone(customerID, milestoneID)
	if m == nil {
		return fmt.Errorf("milestone %s for customer %s: %w", milestoneID, customerID, ErrMilestoneNotFound)
	}
	m.Status = MilestoneInProgress
	return nil
}

// AchieveMilestone marks a milestone achieved, records the celebration
// plan, and evaluates advocacy promotion.
func (e *Engine) AchieveMilestone(customerID, milestoneID string, metrics map[string]any, celebrationPlan string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.achieveMilestoneLocked(customerID, milestoneID, metrics, celebrationPlan)
}

func (e *Engine) achieveMilestoneLocked(customerID, milestoneID string, metrics map[string]any, celebrationPlan string) error {
	m := e.findMilestone(customerID, milestoneID)
	if m == nil {
		return fmt.Errorf("milestone %s for customer %s: %w", milestoneID, customerID, ErrMilestoneNotFound)
	}

	m.MarkAchieved(time.Now(), metrics)
	m.CelebrationPlan = celebrationPlan
	log.Printf("milestone achieved for %s: %s", customerID, m.Title)

	e.notifier.Notify(notify.EventMilestoneCelebration, map[string]any{
		"customer_id":  customerID,
		"milestone_id": m.MilestoneID,
		"title":        m.Title,
		"kind":         string(m.Kind),
	})

	// A strategic achievement makes an enrolled customer at least a
	// reference customer.
	if m.Kind == KindStrategicGoal {
		if profile, ok := e.advocacy[customerID]; ok && profile.CurrentLevel < AdvocacyReference {
			profile.Promote(AdvocacyReference, "Strategic milestone achievement: "+m.Title)
		}
	}
	return nil
}

func (e *Engine) findMilestone(customerID, milestoneID string) *SuccessMilestone {
	for _, m := range e.milestones[customerID] {
		if m.MilestoneID == milestoneID {
			return m
		}
	}
	return nil
}

// checkMilestoneTriggers auto-completes in-progress milestones whose
// improvement threshold the metric now satisfies. Caller holds e.mu.
func (e *Engine) checkMilestoneTriggers(customerID string, metric *ROIMetric) {
	for _, m := range e.milestones[customerID] {
		if m.Status != MilestoneInProgress {
			continue
		}
		if metric.ImprovementPercentage() < m.Kind.ImprovementThreshold() {
			continue
		}
		err := e.achieveMilestoneLocked(customerID, m.MilestoneID, map[string]any{
			"triggering_metric":      metric.MetricID,
			"improvement_percentage": metric.ImprovementPercentage(),
			"auto_completed":         true,
		}, "")
		if err != nil {
			log.Printf("auto-completing milestone %s: %v", m.MilestoneID, err)
		}
	}
}

// UpcomingMilestones returns planned or in-progress milestones due
// within daysAhead days, soonest first.
func (e *Engine) UpcomingMilestones(customerID string, daysAhead int) []*SuccessMilestone {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, daysAhead)
	var out []*SuccessMilestone
	for _, m := range e.milestones[customerID] {
		if m.Status != MilestonePlanned && m.Status != MilestoneInProgress {
			continue
		}
		if m.TargetDate.After(cutoff) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetDate.Before(out[j].TargetDate) })
	return out
}

// OverdueMilestones returns milestones past their target date that were
// neither achieved nor deferred.
func (e *Engine) OverdueMilestones(customerID string) []*SuccessMilestone {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	var out []*SuccessMilestone
	for _, m := range e.milestones[customerID] {
		if m.IsOverdue(now) {
			out = append(out, m)
		}
	}
	return out
}

// ScheduleSession books a value demonstration session, pre-populating
// the agenda with every ROI metric on record for the customer.
func (e *Engine) ScheduleSession(customerID string, sessionType SessionType, scheduledDate time.Time, durationMinutes int, facilitator string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	session := &ValueDemonstrationSession{
		SessionID:        fmt.Sprintf("SESSION-%s-%s-%s", customerID, sessionType, uuid.New().String()[:8]),
		CustomerID:       customerID,
		SessionType:      sessionType,
		ScheduledDate:    scheduledDate,
		DurationMinutes:  durationMinutes,
		Facilitator:      facilitator,
		PresentedMetrics: make(map[string]string),
		CreatedAt:        time.Now(),
	}
	for metricID := range e.roiMetrics[customerID] {
		session.PresentedMetrics[metricID] = "Included in session dashboard"
	}
	e.sessions[customerID] = append(e.sessions[customerID], session)

	log.Printf("scheduled %s session for %s on %s",
		sessionType, customerID, scheduledDate.Format("2006-01-02 15:04"))
	return session.SessionID
}

// CompleteSession records a session's outcome. A high satisfaction
// rating from a customer not yet in the advocacy program suggests
// enrollment.
func (e *Engine) CompleteSession(customerID, sessionID string, rating int, notes string, keyOutcomes, followUps []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var session *ValueDemonstrationSession
	for _, s := range e.sessions[customerID] {
		if s.SessionID == sessionID {
			session = s
			break
		}
	}
	if session == nil {
		return fmt.Errorf("session %s for customer %s: %w", sessionID, customerID, ErrSessionNotFound)
	}

	session.Complete(rating, notes, keyOutcomes, followUps)
	log.Printf("completed value session for %s: rating %d/10", customerID, rating)

	if rating >= 8 {
		if _, enrolled := e.advocacy[customerID]; !enrolled {
			e.notifier.Notify(notify.EventAdvocacySuggestion, map[string]any{
				"customer_id": customerID,
				"session_id":  sessionID,
				"rating":      rating,
			})
		}
	}
	return nil
}

// SessionHistory returns up to limit completed sessions, most recent
// first.
func (e *Engine) SessionHistory(customerID string, limit int) []*ValueDemonstrationSession {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []*ValueDemonstrationSession
	for _, s := range e.sessions[customerID] {
		if s.Completed {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.After(out[j].ScheduledDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// EnrollInAdvocacy enrolls a customer in the advocacy program. Existing
// enrollment is replaced.
func (e *Engine) EnrollInAdvocacy(customerID, coordinator string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advocacy[customerID] = &AdvocacyProfile{
		CustomerID:           customerID,
		CurrentLevel:         AdvocacyNone,
		EnrolledDate:         time.Now(),
		Coordinator:          coordinator,
		WillingToParticipate: true,
	}
	log.Printf("enrolled %s in advocacy program with coordinator %s", customerID, coordinator)
}

// AdvocacyProfileFor returns the customer's advocacy profile.
func (e *Engine) AdvocacyProfileFor(customerID string) (*AdvocacyProfile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.advocacy[customerID]
	return p, ok
}

// RecordAdvocacyActivity logs an activity against an enrolled customer
// and promotes the advocacy level when the activity warrants it.
func (e *Engine) RecordAdvocacyActivity(customerID, activity string, contributionMetrics map[string]any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	profile, ok := e.advocacy[customerID]
	if !ok {
		return fmt.Errorf("customer %s: %w", customerID, ErrNotEnrolled)
	}

	profile.Activities = append(profile.Activities, time.Now().Format("2006-01-02")+": "+activity)
	if len(contributionMetrics) > 0 {
		if profile.ContributionMetrics == nil {
			profile.ContributionMetrics = make(map[string]any, len(contributionMetrics))
		}
		for k, v := range contributionMetrics {
			profile.ContributionMetrics[k] = v
		}
	}
	log.Printf("recorded advocacy activity for %s: %s", customerID, activity)

	if level, ok := activityPromotion(activity, profile.CurrentLevel); ok {
		profile.Promote(level, "Activity-based promotion: "+activity)
	}
	return nil
}

// activityPromotion maps activity keywords to the advocacy level they
// unlock, if higher than the current one.
func activityPromotion(activity string, current AdvocacyLevel) (AdvocacyLevel, bool) {
	lower := strings.ToLower(activity)
	switch {
	case strings.Contains(lower, "case study") && current < AdvocacyCaseStudy:
		return AdvocacyCaseStudy, true
	case strings.Contains(lower, "speaking") && current < AdvocacySpeaker:
		return AdvocacySpeaker, true
	case strings.Contains(lower, "champion") && current < AdvocacyChampion:
		return AdvocacyChampion, true
	}
	return current, false
}

// AddRecognition records recognition for an enrolled customer.
func (e *Engine) AddRecognition(customerID, recognition string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	profile, ok := e.advocacy[customerID]
	if !ok {
		return fmt.Errorf("customer %s: %w", customerID, ErrNotEnrolled)
	}
	profile.Recognition = append(profile.Recognition, time.Now().Format("2006-01-02")+": "+recognition)
	return nil
}

// AdvocacyCandidates returns customers not yet enrolled whose total ROI
// and average session satisfaction clear the given floors.
func (e *Engine) AdvocacyCandidates(minSatisfaction float64, minROI float64) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var candidates []string
	for customerID := range e.roiMetrics {
		if _, enrolled := e.advocacy[customerID]; enrolled {
			continue
		}
		if e.totalROILocked(customerID) < minROI {
			continue
		}

		var ratingSum, rated float64
		for _, s := range e.sessions[customerID] {
			if s.Completed && s.SatisfactionRating > 0 {
				ratingSum += float64(s.SatisfactionRating)
				rated++
			}
		}
		if rated == 0 {
			continue
		}
		if ratingSum/rated >= minSatisfaction {
			candidates = append(candidates, customerID)
		}
	}
	sort.Strings(candidates)
	return candidates
}
