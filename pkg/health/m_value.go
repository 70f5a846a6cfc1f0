package health

// ValueRealizationCalculator scores business value delivery from
// outcome and ROI signals.
type ValueRealizationCalculator struct {
	GoalBudget    float64 // goal achievement
	ROIBudget     float64 // measured vs expected ROI
	OutcomeBudget float64 // business outcome tracking
	TimeToValue   float64 // time to first value

	PointsPerOutcome float64
}

func (c ValueRealizationCalculator) Key() string  { return "value_realization" }
func (c ValueRealizationCalculator) Name() string { return "Value realization" }

// Score computes the value realization sub-score in [0,100].
func (c ValueRealizationCalculator) Score(bag SignalBag) float64 {
	var score float64

	// Goal achievement rate.
	goalsAchieved := bag.Number("goals_achieved", 0)
	totalGoals := bag.Number("total_goals_set", 1)
	var goalRate float64
	if totalGoals > 0 {
		goalRate = goalsAchieved / totalGoals
	}
	score += clamp(goalRate*c.GoalBudget, 0, c.GoalBudget)

	// ROI achievement: measured against expected, capped at full credit.
	measuredROI := bag.Number("measured_roi", 0)
	expectedROI := bag.Number("expected_roi", 1)
	var roiRate float64
	if expectedROI > 0 {
		roiRate = measuredROI / expectedROI
	}
	score += clamp(roiRate*c.ROIBudget, 0, c.ROIBudget)

	// Business outcomes tracked, fixed points per outcome.
	outcomes := bag.Number("business_outcomes_achieved", 0)
	score += clamp(outcomes*c.PointsPerOutcome, 0, c.OutcomeBudget)

	// Time to value: full credit at the target, linear decay past it.
	daysToValue := bag.Number("days_to_first_value", 365)
	targetDays := bag.Number("target_days_to_value", 30)
	if targetDays > 0 {
		timeScore := c.TimeToValue - (daysToValue-targetDays)/targetDays*c.TimeToValue
		score += clamp(timeScore, 0, c.TimeToValue)
	}

	return clamp(score, 0, 100)
}
