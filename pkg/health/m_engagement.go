package health

// EngagementCalculator scores product engagement from usage and
// interaction signals. Component budgets sum to 100 at full attainment;
// each component is clamped independently so an out-of-range signal
// cannot push the sub-score over its cap.
type EngagementCalculator struct {
	LoginBudget       float64 // login frequency
	AdoptionBudget    float64 // feature adoption rate
	SupportBudget     float64 // support interaction quality
	OfficeHoursBudget float64 // office hours participation
	HelpBudget        float64 // documentation/help usage

	LoginTarget float64 // logins per week for full login credit
	HelpTarget  float64 // help articles viewed for full help credit
}

func (c EngagementCalculator) Key() string  { return "engagement" }
func (c EngagementCalculator) Name() string { return "Engagement" }

// Score computes the engagement sub-score in [0,100].
func (c EngagementCalculator) Score(bag SignalBag) float64 {
	var score float64

	// Login frequency, linear to target.
	logins := bag.Number("logins_per_week", 0)
	score += clamp(logins/c.LoginTarget*c.LoginBudget, 0, c.LoginBudget)

	// Feature adoption rate.
	featuresUsed := bag.Number("features_used", 0)
	totalFeatures := bag.Number("total_available_features", 10)
	var adoption float64
	if totalFeatures > 0 {
		adoption = featuresUsed / totalFeatures
	}
	score += clamp(adoption*c.AdoptionBudget, 0, c.AdoptionBudget)

	// Support interaction quality, 1-5 scale, neutral default 3.0.
	satisfaction := bag.Number("support_satisfaction", 3.0)
	score += clamp((satisfaction-1)/4*c.SupportBudget, 0, c.SupportBudget)

	// Office hours participation rate.
	attendance := bag.Number("office_hours_attendance_rate", 0)
	score += clamp(attendance*c.OfficeHoursBudget, 0, c.OfficeHoursBudget)

	// Documentation/help usage, linear to target.
	helpViews := bag.Number("help_articles_viewed", 0)
	score += clamp(helpViews/c.HelpTarget*c.HelpBudget, 0, c.HelpBudget)

	return clamp(score, 0, 100)
}
