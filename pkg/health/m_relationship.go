package health

// RelationshipCalculator scores the health of the customer relationship
// from sentiment, trust, and communication signals.
type RelationshipCalculator struct {
	NPSBudget            float64 // NPS contribution
	CSATBudget           float64 // CSAT contribution
	TrustBudget          float64 // trust index
	StakeholderBudget    float64 // stakeholder engagement
	ResponsivenessBudget float64 // communication responsiveness

	TargetResponseHours float64
}

func (c RelationshipCalculator) Key() string  { return "relationship_health" }
func (c RelationshipCalculator) Name() string { return "Relationship health" }

// Score computes the relationship health sub-score in [0,100].
func (c RelationshipCalculator) Score(bag SignalBag) float64 {
	var score float64

	// NPS (-100..+100) normalized to 0-100 before scaling.
	nps := bag.Number("nps_score", 0)
	npsNormalized := (nps + 100) / 2
	score += clamp(npsNormalized/100*c.NPSBudget, 0, c.NPSBudget)

	// CSAT, 1-5 scale, neutral default 3.0.
	csat := bag.Number("csat_score", 3.0)
	csatNormalized := (csat - 1) / 4 * 100
	score += clamp(csatNormalized/100*c.CSATBudget, 0, c.CSATBudget)

	// Trust index, 1-10 scale, neutral default 5.0.
	trust := bag.Number("trust_index", 5.0)
	score += clamp((trust-1)/9*c.TrustBudget, 0, c.TrustBudget)

	// Stakeholder engagement rate, neutral default 0.5.
	stakeholder := bag.Number("stakeholder_engagement_rate", 0.5)
	score += clamp(stakeholder*c.StakeholderBudget, 0, c.StakeholderBudget)

	// Responsiveness: full credit at the target response time, linear
	// decay as responses slow past it.
	responseHours := bag.Number("avg_response_time_hours", 48)
	responsiveness := 1 - (responseHours-c.TargetResponseHours)/c.TargetResponseHours
	score += clamp(responsiveness*c.ResponsivenessBudget, 0, c.ResponsivenessBudget)

	return clamp(score, 0, 100)
}
