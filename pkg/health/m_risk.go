package health

// RiskCalculator scores churn risk indicators. Unlike the other three
// sub-scores, higher means more risk; the composite inverts it.
type RiskCalculator struct {
	ContractBudget     float64 // contract concerns
	PaymentBudget      float64 // payment issues
	CompetitiveBudget  float64 // competitive activity
	UsageDeclineBudget float64 // usage decline
	EscalationBudget   float64 // support escalations
	TurnoverBudget     float64 // key contact turnover
}

func (c RiskCalculator) Key() string  { return "risk_indicators" }
func (c RiskCalculator) Name() string { return "Risk indicators" }

// Score computes the risk indicators sub-score in [0,100].
func (c RiskCalculator) Score(bag SignalBag) float64 {
	var score float64

	// Contract risk level, 0-5 scale.
	contractRisk := bag.Number("contract_risk_level", 0)
	score += clamp(contractRisk/5*c.ContractBudget, 0, c.ContractBudget)

	// Payment delays, max risk at 3+.
	delays := bag.Number("payment_delays_count", 0)
	score += clamp(delays/3*c.PaymentBudget, 0, c.PaymentBudget)

	// Active competitive evaluation is all-or-nothing.
	if bag.Bool("competitive_evaluation", false) {
		score += c.CompetitiveBudget
	}

	// Usage decline over 30 days, stepped by severity.
	usageTrend := bag.Number("usage_trend_30d", 0)
	switch {
	case usageTrend < -0.2:
		score += c.UsageDeclineBudget
	case usageTrend < -0.1:
		score += c.UsageDeclineBudget * 2 / 3
	}

	// Support escalations in 30 days, max risk at 3+.
	escalations := bag.Number("support_escalations_30d", 0)
	score += clamp(escalations/3*c.EscalationBudget, 0, c.EscalationBudget)

	// Key contact turnover in 90 days, max risk at 2+.
	turnover := bag.Number("key_contact_changes_90d", 0)
	score += clamp(turnover/2*c.TurnoverBudget, 0, c.TurnoverBudget)

	return clamp(score, 0, 100)
}
