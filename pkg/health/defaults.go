package health

// Composite score weights. The four sub-scores combine into one 0-100
// score with risk inverted.
const (
	WeightEngagement         = 0.35
	WeightValueRealization   = 0.30
	WeightRelationshipHealth = 0.25
	WeightRiskIndicators     = 0.10
)

// Adjustments holds the context multipliers applied to calculator
// outputs before the weighted sum. Post-incident adjustments are applied
// first, then segment adjustments, each sub-score reclamped to <=100
// after every multiplication.
type Adjustments struct {
	// Post-incident: more weight on relationship and risk after an incident.
	PostIncidentRelationship float64
	PostIncidentRisk         float64

	// Enterprise segment: enterprise customers focus on value.
	EnterpriseValueRealization float64
	EnterpriseRelationship     float64
}

// DefaultAdjustments returns the standard adjustment table.
func DefaultAdjustments() Adjustments {
	return Adjustments{
		PostIncidentRelationship:   1.5,
		PostIncidentRisk:           1.3,
		EnterpriseValueRealization: 1.2,
		EnterpriseRelationship:     1.1,
	}
}

// DefaultCalculator returns a Calculator with the standard sub-score
// component budgets and adjustment table.
func DefaultCalculator() *Calculator {
	return &Calculator{
		Engagement: EngagementCalculator{
			LoginBudget:       30,
			AdoptionBudget:    25,
			SupportBudget:     20,
			OfficeHoursBudget: 15,
			HelpBudget:        10,
			LoginTarget:       5,
			HelpTarget:        10,
		},
		ValueRealization: ValueRealizationCalculator{
			GoalBudget:       40,
			ROIBudget:        30,
			OutcomeBudget:    20,
			TimeToValue:      10,
			PointsPerOutcome: 5,
		},
		Relationship: RelationshipCalculator{
			NPSBudget:            20,
			CSATBudget:           15,
			TrustBudget:          25,
			StakeholderBudget:    25,
			ResponsivenessBudget: 15,
			TargetResponseHours:  24,
		},
		Risk: RiskCalculator{
			ContractBudget:     25,
			PaymentBudget:      20,
			CompetitiveBudget:  20,
			UsageDeclineBudget: 15,
			EscalationBudget:   10,
			TurnoverBudget:     10,
		},
		Adjust: DefaultAdjustments(),
	}
}
