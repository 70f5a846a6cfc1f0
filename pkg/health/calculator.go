package health

import "time"

// SubScorer is the interface all sub-score calculators implement.
type SubScorer interface {
	// Key returns the machine-readable sub-score identifier.
	Key() string
	// Name returns the human-readable sub-score name.
	Name() string
	// Score computes the sub-score in [0,100] from a signal bag.
	Score(bag SignalBag) float64
}

// Calculator combines the four sub-score calculators and the context
// adjustment table into a full metrics computation. It never fails on
// bad input: missing or out-of-range signals are defaulted and clamped.
type Calculator struct {
	Engagement       EngagementCalculator
	ValueRealization ValueRealizationCalculator
	Relationship     RelationshipCalculator
	Risk             RiskCalculator
	Adjust           Adjustments
}

// Calculate computes the four sub-scores for a customer, applies the
// context adjustments, and returns the resulting Metrics.
//
// Adjustment order matters for score compatibility: post-incident
// multipliers first, then enterprise segment multipliers, each followed
// by a reclamp to <=100.
func (c *Calculator) Calculate(customer *CustomerProfile, bag SignalBag) Metrics {
	engagement := c.Engagement.Score(bag)
	value := c.ValueRealization.Score(bag)
	relationship := c.Relationship.Score(bag)
	risk := c.Risk.Score(bag)

	if customer.IsPostIncident {
		relationship = clamp(relationship*c.Adjust.PostIncidentRelationship, 0, 100)
		risk = clamp(risk*c.Adjust.PostIncidentRisk, 0, 100)
	}

	if customer.Segment == "enterprise" {
		value = clamp(value*c.Adjust.EnterpriseValueRealization, 0, 100)
		relationship = clamp(relationship*c.Adjust.EnterpriseRelationship, 0, 100)
	}

	return Metrics{
		EngagementScore:         engagement,
		ValueRealizationScore:   value,
		RelationshipHealthScore: relationship,
		RiskIndicatorsScore:     risk,
		CalculatedAt:            time.Now(),
	}
}
