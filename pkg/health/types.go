// Package health implements the Vitalsign customer health scoring engine.
// It turns raw behavioral signals into four weighted sub-scores, a composite
// 0-100 health score, and a discrete health tier.
package health

import (
	"math"
	"time"
)

// SignalBag is a bag of named signals supplied per scoring call.
// Values may be numeric or boolean; missing or malformed signals are
// never an error and fall back to documented neutral defaults.
type SignalBag map[string]any

// Number returns the signal as a float64, or def if the signal is
// missing or not numeric.
func (b SignalBag) Number(key string, def float64) float64 {
	v, ok := b[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

// Bool returns the signal as a bool, or def if the signal is missing
// or not a bool.
func (b SignalBag) Bool(key string, def bool) bool {
	if v, ok := b[key].(bool); ok {
		return v
	}
	return def
}

// Tier is the discrete health classification derived from the
// composite score.
type Tier string

const (
	TierHealthy  Tier = "healthy"   // 80-100
	TierAtRisk   Tier = "at_risk"   // 60-79
	TierCritical Tier = "critical"  // 40-59
	TierRedAlert Tier = "red_alert" // 0-39
)

// Tiers lists all tiers in descending order of health.
func Tiers() []Tier {
	return []Tier{TierHealthy, TierAtRisk, TierCritical, TierRedAlert}
}

// TierFromScore maps a composite score to a tier.
func TierFromScore(score float64) Tier {
	switch {
	case score >= 80:
		return TierHealthy
	case score >= 60:
		return TierAtRisk
	case score >= 40:
		return TierCritical
	default:
		return TierRedAlert
	}
}

// Metrics holds the four sub-scores for a customer at a point in time.
// Immutable once computed.
type Metrics struct {
	EngagementScore         float64   `json:"engagement_score"`
	ValueRealizationScore   float64   `json:"value_realization_score"`
	RelationshipHealthScore float64   `json:"relationship_health_score"`
	RiskIndicatorsScore     float64   `json:"risk_indicators_score"` // inverse: lower is better
	CalculatedAt            time.Time `json:"calculated_at"`
}

// Composite returns the weighted composite health score, clamped to [0,100].
// Risk indicators contribute inverted: a risk score of 0 adds the full
// risk weight.
func (m Metrics) Composite() float64 {
	composite := m.EngagementScore*WeightEngagement +
		m.ValueRealizationScore*WeightValueRealization +
		m.RelationshipHealthScore*WeightRelationshipHealth +
		(100-m.RiskIndicatorsScore)*WeightRiskIndicators
	return clamp(composite, 0, 100)
}

// Tier returns the health tier for the composite score.
func (m Metrics) Tier() Tier {
	return TierFromScore(m.Composite())
}

// clamp bounds v to [lo,hi]. NaN degrades to lo so that a garbage
// signal can never poison a score.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
