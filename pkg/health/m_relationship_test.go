package health_test

import (
	"math"
	"testing"

	"github.com/vitalsign/vitalsign/pkg/health"
)

func TestRelationshipFullAttainment(t *testing.T) {
	c := defaultCalc().Relationship

	bag := health.SignalBag{
		"nps_score":                   100.0,
		"csat_score":                  5.0,
		"trust_index":                 10.0,
		"stakeholder_engagement_rate": 1.0,
		"avg_response_time_hours":     24.0,
	}

	if got := c.Score(bag); math.Abs(got-100) > 1e-9 {
		t.Errorf("Score() = %v, want 100", got)
	}
}

func TestRelationshipNeutralDefaults(t *testing.T) {
	c := defaultCalc().Relationship

	// Empty bag: NPS 0 -> 10, CSAT 3.0 -> 7.5, trust 5.0 -> 100/9,
	// stakeholder 0.5 -> 12.5, responsiveness at 48h default -> 0.
	want := 10 + 7.5 + (5.0-1)/9*25 + 12.5
	if got := c.Score(health.SignalBag{}); math.Abs(got-want) > 1e-9 {
		t.Errorf("Score(empty) = %v, want %v", got, want)
	}
}

func TestRelationshipNegativeNPS(t *testing.T) {
	c := defaultCalc().Relationship

	// NPS -100 normalizes to 0 contribution; -20 to 8.
	bag := health.SignalBag{"nps_score": -100.0}
	empty := c.Score(health.SignalBag{})
	if got := c.Score(bag); math.Abs(got-(empty-10)) > 1e-9 {
		t.Errorf("Score(nps=-100) = %v, want %v", got, empty-10)
	}

	bag["nps_score"] = -20.0
	if got := c.Score(bag); math.Abs(got-(empty-2)) > 1e-9 {
		t.Errorf("Score(nps=-20) = %v, want %v", got, empty-2)
	}
}

func TestRelationshipFastResponseClamped(t *testing.T) {
	c := defaultCalc().Relationship

	// Responding faster than the 24h target earns full credit, not more.
	slow := c.Score(health.SignalBag{"avg_response_time_hours": 24.0})
	fast := c.Score(health.SignalBag{"avg_response_time_hours": 1.0})
	if math.Abs(slow-fast) > 1e-9 {
		t.Errorf("faster-than-target response changed score: %v vs %v", fast, slow)
	}
}
