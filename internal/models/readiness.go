package models

import (
	"math"

	"github.com/google/uuid"
)

// LowReadinessThreshold is the score below which the load-suggestion
// adjustment factor kicks in.
const LowReadinessThreshold = 2.5

// ReadinessScore captures the subjective daily inputs recorded against a
// session. One score per session; re-recording overwrites.
type ReadinessScore struct {
	SessionID uuid.UUID `json:"session_id"`
	UserID    int       `json:"user_id"`
	Sleep     int       `json:"sleep"`
	Stress    int       `json:"stress"`
	DOMS      int       `json:"doms"`
}

// NewReadinessScore validates the three 1-5 sub-scores.
func NewReadinessScore(sessionID uuid.UUID, userID, sleep, stress, doms int) (ReadinessScore, error) {
	for _, v := range []struct {
		name  string
		value int
	}{{"sleep", sleep}, {"stress", stress}, {"doms", doms}} {
		if v.value < 1 || v.value > 5 {
			return ReadinessScore{}, Invalid("readiness %s score must be between 1 and 5", v.name)
		}
	}
	return ReadinessScore{SessionID: sessionID, UserID: userID, Sleep: sleep, Stress: stress, DOMS: doms}, nil
}

// Total is the weighted readiness score, rounded to two decimals.
// Sleep weighs 0.4, stress and soreness 0.3 each.
func (r ReadinessScore) Total() float64 {
	total := 0.4*float64(r.Sleep) + 0.3*float64(r.Stress) + 0.3*float64(r.DOMS)
	return math.Round(total*100) / 100
}

// AdjustmentFactor scales a load suggestion down by 5% on a low-readiness
// day, and leaves it untouched otherwise.
func (r ReadinessScore) AdjustmentFactor() float64 {
	if r.Total() < LowReadinessThreshold {
		return 0.95
	}
	return 1.0
}
