package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewReadinessScore_Bounds verifies each sub-score is held to 1-5.
func TestNewReadinessScore_Bounds(t *testing.T) {
	cases := []struct {
		name                string
		sleep, stress, doms int
		wantErr             bool
	}{
		{"all mid", 3, 3, 3, false},
		{"all min", 1, 1, 1, false},
		{"all max", 5, 5, 5, false},
		{"sleep zero", 0, 3, 3, true},
		{"stress six", 3, 6, 3, true},
		{"doms negative", 3, 3, -1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReadinessScore(uuid.New(), 1, tc.sleep, tc.stress, tc.doms)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestReadinessScore_Total checks the 0.4/0.3/0.3 weighting and rounding.
func TestReadinessScore_Total(t *testing.T) {
	cases := []struct {
		sleep, stress, doms int
		want                float64
	}{
		{5, 5, 5, 5.0},
		{1, 1, 1, 1.0},
		{3, 2, 4, 3.0},  // 1.2 + 0.6 + 1.2
		{2, 3, 1, 2.0},  // 0.8 + 0.9 + 0.3
		{4, 1, 2, 2.5},  // 1.6 + 0.3 + 0.6
	}
	for _, tc := range cases {
		r := ReadinessScore{Sleep: tc.sleep, Stress: tc.stress, DOMS: tc.doms}
		assert.InDelta(t, tc.want, r.Total(), 0.001, "%d/%d/%d", tc.sleep, tc.stress, tc.doms)
	}
}

// TestReadinessScore_AdjustmentFactor verifies the 5% pullback below 2.5 and
// the inclusive boundary at 2.5.
func TestReadinessScore_AdjustmentFactor(t *testing.T) {
	low := ReadinessScore{Sleep: 2, Stress: 1, DOMS: 2}  // total 1.7
	high := ReadinessScore{Sleep: 4, Stress: 4, DOMS: 4} // total 4.0
	edge := ReadinessScore{Sleep: 4, Stress: 1, DOMS: 2} // total 2.5 exactly

	assert.Equal(t, 0.95, low.AdjustmentFactor())
	assert.Equal(t, 1.0, high.AdjustmentFactor())
	assert.Equal(t, 1.0, edge.AdjustmentFactor())
}
