package engine

import (
	"testing"

	"github.com/claude/ironplan/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWarmupRamp covers the reference ramps: a moderate working weight, a
// heavy one that earns the 85% single, and one too light to ramp at all.
func TestWarmupRamp(t *testing.T) {
	cases := []struct {
		name          string
		workingWeight float64
		barWeight     float64
		want          []models.WarmupSet
	}{
		{
			name:          "60kg squat",
			workingWeight: 60,
			barWeight:     20,
			want: []models.WarmupSet{
				{SetOrder: 1, WeightKg: 20, Reps: 10},
				{SetOrder: 2, WeightKg: 30, Reps: 5},
				{SetOrder: 3, WeightKg: 42.5, Reps: 3},
			},
		},
		{
			name:          "100kg with top single",
			workingWeight: 100,
			barWeight:     20,
			want: []models.WarmupSet{
				{SetOrder: 1, WeightKg: 20, Reps: 10},
				{SetOrder: 2, WeightKg: 50, Reps: 5},
				{SetOrder: 3, WeightKg: 70, Reps: 3},
				{SetOrder: 4, WeightKg: 85, Reps: 1},
			},
		},
		{
			name:          "too light to ramp",
			workingWeight: 35,
			barWeight:     20,
			want:          nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WarmupRamp(tc.workingWeight, tc.barWeight)
			assert.Equal(t, tc.want, got)
		})
	}
}

// TestWarmupRamp_SkipsRedundantSets verifies a set is only added when it is
// heavier than the one before it. At 40kg working weight the 50% set equals
// the bar and is dropped.
func TestWarmupRamp_SkipsRedundantSets(t *testing.T) {
	got := WarmupRamp(40, 20)
	require.Len(t, got, 2)
	assert.Equal(t, 20.0, got[0].WeightKg)
	assert.Equal(t, 27.5, got[1].WeightKg) // 70% of 40, on the 2.5 grid
}

// TestWarmupRamp_DefaultBar verifies the implement weight falls back to 20.
func TestWarmupRamp_DefaultBar(t *testing.T) {
	got := WarmupRamp(60, 0)
	require.NotEmpty(t, got)
	assert.Equal(t, DefaultBarWeight, got[0].WeightKg)
}
