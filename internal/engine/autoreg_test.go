package engine

import (
	"context"
	"testing"

	"github.com/claude/ironplan/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barbellBench() models.Exercise {
	return models.Exercise{
		ID:              uuid.New(),
		Name:            "Barbell Bench Press",
		MovementPattern: models.PatternHorizontalPush,
		Equipment:       models.EquipmentBarbell,
		PrimaryMuscles:  []models.MuscleGroup{models.MuscleChest},
	}
}

// TestSuggester_SuggestLoad drives the autoregulation table: hit the target
// RIR and the weight moves up one increment, overshoot and it holds, fail
// the rep target at zero reserve and it backs off 5%.
func TestSuggester_SuggestLoad(t *testing.T) {
	cases := []struct {
		name       string
		last       models.PerformanceRecord
		wantWeight float64
		wantAction string
	}{
		{
			name:       "on target adds increment",
			last:       models.PerformanceRecord{WeightKg: 100, Reps: 8, RIR: 2, TargetRIR: 2, TargetReps: 8},
			wantWeight: 102.5,
			wantAction: ActionIncrease,
		},
		{
			name:       "easier than prescribed holds",
			last:       models.PerformanceRecord{WeightKg: 100, Reps: 8, RIR: 3, TargetRIR: 2, TargetReps: 8},
			wantWeight: 100,
			wantAction: ActionHold,
		},
		{
			name:       "failed reps at zero reserve backs off",
			last:       models.PerformanceRecord{WeightKg: 100, Reps: 6, RIR: 0, TargetRIR: 2, TargetReps: 8},
			wantWeight: 95, // 100*0.95 rounded to the 2.5 grid
			wantAction: ActionReduce,
		},
		{
			name:       "harder but reps met holds",
			last:       models.PerformanceRecord{WeightKg: 100, Reps: 8, RIR: 1, TargetRIR: 2, TargetReps: 8},
			wantWeight: 100,
			wantAction: ActionHold,
		},
		{
			name:       "zero reserve but reps met holds",
			last:       models.PerformanceRecord{WeightKg: 100, Reps: 8, RIR: 0, TargetRIR: 2, TargetReps: 8},
			wantWeight: 100,
			wantAction: ActionHold,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			last := tc.last
			sg := NewSuggester(&fakePerf{record: &last}, testLogger(t))

			got, err := sg.SuggestLoad(context.Background(), 1, barbellBench(), nil)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.InDelta(t, tc.wantWeight, got.WeightKg, 0.001)
			assert.Equal(t, tc.wantAction, got.Action)
			assert.Equal(t, LargeIncrement, got.Increment)
		})
	}
}

// TestSuggester_SmallIncrement verifies isolation/machine work progresses on
// the 1.25 step.
func TestSuggester_SmallIncrement(t *testing.T) {
	curl := models.Exercise{
		ID:              uuid.New(),
		Name:            "Cable Curl",
		MovementPattern: models.PatternIsolation,
		Equipment:       models.EquipmentCable,
		PrimaryMuscles:  []models.MuscleGroup{models.MuscleBiceps},
	}
	record := models.PerformanceRecord{WeightKg: 25, Reps: 12, RIR: 1, TargetRIR: 1, TargetReps: 10}
	sg := NewSuggester(&fakePerf{record: &record}, testLogger(t))

	got, err := sg.SuggestLoad(context.Background(), 1, curl, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 26.25, got.WeightKg, 0.001)
	assert.Equal(t, SmallIncrement, got.Increment)
}

// TestSuggester_ReadinessPullback verifies a sub-2.5 readiness total scales
// the suggestion down 5% before grid rounding.
func TestSuggester_ReadinessPullback(t *testing.T) {
	record := models.PerformanceRecord{WeightKg: 100, Reps: 8, RIR: 2, TargetRIR: 2, TargetReps: 8}
	sg := NewSuggester(&fakePerf{record: &record}, testLogger(t))

	low := 2.0
	got, err := sg.SuggestLoad(context.Background(), 1, barbellBench(), &low)
	require.NoError(t, err)
	require.NotNil(t, got)
	// 102.5 * 0.95 = 97.375, rounded to the 2.5 grid.
	assert.InDelta(t, 97.5, got.WeightKg, 0.001)

	fine := 3.5
	got, err = sg.SuggestLoad(context.Background(), 1, barbellBench(), &fine)
	require.NoError(t, err)
	assert.InDelta(t, 102.5, got.WeightKg, 0.001)
}

// TestSuggester_NoHistory verifies a nil suggestion when no effective
// performance exists.
func TestSuggester_NoHistory(t *testing.T) {
	sg := NewSuggester(&fakePerf{}, testLogger(t))

	got, err := sg.SuggestLoad(context.Background(), 1, barbellBench(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
