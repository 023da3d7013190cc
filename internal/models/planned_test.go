package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewPlannedExercise validates the prescription rules: positive sets,
// ordered rep range, target RIR within 0-5.
func TestNewPlannedExercise(t *testing.T) {
	day := uuid.New()
	ex := uuid.New()

	cases := []struct {
		name           string
		sets           int
		repMin, repMax int
		rir            float64
		wantErr        bool
	}{
		{"typical hypertrophy", 3, 8, 12, 2, false},
		{"strength single", 5, 1, 3, 1, false},
		{"rir boundary high", 3, 8, 12, 5, false},
		{"zero sets", 0, 8, 12, 2, true},
		{"negative sets", -1, 8, 12, 2, true},
		{"rep min zero", 3, 0, 12, 2, true},
		{"inverted rep range", 3, 12, 8, 2, true},
		{"rir too high", 3, 8, 12, 5.5, true},
		{"rir negative", 3, 8, 12, -1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pe, err := NewPlannedExercise(day, ex, 1, tc.sets, tc.repMin, tc.repMax, tc.rir)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, day, pe.PlanDayID)
			assert.Equal(t, ex, pe.ExerciseID)
			assert.NotEqual(t, uuid.Nil, pe.ID)
		})
	}
}

// TestExercise_SharesPrimaryMuscle covers the overlap check used by the
// substitution rule.
func TestExercise_SharesPrimaryMuscle(t *testing.T) {
	bench := Exercise{PrimaryMuscles: []MuscleGroup{MuscleChest, MuscleTriceps}}
	dips := Exercise{PrimaryMuscles: []MuscleGroup{MuscleTriceps, MuscleChest}}
	rows := Exercise{PrimaryMuscles: []MuscleGroup{MuscleBack}}

	assert.True(t, bench.SharesPrimaryMuscle(dips))
	assert.False(t, bench.SharesPrimaryMuscle(rows))
	assert.False(t, rows.SharesPrimaryMuscle(Exercise{}))
}

// TestExercise_UsesSmallIncrements verifies the fine-increment rule for
// isolation and machine work.
func TestExercise_UsesSmallIncrements(t *testing.T) {
	curl := Exercise{MovementPattern: PatternIsolation, Equipment: EquipmentDumbbell}
	legPress := Exercise{MovementPattern: PatternSquat, Equipment: EquipmentMachine}
	squat := Exercise{MovementPattern: PatternSquat, Equipment: EquipmentBarbell}

	assert.True(t, curl.UsesSmallIncrements())
	assert.True(t, legPress.UsesSmallIncrements())
	assert.False(t, squat.UsesSmallIncrements())
}
