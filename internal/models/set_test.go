package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWorkingSet_IsEffective verifies that only completed, non-skipped sets
// at RIR 4 or below count toward volume.
func TestWorkingSet_IsEffective(t *testing.T) {
	cases := []struct {
		name      string
		completed bool
		skipped   bool
		rir       float64
		want      bool
	}{
		{"completed hard set", true, false, 2, true},
		{"boundary RIR 4", true, false, 4, true},
		{"RIR 0", true, false, 0, true},
		{"too easy", true, false, 4.5, false},
		{"not completed", false, false, 2, false},
		{"skipped", true, true, 2, false},
		{"skipped and easy", true, true, 8, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := WorkingSet{Completed: tc.completed, Skipped: tc.skipped, RIR: tc.rir, Reps: 8, WeightKg: 100}
			assert.Equal(t, tc.want, s.IsEffective())
		})
	}
}

// TestWorkingSet_Estimated1RM checks the Epley/Brzycki mean against known
// values and the 1-10 rep validity window.
func TestWorkingSet_Estimated1RM(t *testing.T) {
	cases := []struct {
		name   string
		weight float64
		reps   int
		want   float64
		ok     bool
	}{
		{"single rep is face value", 140, 1, 140, true},
		{"100x5", 100, 5, 114.5, true}, // mean of Epley 116.67 and Brzycki 112.5
		{"60x10", 60, 10, 80, true},
		{"zero reps undefined", 100, 0, 0, false},
		{"eleven reps undefined", 100, 11, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := WorkingSet{WeightKg: tc.weight, Reps: tc.reps}
			got, ok := s.Estimated1RM()
			require.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 0.001)
		})
	}
}

// TestWorkingSet_Estimated1RM_HalfKiloRounding verifies the estimate lands on
// a 0.5 grid.
func TestWorkingSet_Estimated1RM_HalfKiloRounding(t *testing.T) {
	s := WorkingSet{WeightKg: 82.5, Reps: 7}
	got, ok := s.Estimated1RM()
	require.True(t, ok)
	assert.Zero(t, got*2-float64(int(got*2)), "estimate %v not on 0.5 grid", got)
}

// TestWorkingSet_Validate covers the set-level bounds checks.
func TestWorkingSet_Validate(t *testing.T) {
	longNote := strings.Repeat("x", MaxSetNoteLen+1)
	accentedNote := strings.Repeat("é", MaxSetNoteLen-50)
	longAccentedNote := strings.Repeat("é", MaxSetNoteLen+1)

	cases := []struct {
		name    string
		set     WorkingSet
		wantErr bool
	}{
		{"valid", WorkingSet{WeightKg: 100, Reps: 5, RIR: 2}, false},
		{"negative weight", WorkingSet{WeightKg: -1, Reps: 5, RIR: 2}, true},
		{"negative reps", WorkingSet{WeightKg: 100, Reps: -1, RIR: 2}, true},
		{"RIR over 10", WorkingSet{WeightKg: 100, Reps: 5, RIR: 10.5}, true},
		{"negative RIR", WorkingSet{WeightKg: 100, Reps: 5, RIR: -0.5}, true},
		{"over-length note", WorkingSet{WeightKg: 100, Reps: 5, RIR: 2, Note: &longNote}, true},
		{"multibyte note within limit", WorkingSet{WeightKg: 100, Reps: 5, RIR: 2, Note: &accentedNote}, false},
		{"multibyte note over limit", WorkingSet{WeightKg: 100, Reps: 5, RIR: 2, Note: &longAccentedNote}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.set.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestWorkingSet_Validate_NormalizesNote verifies the persisted note is the
// trimmed value and that a blank note is dropped entirely.
func TestWorkingSet_Validate_NormalizesNote(t *testing.T) {
	padded := "  felt heavy  "
	s := WorkingSet{WeightKg: 100, Reps: 5, RIR: 2, Note: &padded}
	require.NoError(t, s.Validate())
	require.NotNil(t, s.Note)
	assert.Equal(t, "felt heavy", *s.Note)

	blank := "   "
	s = WorkingSet{WeightKg: 100, Reps: 5, RIR: 2, Note: &blank}
	require.NoError(t, s.Validate())
	assert.Nil(t, s.Note)
}
