package models

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxSetNoteLen bounds the free-text note on a single set.
const MaxSetNoteLen = 200

// MaxEffectiveRIR is the highest RIR at which a set still counts toward
// weekly volume and strength aggregates.
const MaxEffectiveRIR = 4

// WorkingSet is one performed set inside a session exercise.
type WorkingSet struct {
	ID                uuid.UUID `json:"id"`
	SessionExerciseID uuid.UUID `json:"session_exercise_id"`
	SetOrder          int       `json:"set_order"`
	WeightKg          float64   `json:"weight_kg"`
	Reps              int       `json:"reps"`
	RIR               float64   `json:"rir"`
	RestSec           *int      `json:"rest_sec,omitempty"`
	Note              *string   `json:"note,omitempty"`
	Completed         bool      `json:"completed"`
	Skipped           bool      `json:"skipped"`
}

// Validate normalizes and rejects out-of-bounds set data before it is
// persisted. The note is trimmed in place; a blank note is dropped. The
// length bound counts characters, not bytes.
func (s *WorkingSet) Validate() error {
	if s.WeightKg < 0 {
		return Invalid("set weight must not be negative")
	}
	if s.Reps < 0 {
		return Invalid("set reps must not be negative")
	}
	if s.RIR < 0 || s.RIR > 10 {
		return Invalid("set RIR must be between 0 and 10")
	}
	if s.Note != nil {
		note := strings.TrimSpace(*s.Note)
		if note == "" {
			s.Note = nil
		} else {
			if utf8.RuneCountInString(note) > MaxSetNoteLen {
				return Invalid("set note must not exceed %d characters", MaxSetNoteLen)
			}
			s.Note = &note
		}
	}
	return nil
}

// IsEffective reports whether the set counts toward volume and strength
// aggregates: completed, not skipped, and performed at RIR 4 or less.
func (s WorkingSet) IsEffective() bool {
	return s.Completed && !s.Skipped && s.RIR <= MaxEffectiveRIR
}

// Estimated1RM returns the estimated one-rep max as the mean of the Epley and
// Brzycki formulas, rounded to the nearest 0.5. The estimate is only defined
// for 1-10 reps; a single rep is taken at face value. ok is false outside
// that range.
func (s WorkingSet) Estimated1RM() (e1rm float64, ok bool) {
	if s.Reps < 1 || s.Reps > 10 {
		return 0, false
	}
	if s.Reps == 1 {
		return s.WeightKg, true
	}
	reps := float64(s.Reps)
	epley := s.WeightKg * (1 + reps/30)
	brzycki := s.WeightKg * 36 / (37 - reps)
	return math.Round((epley+brzycki)/2*2) / 2, true
}

// WarmupSet is a light ramp-up set; it never counts toward effective volume.
type WarmupSet struct {
	SetOrder int     `json:"set_order"`
	WeightKg float64 `json:"weight_kg"`
	Reps     int     `json:"reps"`
}
