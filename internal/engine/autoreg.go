package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/claude/ironplan/internal/models"
	"github.com/google/uuid"
)

// Load increments in weight units. Isolation and machine movements progress
// on the small step; free-weight compounds on the large one.
const (
	SmallIncrement = 1.25
	LargeIncrement = 2.5
)

// Suggestion actions.
const (
	ActionIncrease = "increase"
	ActionHold     = "hold"
	ActionReduce   = "reduce"
)

// LoadSuggestion is the next prescribed load for one exercise.
type LoadSuggestion struct {
	ExerciseID uuid.UUID `json:"exercise_id"`
	WeightKg   float64   `json:"weight_kg"`
	Action     string    `json:"action"`
	Increment  float64   `json:"increment"`
	Reason     string    `json:"reason"`
}

// Suggester derives next-session load suggestions from the most recent
// effective performance and the matching prescription.
type Suggester struct {
	perf PerformanceStore
	log  *slog.Logger
}

// NewSuggester creates a load suggester over a performance history store.
func NewSuggester(perf PerformanceStore, log *slog.Logger) *Suggester {
	return &Suggester{perf: perf, log: log}
}

// SuggestLoad computes the next load for an exercise. A nil suggestion with
// nil error means there is no effective history to autoregulate from. When a
// readiness total below the low-readiness threshold is supplied, the
// computed weight is pulled back by 5% before rounding to the increment.
func (sg *Suggester) SuggestLoad(ctx context.Context, userID int, exercise models.Exercise, readiness *float64) (*LoadSuggestion, error) {
	last, err := sg.perf.LastEffectivePerformance(ctx, userID, exercise.ID)
	if err != nil {
		return nil, fmt.Errorf("loading last performance: %w", err)
	}
	if last == nil {
		return nil, nil
	}

	increment := LargeIncrement
	if exercise.UsesSmallIncrements() {
		increment = SmallIncrement
	}

	weight := last.WeightKg
	action := ActionHold
	reason := "set was easier than prescribed; waiting for a harder data point"

	deltaRIR := last.RIR - last.TargetRIR
	switch {
	case deltaRIR == 0:
		weight += increment
		action = ActionIncrease
		reason = "hit the target RIR"
	case deltaRIR < 0 && last.RIR == 0 && last.Reps < last.TargetReps:
		weight *= 0.95
		action = ActionReduce
		reason = "missed the rep target at zero reserve"
	case deltaRIR < 0:
		reason = "harder than prescribed but rep target met"
	}

	if readiness != nil && *readiness < models.LowReadinessThreshold {
		weight *= 0.95
		sg.log.Debug("readiness pullback applied", "user_id", userID, "exercise_id", exercise.ID, "readiness", *readiness)
	}

	return &LoadSuggestion{
		ExerciseID: exercise.ID,
		WeightKg:   math.Round(weight/increment) * increment,
		Action:     action,
		Increment:  increment,
		Reason:     reason,
	}, nil
}
