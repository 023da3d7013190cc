package engine

import (
	"math"

	"github.com/claude/ironplan/internal/models"
)

// DefaultBarWeight is the empty-implement weight assumed when none is given.
const DefaultBarWeight = 20.0

// minRampWeight is the working weight below which a ramp is not worth doing.
const minRampWeight = 40.0

// WarmupRamp produces the ramp-up scheme for a target working weight. The
// ramp always opens with the empty implement for 10 reps, then adds 50%, 70%,
// and (from 80 upward) 85% sets, each only if it is actually heavier than the
// set before it. Intermediate weights land on a 2.5 grid.
func WarmupRamp(workingWeight, barWeight float64) []models.WarmupSet {
	if barWeight <= 0 {
		barWeight = DefaultBarWeight
	}
	if workingWeight < minRampWeight {
		return nil
	}

	sets := []models.WarmupSet{{SetOrder: 1, WeightKg: barWeight, Reps: 10}}

	half := roundToStep(workingWeight*0.5, 2.5)
	if half > barWeight {
		sets = append(sets, models.WarmupSet{SetOrder: len(sets) + 1, WeightKg: half, Reps: 5})
	}

	seventy := roundToStep(workingWeight*0.7, 2.5)
	if seventy > sets[len(sets)-1].WeightKg {
		sets = append(sets, models.WarmupSet{SetOrder: len(sets) + 1, WeightKg: seventy, Reps: 3})
	}

	if workingWeight >= 80 {
		eightyFive := roundToStep(workingWeight*0.85, 2.5)
		if eightyFive > sets[len(sets)-1].WeightKg {
			sets = append(sets, models.WarmupSet{SetOrder: len(sets) + 1, WeightKg: eightyFive, Reps: 1})
		}
	}

	return sets
}

func roundToStep(weight, step float64) float64 {
	return math.Round(weight/step) * step
}
