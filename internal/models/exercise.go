package models

import "github.com/google/uuid"

// MuscleGroup identifies one of the twelve tracked muscle groups.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleQuads      MuscleGroup = "quads"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCalves     MuscleGroup = "calves"
	MuscleAbs        MuscleGroup = "abs"
	MuscleForearms   MuscleGroup = "forearms"
	MuscleTraps      MuscleGroup = "traps"
)

// AllMuscleGroups lists every tracked muscle group in display order.
var AllMuscleGroups = []MuscleGroup{
	MuscleChest, MuscleBack, MuscleShoulders, MuscleBiceps, MuscleTriceps,
	MuscleQuads, MuscleHamstrings, MuscleGlutes, MuscleCalves, MuscleAbs,
	MuscleForearms, MuscleTraps,
}

// MovementPattern classifies an exercise by its dominant movement.
type MovementPattern string

const (
	PatternSquat          MovementPattern = "squat"
	PatternHinge          MovementPattern = "hinge"
	PatternLunge          MovementPattern = "lunge"
	PatternHorizontalPush MovementPattern = "horizontal_push"
	PatternHorizontalPull MovementPattern = "horizontal_pull"
	PatternVerticalPush   MovementPattern = "vertical_push"
	PatternVerticalPull   MovementPattern = "vertical_pull"
	PatternCarry          MovementPattern = "carry"
	PatternCore           MovementPattern = "core"
	PatternIsolation      MovementPattern = "isolation"
)

// Equipment identifies the implement an exercise is performed with.
type Equipment string

const (
	EquipmentBarbell    Equipment = "barbell"
	EquipmentDumbbell   Equipment = "dumbbell"
	EquipmentMachine    Equipment = "machine"
	EquipmentCable      Equipment = "cable"
	EquipmentKettlebell Equipment = "kettlebell"
	EquipmentBand       Equipment = "band"
	EquipmentBodyweight Equipment = "bodyweight"
)

// Exercise is one entry in the exercise catalog.
type Exercise struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	MovementPattern  MovementPattern `json:"movement_pattern"`
	Equipment        Equipment       `json:"equipment"`
	PrimaryMuscles   []MuscleGroup   `json:"primary_muscles"`
	SecondaryMuscles []MuscleGroup   `json:"secondary_muscles,omitempty"`
}

// SharesPrimaryMuscle reports whether two exercises have at least one primary
// muscle group in common.
func (e Exercise) SharesPrimaryMuscle(other Exercise) bool {
	for _, m := range e.PrimaryMuscles {
		for _, o := range other.PrimaryMuscles {
			if m == o {
				return true
			}
		}
	}
	return false
}

// UsesSmallIncrements reports whether the exercise progresses in the small
// 1.25 load step. Isolation movements and machine work expose finer
// plate/pin increments than free-weight compounds.
func (e Exercise) UsesSmallIncrements() bool {
	return e.MovementPattern == PatternIsolation || e.Equipment == EquipmentMachine
}
