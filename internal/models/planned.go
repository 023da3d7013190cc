package models

import "github.com/google/uuid"

// PlannedExercise is one prescribed exercise inside a plan-day: how many
// sets, which rep range, and at what target RIR. Invalid combinations are
// rejected at construction and never persisted.
type PlannedExercise struct {
	ID            uuid.UUID  `json:"id"`
	PlanDayID     uuid.UUID  `json:"plan_day_id"`
	ExerciseID    uuid.UUID  `json:"exercise_id"`
	Position      int        `json:"position"`
	TargetSets    int        `json:"target_sets"`
	RepMin        int        `json:"rep_min"`
	RepMax        int        `json:"rep_max"`
	TargetRIR     float64    `json:"target_rir"`
	Tempo         *string    `json:"tempo,omitempty"`
	TempoNotes    *string    `json:"tempo_notes,omitempty"`
	SupersetGroup *int       `json:"superset_group,omitempty"`
}

// NewPlannedExercise validates the prescription before it exists anywhere.
func NewPlannedExercise(planDayID, exerciseID uuid.UUID, position, targetSets, repMin, repMax int, targetRIR float64) (PlannedExercise, error) {
	if targetSets <= 0 {
		return PlannedExercise{}, Invalid("target sets must be greater than zero")
	}
	if repMin <= 0 || repMin > repMax {
		return PlannedExercise{}, Invalid("rep range must satisfy 0 < min <= max")
	}
	if targetRIR < 0 || targetRIR > 5 {
		return PlannedExercise{}, Invalid("target RIR must be between 0 and 5")
	}
	return PlannedExercise{
		ID:         uuid.New(),
		PlanDayID:  planDayID,
		ExerciseID: exerciseID,
		Position:   position,
		TargetSets: targetSets,
		RepMin:     repMin,
		RepMax:     repMax,
		TargetRIR:  targetRIR,
	}, nil
}
