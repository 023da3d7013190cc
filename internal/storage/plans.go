package storage

import (
	"context"
	"fmt"

	"github.com/claude/ironplan/internal/models"
	"github.com/google/uuid"
)

// PlannedExercisesForDay returns the day's prescriptions in position order.
func (db *DB) PlannedExercisesForDay(ctx context.Context, planDayID uuid.UUID) ([]models.PlannedExercise, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, plan_day_id, exercise_id, position, target_sets, rep_min, rep_max,
		       target_rir, tempo, tempo_notes, superset_group
		FROM planned_exercises
		WHERE plan_day_id = $1
		ORDER BY position
	`, planDayID)
	if err != nil {
		return nil, fmt.Errorf("querying planned exercises: %w", err)
	}
	defer rows.Close()

	var result []models.PlannedExercise
	for rows.Next() {
		var pe models.PlannedExercise
		if err := rows.Scan(&pe.ID, &pe.PlanDayID, &pe.ExerciseID, &pe.Position,
			&pe.TargetSets, &pe.RepMin, &pe.RepMax, &pe.TargetRIR,
			&pe.Tempo, &pe.TempoNotes, &pe.SupersetGroup); err != nil {
			return nil, fmt.Errorf("scanning planned exercise: %w", err)
		}
		result = append(result, pe)
	}
	return result, rows.Err()
}
