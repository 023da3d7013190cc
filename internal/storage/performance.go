package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/ironplan/internal/models"
	"github.com/google/uuid"
)

// LastEffectivePerformance returns the most recent effective set a user
// logged for an exercise, with the plan prescription it was performed
// against. Substituted instances still count toward the exercise actually
// performed. Returns (nil, nil) when there is no history.
//
// Without a plan link the targets fall back to RIR 2 and the set's own rep
// count, which makes the load suggestion a plain hold-or-increase check.
func (db *DB) LastEffectivePerformance(ctx context.Context, userID int, exerciseID uuid.UUID) (*models.PerformanceRecord, error) {
	var rec models.PerformanceRecord
	err := db.Pool.QueryRow(ctx, `
		SELECT ws.weight_kg, ws.reps, ws.rir,
		       COALESCE(pe.target_rir, 2), COALESCE(pe.rep_min, ws.reps),
		       s.started_at
		FROM working_sets ws
		JOIN session_exercises se ON se.id = ws.session_exercise_id
		JOIN sessions s ON s.id = se.session_id
		LEFT JOIN planned_exercises pe
		       ON pe.plan_day_id = s.plan_day_id
		      AND pe.exercise_id = COALESCE(se.original_exercise_id, se.exercise_id)
		WHERE s.user_id = $1 AND s.deleted_at IS NULL
		  AND se.exercise_id = $2
		  AND ws.completed AND NOT ws.skipped AND NOT ws.is_warmup
		  AND ws.rir <= $3
		ORDER BY s.started_at DESC, ws.set_order DESC
		LIMIT 1
	`, userID, exerciseID, models.MaxEffectiveRIR).Scan(
		&rec.WeightKg, &rec.Reps, &rec.RIR, &rec.TargetRIR, &rec.TargetReps, &rec.PerformedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying last performance: %w", err)
	}
	return &rec, nil
}
