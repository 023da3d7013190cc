package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/ironplan/internal/engine"
	"github.com/claude/ironplan/internal/models"
)

// EffectiveSetsByMuscle counts effective working sets per muscle group for
// sessions started in [start, end). A set credits the exercise's first
// primary muscle group.
func (db *DB) EffectiveSetsByMuscle(ctx context.Context, userID int, start, end time.Time) (map[models.MuscleGroup]int, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT e.primary_muscles[1], COUNT(*)
		FROM working_sets ws
		JOIN session_exercises se ON se.id = ws.session_exercise_id
		JOIN sessions s ON s.id = se.session_id
		JOIN exercises e ON e.id = se.exercise_id
		WHERE s.user_id = $1 AND s.deleted_at IS NULL
		  AND s.started_at >= $2 AND s.started_at < $3
		  AND ws.completed AND NOT ws.skipped AND NOT ws.is_warmup
		  AND ws.rir <= $4
		GROUP BY e.primary_muscles[1]
	`, userID, start, end, models.MaxEffectiveRIR)
	if err != nil {
		return nil, fmt.Errorf("querying effective sets: %w", err)
	}
	defer rows.Close()

	result := make(map[models.MuscleGroup]int)
	for rows.Next() {
		var mg models.MuscleGroup
		var count int
		if err := rows.Scan(&mg, &count); err != nil {
			return nil, fmt.Errorf("scanning set count: %w", err)
		}
		result[mg] = count
	}
	return result, rows.Err()
}

// LandmarkOverrides returns the user's per-muscle MEV/MRV overrides.
func (db *DB) LandmarkOverrides(ctx context.Context, userID int) (map[models.MuscleGroup]models.VolumeLandmark, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT muscle_group, mev, mrv FROM volume_landmarks WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying landmark overrides: %w", err)
	}
	defer rows.Close()

	result := make(map[models.MuscleGroup]models.VolumeLandmark)
	for rows.Next() {
		var mg models.MuscleGroup
		var lm models.VolumeLandmark
		if err := rows.Scan(&mg, &lm.MEV, &lm.MRV); err != nil {
			return nil, fmt.Errorf("scanning landmark: %w", err)
		}
		lm.MuscleGroup = mg
		result[mg] = lm
	}
	return result, rows.Err()
}

// UpsertLandmark stores a per-muscle MEV/MRV override.
func (db *DB) UpsertLandmark(ctx context.Context, userID int, lm models.VolumeLandmark) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO volume_landmarks (user_id, muscle_group, mev, mrv)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, muscle_group) DO UPDATE SET mev = $3, mrv = $4
	`, userID, lm.MuscleGroup, lm.MEV, lm.MRV)
	if err != nil {
		return fmt.Errorf("upserting landmark: %w", err)
	}
	return nil
}

// AverageReadiness returns the mean weighted readiness total over sessions
// started in [start, end), or nil when no scores exist in the range.
func (db *DB) AverageReadiness(ctx context.Context, userID int, start, end time.Time) (*float64, error) {
	var avg *float64
	err := db.Pool.QueryRow(ctx, `
		SELECT ROUND(AVG(0.4 * r.sleep + 0.3 * r.stress + 0.3 * r.doms)::numeric, 2)
		FROM readiness_scores r
		JOIN sessions s ON s.id = r.session_id
		WHERE r.user_id = $1 AND s.deleted_at IS NULL
		  AND s.started_at >= $2 AND s.started_at < $3
	`, userID, start, end).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("querying average readiness: %w", err)
	}
	return avg, nil
}

// WeeklyAverageE1RM returns weekly average estimated-1RM points per muscle
// group over effective sets in [start, end), weeks ascending. The estimate
// is the Epley/Brzycki mean, defined for 1-10 reps only.
func (db *DB) WeeklyAverageE1RM(ctx context.Context, userID int, start, end time.Time) (map[models.MuscleGroup][]engine.WeeklyE1RM, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT e.primary_muscles[1],
		       date_trunc('week', s.started_at AT TIME ZONE 'UTC') AS week_start,
		       AVG(CASE
		           WHEN ws.reps = 1 THEN ws.weight_kg
		           ELSE ROUND(((ws.weight_kg * (1 + ws.reps / 30.0)
		                      + ws.weight_kg * 36 / (37.0 - ws.reps)) / 2) * 2) / 2
		       END)
		FROM working_sets ws
		JOIN session_exercises se ON se.id = ws.session_exercise_id
		JOIN sessions s ON s.id = se.session_id
		JOIN exercises e ON e.id = se.exercise_id
		WHERE s.user_id = $1 AND s.deleted_at IS NULL
		  AND s.started_at >= $2 AND s.started_at < $3
		  AND ws.completed AND NOT ws.skipped AND NOT ws.is_warmup
		  AND ws.rir <= $4
		  AND ws.reps BETWEEN 1 AND 10
		GROUP BY e.primary_muscles[1], week_start
		ORDER BY e.primary_muscles[1], week_start
	`, userID, start, end, models.MaxEffectiveRIR)
	if err != nil {
		return nil, fmt.Errorf("querying weekly e1rm: %w", err)
	}
	defer rows.Close()

	result := make(map[models.MuscleGroup][]engine.WeeklyE1RM)
	for rows.Next() {
		var mg models.MuscleGroup
		var point engine.WeeklyE1RM
		if err := rows.Scan(&mg, &point.WeekStart, &point.AvgE1RM); err != nil {
			return nil, fmt.Errorf("scanning weekly e1rm: %w", err)
		}
		point.WeekStart = point.WeekStart.UTC()
		result[mg] = append(result[mg], point)
	}
	return result, rows.Err()
}
