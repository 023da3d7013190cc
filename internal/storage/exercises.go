package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/ironplan/internal/models"
	"github.com/google/uuid"
)

// GetExercise returns one catalog entry.
func (db *DB) GetExercise(ctx context.Context, exerciseID uuid.UUID) (*models.Exercise, error) {
	var e models.Exercise
	var primary, secondary []string
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, movement_pattern, equipment, primary_muscles, secondary_muscles
		FROM exercises
		WHERE id = $1
	`, exerciseID).Scan(&e.ID, &e.Name, &e.MovementPattern, &e.Equipment, &primary, &secondary)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying exercise: %w", err)
	}
	e.PrimaryMuscles = toMuscleGroups(primary)
	e.SecondaryMuscles = toMuscleGroups(secondary)
	return &e, nil
}

// ListByPattern returns the catalog entries sharing a movement pattern.
func (db *DB) ListByPattern(ctx context.Context, pattern models.MovementPattern) ([]models.Exercise, error) {
	return db.queryExercises(ctx, `
		SELECT id, name, movement_pattern, equipment, primary_muscles, secondary_muscles
		FROM exercises
		WHERE movement_pattern = $1
		ORDER BY name
	`, pattern)
}

// ListExercises returns the whole catalog, ordered by name.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	return db.queryExercises(ctx, `
		SELECT id, name, movement_pattern, equipment, primary_muscles, secondary_muscles
		FROM exercises
		ORDER BY name
	`)
}

func (db *DB) queryExercises(ctx context.Context, query string, args ...any) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		var primary, secondary []string
		if err := rows.Scan(&e.ID, &e.Name, &e.MovementPattern, &e.Equipment, &primary, &secondary); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		e.PrimaryMuscles = toMuscleGroups(primary)
		e.SecondaryMuscles = toMuscleGroups(secondary)
		result = append(result, e)
	}
	return result, rows.Err()
}

// UserEquipment returns the user's active equipment profile.
func (db *DB) UserEquipment(ctx context.Context, userID int) ([]models.Equipment, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT equipment FROM user_equipment WHERE user_id = $1 ORDER BY equipment
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying user equipment: %w", err)
	}
	defer rows.Close()

	var result []models.Equipment
	for rows.Next() {
		var e models.Equipment
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scanning equipment: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// SetUserEquipment replaces the user's equipment profile in one transaction.
func (db *DB) SetUserEquipment(ctx context.Context, userID int, equipment []models.Equipment) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_equipment WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clearing equipment: %w", err)
	}
	for _, e := range equipment {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_equipment (user_id, equipment) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, userID, e); err != nil {
			return fmt.Errorf("inserting equipment: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func toMuscleGroups(raw []string) []models.MuscleGroup {
	if len(raw) == 0 {
		return nil
	}
	out := make([]models.MuscleGroup, len(raw))
	for i, m := range raw {
		out[i] = models.MuscleGroup(m)
	}
	return out
}
