package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/claude/ironplan/internal/models"
)

// DailyIntake returns daily calorie totals in [start, end], dates ascending.
func (db *DB) DailyIntake(ctx context.Context, userID int, start, end time.Time) ([]models.DailyIntake, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT date, calories
		FROM nutrition_logs
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying intake: %w", err)
	}
	defer rows.Close()

	var result []models.DailyIntake
	for rows.Next() {
		var d models.DailyIntake
		if err := rows.Scan(&d.Date, &d.Calories); err != nil {
			return nil, fmt.Errorf("scanning intake: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// BodyWeightSeries returns body-weight samples in [start, end], dates
// ascending.
func (db *DB) BodyWeightSeries(ctx context.Context, userID int, start, end time.Time) ([]models.WeightSample, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT date, weight_kg
		FROM body_metrics
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying body weight: %w", err)
	}
	defer rows.Close()

	var result []models.WeightSample
	for rows.Next() {
		var w models.WeightSample
		if err := rows.Scan(&w.Date, &w.WeightKg); err != nil {
			return nil, fmt.Errorf("scanning body weight: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// BodyProfile returns the user's profile with the latest logged body weight
// attached. A user with no profile row gets the column defaults, so TDEE
// estimation always has something to work with.
func (db *DB) BodyProfile(ctx context.Context, userID int) (*models.BodyProfile, error) {
	p := models.BodyProfile{
		UserID:        userID,
		Sex:           models.SexMale,
		ActivityLevel: models.ActivitySedentary,
		BodyMode:      models.ModeMaintenance,
	}

	err := db.Pool.QueryRow(ctx, `
		SELECT sex, birth_date, height_cm, activity_level, body_mode
		FROM user_profiles
		WHERE user_id = $1
	`, userID).Scan(&p.Sex, &p.BirthDate, &p.HeightCm, &p.ActivityLevel, &p.BodyMode)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("querying profile: %w", err)
	}

	var weight *float64
	err = db.Pool.QueryRow(ctx, `
		SELECT weight_kg FROM body_metrics
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT 1
	`, userID).Scan(&weight)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("querying latest weight: %w", err)
	}
	p.WeightKg = weight

	return &p, nil
}

// UpsertProfile stores the user's static body metrics and goal.
func (db *DB) UpsertProfile(ctx context.Context, p models.BodyProfile) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO user_profiles (user_id, sex, birth_date, height_cm, activity_level, body_mode)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
			SET sex = $2, birth_date = $3, height_cm = $4, activity_level = $5, body_mode = $6
	`, p.UserID, p.Sex, p.BirthDate, p.HeightCm, p.ActivityLevel, p.BodyMode)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

// LogIntake upserts one day's calorie total.
func (db *DB) LogIntake(ctx context.Context, userID int, d models.DailyIntake) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO nutrition_logs (user_id, date, calories)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date) DO UPDATE SET calories = $3
	`, userID, d.Date, d.Calories)
	if err != nil {
		return fmt.Errorf("logging intake: %w", err)
	}
	return nil
}

// LogBodyWeight upserts one day's body-weight sample.
func (db *DB) LogBodyWeight(ctx context.Context, userID int, w models.WeightSample) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO body_metrics (user_id, date, weight_kg)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date) DO UPDATE SET weight_kg = $3
	`, userID, w.Date, w.WeightKg)
	if err != nil {
		return fmt.Errorf("logging body weight: %w", err)
	}
	return nil
}
