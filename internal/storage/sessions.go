package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/claude/ironplan/internal/models"
	"github.com/google/uuid"
)

const sessionColumns = `id, user_id, mesocycle_id, plan_day_id, week_index,
	status, started_at, finished_at, duration_min, notes`

// ActiveSession returns the user's IN_PROGRESS session, or nil when there is
// none. Exercises are not loaded; callers only need the existence check.
func (db *DB) ActiveSession(ctx context.Context, userID int) (*models.Session, error) {
	var s models.Session
	err := db.Pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE user_id = $1 AND status = 'IN_PROGRESS' AND deleted_at IS NULL
	`, userID).Scan(&s.ID, &s.UserID, &s.MesocycleID, &s.PlanDayID, &s.WeekIndex,
		&s.Status, &s.StartedAt, &s.FinishedAt, &s.DurationMin, &s.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying active session: %w", err)
	}
	return &s, nil
}

// CreateSession inserts a session and its plan-day exercise copies in one
// transaction. The partial unique index on (user_id) enforces the single
// live session even under concurrent starts.
func (db *DB) CreateSession(ctx context.Context, s *models.Session, planned []models.PlannedExercise) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO sessions (id, user_id, mesocycle_id, plan_day_id, week_index, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.UserID, s.MesocycleID, s.PlanDayID, s.WeekIndex, s.Status, s.StartedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrActiveSession
		}
		return fmt.Errorf("inserting session: %w", err)
	}

	for _, se := range s.Exercises {
		_, err = tx.Exec(ctx, `
			INSERT INTO session_exercises (id, session_id, exercise_id, position)
			VALUES ($1, $2, $3, $4)
		`, se.ID, se.SessionID, se.ExerciseID, se.Position)
		if err != nil {
			return fmt.Errorf("inserting session exercise: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetSession loads a session with its exercises, sets, and warm-up ramps.
func (db *DB) GetSession(ctx context.Context, userID int, sessionID uuid.UUID) (*models.Session, error) {
	var s models.Session
	err := db.Pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, sessionID, userID).Scan(&s.ID, &s.UserID, &s.MesocycleID, &s.PlanDayID, &s.WeekIndex,
		&s.Status, &s.StartedAt, &s.FinishedAt, &s.DurationMin, &s.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	exercises, err := db.loadSessionExercises(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.Exercises = exercises
	return &s, nil
}

func (db *DB) loadSessionExercises(ctx context.Context, sessionID uuid.UUID) ([]models.SessionExercise, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, session_id, exercise_id, position, original_exercise_id
		FROM session_exercises
		WHERE session_id = $1
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.SessionExercise
	byID := make(map[uuid.UUID]int)
	for rows.Next() {
		var se models.SessionExercise
		if err := rows.Scan(&se.ID, &se.SessionID, &se.ExerciseID, &se.Position, &se.OriginalExerciseID); err != nil {
			return nil, fmt.Errorf("scanning session exercise: %w", err)
		}
		byID[se.ID] = len(exercises)
		exercises = append(exercises, se)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(exercises) == 0 {
		return nil, nil
	}

	setRows, err := db.Pool.Query(ctx, `
		SELECT ws.id, ws.session_exercise_id, ws.set_order, ws.weight_kg, ws.reps,
		       ws.rir, ws.rest_sec, ws.note, ws.completed, ws.skipped, ws.is_warmup
		FROM working_sets ws
		JOIN session_exercises se ON se.id = ws.session_exercise_id
		WHERE se.session_id = $1
		ORDER BY ws.is_warmup DESC, ws.set_order
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var ws models.WorkingSet
		var isWarmup bool
		if err := setRows.Scan(&ws.ID, &ws.SessionExerciseID, &ws.SetOrder, &ws.WeightKg, &ws.Reps,
			&ws.RIR, &ws.RestSec, &ws.Note, &ws.Completed, &ws.Skipped, &isWarmup); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		i, ok := byID[ws.SessionExerciseID]
		if !ok {
			continue
		}
		if isWarmup {
			exercises[i].Warmups = append(exercises[i].Warmups, models.WarmupSet{
				SetOrder: ws.SetOrder, WeightKg: ws.WeightKg, Reps: ws.Reps,
			})
		} else {
			exercises[i].Sets = append(exercises[i].Sets, ws)
		}
	}
	return exercises, setRows.Err()
}

// UpdateSessionState persists a status transition in one write.
func (db *DB) UpdateSessionState(ctx context.Context, s models.Session) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE sessions
		SET status = $1, finished_at = $2, duration_min = $3, notes = $4
		WHERE id = $5 AND user_id = $6 AND deleted_at IS NULL
	`, s.Status, s.FinishedAt, s.DurationMin, s.Notes, s.ID, s.UserID)
	if err != nil {
		return fmt.Errorf("updating session state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AddExercise appends an exercise instance to a session.
func (db *DB) AddExercise(ctx context.Context, userID int, se *models.SessionExercise) error {
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO session_exercises (id, session_id, exercise_id, position)
		SELECT $1, s.id, $3, $4
		FROM sessions s
		WHERE s.id = $2 AND s.user_id = $5 AND s.deleted_at IS NULL
	`, se.ID, se.SessionID, se.ExerciseID, se.Position, userID)
	if err != nil {
		return fmt.Errorf("inserting session exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// RemoveExercise deletes an exercise instance; its sets cascade.
func (db *DB) RemoveExercise(ctx context.Context, userID int, sessionID, sessionExerciseID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM session_exercises se
		USING sessions s
		WHERE se.id = $1 AND se.session_id = $2
		  AND s.id = se.session_id AND s.user_id = $3 AND s.deleted_at IS NULL
	`, sessionExerciseID, sessionID, userID)
	if err != nil {
		return fmt.Errorf("deleting session exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetSessionExercise loads one exercise instance with its working sets.
func (db *DB) GetSessionExercise(ctx context.Context, userID int, sessionID, sessionExerciseID uuid.UUID) (*models.SessionExercise, error) {
	var se models.SessionExercise
	err := db.Pool.QueryRow(ctx, `
		SELECT se.id, se.session_id, se.exercise_id, se.position, se.original_exercise_id
		FROM session_exercises se
		JOIN sessions s ON s.id = se.session_id
		WHERE se.id = $1 AND se.session_id = $2 AND s.user_id = $3 AND s.deleted_at IS NULL
	`, sessionExerciseID, sessionID, userID).Scan(&se.ID, &se.SessionID, &se.ExerciseID, &se.Position, &se.OriginalExerciseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session exercise: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, session_exercise_id, set_order, weight_kg, reps, rir, rest_sec, note, completed, skipped
		FROM working_sets
		WHERE session_exercise_id = $1 AND NOT is_warmup
		ORDER BY set_order
	`, sessionExerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ws models.WorkingSet
		if err := rows.Scan(&ws.ID, &ws.SessionExerciseID, &ws.SetOrder, &ws.WeightKg, &ws.Reps,
			&ws.RIR, &ws.RestSec, &ws.Note, &ws.Completed, &ws.Skipped); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		se.Sets = append(se.Sets, ws)
	}
	return &se, rows.Err()
}

// ReplaceExercise swaps the exercise on an instance, remembering the
// original unless a substitution already recorded one.
func (db *DB) ReplaceExercise(ctx context.Context, userID int, sessionID, sessionExerciseID, newExerciseID, originalExerciseID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE session_exercises se
		SET exercise_id = $1,
		    original_exercise_id = COALESCE(se.original_exercise_id, $2)
		FROM sessions s
		WHERE se.id = $3 AND se.session_id = $4
		  AND s.id = se.session_id AND s.user_id = $5 AND s.deleted_at IS NULL
	`, newExerciseID, originalExerciseID, sessionExerciseID, sessionID, userID)
	if err != nil {
		return fmt.Errorf("replacing exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MaxExercisePosition returns the highest position in a session, 0 when empty.
func (db *DB) MaxExercisePosition(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var pos int
	err := db.Pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(position), 0) FROM session_exercises WHERE session_id = $1
	`, sessionID).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("querying max position: %w", err)
	}
	return pos, nil
}

// AddSet inserts a working set, verifying session ownership in the same
// statement.
func (db *DB) AddSet(ctx context.Context, userID int, sessionID uuid.UUID, set *models.WorkingSet) error {
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO working_sets (id, session_exercise_id, set_order, weight_kg, reps, rir, rest_sec, note, completed, skipped, is_warmup)
		SELECT $1, se.id, $3, $4, $5, $6, $7, $8, $9, $10, FALSE
		FROM session_exercises se
		JOIN sessions s ON s.id = se.session_id
		WHERE se.id = $2 AND s.id = $11 AND s.user_id = $12 AND s.deleted_at IS NULL
	`, set.ID, set.SessionExerciseID, set.SetOrder, set.WeightKg, set.Reps, set.RIR,
		set.RestSec, set.Note, set.Completed, set.Skipped, sessionID, userID)
	if err != nil {
		return fmt.Errorf("inserting set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateSet overwrites a logged set in place.
func (db *DB) UpdateSet(ctx context.Context, userID int, sessionID uuid.UUID, set models.WorkingSet) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE working_sets ws
		SET weight_kg = $1, reps = $2, rir = $3, rest_sec = $4, note = $5, completed = $6, skipped = $7
		FROM session_exercises se, sessions s
		WHERE ws.id = $8 AND NOT ws.is_warmup
		  AND se.id = ws.session_exercise_id
		  AND s.id = se.session_id AND s.id = $9 AND s.user_id = $10 AND s.deleted_at IS NULL
	`, set.WeightKg, set.Reps, set.RIR, set.RestSec, set.Note, set.Completed, set.Skipped,
		set.ID, sessionID, userID)
	if err != nil {
		return fmt.Errorf("updating set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteSet removes a logged set.
func (db *DB) DeleteSet(ctx context.Context, userID int, sessionID, setID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM working_sets ws
		USING session_exercises se, sessions s
		WHERE ws.id = $1
		  AND se.id = ws.session_exercise_id
		  AND s.id = se.session_id AND s.id = $2 AND s.user_id = $3 AND s.deleted_at IS NULL
	`, setID, sessionID, userID)
	if err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MaxSetOrder returns the highest working-set order for an exercise
// instance, 0 when none are logged. Warm-up rows keep their own sequence.
func (db *DB) MaxSetOrder(ctx context.Context, sessionExerciseID uuid.UUID) (int, error) {
	var order int
	err := db.Pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(set_order), 0)
		FROM working_sets
		WHERE session_exercise_id = $1 AND NOT is_warmup
	`, sessionExerciseID).Scan(&order)
	if err != nil {
		return 0, fmt.Errorf("querying max set order: %w", err)
	}
	return order, nil
}

// AddWarmupSets batch-inserts a warm-up ramp, replacing any previous ramp on
// the exercise instance.
func (db *DB) AddWarmupSets(ctx context.Context, userID int, sessionID, sessionExerciseID uuid.UUID, sets []models.WarmupSet) error {
	if len(sets) == 0 {
		return nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var ok bool
	err = tx.QueryRow(ctx, `
		SELECT TRUE
		FROM session_exercises se
		JOIN sessions s ON s.id = se.session_id
		WHERE se.id = $1 AND s.id = $2 AND s.user_id = $3 AND s.deleted_at IS NULL
	`, sessionExerciseID, sessionID, userID).Scan(&ok)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking exercise ownership: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM working_sets WHERE session_exercise_id = $1 AND is_warmup
	`, sessionExerciseID); err != nil {
		return fmt.Errorf("clearing previous ramp: %w", err)
	}

	// Ramps are at most four sets; row-at-a-time inside the transaction
	// keeps the statement readable.
	for _, ws := range sets {
		if _, err := tx.Exec(ctx, `
			INSERT INTO working_sets (id, session_exercise_id, set_order, weight_kg, reps, completed, is_warmup)
			VALUES ($1, $2, $3, $4, $5, TRUE, TRUE)
		`, uuid.New(), sessionExerciseID, ws.SetOrder, ws.WeightKg, ws.Reps); err != nil {
			return fmt.Errorf("inserting warmup set: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// UpsertReadiness inserts or overwrites the session's readiness score.
func (db *DB) UpsertReadiness(ctx context.Context, score models.ReadinessScore) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO readiness_scores (session_id, user_id, sleep, stress, doms)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE
			SET sleep = $3, stress = $4, doms = $5
	`, score.SessionID, score.UserID, score.Sleep, score.Stress, score.DOMS)
	if err != nil {
		return fmt.Errorf("upserting readiness: %w", err)
	}
	return nil
}

// ListSessions returns a user's recent sessions, newest first, without their
// exercises.
func (db *DB) ListSessions(ctx context.Context, userID, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY started_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.MesocycleID, &s.PlanDayID, &s.WeekIndex,
			&s.Status, &s.StartedAt, &s.FinishedAt, &s.DurationMin, &s.Notes); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// isUniqueViolation reports Postgres error 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
