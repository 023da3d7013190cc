package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/ironplan/internal/models"
	"github.com/google/uuid"
)

// StartRequest carries the optional plan linkage for a session start.
type StartRequest struct {
	MesocycleID *uuid.UUID
	PlanDayID   *uuid.UUID
	WeekIndex   *int
}

// SetInput is the caller-supplied data for a logged set.
type SetInput struct {
	WeightKg  float64
	Reps      int
	RIR       float64
	RestSec   *int
	Note      *string
	Completed bool
	Skipped   bool
}

// Sessions owns the session lifecycle: creation, exercise and set mutation,
// substitution, readiness recording, and the terminal transitions. It is the
// write path that the aggregate engines later read from.
type Sessions struct {
	store     SessionStore
	plans     PlanStore
	exercises ExerciseStore
	log       *slog.Logger
	now       func() time.Time
}

// NewSessions creates the session service.
func NewSessions(store SessionStore, plans PlanStore, exercises ExerciseStore, log *slog.Logger) *Sessions {
	return &Sessions{store: store, plans: plans, exercises: exercises, log: log, now: time.Now}
}

// Start opens a new IN_PROGRESS session. It fails with
// models.ErrActiveSession when the user already has one live; when a
// plan-day is referenced, its prescriptions are copied into the session as
// ordered exercises with no sets. The uniqueness of the live session is
// re-checked here but strictly depends on the store's unique constraint.
func (s *Sessions) Start(ctx context.Context, userID int, req StartRequest) (*models.Session, error) {
	active, err := s.store.ActiveSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("checking active session: %w", err)
	}
	if active != nil {
		return nil, models.ErrActiveSession
	}

	session := &models.Session{
		ID:          uuid.New(),
		UserID:      userID,
		MesocycleID: req.MesocycleID,
		PlanDayID:   req.PlanDayID,
		WeekIndex:   req.WeekIndex,
		Status:      models.SessionInProgress,
		StartedAt:   s.now().UTC(),
	}

	var planned []models.PlannedExercise
	if req.PlanDayID != nil {
		planned, err = s.plans.PlannedExercisesForDay(ctx, *req.PlanDayID)
		if err != nil {
			return nil, fmt.Errorf("loading plan day: %w", err)
		}
		for _, pe := range planned {
			session.Exercises = append(session.Exercises, models.SessionExercise{
				ID:         uuid.New(),
				SessionID:  session.ID,
				ExerciseID: pe.ExerciseID,
				Position:   pe.Position,
			})
		}
	}

	if err := s.store.CreateSession(ctx, session, planned); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.log.Info("session started", "user_id", userID, "session_id", session.ID, "planned_exercises", len(session.Exercises))
	return session, nil
}

// Get returns a session with its exercises and sets.
func (s *Sessions) Get(ctx context.Context, userID int, sessionID uuid.UUID) (*models.Session, error) {
	return s.store.GetSession(ctx, userID, sessionID)
}

// Complete moves an IN_PROGRESS session to COMPLETED, deriving its duration
// and attaching trimmed notes. Status, finish time, duration, and notes are
// persisted in one write.
func (s *Sessions) Complete(ctx context.Context, userID int, sessionID uuid.UUID, notes string) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	done, err := session.Complete(s.now().UTC(), notes)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateSessionState(ctx, done); err != nil {
		return nil, fmt.Errorf("persisting completion: %w", err)
	}

	s.log.Info("session completed", "user_id", userID, "session_id", sessionID, "duration_min", *done.DurationMin)
	return &done, nil
}

// Abandon moves an IN_PROGRESS session to ABANDONED.
func (s *Sessions) Abandon(ctx context.Context, userID int, sessionID uuid.UUID) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	done, err := session.Abandon(s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateSessionState(ctx, done); err != nil {
		return nil, fmt.Errorf("persisting abandonment: %w", err)
	}

	s.log.Info("session abandoned", "user_id", userID, "session_id", sessionID)
	return &done, nil
}

// AddExercise appends an exercise instance at the next position.
func (s *Sessions) AddExercise(ctx context.Context, userID int, sessionID, exerciseID uuid.UUID) (*models.SessionExercise, error) {
	if _, err := s.store.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	if _, err := s.exercises.GetExercise(ctx, exerciseID); err != nil {
		return nil, err
	}

	pos, err := s.store.MaxExercisePosition(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("finding exercise position: %w", err)
	}

	se := &models.SessionExercise{
		ID:         uuid.New(),
		SessionID:  sessionID,
		ExerciseID: exerciseID,
		Position:   pos + 1,
	}
	if err := s.store.AddExercise(ctx, userID, se); err != nil {
		return nil, fmt.Errorf("adding exercise: %w", err)
	}
	return se, nil
}

// RemoveExercise deletes an exercise instance and everything it owns.
func (s *Sessions) RemoveExercise(ctx context.Context, userID int, sessionID, sessionExerciseID uuid.UUID) error {
	return s.store.RemoveExercise(ctx, userID, sessionID, sessionExerciseID)
}

// AddSet logs a working set against a session exercise, auto-assigning the
// next order index for that exercise.
func (s *Sessions) AddSet(ctx context.Context, userID int, sessionID, sessionExerciseID uuid.UUID, in SetInput) (*models.WorkingSet, error) {
	if _, err := s.store.GetSessionExercise(ctx, userID, sessionID, sessionExerciseID); err != nil {
		return nil, err
	}

	order, err := s.store.MaxSetOrder(ctx, sessionExerciseID)
	if err != nil {
		return nil, fmt.Errorf("finding set order: %w", err)
	}

	set := &models.WorkingSet{
		ID:                uuid.New(),
		SessionExerciseID: sessionExerciseID,
		SetOrder:          order + 1,
		WeightKg:          in.WeightKg,
		Reps:              in.Reps,
		RIR:               in.RIR,
		RestSec:           in.RestSec,
		Note:              in.Note,
		Completed:         in.Completed,
		Skipped:           in.Skipped,
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.AddSet(ctx, userID, sessionID, set); err != nil {
		return nil, fmt.Errorf("adding set: %w", err)
	}
	return set, nil
}

// UpdateSet overwrites a logged set's data in place, keeping its order.
func (s *Sessions) UpdateSet(ctx context.Context, userID int, sessionID, sessionExerciseID, setID uuid.UUID, in SetInput) (*models.WorkingSet, error) {
	se, err := s.store.GetSessionExercise(ctx, userID, sessionID, sessionExerciseID)
	if err != nil {
		return nil, err
	}

	var existing *models.WorkingSet
	for i := range se.Sets {
		if se.Sets[i].ID == setID {
			existing = &se.Sets[i]
			break
		}
	}
	if existing == nil {
		return nil, models.ErrNotFound
	}

	set := *existing
	set.WeightKg = in.WeightKg
	set.Reps = in.Reps
	set.RIR = in.RIR
	set.RestSec = in.RestSec
	set.Note = in.Note
	set.Completed = in.Completed
	set.Skipped = in.Skipped
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSet(ctx, userID, sessionID, set); err != nil {
		return nil, fmt.Errorf("updating set: %w", err)
	}
	return &set, nil
}

// DeleteSet removes a logged set.
func (s *Sessions) DeleteSet(ctx context.Context, userID int, sessionID, setID uuid.UUID) error {
	return s.store.DeleteSet(ctx, userID, sessionID, setID)
}

// AddWarmup generates a warm-up ramp for the given working weight and
// attaches it to the exercise instance. The ramp sets never count toward
// effective volume.
func (s *Sessions) AddWarmup(ctx context.Context, userID int, sessionID, sessionExerciseID uuid.UUID, workingWeight, barWeight float64) ([]models.WarmupSet, error) {
	if workingWeight <= 0 {
		return nil, models.Invalid("working weight must be positive")
	}
	if _, err := s.store.GetSessionExercise(ctx, userID, sessionID, sessionExerciseID); err != nil {
		return nil, err
	}

	ramp := WarmupRamp(workingWeight, barWeight)
	if len(ramp) == 0 {
		return nil, nil
	}
	if err := s.store.AddWarmupSets(ctx, userID, sessionID, sessionExerciseID, ramp); err != nil {
		return nil, fmt.Errorf("adding warmup sets: %w", err)
	}
	return ramp, nil
}

// RecordReadiness upserts the session's readiness score.
func (s *Sessions) RecordReadiness(ctx context.Context, userID int, sessionID uuid.UUID, sleep, stress, doms int) (*models.ReadinessScore, error) {
	if _, err := s.store.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	score, err := models.NewReadinessScore(sessionID, userID, sleep, stress, doms)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertReadiness(ctx, score); err != nil {
		return nil, fmt.Errorf("upserting readiness: %w", err)
	}
	return &score, nil
}

// SubstituteCandidates computes the valid replacements for an exercise:
// same movement pattern, different identity, usable under the user's
// equipment profile, and sharing at least one primary muscle.
func (s *Sessions) SubstituteCandidates(ctx context.Context, userID int, exerciseID uuid.UUID) ([]models.Exercise, error) {
	original, err := s.exercises.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	siblings, err := s.exercises.ListByPattern(ctx, original.MovementPattern)
	if err != nil {
		return nil, fmt.Errorf("listing pattern siblings: %w", err)
	}
	equipment, err := s.exercises.UserEquipment(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading equipment profile: %w", err)
	}
	available := make(map[models.Equipment]struct{}, len(equipment))
	for _, e := range equipment {
		available[e] = struct{}{}
	}

	var candidates []models.Exercise
	for _, ex := range siblings {
		if ex.ID == original.ID {
			continue
		}
		if _, ok := available[ex.Equipment]; !ok {
			continue
		}
		if !ex.SharesPrimaryMuscle(*original) {
			continue
		}
		candidates = append(candidates, ex)
	}
	return candidates, nil
}

// Substitute replaces an exercise instance's exercise with a valid
// substitute, keeping all recorded sets and remembering the original.
func (s *Sessions) Substitute(ctx context.Context, userID int, sessionID, sessionExerciseID, newExerciseID uuid.UUID) error {
	se, err := s.store.GetSessionExercise(ctx, userID, sessionID, sessionExerciseID)
	if err != nil {
		return err
	}
	if se.ExerciseID == newExerciseID {
		return models.Invalid("cannot substitute an exercise with itself")
	}

	candidates, err := s.SubstituteCandidates(ctx, userID, se.ExerciseID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Invalid("original exercise is not in the catalog")
		}
		return err
	}

	valid := false
	for _, c := range candidates {
		if c.ID == newExerciseID {
			valid = true
			break
		}
	}
	if !valid {
		return models.Invalid("exercise is not a valid substitute")
	}

	if err := s.store.ReplaceExercise(ctx, userID, sessionID, sessionExerciseID, newExerciseID, se.ExerciseID); err != nil {
		return fmt.Errorf("substituting exercise: %w", err)
	}
	s.log.Info("exercise substituted", "user_id", userID, "session_id", sessionID, "from", se.ExerciseID, "to", newExerciseID)
	return nil
}
