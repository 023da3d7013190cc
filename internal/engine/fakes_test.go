package engine

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/ironplan/internal/models"
	"github.com/google/uuid"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.DiscardHandler)
}

// fakeAnalytics serves canned aggregates and counts how often each query
// runs, so cache behavior is observable.
type fakeAnalytics struct {
	setsByWeek map[time.Time]map[models.MuscleGroup]int
	overrides  map[models.MuscleGroup]models.VolumeLandmark
	readiness  *float64
	trends     map[models.MuscleGroup][]WeeklyE1RM

	setsCalls      int
	overridesCalls int
}

func (f *fakeAnalytics) EffectiveSetsByMuscle(_ context.Context, _ int, start, _ time.Time) (map[models.MuscleGroup]int, error) {
	f.setsCalls++
	return f.setsByWeek[start], nil
}

func (f *fakeAnalytics) LandmarkOverrides(context.Context, int) (map[models.MuscleGroup]models.VolumeLandmark, error) {
	f.overridesCalls++
	return f.overrides, nil
}

func (f *fakeAnalytics) AverageReadiness(context.Context, int, time.Time, time.Time) (*float64, error) {
	return f.readiness, nil
}

func (f *fakeAnalytics) WeeklyAverageE1RM(context.Context, int, time.Time, time.Time) (map[models.MuscleGroup][]WeeklyE1RM, error) {
	return f.trends, nil
}

// fakePerf returns a fixed last-performance record.
type fakePerf struct {
	record *models.PerformanceRecord
}

func (f *fakePerf) LastEffectivePerformance(context.Context, int, uuid.UUID) (*models.PerformanceRecord, error) {
	return f.record, nil
}

// fakeNutrition serves canned profile/intake/weight data.
type fakeNutrition struct {
	profile models.BodyProfile
	intake  []models.DailyIntake
	weights []models.WeightSample
}

func (f *fakeNutrition) DailyIntake(context.Context, int, time.Time, time.Time) ([]models.DailyIntake, error) {
	return f.intake, nil
}

func (f *fakeNutrition) BodyWeightSeries(context.Context, int, time.Time, time.Time) ([]models.WeightSample, error) {
	return f.weights, nil
}

func (f *fakeNutrition) BodyProfile(context.Context, int) (*models.BodyProfile, error) {
	p := f.profile
	return &p, nil
}

// fakeSessionStore is a minimal in-memory SessionStore.
type fakeSessionStore struct {
	active   *models.Session
	sessions map[uuid.UUID]*models.Session
	created  *models.Session

	maxPosition int
	maxOrder    int

	addedSets    []models.WorkingSet
	updatedSets  []models.WorkingSet
	warmups      []models.WarmupSet
	readiness    []models.ReadinessScore
	replacedWith uuid.UUID
	replacedFrom uuid.UUID
	lastState    *models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*models.Session)}
}

func (f *fakeSessionStore) ActiveSession(context.Context, int) (*models.Session, error) {
	return f.active, nil
}

func (f *fakeSessionStore) CreateSession(_ context.Context, s *models.Session, _ []models.PlannedExercise) error {
	f.created = s
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionStore) GetSession(_ context.Context, userID int, id uuid.UUID) (*models.Session, error) {
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return nil, models.ErrNotFound
	}
	c := *s
	return &c, nil
}

func (f *fakeSessionStore) UpdateSessionState(_ context.Context, s models.Session) error {
	f.lastState = &s
	f.sessions[s.ID] = &s
	return nil
}

func (f *fakeSessionStore) AddExercise(_ context.Context, _ int, se *models.SessionExercise) error {
	s := f.sessions[se.SessionID]
	s.Exercises = append(s.Exercises, *se)
	return nil
}

func (f *fakeSessionStore) RemoveExercise(_ context.Context, userID int, sessionID, seID uuid.UUID) error {
	s, ok := f.sessions[sessionID]
	if !ok || s.UserID != userID {
		return models.ErrNotFound
	}
	for i, se := range s.Exercises {
		if se.ID == seID {
			s.Exercises = append(s.Exercises[:i], s.Exercises[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeSessionStore) GetSessionExercise(_ context.Context, userID int, sessionID, seID uuid.UUID) (*models.SessionExercise, error) {
	s, ok := f.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, models.ErrNotFound
	}
	for i := range s.Exercises {
		if s.Exercises[i].ID == seID {
			c := s.Exercises[i]
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeSessionStore) ReplaceExercise(_ context.Context, _ int, _, _ uuid.UUID, newID, origID uuid.UUID) error {
	f.replacedWith = newID
	f.replacedFrom = origID
	return nil
}

func (f *fakeSessionStore) MaxExercisePosition(context.Context, uuid.UUID) (int, error) {
	return f.maxPosition, nil
}

func (f *fakeSessionStore) AddSet(_ context.Context, _ int, _ uuid.UUID, set *models.WorkingSet) error {
	f.addedSets = append(f.addedSets, *set)
	return nil
}

func (f *fakeSessionStore) UpdateSet(_ context.Context, _ int, _ uuid.UUID, set models.WorkingSet) error {
	f.updatedSets = append(f.updatedSets, set)
	return nil
}

func (f *fakeSessionStore) DeleteSet(context.Context, int, uuid.UUID, uuid.UUID) error {
	return nil
}

func (f *fakeSessionStore) MaxSetOrder(context.Context, uuid.UUID) (int, error) {
	return f.maxOrder, nil
}

func (f *fakeSessionStore) AddWarmupSets(_ context.Context, _ int, _, _ uuid.UUID, sets []models.WarmupSet) error {
	f.warmups = append(f.warmups, sets...)
	return nil
}

func (f *fakeSessionStore) UpsertReadiness(_ context.Context, score models.ReadinessScore) error {
	f.readiness = append(f.readiness, score)
	return nil
}

// fakePlanStore returns a fixed plan-day prescription list.
type fakePlanStore struct {
	planned []models.PlannedExercise
}

func (f *fakePlanStore) PlannedExercisesForDay(context.Context, uuid.UUID) ([]models.PlannedExercise, error) {
	return f.planned, nil
}

// fakeExerciseStore is an in-memory exercise catalog plus equipment profile.
type fakeExerciseStore struct {
	catalog   map[uuid.UUID]models.Exercise
	equipment []models.Equipment
}

func (f *fakeExerciseStore) GetExercise(_ context.Context, id uuid.UUID) (*models.Exercise, error) {
	ex, ok := f.catalog[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &ex, nil
}

func (f *fakeExerciseStore) ListByPattern(_ context.Context, pattern models.MovementPattern) ([]models.Exercise, error) {
	var out []models.Exercise
	for _, ex := range f.catalog {
		if ex.MovementPattern == pattern {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (f *fakeExerciseStore) UserEquipment(context.Context, int) ([]models.Equipment, error) {
	return f.equipment, nil
}
