// Package engine implements the training intelligence core: session
// lifecycle, autoregulated load suggestions, weekly volume classification,
// the deload heuristic, TDEE/macro targets, and warm-up ramps. All
// persistence goes through the narrow store contracts below; the engine
// itself is request-scoped and stateless apart from two snapshot caches.
package engine

import (
	"context"
	"time"

	"github.com/claude/ironplan/internal/models"
	"github.com/google/uuid"
)

// SessionStore is the write path for sessions and everything they own.
// All lookups are scoped to (user, session); a row owned by another user is
// reported as models.ErrNotFound.
type SessionStore interface {
	ActiveSession(ctx context.Context, userID int) (*models.Session, error)
	CreateSession(ctx context.Context, s *models.Session, planned []models.PlannedExercise) error
	GetSession(ctx context.Context, userID int, sessionID uuid.UUID) (*models.Session, error)
	UpdateSessionState(ctx context.Context, s models.Session) error

	AddExercise(ctx context.Context, userID int, se *models.SessionExercise) (err error)
	RemoveExercise(ctx context.Context, userID int, sessionID, sessionExerciseID uuid.UUID) error
	GetSessionExercise(ctx context.Context, userID int, sessionID, sessionExerciseID uuid.UUID) (*models.SessionExercise, error)
	ReplaceExercise(ctx context.Context, userID int, sessionID, sessionExerciseID, newExerciseID, originalExerciseID uuid.UUID) error
	MaxExercisePosition(ctx context.Context, sessionID uuid.UUID) (int, error)

	AddSet(ctx context.Context, userID int, sessionID uuid.UUID, set *models.WorkingSet) error
	UpdateSet(ctx context.Context, userID int, sessionID uuid.UUID, set models.WorkingSet) error
	DeleteSet(ctx context.Context, userID int, sessionID, setID uuid.UUID) error
	MaxSetOrder(ctx context.Context, sessionExerciseID uuid.UUID) (int, error)
	AddWarmupSets(ctx context.Context, userID int, sessionID, sessionExerciseID uuid.UUID, sets []models.WarmupSet) error

	UpsertReadiness(ctx context.Context, score models.ReadinessScore) error
}

// PlanStore reads plan-day prescriptions.
type PlanStore interface {
	PlannedExercisesForDay(ctx context.Context, planDayID uuid.UUID) ([]models.PlannedExercise, error)
}

// ExerciseStore reads the exercise catalog and per-user equipment profiles.
type ExerciseStore interface {
	GetExercise(ctx context.Context, exerciseID uuid.UUID) (*models.Exercise, error)
	ListByPattern(ctx context.Context, pattern models.MovementPattern) ([]models.Exercise, error)
	UserEquipment(ctx context.Context, userID int) ([]models.Equipment, error)
}

// PerformanceStore looks up the most recent effective performance for a
// (user, exercise) pair. A nil record with nil error means no history.
type PerformanceStore interface {
	LastEffectivePerformance(ctx context.Context, userID int, exerciseID uuid.UUID) (*models.PerformanceRecord, error)
}

// WeeklyE1RM is one week's average estimated 1RM for a muscle group,
// ordered ascending by week start.
type WeeklyE1RM struct {
	WeekStart time.Time `json:"week_start"`
	AvgE1RM   float64   `json:"avg_e1rm"`
}

// AnalyticsStore serves the aggregate reads behind the volume engine and the
// deload heuristic.
type AnalyticsStore interface {
	EffectiveSetsByMuscle(ctx context.Context, userID int, start, end time.Time) (map[models.MuscleGroup]int, error)
	LandmarkOverrides(ctx context.Context, userID int) (map[models.MuscleGroup]models.VolumeLandmark, error)
	AverageReadiness(ctx context.Context, userID int, start, end time.Time) (*float64, error)
	WeeklyAverageE1RM(ctx context.Context, userID int, start, end time.Time) (map[models.MuscleGroup][]WeeklyE1RM, error)
}

// NutritionStore serves the trailing intake and body-weight series the TDEE
// engine calibrates against.
type NutritionStore interface {
	DailyIntake(ctx context.Context, userID int, start, end time.Time) ([]models.DailyIntake, error)
	BodyWeightSeries(ctx context.Context, userID int, start, end time.Time) ([]models.WeightSample, error)
	BodyProfile(ctx context.Context, userID int) (*models.BodyProfile, error)
}
