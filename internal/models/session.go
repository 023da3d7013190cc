package models

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxSessionNotesLen bounds the free-text notes recorded on completion.
const MaxSessionNotesLen = 1000

// SessionStatus is the lifecycle state of a training session.
// Transitions are one-way: PLANNED -> IN_PROGRESS -> {COMPLETED, ABANDONED}.
type SessionStatus string

const (
	SessionPlanned    SessionStatus = "PLANNED"
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionCompleted  SessionStatus = "COMPLETED"
	SessionAbandoned  SessionStatus = "ABANDONED"
)

// Session is one training occurrence for a user. A user has at most one
// session with status IN_PROGRESS at a time.
type Session struct {
	ID          uuid.UUID     `json:"id"`
	UserID      int           `json:"user_id"`
	MesocycleID *uuid.UUID    `json:"mesocycle_id,omitempty"`
	PlanDayID   *uuid.UUID    `json:"plan_day_id,omitempty"`
	WeekIndex   *int          `json:"week_index,omitempty"`
	Status      SessionStatus `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
	DurationMin *int          `json:"duration_min,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
	DeletedAt   *time.Time    `json:"-"`

	Exercises []SessionExercise `json:"exercises,omitempty"`
}

// SessionExercise is an exercise instance inside a session, ordered by
// Position. OriginalExerciseID records the originally-planned exercise when
// the instance was substituted.
type SessionExercise struct {
	ID                 uuid.UUID  `json:"id"`
	SessionID          uuid.UUID  `json:"session_id"`
	ExerciseID         uuid.UUID  `json:"exercise_id"`
	Position           int        `json:"position"`
	OriginalExerciseID *uuid.UUID `json:"original_exercise_id,omitempty"`

	Sets    []WorkingSet `json:"sets,omitempty"`
	Warmups []WarmupSet  `json:"warmups,omitempty"`
}

// Complete returns a copy of the session moved to COMPLETED at now, with the
// trimmed notes attached and the duration derived from the start time.
// Only an IN_PROGRESS session can be completed.
func (s Session) Complete(now time.Time, notes string) (Session, error) {
	if s.Status != SessionInProgress {
		return Session{}, &StateError{Op: "complete", Status: s.Status}
	}
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > MaxSessionNotesLen {
		return Session{}, Invalid("session notes must not exceed %d characters", MaxSessionNotesLen)
	}

	s.Status = SessionCompleted
	s.FinishedAt = &now
	dur := durationMinutes(s.StartedAt, now)
	s.DurationMin = &dur
	if notes != "" {
		s.Notes = &notes
	}
	return s, nil
}

// Abandon returns a copy of the session moved to ABANDONED at now. The
// duration is derived the same way as on completion; notes are untouched.
func (s Session) Abandon(now time.Time) (Session, error) {
	if s.Status != SessionInProgress {
		return Session{}, &StateError{Op: "abandon", Status: s.Status}
	}
	s.Status = SessionAbandoned
	s.FinishedAt = &now
	dur := durationMinutes(s.StartedAt, now)
	s.DurationMin = &dur
	return s, nil
}

func durationMinutes(start, end time.Time) int {
	min := int(math.Round(end.Sub(start).Minutes()))
	if min < 0 {
		return 0
	}
	return min
}
