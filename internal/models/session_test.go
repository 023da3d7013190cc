package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSession_Complete verifies the happy path: status, finish time, derived
// duration, and trimmed notes.
func TestSession_Complete(t *testing.T) {
	start := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	s := Session{Status: SessionInProgress, StartedAt: start}

	done, err := s.Complete(start.Add(62*time.Minute+40*time.Second), "  solid session  ")
	require.NoError(t, err)

	assert.Equal(t, SessionCompleted, done.Status)
	require.NotNil(t, done.FinishedAt)
	require.NotNil(t, done.DurationMin)
	assert.Equal(t, 63, *done.DurationMin)
	require.NotNil(t, done.Notes)
	assert.Equal(t, "solid session", *done.Notes)
}

// TestSession_Complete_WrongStatus verifies that completion is only valid
// from IN_PROGRESS; terminal states stay terminal.
func TestSession_Complete_WrongStatus(t *testing.T) {
	for _, status := range []SessionStatus{SessionPlanned, SessionCompleted, SessionAbandoned} {
		s := Session{Status: status, StartedAt: time.Now()}
		_, err := s.Complete(time.Now(), "")
		require.Error(t, err, "status %s", status)
		assert.True(t, IsStateError(err))
	}
}

// TestSession_Complete_NotesTooLong verifies the 1000-char notes bound
// counts characters rather than bytes.
func TestSession_Complete_NotesTooLong(t *testing.T) {
	s := Session{Status: SessionInProgress, StartedAt: time.Now()}
	_, err := s.Complete(time.Now(), strings.Repeat("a", MaxSessionNotesLen+1))
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = s.Complete(time.Now(), strings.Repeat("ü", MaxSessionNotesLen+1))
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	done, err := s.Complete(time.Now(), strings.Repeat("ü", MaxSessionNotesLen))
	require.NoError(t, err, "multibyte notes at the limit must pass")
	require.NotNil(t, done.Notes)
}

// TestSession_Complete_ClockSkew verifies the duration is clamped at zero
// when the finish timestamp precedes the start.
func TestSession_Complete_ClockSkew(t *testing.T) {
	start := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	s := Session{Status: SessionInProgress, StartedAt: start}

	done, err := s.Complete(start.Add(-5*time.Minute), "")
	require.NoError(t, err)
	require.NotNil(t, done.DurationMin)
	assert.Equal(t, 0, *done.DurationMin)
}

// TestSession_Abandon verifies abandonment derives a duration but leaves
// notes alone.
func TestSession_Abandon(t *testing.T) {
	start := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	note := "pre-existing"
	s := Session{Status: SessionInProgress, StartedAt: start, Notes: &note}

	done, err := s.Abandon(start.Add(20 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, SessionAbandoned, done.Status)
	require.NotNil(t, done.DurationMin)
	assert.Equal(t, 20, *done.DurationMin)
	assert.Equal(t, &note, done.Notes)

	_, err = done.Abandon(start.Add(30 * time.Minute))
	assert.True(t, IsStateError(err), "abandoning twice must fail")
}
