package engine

import (
	"context"
	"testing"
	"time"

	"github.com/claude/ironplan/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWeekBounds verifies the Monday-to-Monday UTC window at several anchor
// points, including a Monday and a Sunday.
func TestWeekBounds(t *testing.T) {
	cases := []struct {
		name      string
		now       time.Time
		offset    int
		wantStart time.Time
	}{
		{
			name:      "midweek",
			now:       time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC), // Wednesday
			offset:    0,
			wantStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "monday stays in its own week",
			now:       time.Date(2026, 3, 2, 0, 0, 1, 0, time.UTC),
			offset:    0,
			wantStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "sunday belongs to the preceding monday",
			now:       time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC),
			offset:    0,
			wantStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "one week back",
			now:       time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
			offset:    1,
			wantStart: time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "non-UTC caller is normalized",
			now:       time.Date(2026, 3, 2, 0, 30, 0, 0, time.FixedZone("CET", 3600)), // still Sunday in UTC
			offset:    0,
			wantStart: time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := WeekBounds(tc.now, tc.offset)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantStart.AddDate(0, 0, 7), end)
		})
	}
}

// TestVolumeEngine_WeeklySnapshot verifies classification against defaults
// and overrides, and that untrained groups still appear.
func TestVolumeEngine_WeeklySnapshot(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	weekStart, _ := WeekBounds(now, 0)

	store := &fakeAnalytics{
		setsByWeek: map[time.Time]map[models.MuscleGroup]int{
			weekStart: {
				models.MuscleChest: 25, // above default MRV 22
				models.MuscleBack:  12, // within 10-25
				models.MuscleQuads: 3,  // below overridden MEV 6
			},
		},
		overrides: map[models.MuscleGroup]models.VolumeLandmark{
			models.MuscleQuads: {UserID: 1, MuscleGroup: models.MuscleQuads, MEV: 6, MRV: 14},
		},
	}

	v := NewVolumeEngine(store, testLogger(t))
	v.now = func() time.Time { return now }

	snap, err := v.WeeklySnapshot(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, snap.Muscles, len(models.AllMuscleGroups))
	assert.Equal(t, weekStart, snap.WeekStart)

	byMuscle := make(map[models.MuscleGroup]MuscleVolume)
	for _, mv := range snap.Muscles {
		byMuscle[mv.MuscleGroup] = mv
	}

	assert.Equal(t, models.VolumeAboveMRV, byMuscle[models.MuscleChest].Status)
	assert.Equal(t, models.VolumeWithinRange, byMuscle[models.MuscleBack].Status)
	assert.Equal(t, models.VolumeBelowMEV, byMuscle[models.MuscleQuads].Status)
	assert.Equal(t, 14, byMuscle[models.MuscleQuads].MRV, "override should win")
	assert.Equal(t, models.VolumeBelowMEV, byMuscle[models.MuscleCalves].Status, "untrained group at zero sets")
}

// TestVolumeEngine_SnapshotCache verifies the second read of the same
// (user, week-offset) key is served without touching the store.
func TestVolumeEngine_SnapshotCache(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	store := &fakeAnalytics{}

	v := NewVolumeEngine(store, testLogger(t))
	v.now = func() time.Time { return now }

	_, err := v.WeeklySnapshot(context.Background(), 1, 0)
	require.NoError(t, err)
	first := store.setsCalls

	_, err = v.WeeklySnapshot(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, first, store.setsCalls, "cached snapshot must not re-query")

	// A different user misses the cache.
	_, err = v.WeeklySnapshot(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, first+1, store.setsCalls)
}

// TestVolumeEngine_History verifies N snapshots come back oldest first.
func TestVolumeEngine_History(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	v := NewVolumeEngine(&fakeAnalytics{}, testLogger(t))
	v.now = func() time.Time { return now }

	history, err := v.History(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i-1].WeekStart.Before(history[i].WeekStart), "history must be oldest first")
	}

	_, err = v.History(context.Background(), 1, 0)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

// TestVolumeEngine_HistoryBounded verifies an oversized window is rejected
// before issuing per-week queries, for both history and heatmap.
func TestVolumeEngine_HistoryBounded(t *testing.T) {
	store := &fakeAnalytics{}
	v := NewVolumeEngine(store, testLogger(t))

	_, err := v.History(context.Background(), 1, MaxHistoryWeeks+1)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	_, err = v.Heatmap(context.Background(), 1, 10000)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	assert.Zero(t, store.setsCalls, "rejected window must not hit the store")
}

// TestVolumeEngine_Heatmap verifies the grid shape and its own cache key.
func TestVolumeEngine_Heatmap(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	store := &fakeAnalytics{}
	v := NewVolumeEngine(store, testLogger(t))
	v.now = func() time.Time { return now }

	grid, err := v.Heatmap(context.Background(), 1, 4)
	require.NoError(t, err)
	require.Len(t, grid, 4)
	for _, week := range grid {
		assert.Len(t, week.Cells, len(models.AllMuscleGroups))
	}

	calls := store.setsCalls
	_, err = v.Heatmap(context.Background(), 1, 4)
	require.NoError(t, err)
	assert.Equal(t, calls, store.setsCalls, "cached heatmap must not re-query")
}
