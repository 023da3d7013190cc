package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/ironplan/internal/models"
)

// MaxHistoryWeeks bounds how far back a history or heatmap request may
// reach; each week costs one aggregate query on a cache miss.
const MaxHistoryWeeks = 52

// MuscleVolume is one muscle group's effective-set count for a week,
// classified against its landmarks.
type MuscleVolume struct {
	MuscleGroup   models.MuscleGroup  `json:"muscle_group"`
	EffectiveSets int                 `json:"effective_sets"`
	MEV           int                 `json:"mev"`
	MRV           int                 `json:"mrv"`
	Status        models.VolumeStatus `json:"status"`
}

// WeeklyVolumeSnapshot is the per-muscle volume picture for one ISO week.
type WeeklyVolumeSnapshot struct {
	WeekStart time.Time      `json:"week_start"`
	WeekEnd   time.Time      `json:"week_end"`
	Muscles   []MuscleVolume `json:"muscles"`
}

// HeatmapWeek is one week column of the muscle-group heatmap.
type HeatmapWeek struct {
	WeekStart time.Time                          `json:"week_start"`
	Cells     map[models.MuscleGroup]HeatmapCell `json:"cells"`
}

// HeatmapCell is the set count and classification for one muscle in one week.
type HeatmapCell struct {
	EffectiveSets int                 `json:"effective_sets"`
	Status        models.VolumeStatus `json:"status"`
}

// VolumeEngine aggregates effective sets into weekly per-muscle snapshots
// and classifies them against MEV/MRV landmarks. Snapshots cache for five
// minutes per (user, week-offset) key.
type VolumeEngine struct {
	store AnalyticsStore
	cache *snapshotCache
	log   *slog.Logger
	now   func() time.Time
}

// NewVolumeEngine creates the volume engine with its snapshot cache.
func NewVolumeEngine(store AnalyticsStore, log *slog.Logger) *VolumeEngine {
	return &VolumeEngine{
		store: store,
		cache: newSnapshotCache(),
		log:   log,
		now:   time.Now,
	}
}

// WeekBounds returns the UTC Monday-to-Monday bounds of the ISO week
// weekOffset weeks before the one containing now. Offset 0 is the current
// week, regardless of caller locale.
func WeekBounds(now time.Time, weekOffset int) (start, end time.Time) {
	now = now.UTC()
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -daysSinceMonday-7*weekOffset)
	return monday, monday.AddDate(0, 0, 7)
}

// WeeklySnapshot computes (or serves from cache) one week's per-muscle
// volume classification. Every tracked muscle group appears, including the
// untrained ones.
func (v *VolumeEngine) WeeklySnapshot(ctx context.Context, userID, weekOffset int) (*WeeklyVolumeSnapshot, error) {
	key := fmt.Sprintf("volume::%d::%d", userID, weekOffset)
	var cached WeeklyVolumeSnapshot
	if v.cache.get(key, &cached) {
		return &cached, nil
	}

	start, end := WeekBounds(v.now(), weekOffset)

	sets, err := v.store.EffectiveSetsByMuscle(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregating effective sets: %w", err)
	}
	overrides, err := v.store.LandmarkOverrides(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading landmark overrides: %w", err)
	}

	snapshot := &WeeklyVolumeSnapshot{WeekStart: start, WeekEnd: end}
	for _, mg := range models.AllMuscleGroups {
		l := models.LandmarkFor(overrides, mg)
		count := sets[mg]
		snapshot.Muscles = append(snapshot.Muscles, MuscleVolume{
			MuscleGroup:   mg,
			EffectiveSets: count,
			MEV:           l.MEV,
			MRV:           l.MRV,
			Status:        l.Classify(count),
		})
	}

	v.cache.set(key, snapshot)
	return snapshot, nil
}

// History returns the last weeks snapshots, oldest first (offsets weeks-1
// down to 0). Each week is independently cacheable.
func (v *VolumeEngine) History(ctx context.Context, userID, weeks int) ([]WeeklyVolumeSnapshot, error) {
	if weeks < 1 {
		return nil, models.Invalid("history must cover at least one week")
	}
	if weeks > MaxHistoryWeeks {
		return nil, models.Invalid("history must not exceed %d weeks", MaxHistoryWeeks)
	}
	history := make([]WeeklyVolumeSnapshot, 0, weeks)
	for offset := weeks - 1; offset >= 0; offset-- {
		snap, err := v.WeeklySnapshot(ctx, userID, offset)
		if err != nil {
			return nil, err
		}
		history = append(history, *snap)
	}
	return history, nil
}

// Heatmap returns a muscle-by-week grid over the last weeks, oldest week
// first, with its own five-minute cache per (user, weeks) key.
func (v *VolumeEngine) Heatmap(ctx context.Context, userID, weeks int) ([]HeatmapWeek, error) {
	if weeks < 1 {
		return nil, models.Invalid("heatmap must cover at least one week")
	}
	if weeks > MaxHistoryWeeks {
		return nil, models.Invalid("heatmap must not exceed %d weeks", MaxHistoryWeeks)
	}

	key := fmt.Sprintf("heatmap::%d::%d", userID, weeks)
	var cached []HeatmapWeek
	if v.cache.get(key, &cached) {
		return cached, nil
	}

	history, err := v.History(ctx, userID, weeks)
	if err != nil {
		return nil, err
	}

	grid := make([]HeatmapWeek, 0, len(history))
	for _, snap := range history {
		week := HeatmapWeek{WeekStart: snap.WeekStart, Cells: make(map[models.MuscleGroup]HeatmapCell, len(snap.Muscles))}
		for _, mv := range snap.Muscles {
			week.Cells[mv.MuscleGroup] = HeatmapCell{EffectiveSets: mv.EffectiveSets, Status: mv.Status}
		}
		grid = append(grid, week)
	}

	v.cache.set(key, grid)
	return grid, nil
}
