package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/claude/ironplan/internal/models"
	"golang.org/x/sync/errgroup"
)

// TrendDirection is the short-term strength trend for a muscle group.
type TrendDirection string

const (
	TrendImproving TrendDirection = "IMPROVING"
	TrendStalled   TrendDirection = "STALLED"
	TrendWorsening TrendDirection = "WORSENING"
)

// Deload reason strings surfaced to the caller.
const (
	ReasonVolumeAboveMRV = "volume above MRV for 2+ weeks"
	ReasonRegression     = "performance regression"
	ReasonStagnation     = "stagnation with elevated volume"
	ReasonLowReadiness   = "sustained low readiness"
)

const (
	deloadVolumeWeeks     = 3
	deloadReadinessDays   = 14
	lowReadinessAvgCutoff = 2.0
	trendWorseningCutoff  = 0.98
	trendImprovingCutoff  = 1.02
)

// DeloadRecommendation is the combined verdict with de-duplicated reasons
// and affected muscles. AvgReadiness is nil when no readiness data exists in
// the window.
type DeloadRecommendation struct {
	NeedsDeload     bool                 `json:"needs_deload"`
	Reasons         []string             `json:"reasons"`
	AffectedMuscles []models.MuscleGroup `json:"affected_muscles"`
	AvgReadiness    *float64             `json:"avg_readiness,omitempty"`
}

// DeloadEngine combines volume history, readiness history, and strength
// trends into a single deload verdict.
type DeloadEngine struct {
	volume *VolumeEngine
	store  AnalyticsStore
	log    *slog.Logger
	now    func() time.Time
}

// NewDeloadEngine creates the deload heuristic over the volume engine and
// the analytics store.
func NewDeloadEngine(volume *VolumeEngine, store AnalyticsStore, log *slog.Logger) *DeloadEngine {
	return &DeloadEngine{volume: volume, store: store, log: log, now: time.Now}
}

// Check evaluates the deload heuristic for a user. The three history reads
// are independent and issued concurrently.
func (d *DeloadEngine) Check(ctx context.Context, userID int) (*DeloadRecommendation, error) {
	now := d.now().UTC()
	trendStart, _ := WeekBounds(now, deloadVolumeWeeks-1)

	var (
		history      []WeeklyVolumeSnapshot
		avgReadiness *float64
		trends       map[models.MuscleGroup][]WeeklyE1RM
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = d.volume.History(gctx, userID, deloadVolumeWeeks)
		if err != nil {
			return fmt.Errorf("loading volume history: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		avgReadiness, err = d.store.AverageReadiness(gctx, userID, now.AddDate(0, 0, -deloadReadinessDays), now)
		if err != nil {
			return fmt.Errorf("loading readiness average: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		trends, err = d.store.WeeklyAverageE1RM(gctx, userID, trendStart, now)
		if err != nil {
			return fmt.Errorf("loading strength trend: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reasons := make(map[string]struct{})
	affected := make(map[models.MuscleGroup]struct{})

	for _, mg := range models.AllMuscleGroups {
		weeksAboveMRV := 0
		for _, snap := range history {
			for _, mv := range snap.Muscles {
				if mv.MuscleGroup == mg && mv.Status == models.VolumeAboveMRV {
					weeksAboveMRV++
				}
			}
		}
		if weeksAboveMRV >= 2 {
			reasons[ReasonVolumeAboveMRV] = struct{}{}
			affected[mg] = struct{}{}
		}

		trend := classifyTrend(trends[mg])
		switch {
		case trend == TrendWorsening:
			reasons[ReasonRegression] = struct{}{}
			affected[mg] = struct{}{}
		case trend == TrendStalled && weeksAboveMRV >= 1:
			// A muscle can legitimately carry both this and the MRV reason.
			reasons[ReasonStagnation] = struct{}{}
			affected[mg] = struct{}{}
		}
	}

	if avgReadiness != nil && *avgReadiness < lowReadinessAvgCutoff {
		reasons[ReasonLowReadiness] = struct{}{}
	}

	rec := &DeloadRecommendation{
		NeedsDeload:  len(reasons) > 0,
		AvgReadiness: avgReadiness,
	}
	for r := range reasons {
		rec.Reasons = append(rec.Reasons, r)
	}
	sort.Strings(rec.Reasons)
	for mg := range affected {
		rec.AffectedMuscles = append(rec.AffectedMuscles, mg)
	}
	sort.Slice(rec.AffectedMuscles, func(i, j int) bool { return rec.AffectedMuscles[i] < rec.AffectedMuscles[j] })

	if rec.NeedsDeload {
		d.log.Info("deload recommended", "user_id", userID, "reasons", rec.Reasons, "muscles", len(rec.AffectedMuscles))
	}
	return rec, nil
}

// classifyTrend compares the latest weekly average 1RM to the mean of all
// prior weekly averages. Fewer than two points default to STALLED.
func classifyTrend(points []WeeklyE1RM) TrendDirection {
	if len(points) < 2 {
		return TrendStalled
	}

	latest := points[len(points)-1].AvgE1RM
	var priorSum float64
	for _, p := range points[:len(points)-1] {
		priorSum += p.AvgE1RM
	}
	priorMean := priorSum / float64(len(points)-1)
	if priorMean == 0 {
		return TrendStalled
	}

	ratio := latest / priorMean
	switch {
	case ratio < trendWorseningCutoff:
		return TrendWorsening
	case ratio > trendImprovingCutoff:
		return TrendImproving
	default:
		return TrendStalled
	}
}
