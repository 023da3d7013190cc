package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/claude/ironplan/internal/models"
)

// TDEE calibration window and bounds.
const (
	tdeeWindowDays  = 28
	tdeeMinDataDays = 14
	kcalPerKg       = 7700
	tdeeFloor       = 1200
	tdeeCeiling     = 6000
	calorieFloor    = 1200
	defaultWeightKg = 70.0
	defaultHeightCm = 170.0
	defaultAgeYears = 30
	minAgeYears     = 18
)

// Estimate confidence labels, ordered by available history.
const (
	ConfidenceEstimating  = "estimado"
	ConfidenceCalibrating = "calibrando"
	ConfidencePrecise     = "preciso"
)

// TDEEEstimate is the energy-expenditure estimate with its provenance.
type TDEEEstimate struct {
	TDEE           float64  `json:"tdee"`
	Method         string   `json:"method"` // "static" or "dynamic"
	Confidence     string   `json:"confidence"`
	AvgDailyIntake *float64 `json:"avg_daily_intake,omitempty"`
	WeightDeltaKg  *float64 `json:"weight_delta_kg,omitempty"`
}

// MacroTargets is the daily calorie and macro prescription for a body mode.
type MacroTargets struct {
	Mode     models.BodyMode `json:"mode"`
	Calories float64         `json:"calories"`
	ProteinG float64         `json:"protein_g"`
	FatG     float64         `json:"fat_g"`
	CarbsG   float64         `json:"carbs_g"`
}

// TDEEEngine estimates energy expenditure, preferring the adaptive estimate
// from trailing intake/weight history and falling back to Mifflin-St Jeor.
type TDEEEngine struct {
	store NutritionStore
	log   *slog.Logger
	now   func() time.Time
}

// NewTDEEEngine creates the TDEE engine over a nutrition/body-metric store.
func NewTDEEEngine(store NutritionStore, log *slog.Logger) *TDEEEngine {
	return &TDEEEngine{store: store, log: log, now: time.Now}
}

// Estimate returns the user's TDEE. With at least 14 days of both intake and
// weight data inside the trailing 28-day window the estimate is derived from
// observed energy balance; otherwise it falls back to the static formula.
func (t *TDEEEngine) Estimate(ctx context.Context, userID int) (*TDEEEstimate, error) {
	profile, err := t.store.BodyProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading body profile: %w", err)
	}

	now := t.now().UTC()
	windowStart := now.AddDate(0, 0, -tdeeWindowDays)

	intake, err := t.store.DailyIntake(ctx, userID, windowStart, now)
	if err != nil {
		return nil, fmt.Errorf("loading intake history: %w", err)
	}
	weights, err := t.store.BodyWeightSeries(ctx, userID, windowStart, now)
	if err != nil {
		return nil, fmt.Errorf("loading weight history: %w", err)
	}

	dataDays := len(intake)
	if len(weights) < dataDays {
		dataDays = len(weights)
	}

	if dataDays < tdeeMinDataDays {
		return &TDEEEstimate{
			TDEE:       t.staticEstimate(profile, now),
			Method:     "static",
			Confidence: ConfidenceEstimating,
		}, nil
	}

	est := t.dynamicEstimate(intake, weights)
	est.Confidence = ConfidenceCalibrating
	if dataDays >= tdeeWindowDays {
		est.Confidence = ConfidencePrecise
	}
	return est, nil
}

// staticEstimate is Mifflin-St Jeor times the activity factor, with
// conservative defaults for missing body metrics.
func (t *TDEEEngine) staticEstimate(p *models.BodyProfile, now time.Time) float64 {
	weight := defaultWeightKg
	if p.WeightKg != nil {
		weight = *p.WeightKg
	}
	height := defaultHeightCm
	if p.HeightCm != nil {
		height = *p.HeightCm
	}

	age := defaultAgeYears
	if p.BirthDate != nil {
		age = yearsBetween(*p.BirthDate, now)
		if age < minAgeYears {
			age = minAgeYears
		}
	}

	bmr := 10*weight + 6.25*height - 5*float64(age)
	if p.Sex == models.SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}

	return math.Round(bmr * p.ActivityLevel.ActivityFactor())
}

// dynamicEstimate backs TDEE out of observed intake and the weight delta
// between the first and last 7-day windows of the series, at 7700 kcal per
// kilogram of tissue.
func (t *TDEEEngine) dynamicEstimate(intake []models.DailyIntake, weights []models.WeightSample) *TDEEEstimate {
	sort.Slice(weights, func(i, j int) bool { return weights[i].Date.Before(weights[j].Date) })

	firstAvg := avgWeight(weights[:min(7, len(weights))])
	lastAvg := avgWeight(weights[max(0, len(weights)-7):])
	deltaKg := lastAvg - firstAvg

	spanDays := weights[len(weights)-1].Date.Sub(weights[0].Date).Hours() / 24
	if spanDays < 1 {
		spanDays = 1
	}
	surplusPerDay := deltaKg * kcalPerKg / spanDays

	var intakeSum float64
	for _, d := range intake {
		intakeSum += d.Calories
	}
	avgIntake := intakeSum / float64(len(intake))

	tdee := avgIntake - surplusPerDay
	tdee = math.Min(math.Max(tdee, tdeeFloor), tdeeCeiling)
	tdee = math.Round(tdee/10) * 10

	return &TDEEEstimate{
		TDEE:           tdee,
		Method:         "dynamic",
		AvgDailyIntake: &avgIntake,
		WeightDeltaKg:  &deltaKg,
	}
}

// Macros derives the daily calorie/macro targets for a body mode: protein by
// bodyweight, fat at 25% of calories, carbs from the remainder.
func (t *TDEEEngine) Macros(ctx context.Context, userID int, mode models.BodyMode) (*MacroTargets, error) {
	delta, proteinPerKg, err := mode.CalorieDelta()
	if err != nil {
		return nil, err
	}

	est, err := t.Estimate(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := t.store.BodyProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading body profile: %w", err)
	}
	weight := defaultWeightKg
	if profile.WeightKg != nil {
		weight = *profile.WeightKg
	}

	return ComputeMacros(est.TDEE, weight, mode, delta, proteinPerKg), nil
}

// ComputeMacros is the pure macro derivation, exposed for direct use when
// the TDEE is already known.
func ComputeMacros(tdee, weightKg float64, mode models.BodyMode, delta, proteinPerKg float64) *MacroTargets {
	calories := math.Max(calorieFloor, math.Round(tdee*(1+delta)))
	protein := round1(weightKg * proteinPerKg)
	fatCal := calories * 0.25
	fat := round1(fatCal / 9)
	carbs := round1(math.Max(0, (calories-protein*4-fatCal)/4))

	return &MacroTargets{
		Mode:     mode,
		Calories: calories,
		ProteinG: protein,
		FatG:     fat,
		CarbsG:   carbs,
	}
}

func avgWeight(samples []models.WeightSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s.WeightKg
	}
	return sum / float64(len(samples))
}

func yearsBetween(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		years--
	}
	return years
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
