package models

import "time"

// Sex is the biological sex used by the Mifflin-St Jeor formula.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel keys the multiplier applied to the basal metabolic rate.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// ActivityFactor returns the TDEE multiplier for the level, defaulting to
// sedentary for unknown values.
func (a ActivityLevel) ActivityFactor() float64 {
	switch a {
	case ActivityLight:
		return 1.375
	case ActivityModerate:
		return 1.55
	case ActivityActive:
		return 1.725
	case ActivityVeryActive:
		return 1.9
	default:
		return 1.2
	}
}

// BodyMode is the body-composition goal that calorie and macro targets are
// derived from.
type BodyMode string

const (
	ModeBulk          BodyMode = "BULK"
	ModeCut           BodyMode = "CUT"
	ModeRecomposition BodyMode = "RECOMPOSITION"
	ModeMaintenance   BodyMode = "MAINTENANCE"
)

// CalorieDelta returns the calorie adjustment and protein target (g per kg
// bodyweight) for the mode.
func (m BodyMode) CalorieDelta() (delta, proteinPerKg float64, err error) {
	switch m {
	case ModeBulk:
		return 0.15, 1.8, nil
	case ModeCut:
		return -0.20, 2.4, nil
	case ModeRecomposition:
		return -0.10, 2.4, nil
	case ModeMaintenance:
		return 0, 2.0, nil
	default:
		return 0, 0, Invalid("unknown body mode %q", string(m))
	}
}

// BodyProfile holds the static body metrics the TDEE engine falls back on
// when intake/weight history is too thin for a dynamic estimate.
type BodyProfile struct {
	UserID        int           `json:"user_id"`
	Sex           Sex           `json:"sex"`
	BirthDate     *time.Time    `json:"birth_date,omitempty"`
	WeightKg      *float64      `json:"weight_kg,omitempty"`
	HeightCm      *float64      `json:"height_cm,omitempty"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	BodyMode      BodyMode      `json:"body_mode"`
}

// DailyIntake is one day's total logged calories.
type DailyIntake struct {
	Date     time.Time `json:"date"`
	Calories float64   `json:"calories"`
}

// WeightSample is one body-weight measurement.
type WeightSample struct {
	Date     time.Time `json:"date"`
	WeightKg float64   `json:"weight_kg"`
}

// PerformanceRecord is the most recent effective performance for a
// (user, exercise) pair together with the matching plan prescription.
type PerformanceRecord struct {
	WeightKg    float64   `json:"weight_kg"`
	Reps        int       `json:"reps"`
	RIR         float64   `json:"rir"`
	TargetRIR   float64   `json:"target_rir"`
	TargetReps  int       `json:"target_reps"`
	PerformedAt time.Time `json:"performed_at"`
}
