package models

// VolumeStatus classifies a week's effective-set count against the MEV/MRV
// landmarks for a muscle group.
type VolumeStatus string

const (
	VolumeBelowMEV    VolumeStatus = "BELOW_MEV"
	VolumeWithinRange VolumeStatus = "WITHIN_RANGE"
	VolumeAboveMRV    VolumeStatus = "ABOVE_MRV"
)

// VolumeLandmark holds the weekly effective-set thresholds for one muscle
// group: minimum effective volume and maximum recoverable volume. One row per
// user and muscle group; absence of a user row means the default applies.
type VolumeLandmark struct {
	UserID      int         `json:"user_id,omitempty"`
	MuscleGroup MuscleGroup `json:"muscle_group"`
	MEV         int         `json:"mev"`
	MRV         int         `json:"mrv"`
}

// Classify places an effective-set count against the landmark thresholds.
// The three categories partition the integers: below MEV, above MRV, and
// everything in between inclusive.
func (l VolumeLandmark) Classify(effectiveSets int) VolumeStatus {
	switch {
	case effectiveSets < l.MEV:
		return VolumeBelowMEV
	case effectiveSets > l.MRV:
		return VolumeAboveMRV
	default:
		return VolumeWithinRange
	}
}

// defaultLandmarks is the built-in MEV/MRV table applied when a user has no
// override for a muscle group.
var defaultLandmarks = map[MuscleGroup]VolumeLandmark{
	MuscleChest:      {MuscleGroup: MuscleChest, MEV: 8, MRV: 22},
	MuscleBack:       {MuscleGroup: MuscleBack, MEV: 10, MRV: 25},
	MuscleShoulders:  {MuscleGroup: MuscleShoulders, MEV: 8, MRV: 26},
	MuscleBiceps:     {MuscleGroup: MuscleBiceps, MEV: 8, MRV: 26},
	MuscleTriceps:    {MuscleGroup: MuscleTriceps, MEV: 6, MRV: 18},
	MuscleQuads:      {MuscleGroup: MuscleQuads, MEV: 8, MRV: 20},
	MuscleHamstrings: {MuscleGroup: MuscleHamstrings, MEV: 6, MRV: 16},
	MuscleGlutes:     {MuscleGroup: MuscleGlutes, MEV: 6, MRV: 16},
	MuscleCalves:     {MuscleGroup: MuscleCalves, MEV: 8, MRV: 20},
	MuscleAbs:        {MuscleGroup: MuscleAbs, MEV: 6, MRV: 25},
	MuscleForearms:   {MuscleGroup: MuscleForearms, MEV: 4, MRV: 16},
	MuscleTraps:      {MuscleGroup: MuscleTraps, MEV: 4, MRV: 12},
}

// DefaultLandmark returns the built-in landmark for a muscle group.
func DefaultLandmark(mg MuscleGroup) (VolumeLandmark, bool) {
	l, ok := defaultLandmarks[mg]
	return l, ok
}

// LandmarkFor resolves the effective landmark for a muscle group: the user
// override when present, the built-in default otherwise.
func LandmarkFor(overrides map[MuscleGroup]VolumeLandmark, mg MuscleGroup) VolumeLandmark {
	if l, ok := overrides[mg]; ok {
		return l
	}
	return defaultLandmarks[mg]
}
