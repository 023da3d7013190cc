package server

import (
	"net/http"
	"time"

	"github.com/claude/ironplan/internal/models"
)

type equipmentRequest struct {
	Equipment []models.Equipment `json:"equipment" validate:"required,min=1"`
}

type landmarkRequest struct {
	MuscleGroup models.MuscleGroup `json:"muscle_group" validate:"required"`
	MEV         int                `json:"mev" validate:"min=0"`
	MRV         int                `json:"mrv" validate:"required,gtefield=MEV"`
}

type profileRequest struct {
	Sex           models.Sex           `json:"sex" validate:"required,oneof=male female"`
	BirthDate     *time.Time           `json:"birth_date"`
	HeightCm      *float64             `json:"height_cm" validate:"omitempty,gt=0"`
	ActivityLevel models.ActivityLevel `json:"activity_level" validate:"required,oneof=sedentary light moderate active very_active"`
	BodyMode      models.BodyMode      `json:"body_mode" validate:"required,oneof=BULK CUT RECOMPOSITION MAINTENANCE"`
}

type intakeRequest struct {
	Date     time.Time `json:"date" validate:"required"`
	Calories float64   `json:"calories" validate:"required,gt=0"`
}

type weightRequest struct {
	Date     time.Time `json:"date" validate:"required"`
	WeightKg float64   `json:"weight_kg" validate:"required,gt=0"`
}

func (s *Server) handleGetEquipment(w http.ResponseWriter, r *http.Request) {
	equipment, err := s.db.UserEquipment(r.Context(), userIDFromContext(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"equipment": equipment})
}

func (s *Server) handleSetEquipment(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	if err := s.db.SetUserEquipment(r.Context(), userIDFromContext(r), req.Equipment); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetLandmarks returns the effective landmark per muscle group:
// overrides merged over the defaults.
func (s *Server) handleGetLandmarks(w http.ResponseWriter, r *http.Request) {
	overrides, err := s.db.LandmarkOverrides(r.Context(), userIDFromContext(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	landmarks := make(map[models.MuscleGroup]models.VolumeLandmark, len(models.AllMuscleGroups))
	for _, mg := range models.AllMuscleGroups {
		landmarks[mg] = models.LandmarkFor(overrides, mg)
	}
	writeJSON(w, http.StatusOK, landmarks)
}

func (s *Server) handleSetLandmark(w http.ResponseWriter, r *http.Request) {
	var req landmarkRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	if _, ok := models.DefaultLandmark(req.MuscleGroup); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown muscle group"})
		return
	}
	uid := userIDFromContext(r)
	err := s.db.UpsertLandmark(r.Context(), uid, models.VolumeLandmark{
		UserID:      uid,
		MuscleGroup: req.MuscleGroup,
		MEV:         req.MEV,
		MRV:         req.MRV,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.db.BodyProfile(r.Context(), userIDFromContext(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSetProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	err := s.db.UpsertProfile(r.Context(), models.BodyProfile{
		UserID:        userIDFromContext(r),
		Sex:           req.Sex,
		BirthDate:     req.BirthDate,
		HeightCm:      req.HeightCm,
		ActivityLevel: req.ActivityLevel,
		BodyMode:      req.BodyMode,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogIntake(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	err := s.db.LogIntake(r.Context(), userIDFromContext(r), models.DailyIntake{
		Date:     req.Date,
		Calories: req.Calories,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogWeight(w http.ResponseWriter, r *http.Request) {
	var req weightRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	err := s.db.LogBodyWeight(r.Context(), userIDFromContext(r), models.WeightSample{
		Date:     req.Date,
		WeightKg: req.WeightKg,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
