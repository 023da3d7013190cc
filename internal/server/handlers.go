package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/ironplan/internal/engine"
)

type startSessionRequest struct {
	MesocycleID *uuid.UUID `json:"mesocycle_id"`
	PlanDayID   *uuid.UUID `json:"plan_day_id"`
	WeekIndex   *int       `json:"week_index" validate:"omitempty,min=0"`
}

type completeSessionRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

type readinessRequest struct {
	Sleep  int `json:"sleep" validate:"required,min=1,max=5"`
	Stress int `json:"stress" validate:"required,min=1,max=5"`
	DOMS   int `json:"doms" validate:"required,min=1,max=5"`
}

type addExerciseRequest struct {
	ExerciseID uuid.UUID `json:"exercise_id" validate:"required"`
}

type setRequest struct {
	WeightKg  float64 `json:"weight_kg" validate:"min=0"`
	Reps      int     `json:"reps" validate:"min=0"`
	RIR       float64 `json:"rir" validate:"min=0,max=10"`
	RestSec   *int    `json:"rest_sec" validate:"omitempty,min=0"`
	Note      *string `json:"note" validate:"omitempty,max=200"`
	Completed bool    `json:"completed"`
	Skipped   bool    `json:"skipped"`
}

type substituteRequest struct {
	ExerciseID uuid.UUID `json:"exercise_id" validate:"required"`
}

type warmupRequest struct {
	WorkingWeightKg float64 `json:"working_weight_kg" validate:"required,gt=0"`
	BarWeightKg     float64 `json:"bar_weight_kg" validate:"min=0"`
}

// decodeValid decodes the body into v and runs struct validation.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	session, err := s.sessions.Start(r.Context(), userIDFromContext(r), engine.StartRequest{
		MesocycleID: req.MesocycleID,
		PlanDayID:   req.PlanDayID,
		WeekIndex:   req.WeekIndex,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.metrics.CounterSessionsStarted.Inc()
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	sessions, err := s.db.ListSessions(r.Context(), userIDFromContext(r), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	session, err := s.sessions.Get(r.Context(), userIDFromContext(r), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req completeSessionRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	session, err := s.sessions.Complete(r.Context(), userIDFromContext(r), id, req.Notes)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	session, err := s.sessions.Abandon(r.Context(), userIDFromContext(r), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleRecordReadiness(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req readinessRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	score, err := s.sessions.RecordReadiness(r.Context(), userIDFromContext(r), id, req.Sleep, req.Stress, req.DOMS)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"score": score,
		"total": score.Total(),
	})
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req addExerciseRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	se, err := s.sessions.AddExercise(r.Context(), userIDFromContext(r), id, req.ExerciseID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, se)
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	seID, ok := pathUUID(w, r, "seID")
	if !ok {
		return
	}
	if err := s.sessions.RemoveExercise(r.Context(), userIDFromContext(r), id, seID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubstitute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	seID, ok := pathUUID(w, r, "seID")
	if !ok {
		return
	}
	var req substituteRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	if err := s.sessions.Substitute(r.Context(), userIDFromContext(r), id, seID, req.ExerciseID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	seID, ok := pathUUID(w, r, "seID")
	if !ok {
		return
	}
	var req setRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	set, err := s.sessions.AddSet(r.Context(), userIDFromContext(r), id, seID, setInput(req))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.metrics.CounterSetsLogged.Inc()
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	seID, ok := pathUUID(w, r, "seID")
	if !ok {
		return
	}
	setID, ok := pathUUID(w, r, "setID")
	if !ok {
		return
	}
	var req setRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	set, err := s.sessions.UpdateSet(r.Context(), userIDFromContext(r), id, seID, setID, setInput(req))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	setID, ok := pathUUID(w, r, "setID")
	if !ok {
		return
	}
	if err := s.sessions.DeleteSet(r.Context(), userIDFromContext(r), id, setID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddWarmup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	seID, ok := pathUUID(w, r, "seID")
	if !ok {
		return
	}
	var req warmupRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	ramp, err := s.sessions.AddWarmup(r.Context(), userIDFromContext(r), id, seID, req.WorkingWeightKg, req.BarWeightKg)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"warmups": ramp})
}

func setInput(req setRequest) engine.SetInput {
	return engine.SetInput{
		WeightKg:  req.WeightKg,
		Reps:      req.Reps,
		RIR:       req.RIR,
		RestSec:   req.RestSec,
		Note:      req.Note,
		Completed: req.Completed,
		Skipped:   req.Skipped,
	}
}
