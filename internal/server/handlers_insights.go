package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/claude/ironplan/internal/engine"
	"github.com/claude/ironplan/internal/models"
)

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.db.ListExercises(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleSubstituteCandidates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	candidates, err := s.sessions.SubstituteCandidates(r.Context(), userIDFromContext(r), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

// handleSuggestLoad serves the autoregulated load suggestion for an
// exercise. Readiness recorded today feeds the low-readiness pullback.
func (s *Server) handleSuggestLoad(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	uid := userIDFromContext(r)

	exercise, err := s.db.GetExercise(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	readiness, err := s.db.AverageReadiness(r.Context(), uid, dayStart, now.Add(time.Second))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	suggestion, err := s.suggester.SuggestLoad(r.Context(), uid, *exercise, readiness)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.metrics.CounterSuggestions.Inc()
	if suggestion == nil {
		writeJSON(w, http.StatusOK, map[string]any{"suggestion": nil, "reason": "no training history"})
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}

// handleWarmupPreview generates a ramp without attaching it to a session.
func (s *Server) handleWarmupPreview(w http.ResponseWriter, r *http.Request) {
	weight, err := strconv.ParseFloat(r.URL.Query().Get("weight"), 64)
	if err != nil || weight <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight parameter required and must be positive"})
		return
	}
	bar := 0.0
	if b := r.URL.Query().Get("bar"); b != "" {
		if bar, err = strconv.ParseFloat(b, 64); err != nil || bar < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid bar weight"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"warmups": engine.WarmupRamp(weight, bar)})
}

func (s *Server) handleVolumeSnapshot(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if o := r.URL.Query().Get("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid offset"})
			return
		}
		offset = parsed
	}
	snapshot, err := s.volume.WeeklySnapshot(r.Context(), userIDFromContext(r), offset)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleVolumeHistory(w http.ResponseWriter, r *http.Request) {
	weeks := queryWeeks(r, 8)
	history, err := s.volume.History(r.Context(), userIDFromContext(r), weeks)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleVolumeHeatmap(w http.ResponseWriter, r *http.Request) {
	weeks := queryWeeks(r, 8)
	heatmap, err := s.volume.Heatmap(r.Context(), userIDFromContext(r), weeks)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, heatmap)
}

func (s *Server) handleDeloadCheck(w http.ResponseWriter, r *http.Request) {
	rec, err := s.deload.Check(r.Context(), userIDFromContext(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.metrics.CounterDeloadChecks.Inc()
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleTDEE(w http.ResponseWriter, r *http.Request) {
	est, err := s.tdee.Estimate(r.Context(), userIDFromContext(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

// handleMacros serves macro targets. An explicit mode query overrides the
// profile's body mode.
func (s *Server) handleMacros(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	mode := models.BodyMode(r.URL.Query().Get("mode"))
	if mode == "" {
		profile, err := s.db.BodyProfile(r.Context(), uid)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		mode = profile.BodyMode
	}

	targets, err := s.tdee.Macros(r.Context(), uid, mode)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, targets)
}

func queryWeeks(r *http.Request, def int) int {
	if wk := r.URL.Query().Get("weeks"); wk != "" {
		if parsed, err := strconv.Atoi(wk); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
