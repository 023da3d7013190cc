package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tailscale.com/client/tailscale"

	"github.com/claude/ironplan/internal/engine"
	"github.com/claude/ironplan/internal/metrics"
	"github.com/claude/ironplan/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        *storage.DB
	sessions  *engine.Sessions
	suggester *engine.Suggester
	volume    *engine.VolumeEngine
	deload    *engine.DeloadEngine
	tdee      *engine.TDEEEngine
	log       *slog.Logger
	apiKey    string
	metrics   *metrics.Manager
	validate  *validator.Validate
	router    chi.Router
	ts        *tailscale.LocalClient
}

// Engines bundles the intelligence services the handlers call into.
type Engines struct {
	Sessions  *engine.Sessions
	Suggester *engine.Suggester
	Volume    *engine.VolumeEngine
	Deload    *engine.DeloadEngine
	TDEE      *engine.TDEEEngine
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, eng Engines, apiKey string, m *metrics.Manager, log *slog.Logger) *Server {
	s := &Server{
		db:        db,
		sessions:  eng.Sessions,
		suggester: eng.Suggester,
		volume:    eng.Volume,
		deload:    eng.Deload,
		tdee:      eng.TDEE,
		log:       log,
		apiKey:    apiKey,
		metrics:   m,
		validate:  validator.New(),
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale enables identity resolution via the tsnet local client.
// Without it, requests run as the local dev user.
func (s *Server) SetTailscale(lc *tailscale.LocalClient) {
	s.ts = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log, s.metrics))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/api/v1/health", s.handleHealth)

	// Session lifecycle (API key required for mutations)
	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Get("/", s.handleListSessions)
		r.Get("/{id}", s.handleGetSession)

		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/", s.handleStartSession)
			r.Post("/{id}/complete", s.handleCompleteSession)
			r.Post("/{id}/abandon", s.handleAbandonSession)
			r.Post("/{id}/readiness", s.handleRecordReadiness)
			r.Post("/{id}/exercises", s.handleAddExercise)
			r.Delete("/{id}/exercises/{seID}", s.handleRemoveExercise)
			r.Post("/{id}/exercises/{seID}/substitute", s.handleSubstitute)
			r.Post("/{id}/exercises/{seID}/sets", s.handleAddSet)
			r.Put("/{id}/exercises/{seID}/sets/{setID}", s.handleUpdateSet)
			r.Delete("/{id}/sets/{setID}", s.handleDeleteSet)
			r.Post("/{id}/exercises/{seID}/warmup", s.handleAddWarmup)
		})
	})

	// Catalog and intelligence reads (no auth, tsnet handles access)
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/{id}/substitutes", s.handleSubstituteCandidates)
	s.router.Get("/api/v1/exercises/{id}/suggestion", s.handleSuggestLoad)
	s.router.Get("/api/v1/exercises/{id}/warmup", s.handleWarmupPreview)
	s.router.Get("/api/v1/volume/current", s.handleVolumeSnapshot)
	s.router.Get("/api/v1/volume/history", s.handleVolumeHistory)
	s.router.Get("/api/v1/volume/heatmap", s.handleVolumeHeatmap)
	s.router.Get("/api/v1/deload", s.handleDeloadCheck)
	s.router.Get("/api/v1/nutrition/tdee", s.handleTDEE)
	s.router.Get("/api/v1/nutrition/macros", s.handleMacros)

	// Settings (API key required for mutations)
	s.router.Get("/api/v1/settings/equipment", s.handleGetEquipment)
	s.router.Get("/api/v1/settings/landmarks", s.handleGetLandmarks)
	s.router.Get("/api/v1/settings/profile", s.handleGetProfile)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Put("/api/v1/settings/equipment", s.handleSetEquipment)
		r.Put("/api/v1/settings/landmarks", s.handleSetLandmark)
		r.Put("/api/v1/settings/profile", s.handleSetProfile)
		r.Post("/api/v1/nutrition/intake", s.handleLogIntake)
		r.Post("/api/v1/nutrition/weight", s.handleLogWeight)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
