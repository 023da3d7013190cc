package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/claude/ironplan/internal/metrics"
	"github.com/claude/ironplan/internal/models"
)

// testServer builds a Server with just enough wiring for handlers that do
// not touch the database.
func testServer() *Server {
	return &Server{
		log:      slog.New(slog.DiscardHandler),
		metrics:  metrics.NewTestManager(),
		validate: validator.New(),
	}
}

// TestRespondErrorMapping verifies the domain error kind to HTTP status
// mapping.
func TestRespondErrorMapping(t *testing.T) {
	s := testServer()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", models.ErrNotFound, http.StatusNotFound},
		{"duplicate active session", models.ErrActiveSession, http.StatusConflict},
		{"validation", models.Invalid("bad input"), http.StatusBadRequest},
		{"illegal transition", &models.StateError{Op: "complete", Status: models.SessionCompleted}, http.StatusUnprocessableEntity},
		{"unknown", json.Unmarshal([]byte("{"), &struct{}{}), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			s.respondError(rec, req, tc.err)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

// TestHandleWarmupPreview verifies the stateless ramp preview endpoint.
func TestHandleWarmupPreview(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exercises/x/warmup?weight=100", nil)
	rec := httptest.NewRecorder()
	s.handleWarmupPreview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Warmups []models.WarmupSet `json:"warmups"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Warmups) != 4 {
		t.Fatalf("warmups = %d, want 4", len(body.Warmups))
	}
	if body.Warmups[0].WeightKg != 20 || body.Warmups[0].Reps != 10 {
		t.Errorf("first ramp set = %+v, want bar set 20kg x10", body.Warmups[0])
	}
	if body.Warmups[3].WeightKg != 85 {
		t.Errorf("top ramp set = %.1f, want 85", body.Warmups[3].WeightKg)
	}
}

// TestHandleWarmupPreviewBadWeight verifies parameter validation.
func TestHandleWarmupPreviewBadWeight(t *testing.T) {
	s := testServer()

	for _, query := range []string{"", "?weight=0", "?weight=-5", "?weight=abc", "?weight=100&bar=-1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/exercises/x/warmup"+query, nil)
		rec := httptest.NewRecorder()
		s.handleWarmupPreview(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", query, rec.Code)
		}
	}
}

// TestDecodeValid verifies JSON decoding plus struct validation at the
// handler boundary.
func TestDecodeValid(t *testing.T) {
	s := testServer()

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		var body readinessRequest
		if s.decodeValid(rec, req, &body) {
			t.Error("expected decode failure for empty body")
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("rejects out-of-range scores", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"sleep":6,"stress":3,"doms":3}`))
		rec := httptest.NewRecorder()
		var body readinessRequest
		if s.decodeValid(rec, req, &body) {
			t.Error("expected validation failure for sleep=6")
		}
	})

	t.Run("accepts valid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"sleep":4,"stress":3,"doms":2}`))
		rec := httptest.NewRecorder()
		var body readinessRequest
		if !s.decodeValid(rec, req, &body) {
			t.Fatalf("unexpected failure: %s", rec.Body.String())
		}
		if body.Sleep != 4 {
			t.Errorf("sleep = %d, want 4", body.Sleep)
		}
	})
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
