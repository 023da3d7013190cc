package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/ironplan/internal/engine"
	"github.com/claude/ironplan/internal/storage"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Engines bundles the training services exposed over MCP.
type Engines struct {
	Suggester *engine.Suggester
	Volume    *engine.VolumeEngine
	Deload    *engine.DeloadEngine
	TDEE      *engine.TDEEEngine
}

// New creates an MCP server with all tools and resources registered.
func New(db *storage.DB, eng Engines, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronPlan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("IronPlan training server. Query weekly volume, deload status, load suggestions, warm-up ramps, and nutrition targets. All data is scoped to the authenticated user."),
	)

	h := &handlers{db: db, eng: eng, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetVolumeSnapshot, Handler: h.getVolumeSnapshot},
		server.ServerTool{Tool: toolGetVolumeHistory, Handler: h.getVolumeHistory},
		server.ServerTool{Tool: toolCheckDeload, Handler: h.checkDeload},
		server.ServerTool{Tool: toolSuggestLoad, Handler: h.suggestLoad},
		server.ServerTool{Tool: toolGetWarmup, Handler: h.getWarmup},
		server.ServerTool{Tool: toolGetReadinessAverage, Handler: h.getReadinessAverage},
		server.ServerTool{Tool: toolGetTDEE, Handler: h.getTDEE},
		server.ServerTool{Tool: toolGetMacroTargets, Handler: h.getMacroTargets},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCurrentWeekVolume, Handler: h.currentWeekVolume},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	db  *storage.DB
	eng Engines
	log *slog.Logger
}

// --- Resource definitions ---

var resCurrentWeekVolume = mcp.NewResource(
	"ironplan://current_week_volume",
	"Current Week Volume",
	mcp.WithResourceDescription("Effective working sets per muscle group for the current training week, with MEV/MRV zone classification"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"ironplan://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercises with movement pattern, equipment, and primary muscles"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) currentWeekVolume(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	snap, err := h.eng.Volume.WeeklySnapshot(ctx, uid, 0)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, snap)
}

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exercises, err := h.db.ListExercises(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, exercises)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
