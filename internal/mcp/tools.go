package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/ironplan/internal/engine"
	"github.com/claude/ironplan/internal/models"
)

// --- Tool definitions ---

var toolGetVolumeSnapshot = mcp.NewTool("get_volume_snapshot",
	mcp.WithDescription("Get effective working sets per muscle group for a training week, classified against MEV/MRV landmarks (BELOW_MEV, WITHIN_RANGE, ABOVE_MRV)."),
	mcp.WithNumber("week_offset", mcp.Description("Weeks back from the current week (0 = current, 1 = last week). Default 0.")),
)

var toolGetVolumeHistory = mcp.NewTool("get_volume_history",
	mcp.WithDescription("Get per-muscle weekly set counts over recent training weeks, oldest first."),
	mcp.WithNumber("weeks", mcp.Description("Number of weeks to include. Default 8.")),
)

var toolCheckDeload = mcp.NewTool("check_deload",
	mcp.WithDescription("Evaluate whether a deload week is recommended, with the triggering reasons (volume over MRV, stalled or regressing strength trend, low readiness)."),
)

var toolSuggestLoad = mcp.NewTool("suggest_load",
	mcp.WithDescription("Suggest the next working weight for an exercise (with the action taken, increment, and reason) based on the last effective performance and today's readiness."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise UUID")),
)

var toolGetWarmup = mcp.NewTool("get_warmup",
	mcp.WithDescription("Compute a warm-up ramp for a working weight. No ramp is produced under 40 kg."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Working weight in kg")),
	mcp.WithNumber("bar", mcp.Description("Empty implement weight in kg. Default 20.")),
)

var toolGetReadinessAverage = mcp.NewTool("get_readiness_average",
	mcp.WithDescription("Get the average weighted readiness score (1-5) over a recent window of days."),
	mcp.WithNumber("days", mcp.Description("Window size in days. Default 14.")),
)

var toolGetTDEE = mcp.NewTool("get_tdee",
	mcp.WithDescription("Estimate total daily energy expenditure. Uses logged intake and body weight when enough history exists, otherwise a formula-based estimate."),
)

var toolGetMacroTargets = mcp.NewTool("get_macro_targets",
	mcp.WithDescription("Get daily calorie and macro targets for a body-composition mode."),
	mcp.WithString("mode", mcp.Description("Override the profile's mode"),
		mcp.Enum("BULK", "CUT", "RECOMPOSITION", "MAINTENANCE")),
)

// --- Tool handlers ---

func (h *handlers) getVolumeSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	offset := req.GetInt("week_offset", 0)
	if offset < 0 {
		return mcp.NewToolResultError("week_offset must not be negative"), nil
	}

	uid := UserIDFromContext(ctx)
	snap, err := h.eng.Volume.WeeklySnapshot(ctx, uid, offset)
	if err != nil {
		h.log.Error("mcp get_volume_snapshot", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks := req.GetInt("weeks", 8)
	if weeks < 1 {
		return mcp.NewToolResultError("weeks must be at least 1"), nil
	}
	if weeks > engine.MaxHistoryWeeks {
		return mcp.NewToolResultError(fmt.Sprintf("weeks must not exceed %d", engine.MaxHistoryWeeks)), nil
	}

	uid := UserIDFromContext(ctx)
	history, err := h.eng.Volume.History(ctx, uid, weeks)
	if err != nil {
		h.log.Error("mcp get_volume_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(history)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) checkDeload(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	rec, err := h.eng.Deload.Check(ctx, uid)
	if err != nil {
		h.log.Error("mcp check_deload", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rec)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) suggestLoad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	exerciseID, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid exercise_id: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)

	exercise, err := h.db.GetExercise(ctx, exerciseID)
	if err != nil {
		h.log.Error("mcp suggest_load exercise", "error", err)
		return mcp.NewToolResultError("exercise lookup failed: " + err.Error()), nil
	}

	readiness, err := h.todaysReadiness(ctx, uid)
	if err != nil {
		h.log.Warn("mcp suggest_load readiness", "error", err)
	}

	suggestion, err := h.eng.Suggester.SuggestLoad(ctx, uid, *exercise, readiness)
	if err != nil {
		h.log.Error("mcp suggest_load", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if suggestion == nil {
		return mcp.NewToolResultText("no training history for this exercise yet"), nil
	}

	result, err := mcp.NewToolResultJSON(suggestion)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWarmup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	if weight <= 0 {
		return mcp.NewToolResultError("weight must be positive"), nil
	}
	bar := req.GetFloat("bar", 0)

	ramp := engine.WarmupRamp(weight, bar)

	result, err := mcp.NewToolResultJSON(map[string]any{"warmups": ramp})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getReadinessAverage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 14)
	if days < 1 {
		return mcp.NewToolResultError("days must be at least 1"), nil
	}

	uid := UserIDFromContext(ctx)
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	avg, err := h.db.AverageReadiness(ctx, uid, start, end)
	if err != nil {
		h.log.Error("mcp get_readiness_average", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"days": days, "average": avg})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTDEE(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	estimate, err := h.eng.TDEE.Estimate(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_tdee", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(estimate)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMacroTargets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	mode := models.BodyMode(req.GetString("mode", ""))
	if mode == "" {
		profile, err := h.db.BodyProfile(ctx, uid)
		if err != nil {
			h.log.Error("mcp get_macro_targets profile", "error", err)
			return mcp.NewToolResultError("profile lookup failed: " + err.Error()), nil
		}
		mode = profile.BodyMode
	}
	if _, _, err := mode.CalorieDelta(); err != nil {
		return mcp.NewToolResultError("invalid mode: " + err.Error()), nil
	}

	targets, err := h.eng.TDEE.Macros(ctx, uid, mode)
	if err != nil {
		h.log.Error("mcp get_macro_targets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(targets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// todaysReadiness returns the average readiness recorded today, or nil when
// none exists.
func (h *handlers) todaysReadiness(ctx context.Context, userID int) (*float64, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return h.db.AverageReadiness(ctx, userID, dayStart, now.Add(time.Second))
}
