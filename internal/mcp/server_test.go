package mcp

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

func toolReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// TestGetWarmupTool verifies the warm-up tool computes a ramp without any
// storage access and rejects bad weights.
func TestGetWarmupTool(t *testing.T) {
	h := &handlers{log: slog.New(slog.DiscardHandler)}

	res, err := h.getWarmup(context.Background(), toolReq(map[string]any{"weight": 100.0}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("getWarmup(100) returned tool error: %v", res.Content)
	}

	res, err = h.getWarmup(context.Background(), toolReq(map[string]any{"weight": -5.0}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("getWarmup(-5) should return a tool error")
	}

	res, err = h.getWarmup(context.Background(), toolReq(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("getWarmup without weight should return a tool error")
	}
}

// TestNewRegisters verifies the server constructs with all tools registered.
func TestNewRegisters(t *testing.T) {
	s := New(nil, Engines{}, "test", slog.New(slog.DiscardHandler))
	if s == nil {
		t.Fatal("New returned nil")
	}
}
