package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/ironplan/internal/config"
	"github.com/claude/ironplan/internal/engine"
	"github.com/claude/ironplan/internal/mcp"
	"github.com/claude/ironplan/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	userID := flag.Int("user", 1, "user ID to scope all queries to")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("ironplan-mcp", Version)
		return
	}

	_ = godotenv.Load()

	// Logs go to stderr, stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	volume := engine.NewVolumeEngine(db, log)
	eng := mcp.Engines{
		Suggester: engine.NewSuggester(db, log),
		Volume:    volume,
		Deload:    engine.NewDeloadEngine(volume, db, log),
		TDEE:      engine.NewTDEEEngine(db, log),
	}

	srv := mcp.New(db, eng, Version, log)

	log.Info("MCP server starting", "transport", "stdio", "user", *userID)
	err = mcpserver.ServeStdio(srv,
		mcpserver.WithStdioContextFunc(func(ctx context.Context) context.Context {
			return mcp.WithUserID(ctx, *userID)
		}),
	)
	if err != nil {
		log.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}
