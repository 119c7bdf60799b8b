package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/kirinyoku/voyago/docs"
	"github.com/kirinyoku/voyago/internal/app"
	"github.com/kirinyoku/voyago/internal/config"
)

// @title Voyago API
// @version 1.0
// @description Travel agency booking API: catalog browsing, package checkout and the agent back office.
// @host localhost:8080
// @BasePath /
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", "error", err)
	}

	if err := application.Run(context.Background()); err != nil {
		logger.Error("application finished with error", "error", err)
	}
}
