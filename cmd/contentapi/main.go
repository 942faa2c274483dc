package main

import (
	"log/slog"
	"os"

	"github.com/eringen/contentapi"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := contentapi.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	app := contentapi.New(cfg, logger)
	defer app.Close()

	logger.Info("starting content API", "addr", cfg.Addr, "db", cfg.DatabasePath, "uploads", cfg.UploadDir)
	if err := app.Start(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
