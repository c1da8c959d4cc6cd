package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/reprolabs/verdict/internal/artifact"
	"github.com/reprolabs/verdict/internal/migrations"
	"github.com/reprolabs/verdict/internal/storage/factory"
	"github.com/reprolabs/verdict/internal/worker"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.StorageConfig.Pg != nil {
		if err := migrations.Run(cfg.StorageConfig.Pg.ConnStr); err != nil {
			slog.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	stores, err := factory.New(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	srv := &worker.Server{
		Submissions: stores.Submissions,
		Rubrics:     stores.Rubrics,
		Evaluations: stores.Evaluations,
		Batches:     stores.Batches,
	}

	if cfg.Artifacts != nil {
		artifacts, err := artifact.New(ctx, cfg.Artifacts)
		if err != nil {
			slog.Error("Failed to create artifact store", "error", err)
			os.Exit(1)
		}
		srv.Artifacts = artifacts
		slog.Info("Batch report storage enabled", "bucket", cfg.Artifacts.Bucket)
	} else {
		slog.Info("Batch report storage disabled")
	}

	slog.Info("Starting batch evaluation worker", "redis", cfg.RedisAddr)
	if err := worker.Run(cfg.RedisAddr, srv); err != nil {
		slog.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
}
