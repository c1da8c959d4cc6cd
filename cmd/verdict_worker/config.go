package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/reprolabs/verdict/internal/artifact"
	"github.com/reprolabs/verdict/internal/storage/factory"
	"github.com/reprolabs/verdict/pkg/config/env"
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type WorkerConfig struct {
	RedisAddr string
	Artifacts *artifact.Config
	factory.StorageConfig
}

func (as *AppConfig) Load() (*WorkerConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/verdict_worker/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR environment variable is not set")
	}

	return &WorkerConfig{
		RedisAddr:     redisAddr,
		Artifacts:     artifact.LoadEnv(),
		StorageConfig: *storageCfg,
	}, nil
}
