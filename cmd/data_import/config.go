package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

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

type DataImportConfig struct {
	RubricDir   string
	DatasetPath string
	BulkOptions *struct {
		Enabled bool
		Size    int
	}
	factory.StorageConfig
}

func (as *AppConfig) Load() (*DataImportConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/data_import/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	rubricDir := os.Getenv("RUBRIC_DIR")
	dsPath := os.Getenv("DATASET_PATH")
	if rubricDir == "" && dsPath == "" {
		return nil, fmt.Errorf("at least one of RUBRIC_DIR or DATASET_PATH must be set")
	}

	bulkEnabled := os.Getenv("BULK_ENABLED")
	bulkSize := os.Getenv("BULK_SIZE")
	bulkSizeNum, err := strconv.Atoi(bulkSize)
	if err != nil {
		bulkSizeNum = 500
	}

	cfg := &DataImportConfig{
		RubricDir:   rubricDir,
		DatasetPath: dsPath,
		BulkOptions: &struct {
			Enabled bool
			Size    int
		}{
			Enabled: bulkEnabled == "true",
			Size:    bulkSizeNum,
		},
		StorageConfig: *storageCfg,
	}

	return cfg, nil
}
