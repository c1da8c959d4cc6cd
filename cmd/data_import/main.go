package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/reprolabs/verdict/internal/ingest"
	"github.com/reprolabs/verdict/internal/rubric"
	"github.com/reprolabs/verdict/internal/storage/factory"
)

func main() {
	appSettings := NewAppConfig()

	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := factory.New(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("failed to create storage", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	if cfg.RubricDir != "" {
		if err := importRubrics(ctx, cfg, stores); err != nil {
			slog.Error("failed to import rubrics", "error", err)
			os.Exit(1)
		}
	}

	if cfg.DatasetPath != "" {
		if err := importSubmissions(ctx, cfg, stores); err != nil {
			slog.Error("failed to import submissions", "error", err)
			os.Exit(1)
		}
	}
}

func importRubrics(ctx context.Context, cfg *DataImportConfig, stores *factory.Stores) error {
	reqs, err := ingest.LoadRubricDir(cfg.RubricDir)
	if err != nil {
		return err
	}

	manager := rubric.NewManager(stores.Rubrics)
	for _, req := range reqs {
		created, err := manager.Create(ctx, req)
		if err != nil {
			slog.Error("skipping rubric", "name", req.Name, "error", err)
			continue
		}
		slog.Info("rubric imported", "id", created.ID, "name", created.Name)
	}
	return nil
}

func importSubmissions(ctx context.Context, cfg *DataImportConfig, stores *factory.Stores) error {
	file, err := os.Open(cfg.DatasetPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var opts []ingest.PipelineOption
	if cfg.BulkOptions.Enabled {
		opts = append(opts, ingest.WithBulk(cfg.BulkOptions.Size))
	}
	if stores.Indexer != nil {
		opts = append(opts, ingest.WithIndexer(stores.Indexer))
	}

	pipeline := ingest.NewPipeline(ingest.NewCSVCollector(file), stores.Submissions, opts...)
	return pipeline.Run(ctx)
}
