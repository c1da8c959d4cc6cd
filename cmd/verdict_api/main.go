// Package main Verdict API
// @title Verdict API
// @version 1.0
// @description Deterministic rubric-based evaluation service for multimedia submissions
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@reprolabs.dev
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/reprolabs/verdict/internal/api/router"
	apiserver "github.com/reprolabs/verdict/internal/api/server"
	"github.com/reprolabs/verdict/internal/artifact"
	"github.com/reprolabs/verdict/internal/migrations"
	"github.com/reprolabs/verdict/internal/rubric"
	"github.com/reprolabs/verdict/internal/storage/factory"
	"github.com/reprolabs/verdict/internal/worker"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := apiserver.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

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

	s := apiserver.New(sCfg, stores.Health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Verdict API is running")
	})

	manager := rubric.NewManager(stores.Rubrics)
	router.NewRubricRouter(s.Echo, manager).Bind()

	var subOpts []router.SubmissionRouterOption
	if stores.Searcher != nil {
		subOpts = append(subOpts, router.WithSearcher(stores.Searcher))
	}
	if stores.Indexer != nil {
		subOpts = append(subOpts, router.WithIndexer(stores.Indexer))
	}
	router.NewSubmissionRouter(s.Echo, stores.Submissions, stores.Rubrics, subOpts...).Bind()

	var evalOpts []router.EvaluationRouterOption
	if cfg.RedisAddr != "" {
		enqueuer := worker.NewEnqueuer(cfg.RedisAddr)
		defer enqueuer.Close()
		evalOpts = append(evalOpts, router.WithEnqueuer(enqueuer))
		slog.Info("Batch evaluation queue enabled", "redis", cfg.RedisAddr)
	} else {
		slog.Info("Batch evaluation queue disabled")
	}
	router.NewEvaluationRouter(s.Echo, stores.Submissions, stores.Rubrics, stores.Evaluations, stores.Batches, evalOpts...).Bind()

	var reportOpts []router.ReportRouterOption
	if cfg.Artifacts != nil {
		artifacts, err := artifact.New(s.Context(), cfg.Artifacts)
		if err != nil {
			slog.Error("Failed to create artifact store", "error", err)
			os.Exit(1)
		}
		reportOpts = append(reportOpts, router.WithArtifacts(artifacts))
		slog.Info("Report artifact storage enabled", "bucket", cfg.Artifacts.Bucket)
	} else {
		slog.Info("Report artifact storage disabled")
	}
	router.NewReportRouter(s.Echo, stores.Evaluations, stores.Submissions, reportOpts...).Bind()

	router.NewStatsRouter(s.Echo, stores.Evaluations).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
