package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/reprolabs/verdict/internal/artifact"
	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/eval"
	"github.com/reprolabs/verdict/internal/report"
	"github.com/reprolabs/verdict/internal/storage"
)

// Server executes batch evaluation tasks. Artifacts may be nil; the
// report then stays inline in the batch record only.
type Server struct {
	Submissions storage.SubmissionStore
	Rubrics     storage.RubricStore
	Evaluations storage.EvaluationStore
	Batches     storage.BatchStore
	Artifacts   *artifact.Store
}

func (s *Server) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEvalBatch, s.handleBatch)
	return mux
}

// Run starts the asynq server and blocks until it stops.
func Run(redisAddr string, s *Server) error {
	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 5})
	return srv.Run(s.mux())
}

func (s *Server) handleBatch(ctx context.Context, t *asynq.Task) error {
	var p BatchPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal batch payload: %w", err)
	}

	slog.Info("batch evaluation started", "batch_id", p.BatchID, "submissions", len(p.SubmissionIDs))

	batch, err := s.Batches.Get(ctx, p.BatchID)
	if err != nil {
		return fmt.Errorf("load batch %s: %w", p.BatchID, err)
	}

	batch.Status = domain.BatchRunning
	if err := s.Batches.Update(ctx, *batch); err != nil {
		return fmt.Errorf("mark batch running: %w", err)
	}

	evals, titles, failed := s.evaluateAll(ctx, p.SubmissionIDs)

	// Succeeded counts submissions, not evaluation rows: a submission
	// scored against several rubrics still succeeds once.
	batch.Succeeded = len(p.SubmissionIDs) - failed
	batch.Failed = failed

	if ref, err := s.storeReport(ctx, p.BatchID, evals, titles); err != nil {
		slog.Error("failed to store batch report", "batch_id", p.BatchID, "error", err)
	} else {
		batch.ReportRef = ref
	}

	now := time.Now().UTC()
	batch.CompletedAt = &now
	if failed > 0 && len(evals) == 0 {
		batch.Status = domain.BatchFailed
		batch.Error = fmt.Sprintf("all %d submissions failed", failed)
	} else {
		batch.Status = domain.BatchCompleted
	}

	if err := s.Batches.Update(ctx, *batch); err != nil {
		return fmt.Errorf("finalize batch %s: %w", p.BatchID, err)
	}

	slog.Info("batch evaluation finished",
		"batch_id", p.BatchID,
		"status", batch.Status,
		"succeeded", batch.Succeeded,
		"failed", batch.Failed,
		"report_ref", batch.ReportRef)
	return nil
}

// evaluateAll scores every submission against its rubrics. Failures are
// counted, not fatal: one broken submission must not sink the batch.
func (s *Server) evaluateAll(ctx context.Context, ids []uuid.UUID) ([]domain.Evaluation, map[string]string, int) {
	var evals []domain.Evaluation
	titles := make(map[string]string)
	failed := 0

	for _, id := range ids {
		sub, err := s.Submissions.Get(ctx, id)
		if err != nil {
			slog.Error("failed to load submission", "submission_id", id, "error", err)
			failed++
			continue
		}
		titles[sub.ID.String()] = sub.Title

		rubrics, err := s.loadRubrics(ctx, sub.RubricIDs)
		if err != nil {
			slog.Error("failed to load rubrics", "submission_id", id, "error", err)
			failed++
			continue
		}

		result := eval.ScoreAgainstRubrics(rubrics, sub)
		saveFailed := false
		for _, ev := range result.Results {
			if _, err := s.Evaluations.Save(ctx, *ev); err != nil {
				slog.Error("failed to save evaluation", "submission_id", id, "error", err)
				saveFailed = true
				break
			}
			evals = append(evals, *ev)
		}
		if saveFailed {
			failed++
		}
	}

	return evals, titles, failed
}

func (s *Server) loadRubrics(ctx context.Context, ids []uuid.UUID) ([]*domain.Rubric, error) {
	rubrics := make([]*domain.Rubric, 0, len(ids))
	for _, id := range ids {
		r, err := s.Rubrics.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("rubric %s: %w", id, err)
		}
		rubrics = append(rubrics, r)
	}
	return rubrics, nil
}

func (s *Server) storeReport(ctx context.Context, batchID string, evals []domain.Evaluation, titles map[string]string) (string, error) {
	if s.Artifacts == nil {
		return "", nil
	}

	r := report.New(fmt.Sprintf("batch %s", batchID), evals, titles)
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal batch report: %w", err)
	}

	key := fmt.Sprintf("batches/%s.json", batchID)
	return s.Artifacts.Put(ctx, key, "application/json", data)
}
