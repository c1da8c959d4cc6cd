package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TypeEvalBatch is the task name for asynchronous batch evaluations.
const TypeEvalBatch = "eval:batch"

// BatchPayload is the task payload: which batch to run and which
// submissions belong to it.
type BatchPayload struct {
	BatchID       string      `json:"batch_id"`
	SubmissionIDs []uuid.UUID `json:"submission_ids"`
}

func NewBatchTask(p BatchPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal batch payload: %w", err)
	}
	return asynq.NewTask(TypeEvalBatch, b), nil
}

// Enqueuer pushes evaluation tasks onto the redis queue.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(redisAddr string) *Enqueuer {
	return &Enqueuer{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

func (e *Enqueuer) EnqueueBatch(ctx context.Context, p BatchPayload) error {
	task, err := NewBatchTask(p)
	if err != nil {
		return err
	}
	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue batch %s: %w", p.BatchID, err)
	}
	slog.Info("batch task enqueued", "batch_id", p.BatchID, "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}
