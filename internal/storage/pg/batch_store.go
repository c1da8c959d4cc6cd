package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/storage"
)

type BatchStore struct {
	db *pgxpool.Pool
}

func NewBatchStore(pool *ConnectionPool) *BatchStore {
	return &BatchStore{db: pool.conn}
}

func (s *BatchStore) Save(ctx context.Context, batch domain.Batch) error {
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now().UTC()
	}

	cmd := `
        INSERT INTO batches (id, status, total, succeeded, failed, report_ref, error, created_at, completed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := s.db.Exec(ctx, cmd,
		batch.ID,
		batch.Status,
		batch.Total,
		batch.Succeeded,
		batch.Failed,
		batch.ReportRef,
		batch.Error,
		batch.CreatedAt,
		batch.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}
	return nil
}

func (s *BatchStore) Get(ctx context.Context, id string) (*domain.Batch, error) {
	query := `
        SELECT id, status, total, succeeded, failed, report_ref, error, created_at, completed_at
        FROM batches
        WHERE id = $1;
    `
	var batch domain.Batch
	err := s.db.QueryRow(ctx, query, id).Scan(
		&batch.ID,
		&batch.Status,
		&batch.Total,
		&batch.Succeeded,
		&batch.Failed,
		&batch.ReportRef,
		&batch.Error,
		&batch.CreatedAt,
		&batch.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return &batch, nil
}

func (s *BatchStore) Update(ctx context.Context, batch domain.Batch) error {
	cmd := `
        UPDATE batches
        SET status = $2, total = $3, succeeded = $4, failed = $5,
            report_ref = $6, error = $7, completed_at = $8
        WHERE id = $1;
    `
	tag, err := s.db.Exec(ctx, cmd,
		batch.ID,
		batch.Status,
		batch.Total,
		batch.Succeeded,
		batch.Failed,
		batch.ReportRef,
		batch.Error,
		batch.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
