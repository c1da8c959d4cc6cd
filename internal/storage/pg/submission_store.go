package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/storage"
)

type SubmissionStore struct {
	db *pgxpool.Pool
}

func NewSubmissionStore(pool *ConnectionPool) *SubmissionStore {
	return &SubmissionStore{db: pool.conn}
}

func (s *SubmissionStore) Save(ctx context.Context, sub domain.Submission) (uuid.UUID, error) {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}

	rubricIDsJSON, itemsJSON, err := marshalSubmission(sub)
	if err != nil {
		return uuid.Nil, err
	}

	cmd := `
        INSERT INTO submissions (id, title, description, rubric_ids, items, batch_id, submitted_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id;
    `
	var id uuid.UUID
	err = s.db.QueryRow(ctx, cmd,
		sub.ID,
		sub.Title,
		sub.Description,
		rubricIDsJSON,
		itemsJSON,
		sub.BatchID,
		sub.SubmittedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert submission: %w", err)
	}
	return id, nil
}

func (s *SubmissionStore) SaveBulk(ctx context.Context, subs []domain.Submission) ([]uuid.UUID, error) {
	if len(subs) == 0 {
		return nil, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	ids := make([]uuid.UUID, 0, len(subs))
	now := time.Now().UTC()

	for _, sub := range subs {
		if sub.ID == uuid.Nil {
			sub.ID = uuid.New()
		}
		if sub.SubmittedAt.IsZero() {
			sub.SubmittedAt = now
		}
		rubricIDsJSON, itemsJSON, err := marshalSubmission(sub)
		if err != nil {
			return nil, err
		}
		batch.Queue(`
            INSERT INTO submissions (id, title, description, rubric_ids, items, batch_id, submitted_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7);
        `, sub.ID, sub.Title, sub.Description, rubricIDsJSON, itemsJSON, sub.BatchID, sub.SubmittedAt)
		ids = append(ids, sub.ID)
	}

	results := tx.SendBatch(ctx, batch)
	for range subs {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return nil, fmt.Errorf("failed to insert submission batch: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("failed to close submission batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit submission batch: %w", err)
	}
	return ids, nil
}

func (s *SubmissionStore) Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `
        SELECT id, title, description, rubric_ids, items, batch_id, submitted_at
        FROM submissions
        WHERE id = $1;
    `
	sub, err := scanSubmission(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

func (s *SubmissionStore) List(ctx context.Context, page, size int) ([]domain.Submission, int64, error) {
	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM submissions;`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query := `
        SELECT id, title, description, rubric_ids, items, batch_id, submitted_at
        FROM submissions
        ORDER BY submitted_at, id
        LIMIT $1 OFFSET $2;
    `
	rows, err := s.db.Query(ctx, query, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	subs, err := collectSubmissions(rows)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (s *SubmissionStore) ListByBatch(ctx context.Context, batchID string) ([]domain.Submission, error) {
	query := `
        SELECT id, title, description, rubric_ids, items, batch_id, submitted_at
        FROM submissions
        WHERE batch_id = $1
        ORDER BY submitted_at, id;
    `
	rows, err := s.db.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch submissions: %w", err)
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

func marshalSubmission(sub domain.Submission) (rubricIDs, items []byte, err error) {
	rubricIDs, err = json.Marshal(sub.RubricIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal rubric ids: %w", err)
	}
	items, err = json.Marshal(sub.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal items: %w", err)
	}
	return rubricIDs, items, nil
}

func scanSubmission(row pgx.Row) (*domain.Submission, error) {
	var sub domain.Submission
	var rubricIDsJSON, itemsJSON []byte

	if err := row.Scan(
		&sub.ID,
		&sub.Title,
		&sub.Description,
		&rubricIDsJSON,
		&itemsJSON,
		&sub.BatchID,
		&sub.SubmittedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rubricIDsJSON, &sub.RubricIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rubric ids: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &sub.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	return &sub, nil
}

func collectSubmissions(rows pgx.Rows) ([]domain.Submission, error) {
	var subs []domain.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}
