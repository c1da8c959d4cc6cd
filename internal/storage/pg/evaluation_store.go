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

type EvaluationStore struct {
	db *pgxpool.Pool
}

func NewEvaluationStore(pool *ConnectionPool) *EvaluationStore {
	return &EvaluationStore{db: pool.conn}
}

func (s *EvaluationStore) Save(ctx context.Context, eval domain.Evaluation) (uuid.UUID, error) {
	if eval.ID == uuid.Nil {
		eval.ID = uuid.New()
	}
	if eval.EvaluatedAt.IsZero() {
		eval.EvaluatedAt = time.Now().UTC()
	}

	scoresJSON, err := json.Marshal(eval.CriterionScores)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal criterion scores: %w", err)
	}

	cmd := `
        INSERT INTO evaluations (
            id, submission_id, rubric_id, overall_score, passed,
            criterion_scores, input_sha256, config_sha256, processing_time_ms, evaluated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id;
    `
	var id uuid.UUID
	err = s.db.QueryRow(ctx, cmd,
		eval.ID,
		eval.SubmissionID,
		eval.RubricID,
		eval.OverallScore,
		eval.Passed,
		scoresJSON,
		eval.InputSHA256,
		eval.ConfigSHA256,
		eval.ProcessingTimeMS,
		eval.EvaluatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert evaluation: %w", err)
	}
	return id, nil
}

func (s *EvaluationStore) Get(ctx context.Context, id uuid.UUID) (*domain.Evaluation, error) {
	query := evaluationSelect + ` WHERE id = $1;`
	eval, err := scanEvaluation(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return eval, nil
}

func (s *EvaluationStore) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Evaluation, error) {
	query := evaluationSelect + ` WHERE submission_id = $1 ORDER BY evaluated_at, id;`
	rows, err := s.db.Query(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	return collectEvaluations(rows)
}

func (s *EvaluationStore) ListRecent(ctx context.Context, limit int) ([]domain.Evaluation, error) {
	query := evaluationSelect + ` ORDER BY evaluated_at DESC, id LIMIT $1;`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent evaluations: %w", err)
	}
	defer rows.Close()

	return collectEvaluations(rows)
}

const evaluationSelect = `
    SELECT id, submission_id, rubric_id, overall_score, passed,
           criterion_scores, input_sha256, config_sha256, processing_time_ms, evaluated_at
    FROM evaluations
`

func scanEvaluation(row pgx.Row) (*domain.Evaluation, error) {
	var eval domain.Evaluation
	var scoresJSON []byte

	if err := row.Scan(
		&eval.ID,
		&eval.SubmissionID,
		&eval.RubricID,
		&eval.OverallScore,
		&eval.Passed,
		&scoresJSON,
		&eval.InputSHA256,
		&eval.ConfigSHA256,
		&eval.ProcessingTimeMS,
		&eval.EvaluatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(scoresJSON, &eval.CriterionScores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal criterion scores: %w", err)
	}
	return &eval, nil
}

func collectEvaluations(rows pgx.Rows) ([]domain.Evaluation, error) {
	var evals []domain.Evaluation
	for rows.Next() {
		eval, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		evals = append(evals, *eval)
	}
	return evals, rows.Err()
}
