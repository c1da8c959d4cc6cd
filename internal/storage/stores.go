package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/reprolabs/verdict/internal/domain"
)

type Type string

const (
	PG    Type = "pg"
	InMem Type = "in_mem"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storage type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}

// RubricStore persists rubric definitions.
type RubricStore interface {
	Save(ctx context.Context, rubric domain.Rubric) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Rubric, error)
	List(ctx context.Context, page, size int) ([]domain.Rubric, int64, error)
	Update(ctx context.Context, rubric domain.Rubric) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubmissionStore persists submissions and their media items.
type SubmissionStore interface {
	Save(ctx context.Context, sub domain.Submission) (uuid.UUID, error)
	SaveBulk(ctx context.Context, subs []domain.Submission) ([]uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	List(ctx context.Context, page, size int) ([]domain.Submission, int64, error)
	ListByBatch(ctx context.Context, batchID string) ([]domain.Submission, error)
}

// EvaluationStore persists evaluation outcomes.
type EvaluationStore interface {
	Save(ctx context.Context, ev domain.Evaluation) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Evaluation, error)
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Evaluation, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Evaluation, error)
}

// BatchStore tracks asynchronous batch evaluations.
type BatchStore interface {
	Save(ctx context.Context, batch domain.Batch) error
	Get(ctx context.Context, id string) (*domain.Batch, error)
	Update(ctx context.Context, batch domain.Batch) error
}

// SubmissionHit is a single full-text match with its relevance scores.
type SubmissionHit struct {
	Submission      domain.Submission `json:"submission"`
	Score           float64           `json:"score"`
	ScoreNormalized float64           `json:"score_normalized"`
}

// SearchResult carries a page of full-text matches.
type SearchResult struct {
	Hits         []SubmissionHit `json:"hits"`
	TotalMatches int64           `json:"total_matches"`
	MaxScore     float64         `json:"max_score"`
}

// SubmissionSearcher provides relevance-ranked full-text search over
// submission titles, descriptions and text content.
type SubmissionSearcher interface {
	Search(ctx context.Context, query string, size int) (*SearchResult, error)
}

// SubmissionIndexer mirrors saved submissions into the search index.
type SubmissionIndexer interface {
	Index(ctx context.Context, sub domain.Submission) error
	IndexBulk(ctx context.Context, subs []domain.Submission) error
}
