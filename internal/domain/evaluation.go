package domain

import (
	"time"

	"github.com/google/uuid"
)

type BatchStatus string

const (
	BatchPending   BatchStatus = "pending"
	BatchRunning   BatchStatus = "running"
	BatchCompleted BatchStatus = "completed"
	BatchFailed    BatchStatus = "failed"
)

type CriterionScore struct {
	CriterionName string  `json:"criterionName"`
	Score         float64 `json:"score"` // 0..10
	Passed        bool    `json:"passed"`
	Feedback      string  `json:"feedback,omitempty"`
}

// Evaluation is the persisted outcome of scoring one submission against
// one rubric.
type Evaluation struct {
	ID               uuid.UUID        `json:"id"`
	SubmissionID     uuid.UUID        `json:"submissionId"`
	RubricID         uuid.UUID        `json:"rubricId"`
	OverallScore     float64          `json:"overallScore"`
	Passed           bool             `json:"passed"`
	CriterionScores  []CriterionScore `json:"criterionScores"`
	InputSHA256      string           `json:"inputSha256"`
	ConfigSHA256     string           `json:"configSha256"`
	ProcessingTimeMS int64            `json:"processingTimeMs"`
	EvaluatedAt      time.Time        `json:"evaluatedAt"`
}

// Batch tracks an asynchronous batch evaluation.
type Batch struct {
	ID          string      `json:"id"`
	Status      BatchStatus `json:"status"`
	Total       int         `json:"total"`
	Succeeded   int         `json:"succeeded"`
	Failed      int         `json:"failed"`
	ReportRef   string      `json:"reportRef,omitempty"` // artifact ref, e.g. s3://bucket/key
	Error       string      `json:"error,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
}
