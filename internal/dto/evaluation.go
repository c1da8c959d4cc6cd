package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/eval"
)

type EvaluateRequest struct {
	SubmissionID uuid.UUID `json:"submissionId" validate:"required"`
	// RubricIDs overrides the submission's own rubric list when set.
	RubricIDs []uuid.UUID `json:"rubricIds,omitempty"`
}

type EvaluateBatchRequest struct {
	SubmissionIDs []uuid.UUID `json:"submissionIds" validate:"required,min=1"`
}

type EvaluateBatchResponse struct {
	BatchID string `json:"batchId"`
	Total   int    `json:"total"`
	Status  string `json:"status"`
}

type CriterionScore struct {
	CriterionName string  `json:"criterionName"`
	Score         float64 `json:"score"`
	Passed        bool    `json:"passed"`
	Feedback      string  `json:"feedback,omitempty"`
}

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

type EvaluateResponse struct {
	SubmissionID          uuid.UUID    `json:"submissionId"`
	Results               []Evaluation `json:"results"`
	OverallAverageScore   float64      `json:"overallAverageScore"`
	OverallPassed         bool         `json:"overallPassed"`
	TotalProcessingTimeMS int64        `json:"totalProcessingTimeMs"`
}

// DeriveRequest runs the deterministic metric derivation on raw text.
// Zero-value settings fall back to the defaults.
type DeriveRequest struct {
	Text                     string   `json:"text" validate:"required,min=1"`
	Seed                     *int64   `json:"seed,omitempty"`
	Runs                     *int     `json:"runs,omitempty"`
	ReproducibilityThreshold *float64 `json:"reproducibilityThreshold,omitempty"`
	VarianceThreshold        *float64 `json:"varianceThreshold,omitempty"`
}

func (r DeriveRequest) ToConfig() eval.Config {
	cfg := eval.DefaultConfig()
	if r.Seed != nil {
		cfg.Seed = *r.Seed
	}
	if r.Runs != nil {
		cfg.Runs = *r.Runs
	}
	if r.ReproducibilityThreshold != nil {
		cfg.ReproducibilityThreshold = *r.ReproducibilityThreshold
	}
	if r.VarianceThreshold != nil {
		cfg.VarianceThreshold = *r.VarianceThreshold
	}
	return cfg
}

func FromEvaluation(ev *domain.Evaluation) Evaluation {
	scores := make([]CriterionScore, 0, len(ev.CriterionScores))
	for _, cs := range ev.CriterionScores {
		scores = append(scores, CriterionScore{
			CriterionName: cs.CriterionName,
			Score:         cs.Score,
			Passed:        cs.Passed,
			Feedback:      cs.Feedback,
		})
	}
	return Evaluation{
		ID:               ev.ID,
		SubmissionID:     ev.SubmissionID,
		RubricID:         ev.RubricID,
		OverallScore:     ev.OverallScore,
		Passed:           ev.Passed,
		CriterionScores:  scores,
		InputSHA256:      ev.InputSHA256,
		ConfigSHA256:     ev.ConfigSHA256,
		ProcessingTimeMS: ev.ProcessingTimeMS,
		EvaluatedAt:      ev.EvaluatedAt,
	}
}

func FromMultiRubricResult(mr *eval.MultiRubricResult) EvaluateResponse {
	results := make([]Evaluation, 0, len(mr.Results))
	for _, ev := range mr.Results {
		results = append(results, FromEvaluation(ev))
	}
	return EvaluateResponse{
		SubmissionID:          mr.SubmissionID,
		Results:               results,
		OverallAverageScore:   mr.OverallAverageScore,
		OverallPassed:         mr.OverallPassed,
		TotalProcessingTimeMS: mr.TotalProcessingTimeMS,
	}
}

type Batch struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Total       int        `json:"total"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
	ReportRef   string     `json:"reportRef,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func FromBatch(b *domain.Batch) Batch {
	return Batch{
		ID:          b.ID,
		Status:      string(b.Status),
		Total:       b.Total,
		Succeeded:   b.Succeeded,
		Failed:      b.Failed,
		ReportRef:   b.ReportRef,
		Error:       b.Error,
		CreatedAt:   b.CreatedAt,
		CompletedAt: b.CompletedAt,
	}
}
