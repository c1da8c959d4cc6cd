package eval

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reprolabs/verdict/internal/domain"
)

var scoreModulus = big.NewInt(100)

// ScoreCriterion derives a 0.0..9.9 score from SHA256(name|content_0|...).
// The full digest is reduced mod 100 and scaled to a tenth-point scale.
func ScoreCriterion(name string, contents []string) float64 {
	input := name + "|" + strings.Join(contents, "|")
	sum := sha256.Sum256([]byte(input))

	v := new(big.Int).SetBytes(sum[:])
	v.Mod(v, scoreModulus)

	return float64(v.Int64()) / 10.0
}

// ScoreSubmission scores a submission against a single rubric. Scores are
// a pure function of criterion names and item contents; the weighted sum
// forms the overall score and a submission passes only when every
// criterion clears its threshold.
func ScoreSubmission(rubric *domain.Rubric, sub *domain.Submission) *domain.Evaluation {
	start := time.Now()

	contents := make([]string, len(sub.Items))
	for i, item := range sub.Items {
		contents[i] = item.Content
	}

	scores := make([]domain.CriterionScore, len(rubric.Criteria))
	overall := 0.0
	passed := true
	for i, criterion := range rubric.Criteria {
		score := ScoreCriterion(criterion.Name, contents)
		criterionPassed := score >= criterion.Threshold

		scores[i] = domain.CriterionScore{
			CriterionName: criterion.Name,
			Score:         score,
			Passed:        criterionPassed,
			Feedback:      fmt.Sprintf("hash-derived score %.1f/10 against threshold %.1f", score, criterion.Threshold),
		}
		overall += score * criterion.Weight
		passed = passed && criterionPassed
	}

	return &domain.Evaluation{
		ID:               uuid.New(),
		SubmissionID:     sub.ID,
		RubricID:         rubric.ID,
		OverallScore:     overall,
		Passed:           passed,
		CriterionScores:  scores,
		InputSHA256:      HashString(sub.ContentKey()),
		ProcessingTimeMS: time.Since(start).Milliseconds(),
		EvaluatedAt:      time.Now().UTC(),
	}
}

// MultiRubricResult aggregates one submission scored against several rubrics.
type MultiRubricResult struct {
	SubmissionID          uuid.UUID            `json:"submissionId"`
	Results               []*domain.Evaluation `json:"results"`
	OverallAverageScore   float64              `json:"overallAverageScore"`
	OverallPassed         bool                 `json:"overallPassed"`
	TotalProcessingTimeMS int64                `json:"totalProcessingTimeMs"`
}

// ScoreAgainstRubrics scores a submission against every rubric in order.
func ScoreAgainstRubrics(rubrics []*domain.Rubric, sub *domain.Submission) *MultiRubricResult {
	mr := &MultiRubricResult{
		SubmissionID:  sub.ID,
		OverallPassed: len(rubrics) > 0,
	}

	for _, rubric := range rubrics {
		res := ScoreSubmission(rubric, sub)
		mr.Results = append(mr.Results, res)
		mr.OverallAverageScore += res.OverallScore
		mr.OverallPassed = mr.OverallPassed && res.Passed
		mr.TotalProcessingTimeMS += res.ProcessingTimeMS
	}

	if len(mr.Results) > 0 {
		mr.OverallAverageScore /= float64(len(mr.Results))
	}

	return mr
}
