package eval

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reprolabs/verdict/internal/domain"
)

func TestScoreCriterion_Golden(t *testing.T) {
	// Cross-checked against an independent SHA256 implementation.
	assert.InDelta(t, 5.2, ScoreCriterion("clarity", []string{"good text"}), 1e-12)
	assert.InDelta(t, 8.3, ScoreCriterion("accuracy", []string{"good text"}), 1e-12)
	assert.InDelta(t, 3.0, ScoreCriterion("clarity", []string{"a", "b"}), 1e-12)
	assert.InDelta(t, 0.1, ScoreCriterion("depth", []string{"The quick brown fox"}), 1e-12)
}

func TestScoreCriterion_Bounds(t *testing.T) {
	inputs := []string{"", "x", "some longer content", "unicode: ćevapi"}
	for _, in := range inputs {
		score := ScoreCriterion("criterion", []string{in})
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 9.9)
	}
}

func TestScoreCriterion_OrderSensitive(t *testing.T) {
	ab := ScoreCriterion("clarity", []string{"a", "b"})
	ba := ScoreCriterion("clarity", []string{"b", "a"})
	assert.NotEqual(t, ab, ba)
}

func testRubric() *domain.Rubric {
	return &domain.Rubric{
		ID:   uuid.New(),
		Name: "Content Quality",
		Criteria: []domain.Criterion{
			{Name: "clarity", Weight: 0.5, Threshold: 5.0},
			{Name: "accuracy", Weight: 0.5, Threshold: 5.0},
		},
	}
}

func textSubmission(content string) *domain.Submission {
	return &domain.Submission{
		ID:    uuid.New(),
		Items: []domain.MediaItem{{Kind: domain.MediaText, Content: content}},
	}
}

func TestScoreSubmission(t *testing.T) {
	rubric := testRubric()
	sub := textSubmission("good text")

	res := ScoreSubmission(rubric, sub)

	require.Len(t, res.CriterionScores, 2)
	assert.Equal(t, "clarity", res.CriterionScores[0].CriterionName)
	assert.InDelta(t, 5.2, res.CriterionScores[0].Score, 1e-12)
	assert.True(t, res.CriterionScores[0].Passed)
	assert.InDelta(t, 8.3, res.CriterionScores[1].Score, 1e-12)
	assert.True(t, res.CriterionScores[1].Passed)

	// 5.2*0.5 + 8.3*0.5
	assert.InDelta(t, 6.75, res.OverallScore, 1e-12)
	assert.True(t, res.Passed)

	assert.Equal(t, sub.ID, res.SubmissionID)
	assert.Equal(t, rubric.ID, res.RubricID)
	assert.Equal(t, HashString("good text"), res.InputSHA256)
	assert.NotEqual(t, uuid.Nil, res.ID)
}

func TestScoreSubmission_FailsThreshold(t *testing.T) {
	rubric := &domain.Rubric{
		ID:   uuid.New(),
		Name: "Strict",
		Criteria: []domain.Criterion{
			{Name: "depth", Weight: 1.0, Threshold: 9.5},
		},
	}
	res := ScoreSubmission(rubric, textSubmission("The quick brown fox"))

	assert.InDelta(t, 0.1, res.OverallScore, 1e-12)
	assert.False(t, res.Passed)
	assert.False(t, res.CriterionScores[0].Passed)
}

func TestScoreSubmission_Deterministic(t *testing.T) {
	rubric := testRubric()
	sub := textSubmission("stable input")

	first := ScoreSubmission(rubric, sub)
	second := ScoreSubmission(rubric, sub)

	assert.Equal(t, first.OverallScore, second.OverallScore)
	for i := range first.CriterionScores {
		assert.Equal(t, first.CriterionScores[i].Score, second.CriterionScores[i].Score)
	}
}

func TestScoreSubmission_MultimodalContentKey(t *testing.T) {
	sub := &domain.Submission{
		ID: uuid.New(),
		Items: []domain.MediaItem{
			{Kind: domain.MediaText, Content: "a"},
			{Kind: domain.MediaImage, Content: "b"},
		},
	}
	res := ScoreSubmission(testRubric(), sub)

	// items are joined with '|' before hashing
	assert.InDelta(t, 3.0, res.CriterionScores[0].Score, 1e-12)
	assert.Equal(t, HashString("a|b"), res.InputSHA256)
}

func TestScoreAgainstRubrics(t *testing.T) {
	lenient := &domain.Rubric{
		ID:       uuid.New(),
		Name:     "Lenient",
		Criteria: []domain.Criterion{{Name: "clarity", Weight: 1.0, Threshold: 1.0}},
	}
	strict := &domain.Rubric{
		ID:       uuid.New(),
		Name:     "Strict",
		Criteria: []domain.Criterion{{Name: "clarity", Weight: 1.0, Threshold: 9.9}},
	}
	sub := textSubmission("good text") // clarity scores 5.2

	mr := ScoreAgainstRubrics([]*domain.Rubric{lenient, strict}, sub)

	require.Len(t, mr.Results, 2)
	assert.InDelta(t, 5.2, mr.OverallAverageScore, 1e-12)
	assert.True(t, mr.Results[0].Passed)
	assert.False(t, mr.Results[1].Passed)
	assert.False(t, mr.OverallPassed)
}

func TestScoreAgainstRubrics_Empty(t *testing.T) {
	mr := ScoreAgainstRubrics(nil, textSubmission("x"))
	assert.Empty(t, mr.Results)
	assert.Zero(t, mr.OverallAverageScore)
	assert.False(t, mr.OverallPassed)
}
