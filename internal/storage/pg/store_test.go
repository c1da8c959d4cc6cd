package pg

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/storage"
	pkgtesting "github.com/reprolabs/verdict/pkg/testing"
)

var (
	testCtx  context.Context
	testPool *ConnectionPool
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "verdict_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		// No docker available; every test skips via requirePool.
		fmt.Fprintf(os.Stderr, "skipping postgres tests: %v\n", err)
		os.Exit(m.Run())
	}
	defer testcontainers.TerminateContainer(pg.Container)

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		panic(err)
	}
	defer testPool.Close()

	os.Exit(m.Run())
}

func requirePool(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("postgres container not available")
	}
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE evaluations, submissions, rubrics, batches CASCADE")
	require.NoError(t, err)
}

func sampleRubric(name string) domain.Rubric {
	return domain.Rubric{
		Name:        name,
		Description: "integration rubric",
		Criteria: []domain.Criterion{
			{Name: "correctness", Weight: 0.6, Threshold: 5.0},
			{Name: "clarity", Weight: 0.4, Threshold: 4.0},
		},
	}
}

func sampleSubmission(rubricIDs []uuid.UUID) domain.Submission {
	return domain.Submission{
		Title:     "integration submission",
		RubricIDs: rubricIDs,
		Items: []domain.MediaItem{
			{Kind: domain.MediaText, Content: "some submitted text"},
		},
	}
}

func TestRubricStore_RoundTrip(t *testing.T) {
	requirePool(t)
	truncateAll(t)

	store := NewRubricStore(testPool)

	id, err := store.Save(testCtx, sampleRubric("round-trip"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	got, err := store.Get(testCtx, id)
	require.NoError(t, err)
	assert.Equal(t, "round-trip", got.Name)
	require.Len(t, got.Criteria, 2)
	assert.Equal(t, 0.6, got.Criteria[0].Weight)

	got.Description = "updated"
	require.NoError(t, store.Update(testCtx, *got))
	got, err = store.Get(testCtx, id)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Description)

	require.NoError(t, store.Delete(testCtx, id))
	_, err = store.Get(testCtx, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.Delete(testCtx, id), storage.ErrNotFound)
}

func TestRubricStore_DuplicateName(t *testing.T) {
	requirePool(t)
	truncateAll(t)

	store := NewRubricStore(testPool)

	_, err := store.Save(testCtx, sampleRubric("dup"))
	require.NoError(t, err)

	_, err = store.Save(testCtx, sampleRubric("dup"))
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestRubricStore_List(t *testing.T) {
	requirePool(t)
	truncateAll(t)

	store := NewRubricStore(testPool)
	for i := 0; i < 3; i++ {
		_, err := store.Save(testCtx, sampleRubric(fmt.Sprintf("list-%d", i)))
		require.NoError(t, err)
	}

	page1, total, err := store.List(testCtx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page1, 2)

	page2, _, err := store.List(testCtx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}

func TestSubmissionStore_SaveAndBulk(t *testing.T) {
	requirePool(t)
	truncateAll(t)

	rubrics := NewRubricStore(testPool)
	rubricID, err := rubrics.Save(testCtx, sampleRubric("for-submissions"))
	require.NoError(t, err)

	store := NewSubmissionStore(testPool)

	id, err := store.Save(testCtx, sampleSubmission([]uuid.UUID{rubricID}))
	require.NoError(t, err)

	got, err := store.Get(testCtx, id)
	require.NoError(t, err)
	assert.Equal(t, "integration submission", got.Title)
	require.Len(t, got.RubricIDs, 1)
	assert.Equal(t, rubricID, got.RubricIDs[0])
	require.Len(t, got.Items, 1)
	assert.Equal(t, domain.MediaText, got.Items[0].Kind)

	batch := []domain.Submission{
		{Title: "bulk one", BatchID: "b-1", Items: []domain.MediaItem{{Kind: domain.MediaText, Content: "one"}}},
		{Title: "bulk two", BatchID: "b-1", Items: []domain.MediaItem{{Kind: domain.MediaText, Content: "two"}}},
	}
	ids, err := store.SaveBulk(testCtx, batch)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	byBatch, err := store.ListByBatch(testCtx, "b-1")
	require.NoError(t, err)
	assert.Len(t, byBatch, 2)

	_, total, err := store.List(testCtx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestEvaluationStore_SaveAndList(t *testing.T) {
	requirePool(t)
	truncateAll(t)

	submissions := NewSubmissionStore(testPool)
	subID, err := submissions.Save(testCtx, sampleSubmission(nil))
	require.NoError(t, err)

	store := NewEvaluationStore(testPool)

	ev := domain.Evaluation{
		SubmissionID: subID,
		RubricID:     uuid.New(),
		OverallScore: 7.2,
		Passed:       true,
		CriterionScores: []domain.CriterionScore{
			{CriterionName: "correctness", Score: 8.0, Passed: true},
		},
		InputSHA256:      "abc123",
		ConfigSHA256:     "def456",
		ProcessingTimeMS: 12,
		EvaluatedAt:      time.Now().UTC(),
	}

	id, err := store.Save(testCtx, ev)
	require.NoError(t, err)

	got, err := store.Get(testCtx, id)
	require.NoError(t, err)
	assert.Equal(t, 7.2, got.OverallScore)
	require.Len(t, got.CriterionScores, 1)
	assert.Equal(t, "correctness", got.CriterionScores[0].CriterionName)

	bySub, err := store.ListBySubmission(testCtx, subID)
	require.NoError(t, err)
	assert.Len(t, bySub, 1)

	recent, err := store.ListRecent(testCtx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestBatchStore_Lifecycle(t *testing.T) {
	requirePool(t)
	truncateAll(t)

	store := NewBatchStore(testPool)

	batch := domain.Batch{
		ID:     "lifecycle-1",
		Status: domain.BatchPending,
		Total:  5,
	}
	require.NoError(t, store.Save(testCtx, batch))

	got, err := store.Get(testCtx, "lifecycle-1")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchPending, got.Status)
	assert.Nil(t, got.CompletedAt)

	now := time.Now().UTC()
	got.Status = domain.BatchCompleted
	got.Succeeded = 5
	got.CompletedAt = &now
	require.NoError(t, store.Update(testCtx, *got))

	got, err = store.Get(testCtx, "lifecycle-1")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchCompleted, got.Status)
	assert.Equal(t, 5, got.Succeeded)
	require.NotNil(t, got.CompletedAt)

	_, err = store.Get(testCtx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
