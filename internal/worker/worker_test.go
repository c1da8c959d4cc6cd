package worker

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/storage/in_mem"
)

func testRubric(t *testing.T, store *in_mem.Store) domain.Rubric {
	t.Helper()

	rubric := domain.Rubric{
		ID:   uuid.New(),
		Name: "quality",
		Criteria: []domain.Criterion{
			{Name: "clarity", Weight: 0.6, Threshold: 0.0},
			{Name: "depth", Weight: 0.4, Threshold: 0.0},
		},
	}
	_, err := store.Save(context.Background(), rubric)
	require.NoError(t, err)
	return rubric
}

func testServer(store *in_mem.Store) *Server {
	return &Server{
		Submissions: store.SubmissionStore(),
		Rubrics:     store,
		Evaluations: store.EvaluationStore(),
		Batches:     store.BatchStore(),
	}
}

func TestHandleBatch(t *testing.T) {
	store := in_mem.NewStore()
	rubric := testRubric(t, store)
	srv := testServer(store)

	sub := domain.Submission{
		ID:        uuid.New(),
		Title:     "essay",
		RubricIDs: []uuid.UUID{rubric.ID},
		Items:     []domain.MediaItem{{Kind: domain.MediaText, Content: "some essay text"}},
		BatchID:   "batch-1",
	}
	_, err := store.SubmissionStore().Save(context.Background(), sub)
	require.NoError(t, err)

	require.NoError(t, store.BatchStore().Save(context.Background(), domain.Batch{
		ID:     "batch-1",
		Status: domain.BatchPending,
		Total:  1,
	}))

	task, err := NewBatchTask(BatchPayload{BatchID: "batch-1", SubmissionIDs: []uuid.UUID{sub.ID}})
	require.NoError(t, err)

	require.NoError(t, srv.handleBatch(context.Background(), task))

	batch, err := store.BatchStore().Get(context.Background(), "batch-1")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchCompleted, batch.Status)
	assert.Equal(t, 1, batch.Succeeded)
	assert.Equal(t, 0, batch.Failed)
	assert.NotNil(t, batch.CompletedAt)
	assert.Empty(t, batch.ReportRef)

	evals, err := store.EvaluationStore().ListBySubmission(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Len(t, evals, 1)
	assert.Equal(t, rubric.ID, evals[0].RubricID)
	assert.Len(t, evals[0].CriterionScores, 2)
}

func TestHandleBatch_MultiRubricCountsSubmissionsOnce(t *testing.T) {
	store := in_mem.NewStore()
	srv := testServer(store)

	first := testRubric(t, store)
	second := domain.Rubric{
		ID:   uuid.New(),
		Name: "style",
		Criteria: []domain.Criterion{
			{Name: "tone", Weight: 1.0, Threshold: 0.0},
		},
	}
	_, err := store.Save(context.Background(), second)
	require.NoError(t, err)

	sub := domain.Submission{
		ID:        uuid.New(),
		Title:     "essay",
		RubricIDs: []uuid.UUID{first.ID, second.ID},
		Items:     []domain.MediaItem{{Kind: domain.MediaText, Content: "some essay text"}},
		BatchID:   "batch-4",
	}
	_, err = store.SubmissionStore().Save(context.Background(), sub)
	require.NoError(t, err)

	require.NoError(t, store.BatchStore().Save(context.Background(), domain.Batch{
		ID: "batch-4", Status: domain.BatchPending, Total: 1,
	}))

	task, err := NewBatchTask(BatchPayload{BatchID: "batch-4", SubmissionIDs: []uuid.UUID{sub.ID}})
	require.NoError(t, err)

	require.NoError(t, srv.handleBatch(context.Background(), task))

	batch, err := store.BatchStore().Get(context.Background(), "batch-4")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchCompleted, batch.Status)
	assert.Equal(t, 1, batch.Succeeded)
	assert.Equal(t, 0, batch.Failed)

	evals, err := store.EvaluationStore().ListBySubmission(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Len(t, evals, 2)
}

func TestHandleBatch_MissingSubmission(t *testing.T) {
	store := in_mem.NewStore()
	srv := testServer(store)

	require.NoError(t, store.BatchStore().Save(context.Background(), domain.Batch{
		ID:     "batch-2",
		Status: domain.BatchPending,
		Total:  1,
	}))

	task, err := NewBatchTask(BatchPayload{BatchID: "batch-2", SubmissionIDs: []uuid.UUID{uuid.New()}})
	require.NoError(t, err)

	require.NoError(t, srv.handleBatch(context.Background(), task))

	batch, err := store.BatchStore().Get(context.Background(), "batch-2")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchFailed, batch.Status)
	assert.Equal(t, 1, batch.Failed)
	assert.NotEmpty(t, batch.Error)
}

func TestHandleBatch_PartialFailure(t *testing.T) {
	store := in_mem.NewStore()
	rubric := testRubric(t, store)
	srv := testServer(store)

	sub := domain.Submission{
		ID:        uuid.New(),
		Title:     "good one",
		RubricIDs: []uuid.UUID{rubric.ID},
		Items:     []domain.MediaItem{{Kind: domain.MediaText, Content: "fine"}},
		BatchID:   "batch-3",
	}
	_, err := store.SubmissionStore().Save(context.Background(), sub)
	require.NoError(t, err)

	require.NoError(t, store.BatchStore().Save(context.Background(), domain.Batch{
		ID: "batch-3", Status: domain.BatchPending, Total: 2,
	}))

	task, err := NewBatchTask(BatchPayload{
		BatchID:       "batch-3",
		SubmissionIDs: []uuid.UUID{sub.ID, uuid.New()},
	})
	require.NoError(t, err)

	require.NoError(t, srv.handleBatch(context.Background(), task))

	batch, err := store.BatchStore().Get(context.Background(), "batch-3")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchCompleted, batch.Status)
	assert.Equal(t, 1, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
}

func TestHandleBatch_UnknownBatch(t *testing.T) {
	store := in_mem.NewStore()
	srv := testServer(store)

	task, err := NewBatchTask(BatchPayload{BatchID: "nope"})
	require.NoError(t, err)

	assert.Error(t, srv.handleBatch(context.Background(), task))
}
