package es

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reprolabs/verdict/internal/domain"
	pkgtesting "github.com/reprolabs/verdict/pkg/testing"
)

func testSubmission(title, content string) domain.Submission {
	return domain.Submission{
		ID:          uuid.New(),
		Title:       title,
		Description: "integration test submission",
		RubricIDs:   []uuid.UUID{uuid.New()},
		Items: []domain.MediaItem{
			{Kind: domain.MediaText, Content: content},
		},
		SubmittedAt: time.Now().UTC(),
	}
}

func TestIndexAndSearch(t *testing.T) {
	ctx := context.Background()
	container := pkgtesting.NewESContainer(ctx, t)

	cfg := ClientConfig{
		Addresses: []string{container.Address},
		IndexName: "submissions-test",
	}

	indexer, err := NewIndexer(ctx, cfg)
	require.NoError(t, err)

	alpha := testSubmission("alpha report", "distributed consensus notes")
	beta := testSubmission("beta report", "cache eviction benchmarks")

	require.NoError(t, indexer.Index(ctx, alpha))
	require.NoError(t, indexer.IndexBulk(ctx, []domain.Submission{beta}))

	client, err := newClient(cfg)
	require.NoError(t, err)
	_, err = client.Indices.Refresh().Index(cfg.IndexName).Do(ctx)
	require.NoError(t, err)

	searcher, err := NewSearcher(cfg)
	require.NoError(t, err)

	res, err := searcher.Search(ctx, "consensus", 10)
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, alpha.ID, res.Hits[0].Submission.ID)
	assert.Equal(t, "alpha report", res.Hits[0].Submission.Title)
	assert.Equal(t, 1.0, res.Hits[0].ScoreNormalized)

	res, err = searcher.Search(ctx, "report", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.TotalMatches)

	res, err = searcher.Search(ctx, "nonexistent-term-xyz", 10)
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
}
