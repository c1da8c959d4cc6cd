package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/google/uuid"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/storage"
)

// Field weights applied to the multi_match query. Titles rank above
// descriptions and raw content.
var searchFieldWeights = map[string]float64{
	"title":       2.0,
	"description": 1.5,
	"content":     1.0,
}

var searchFields = []string{"title", "description", "content"}

type Searcher struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewSearcher(config ClientConfig) (*Searcher, error) {
	client, err := newClient(config)

	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Searcher{
		client:    client,
		indexName: config.IndexName,
	}, nil
}

// Search implements storage.SubmissionSearcher with a BM25-ranked
// multi_match query over the indexed submission text fields.
func (r *Searcher) Search(ctx context.Context, query string, size int) (*storage.SearchResult, error) {
	slog.Info("executing es submission search", "query", query, "size", size)

	fieldsWithBoost := make([]string, 0, len(searchFields))
	for _, field := range searchFields {
		weight := searchFieldWeights[field]
		if weight != 1.0 {
			fieldsWithBoost = append(fieldsWithBoost, fmt.Sprintf("%s^%.1f", field, weight))
		} else {
			fieldsWithBoost = append(fieldsWithBoost, field)
		}
	}

	or := operator.Or
	multiMatch := &types.MultiMatchQuery{
		Query:    query,
		Fields:   fieldsWithBoost,
		Operator: &or,
	}

	sortOrderDesc := sortorder.Desc
	res, err := r.client.Search().
		Index(r.indexName).
		Query(&types.Query{
			MultiMatch: multiMatch,
		}).
		Size(size).
		TrackScores(true).
		Sort(
			&types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"_score": {Order: &sortOrderDesc},
				},
			},
			&types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"id": {Order: &sortOrderDesc},
				},
			},
		).
		Do(ctx)
	if err != nil {
		slog.Error("elasticsearch query failed", "error", err, "query", query)
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	var maxScore float64
	if res.Hits.MaxScore != nil {
		maxScore = float64(*res.Hits.MaxScore)
	}

	hits, err := r.mapToResult(res.Hits.Hits, maxScore)
	if err != nil {
		return nil, fmt.Errorf("failed to map search results: %w", err)
	}

	slog.Info("es search results fetched",
		"total_matches", res.Hits.Total.Value,
		"returned_count", len(hits),
		"max_score", maxScore)

	return &storage.SearchResult{
		Hits:         hits,
		TotalMatches: res.Hits.Total.Value,
		MaxScore:     maxScore,
	}, nil
}

func (r *Searcher) mapToResult(hits []types.Hit, maxScore float64) ([]storage.SubmissionHit, error) {
	if hits == nil {
		return make([]storage.SubmissionHit, 0), nil
	}

	out := make([]storage.SubmissionHit, 0, len(hits))
	for _, hit := range hits {
		var doc SubmissionDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}

		sub, err := mapToSubmission(doc)
		if err != nil {
			return nil, err
		}

		var rawScore float64
		if hit.Score_ != nil {
			rawScore = float64(*hit.Score_)
		}
		var normalized float64
		if maxScore > 0 {
			normalized = rawScore / maxScore
		}

		out = append(out, storage.SubmissionHit{
			Submission:      sub,
			Score:           rawScore,
			ScoreNormalized: normalized,
		})
	}

	return out, nil
}

func mapToSubmission(doc SubmissionDocument) (domain.Submission, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("failed to parse submission ID: %w", err)
	}

	rubricIDs := make([]uuid.UUID, 0, len(doc.RubricIDs))
	for _, raw := range doc.RubricIDs {
		rid, err := uuid.Parse(raw)
		if err != nil {
			return domain.Submission{}, fmt.Errorf("failed to parse rubric ID: %w", err)
		}
		rubricIDs = append(rubricIDs, rid)
	}

	items := make([]domain.MediaItem, 0, len(doc.Kinds))
	for _, kind := range doc.Kinds {
		items = append(items, domain.MediaItem{Kind: domain.MediaKind(kind)})
	}

	return domain.Submission{
		ID:          id,
		Title:       doc.Title,
		Description: doc.Description,
		RubricIDs:   rubricIDs,
		Items:       items,
		BatchID:     doc.BatchID,
		SubmittedAt: doc.SubmittedAt.UTC(),
	}, nil
}

var _ storage.SubmissionSearcher = (*Searcher)(nil)
