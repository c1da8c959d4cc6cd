package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/storage"
)

type MediaItem struct {
	Kind     string            `json:"kind" validate:"required,oneof=text image video audio"`
	Content  string            `json:"content"`
	Filename string            `json:"filename,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type CreateSubmissionRequest struct {
	Title       string      `json:"title" validate:"required,min=1"`
	Description string      `json:"description,omitempty"`
	RubricIDs   []uuid.UUID `json:"rubricIds"`
	Items       []MediaItem `json:"items" validate:"required,min=1"`
}

type Submission struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	RubricIDs   []uuid.UUID `json:"rubricIds"`
	Items       []MediaItem `json:"items"`
	BatchID     string      `json:"batchId,omitempty"`
	SubmittedAt time.Time   `json:"submittedAt"`
}

type SubmissionSearchResult struct {
	Submission      Submission `json:"submission"`
	Score           float64    `json:"score"`
	ScoreNormalized float64    `json:"score_normalized,omitempty"`
}

type SubmissionSearchResponse struct {
	Hits         []SubmissionSearchResult `json:"hits"`
	TotalMatches int64                    `json:"total_matches"`
	MaxScore     float64                  `json:"max_score"`
}

func (r CreateSubmissionRequest) ToDomain() domain.Submission {
	return domain.Submission{
		Title:       r.Title,
		Description: r.Description,
		RubricIDs:   r.RubricIDs,
		Items:       toDomainItems(r.Items),
	}
}

func FromSubmission(s *domain.Submission) Submission {
	items := make([]MediaItem, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, MediaItem{
			Kind:     string(item.Kind),
			Content:  item.Content,
			Filename: item.Filename,
			Metadata: item.Metadata,
		})
	}
	return Submission{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		RubricIDs:   s.RubricIDs,
		Items:       items,
		BatchID:     s.BatchID,
		SubmittedAt: s.SubmittedAt,
	}
}

func FromSubmissions(subs []domain.Submission) []Submission {
	out := make([]Submission, 0, len(subs))
	for i := range subs {
		out = append(out, FromSubmission(&subs[i]))
	}
	return out
}

func FromSearchResult(res *storage.SearchResult) SubmissionSearchResponse {
	hits := make([]SubmissionSearchResult, 0, len(res.Hits))
	for i := range res.Hits {
		hits = append(hits, SubmissionSearchResult{
			Submission:      FromSubmission(&res.Hits[i].Submission),
			Score:           res.Hits[i].Score,
			ScoreNormalized: res.Hits[i].ScoreNormalized,
		})
	}
	return SubmissionSearchResponse{
		Hits:         hits,
		TotalMatches: res.TotalMatches,
		MaxScore:     res.MaxScore,
	}
}

func toDomainItems(items []MediaItem) []domain.MediaItem {
	out := make([]domain.MediaItem, 0, len(items))
	for _, item := range items {
		out = append(out, domain.MediaItem{
			Kind:     domain.MediaKind(item.Kind),
			Content:  item.Content,
			Filename: item.Filename,
			Metadata: item.Metadata,
		})
	}
	return out
}
