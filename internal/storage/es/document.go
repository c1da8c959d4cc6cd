package es

import (
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"

	"github.com/reprolabs/verdict/internal/domain"
)

// SubmissionDocument is the document structure stored in Elasticsearch.
// Text item contents are flattened into a single content field for
// full-text scoring; non-text items contribute their filenames only.
type SubmissionDocument struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Kinds       []string  `json:"kinds"`
	RubricIDs   []string  `json:"rubric_ids"`
	BatchID     string    `json:"batch_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	IndexedAt   time.Time `json:"indexed_at"`
}

type IndexBuilder struct{}

func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{}
}

func (b *IndexBuilder) mapToESDocument(sub domain.Submission) SubmissionDocument {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}

	var contentParts []string
	kinds := make([]string, 0, len(sub.Items))
	for _, item := range sub.Items {
		kinds = append(kinds, string(item.Kind))
		if item.Kind == domain.MediaText {
			contentParts = append(contentParts, item.Content)
		} else if item.Filename != "" {
			contentParts = append(contentParts, item.Filename)
		}
	}

	rubricIDs := make([]string, 0, len(sub.RubricIDs))
	for _, id := range sub.RubricIDs {
		rubricIDs = append(rubricIDs, id.String())
	}

	return SubmissionDocument{
		ID:          sub.ID.String(),
		Title:       sub.Title,
		Description: sub.Description,
		Content:     strings.Join(contentParts, "\n"),
		Kinds:       kinds,
		RubricIDs:   rubricIDs,
		BatchID:     sub.BatchID,
		SubmittedAt: sub.SubmittedAt,
		IndexedAt:   time.Now(),
	}
}

func (b *IndexBuilder) buildSettings() types.IndexSettings {
	return types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				"submission_analyzer": types.StandardAnalyzer{
					Stopwords: []string{"_none_"},
				},
			},
		},
	}
}

func (b *IndexBuilder) buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":           types.NewKeywordProperty(),
			"title":        b.createTextPropertyWithKeyword("submission_analyzer"),
			"description":  b.createTextProperty("submission_analyzer"),
			"content":      b.createTextProperty("submission_analyzer"),
			"kinds":        types.NewKeywordProperty(),
			"rubric_ids":   types.NewKeywordProperty(),
			"batch_id":     types.NewKeywordProperty(),
			"submitted_at": types.NewDateProperty(),
			"indexed_at":   types.NewDateProperty(),
		},
	}
}

func (b *IndexBuilder) createTextProperty(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	return textProp
}

func (b *IndexBuilder) createTextPropertyWithKeyword(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
