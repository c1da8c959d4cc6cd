package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/reprolabs/verdict/internal/domain"
)

// CSVCollector streams submissions out of a CSV file. Expected columns:
// title, description, kind, content, filename, rubric_ids. Only title and
// content are required; rubric_ids holds semicolon-separated UUIDs.
type CSVCollector struct {
	reader io.Reader
}

func NewCSVCollector(reader io.Reader) *CSVCollector {
	return &CSVCollector{reader: reader}
}

func (c *CSVCollector) Collect(ctx context.Context) (<-chan Result[domain.Submission], error) {
	csvReader := csv.NewReader(c.reader)

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	out := make(chan Result[domain.Submission])

	go func() {
		defer close(out)

		for {
			row, err := csvReader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				select {
				case out <- Result[domain.Submission]{Err: err}:
				case <-ctx.Done():
					return
				}
				continue
			}

			record := make(map[string]string, len(headers))
			for i, h := range headers {
				if i < len(row) {
					record[strings.ToLower(strings.TrimSpace(h))] = row[i]
				}
			}

			sub, err := mapRecord(record)
			select {
			case out <- Result[domain.Submission]{Result: sub, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func mapRecord(record map[string]string) (domain.Submission, error) {
	title := strings.TrimSpace(record["title"])
	if title == "" {
		return domain.Submission{}, fmt.Errorf("row has no title")
	}
	content := record["content"]
	if content == "" {
		return domain.Submission{}, fmt.Errorf("row %q has no content", title)
	}

	kind := domain.MediaKind(strings.TrimSpace(record["kind"]))
	if kind == "" {
		kind = domain.MediaText
	}
	if !kind.Valid() {
		return domain.Submission{}, fmt.Errorf("row %q has unknown kind %q", title, kind)
	}

	rubricIDs, err := parseRubricIDs(record["rubric_ids"])
	if err != nil {
		return domain.Submission{}, fmt.Errorf("row %q: %w", title, err)
	}

	return domain.Submission{
		Title:       title,
		Description: record["description"],
		RubricIDs:   rubricIDs,
		Items: []domain.MediaItem{{
			Kind:     kind,
			Content:  content,
			Filename: record["filename"],
		}},
	}, nil
}

func parseRubricIDs(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ";")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := uuid.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("invalid rubric id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
