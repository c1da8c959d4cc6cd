package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/storage"
)

const defaultBulkSize = 500

type bulkOptions struct {
	enabled bool
	size    int
}

// Pipeline drains a submission collector into the primary store and,
// when configured, the search index.
type Pipeline struct {
	collector Collector[domain.Submission]
	store     storage.SubmissionStore
	indexer   storage.SubmissionIndexer
	bulk      bulkOptions
}

type PipelineOption func(*Pipeline)

func WithBulk(size int) PipelineOption {
	return func(p *Pipeline) {
		p.bulk = bulkOptions{enabled: true, size: size}
	}
}

func WithIndexer(indexer storage.SubmissionIndexer) PipelineOption {
	return func(p *Pipeline) {
		p.indexer = indexer
	}
}

func NewPipeline(c Collector[domain.Submission], store storage.SubmissionStore, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		collector: c,
		store:     store,
		bulk:      bulkOptions{size: defaultBulkSize},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()

	results, err := p.collector.Collect(ctx)
	if err != nil {
		return err
	}

	var runErr error
	if p.bulk.enabled {
		runErr = p.importBulk(ctx, results)
	} else {
		runErr = p.importBasic(ctx, results)
	}

	slog.Info("ingest pipeline completed", "duration", time.Since(start))
	return runErr
}

func (p *Pipeline) importBasic(ctx context.Context, results <-chan Result[domain.Submission]) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("pipeline context cancelled, stopping ingest")
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				return nil
			}
			if res.Err != nil {
				slog.Error("skipping submission row", "error", res.Err)
				continue
			}

			id, err := p.store.Save(ctx, res.Result)
			if err != nil {
				slog.Error("failed to save submission", "title", res.Result.Title, "error", err)
				continue
			}
			slog.Info("submission saved", "id", id, "title", res.Result.Title)

			if p.indexer != nil {
				res.Result.ID = id
				if err := p.indexer.Index(ctx, res.Result); err != nil {
					slog.Error("failed to index submission", "id", id, "error", err)
				}
			}
		}
	}
}

func (p *Pipeline) importBulk(ctx context.Context, results <-chan Result[domain.Submission]) error {
	var batch []domain.Submission
	defer func() {
		if len(batch) > 0 {
			p.flush(ctx, batch)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("pipeline context cancelled, stopping ingest")
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				return nil
			}
			if res.Err != nil {
				slog.Error("skipping submission row", "error", res.Err)
				continue
			}

			batch = append(batch, res.Result)
			if len(batch) >= p.bulk.size {
				p.flush(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

func (p *Pipeline) flush(ctx context.Context, batch []domain.Submission) {
	ids, err := p.store.SaveBulk(ctx, batch)
	if err != nil {
		slog.Error("failed to save submission batch", "count", len(batch), "error", err)
		return
	}
	slog.Info("submission batch saved", "count", len(ids))

	if p.indexer == nil {
		return
	}
	saved := make([]domain.Submission, len(batch))
	copy(saved, batch)
	for i := range saved {
		if i < len(ids) {
			saved[i].ID = ids[i]
		}
	}
	if err := p.indexer.IndexBulk(ctx, saved); err != nil {
		slog.Error("failed to index submission batch", "count", len(saved), "error", err)
	}
}
