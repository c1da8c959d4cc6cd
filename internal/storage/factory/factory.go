package factory

import (
	"context"
	"fmt"

	"github.com/reprolabs/verdict/internal/storage"
	"github.com/reprolabs/verdict/internal/storage/es"
	"github.com/reprolabs/verdict/internal/storage/in_mem"
	"github.com/reprolabs/verdict/internal/storage/pg"
	"github.com/reprolabs/verdict/pkg/server"
)

// Stores bundles every storage capability the service wires up. Searcher
// and Indexer are nil when no Elasticsearch index is configured.
type Stores struct {
	Rubrics     storage.RubricStore
	Submissions storage.SubmissionStore
	Evaluations storage.EvaluationStore
	Batches     storage.BatchStore
	Searcher    storage.SubmissionSearcher
	Indexer     storage.SubmissionIndexer

	Health server.HealthChecker

	pool *pg.ConnectionPool
}

// New creates the store bundle for the configured storage type.
func New(ctx context.Context, cfg *StorageConfig) (*Stores, error) {
	var stores *Stores

	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		stores = &Stores{
			Rubrics:     pg.NewRubricStore(pool),
			Submissions: pg.NewSubmissionStore(pool),
			Evaluations: pg.NewEvaluationStore(pool),
			Batches:     pg.NewBatchStore(pool),
			Health:      pg.NewHealthChecker(pool),
			pool:        pool,
		}

	case storage.InMem:
		mem := in_mem.NewStore()
		stores = &Stores{
			Rubrics:     mem,
			Submissions: mem.SubmissionStore(),
			Evaluations: mem.EvaluationStore(),
			Batches:     mem.BatchStore(),
			Health:      server.NewOkHealthChecker(),
		}

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}

	if cfg.Es != nil {
		indexer, err := es.NewIndexer(ctx, *cfg.Es)
		if err != nil {
			return nil, fmt.Errorf("failed to create Elasticsearch indexer: %w", err)
		}
		searcher, err := es.NewSearcher(*cfg.Es)
		if err != nil {
			return nil, fmt.Errorf("failed to create Elasticsearch searcher: %w", err)
		}
		stores.Indexer = indexer
		stores.Searcher = searcher
	}

	return stores, nil
}

// Close releases the underlying connection pool, if any.
func (s *Stores) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
