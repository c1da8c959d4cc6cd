package in_mem

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/storage"
)

// Store is a map-backed implementation of every storage capability. It is
// used in tests and for local development without Postgres.
type Store struct {
	mu          sync.RWMutex
	rubrics     map[uuid.UUID]domain.Rubric
	submissions map[uuid.UUID]domain.Submission
	evaluations map[uuid.UUID]domain.Evaluation
	batches     map[string]domain.Batch

	rubricOrder     []uuid.UUID
	submissionOrder []uuid.UUID
	evaluationOrder []uuid.UUID
}

func NewStore() *Store {
	return &Store{
		rubrics:     make(map[uuid.UUID]domain.Rubric),
		submissions: make(map[uuid.UUID]domain.Submission),
		evaluations: make(map[uuid.UUID]domain.Evaluation),
		batches:     make(map[string]domain.Batch),
	}
}

func (s *Store) Save(ctx context.Context, rubric domain.Rubric) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rubric.ID == uuid.Nil {
		rubric.ID = uuid.New()
	}
	if _, exists := s.rubrics[rubric.ID]; exists {
		return uuid.Nil, storage.ErrAlreadyExists
	}
	s.rubrics[rubric.ID] = rubric
	s.rubricOrder = append(s.rubricOrder, rubric.ID)
	return rubric.ID, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*domain.Rubric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rubric, ok := s.rubrics[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &rubric, nil
}

func (s *Store) List(ctx context.Context, page, size int) ([]domain.Rubric, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := pageOf(s.rubricOrder, page, size)
	out := make([]domain.Rubric, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.rubrics[id])
	}
	return out, int64(len(s.rubricOrder)), nil
}

func (s *Store) Update(ctx context.Context, rubric domain.Rubric) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rubrics[rubric.ID]; !ok {
		return storage.ErrNotFound
	}
	s.rubrics[rubric.ID] = rubric
	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rubrics[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.rubrics, id)
	for i, rid := range s.rubricOrder {
		if rid == id {
			s.rubricOrder = append(s.rubricOrder[:i], s.rubricOrder[i+1:]...)
			break
		}
	}
	return nil
}

// SubmissionStore returns the submission capability of the store.
func (s *Store) SubmissionStore() *SubmissionStore { return &SubmissionStore{s} }

// EvaluationStore returns the evaluation capability of the store.
func (s *Store) EvaluationStore() *EvaluationStore { return &EvaluationStore{s} }

// BatchStore returns the batch capability of the store.
func (s *Store) BatchStore() *BatchStore { return &BatchStore{s} }

type SubmissionStore struct {
	store *Store
}

func (s *SubmissionStore) Save(ctx context.Context, sub domain.Submission) (uuid.UUID, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.store.saveSubmissionLocked(sub)
}

func (s *SubmissionStore) SaveBulk(ctx context.Context, subs []domain.Submission) ([]uuid.UUID, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(subs))
	for _, sub := range subs {
		id, err := s.store.saveSubmissionLocked(sub)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) saveSubmissionLocked(sub domain.Submission) (uuid.UUID, error) {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if _, exists := s.submissions[sub.ID]; exists {
		return uuid.Nil, storage.ErrAlreadyExists
	}
	s.submissions[sub.ID] = sub
	s.submissionOrder = append(s.submissionOrder, sub.ID)
	return sub.ID, nil
}

func (s *SubmissionStore) Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	sub, ok := s.store.submissions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &sub, nil
}

func (s *SubmissionStore) List(ctx context.Context, page, size int) ([]domain.Submission, int64, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	ids := pageOf(s.store.submissionOrder, page, size)
	out := make([]domain.Submission, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.store.submissions[id])
	}
	return out, int64(len(s.store.submissionOrder)), nil
}

func (s *SubmissionStore) ListByBatch(ctx context.Context, batchID string) ([]domain.Submission, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	var out []domain.Submission
	for _, id := range s.store.submissionOrder {
		if sub := s.store.submissions[id]; sub.BatchID == batchID {
			out = append(out, sub)
		}
	}
	return out, nil
}

type EvaluationStore struct {
	store *Store
}

func (s *EvaluationStore) Save(ctx context.Context, ev domain.Evaluation) (uuid.UUID, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	s.store.evaluations[ev.ID] = ev
	s.store.evaluationOrder = append(s.store.evaluationOrder, ev.ID)
	return ev.ID, nil
}

func (s *EvaluationStore) Get(ctx context.Context, id uuid.UUID) (*domain.Evaluation, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	ev, ok := s.store.evaluations[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &ev, nil
}

func (s *EvaluationStore) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Evaluation, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	var out []domain.Evaluation
	for _, id := range s.store.evaluationOrder {
		if ev := s.store.evaluations[id]; ev.SubmissionID == submissionID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *EvaluationStore) ListRecent(ctx context.Context, limit int) ([]domain.Evaluation, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	out := make([]domain.Evaluation, 0, len(s.store.evaluationOrder))
	for _, id := range s.store.evaluationOrder {
		out = append(out, s.store.evaluations[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EvaluatedAt.After(out[j].EvaluatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type BatchStore struct {
	store *Store
}

func (s *BatchStore) Save(ctx context.Context, batch domain.Batch) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, exists := s.store.batches[batch.ID]; exists {
		return storage.ErrAlreadyExists
	}
	s.store.batches[batch.ID] = batch
	return nil
}

func (s *BatchStore) Get(ctx context.Context, id string) (*domain.Batch, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	batch, ok := s.store.batches[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &batch, nil
}

func (s *BatchStore) Update(ctx context.Context, batch domain.Batch) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.batches[batch.ID]; !ok {
		return storage.ErrNotFound
	}
	s.store.batches[batch.ID] = batch
	return nil
}

func pageOf(ids []uuid.UUID, page, size int) []uuid.UUID {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(ids) {
		return nil
	}
	end := start + size
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end]
}
