package rubric

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/reprolabs/verdict/internal/apperr"
	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/storage"
)

// Manager is the CRUD layer over rubric storage. It enforces weight
// validity and unique names before anything reaches the store.
type Manager struct {
	store storage.RubricStore
}

func NewManager(store storage.RubricStore) *Manager {
	return &Manager{store: store}
}

// CreateRequest carries the fields a caller supplies for a new rubric.
type CreateRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Criteria    []domain.Criterion `json:"criteria"`
}

// UpdateRequest carries a partial rubric update. Nil fields keep their
// stored value.
type UpdateRequest struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	Criteria    []domain.Criterion `json:"criteria,omitempty"`
}

func (m *Manager) Create(ctx context.Context, req CreateRequest) (*domain.Rubric, error) {
	if req.Name == "" {
		return nil, apperr.NewValidation("rubric name is required")
	}
	if err := validateCriteria(req.Criteria); err != nil {
		return nil, err
	}
	if err := m.ensureNameFree(ctx, req.Name, uuid.Nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rubric := domain.Rubric{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Criteria:    req.Criteria,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := m.store.Save(ctx, rubric)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, apperr.NewConflict(fmt.Sprintf("rubric %q already exists", req.Name))
		}
		return nil, fmt.Errorf("failed to save rubric: %w", err)
	}
	rubric.ID = id

	slog.Info("rubric created", "id", id, "name", rubric.Name, "criteria", len(rubric.Criteria))
	return &rubric, nil
}

func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*domain.Rubric, error) {
	rubric, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NewNotFound(fmt.Sprintf("rubric %s not found", id))
		}
		return nil, fmt.Errorf("failed to get rubric: %w", err)
	}
	return rubric, nil
}

func (m *Manager) List(ctx context.Context, page, size int) ([]domain.Rubric, int64, error) {
	rubrics, total, err := m.store.List(ctx, page, size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rubrics: %w", err)
	}
	return rubrics, total, nil
}

func (m *Manager) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*domain.Rubric, error) {
	rubric, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperr.NewValidation("rubric name cannot be empty")
		}
		if *req.Name != rubric.Name {
			if err := m.ensureNameFree(ctx, *req.Name, id); err != nil {
				return nil, err
			}
		}
		rubric.Name = *req.Name
	}
	if req.Description != nil {
		rubric.Description = *req.Description
	}
	if req.Criteria != nil {
		if err := validateCriteria(req.Criteria); err != nil {
			return nil, err
		}
		rubric.Criteria = req.Criteria
	}
	rubric.UpdatedAt = time.Now().UTC()

	if err := m.store.Update(ctx, *rubric); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NewNotFound(fmt.Sprintf("rubric %s not found", id))
		}
		return nil, fmt.Errorf("failed to update rubric: %w", err)
	}

	slog.Info("rubric updated", "id", id, "name", rubric.Name)
	return rubric, nil
}

func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.store.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NewNotFound(fmt.Sprintf("rubric %s not found", id))
		}
		return fmt.Errorf("failed to delete rubric: %w", err)
	}
	slog.Info("rubric deleted", "id", id)
	return nil
}

// ExportJSON serializes a rubric for download or versioning.
func (m *Manager) ExportJSON(ctx context.Context, id uuid.UUID) ([]byte, error) {
	rubric, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(rubric, "", "  ")
}

// ExportYAML serializes a rubric in the suite file format.
func (m *Manager) ExportYAML(ctx context.Context, id uuid.UUID) ([]byte, error) {
	rubric, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(rubric)
}

func (m *Manager) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	const pageSize = 200

	for page := 1; ; page++ {
		rubrics, total, err := m.store.List(ctx, page, pageSize)
		if err != nil {
			return fmt.Errorf("failed to check rubric name: %w", err)
		}
		for _, r := range rubrics {
			if r.Name == name && r.ID != self {
				return apperr.NewConflict(fmt.Sprintf("rubric %q already exists", name))
			}
		}
		if int64(page*pageSize) >= total || len(rubrics) == 0 {
			return nil
		}
	}
}

func validateCriteria(criteria []domain.Criterion) error {
	if len(criteria) == 0 {
		return apperr.NewValidation("rubric must define at least one criterion")
	}

	seen := make(map[string]struct{}, len(criteria))
	for _, c := range criteria {
		if c.Name == "" {
			return apperr.NewValidation("criterion name is required")
		}
		if _, dup := seen[c.Name]; dup {
			return apperr.NewValidation(fmt.Sprintf("duplicate criterion %q", c.Name))
		}
		seen[c.Name] = struct{}{}

		if c.Weight < 0 || c.Weight > 1 {
			return apperr.NewValidation(fmt.Sprintf("criterion %q weight must be in [0, 1]", c.Name))
		}
		if c.Threshold < 0 || c.Threshold > 10 {
			return apperr.NewValidation(fmt.Sprintf("criterion %q threshold must be in [0, 10]", c.Name))
		}
	}

	r := domain.Rubric{Criteria: criteria}
	if !r.WeightsValid() {
		return apperr.NewValidation(fmt.Sprintf("criterion weights must sum to 1.0, got %.3f", r.WeightSum()))
	}
	return nil
}
