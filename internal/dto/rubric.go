package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/rubric"
)

type Criterion struct {
	Name        string  `json:"name" validate:"required,min=1"`
	Description string  `json:"description,omitempty"`
	Weight      float64 `json:"weight" validate:"min=0,max=1"`
	Threshold   float64 `json:"threshold" validate:"min=0,max=10"`
	Category    string  `json:"category,omitempty"`
}

type CreateRubricRequest struct {
	Name        string      `json:"name" validate:"required,min=1"`
	Description string      `json:"description,omitempty"`
	Criteria    []Criterion `json:"criteria" validate:"required,min=1"`
}

type UpdateRubricRequest struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Criteria    []Criterion `json:"criteria,omitempty"`
}

type Rubric struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Criteria    []Criterion `json:"criteria"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (r CreateRubricRequest) ToManagerRequest() rubric.CreateRequest {
	return rubric.CreateRequest{
		Name:        r.Name,
		Description: r.Description,
		Criteria:    toDomainCriteria(r.Criteria),
	}
}

func (r UpdateRubricRequest) ToManagerRequest() rubric.UpdateRequest {
	req := rubric.UpdateRequest{
		Name:        r.Name,
		Description: r.Description,
	}
	if r.Criteria != nil {
		req.Criteria = toDomainCriteria(r.Criteria)
	}
	return req
}

func FromRubric(r *domain.Rubric) Rubric {
	criteria := make([]Criterion, 0, len(r.Criteria))
	for _, c := range r.Criteria {
		criteria = append(criteria, Criterion{
			Name:        c.Name,
			Description: c.Description,
			Weight:      c.Weight,
			Threshold:   c.Threshold,
			Category:    c.Category,
		})
	}
	return Rubric{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Criteria:    criteria,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromRubrics(rubrics []domain.Rubric) []Rubric {
	out := make([]Rubric, 0, len(rubrics))
	for i := range rubrics {
		out = append(out, FromRubric(&rubrics[i]))
	}
	return out
}

func toDomainCriteria(criteria []Criterion) []domain.Criterion {
	out := make([]domain.Criterion, 0, len(criteria))
	for _, c := range criteria {
		out = append(out, domain.Criterion{
			Name:        c.Name,
			Description: c.Description,
			Weight:      c.Weight,
			Threshold:   c.Threshold,
			Category:    c.Category,
		})
	}
	return out
}
