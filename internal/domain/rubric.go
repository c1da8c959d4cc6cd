package domain

import (
	"time"

	"github.com/google/uuid"
)

// WeightTolerance is the allowed floating point drift when checking
// that criterion weights sum to 1.0.
const WeightTolerance = 0.001

type Rubric struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Criteria    []Criterion `json:"criteria"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type Criterion struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Weight      float64 `json:"weight"`    // 0..1, weights should sum to 1
	Threshold   float64 `json:"threshold"` // passing score, 0..10
	Category    string  `json:"category,omitempty"`
}

// WeightSum returns the total weight across all criteria.
func (r *Rubric) WeightSum() float64 {
	var sum float64
	for _, c := range r.Criteria {
		sum += c.Weight
	}
	return sum
}

// WeightsValid reports whether criterion weights sum to 1.0 within tolerance.
func (r *Rubric) WeightsValid() bool {
	diff := r.WeightSum() - 1.0
	if diff < 0 {
		diff = -diff
	}
	return diff < WeightTolerance
}

// Criterion returns the criterion with the given name, if present.
func (r *Rubric) Criterion(name string) (Criterion, bool) {
	for _, c := range r.Criteria {
		if c.Name == name {
			return c, true
		}
	}
	return Criterion{}, false
}
