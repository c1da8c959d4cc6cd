package rubric

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/reprolabs/verdict/internal/apperr"
	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/storage/in_mem"
)

func newManager() *Manager {
	return NewManager(in_mem.NewStore())
}

func validCreate() CreateRequest {
	return CreateRequest{
		Name:        "code-quality",
		Description: "Quality gate for code submissions",
		Criteria: []domain.Criterion{
			{Name: "correctness", Weight: 0.5, Threshold: 6.0, Category: "functional"},
			{Name: "readability", Weight: 0.3, Threshold: 5.0, Category: "style"},
			{Name: "documentation", Weight: 0.2, Threshold: 3.0, Category: "style"},
		},
	}
}

func TestManager_Create(t *testing.T) {
	m := newManager()

	rubric, err := m.Create(context.Background(), validCreate())
	require.NoError(t, err)
	require.NotNil(t, rubric)

	assert.NotEqual(t, uuid.Nil, rubric.ID)
	assert.Equal(t, "code-quality", rubric.Name)
	assert.Len(t, rubric.Criteria, 3)
	assert.False(t, rubric.CreatedAt.IsZero())
}

func TestManager_Create_DuplicateName(t *testing.T) {
	m := newManager()

	_, err := m.Create(context.Background(), validCreate())
	require.NoError(t, err)

	_, err = m.Create(context.Background(), validCreate())
	require.Error(t, err)

	var conflict *apperr.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestManager_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateRequest)
	}{
		{
			name:   "empty name",
			mutate: func(r *CreateRequest) { r.Name = "" },
		},
		{
			name:   "no criteria",
			mutate: func(r *CreateRequest) { r.Criteria = nil },
		},
		{
			name: "weights do not sum to one",
			mutate: func(r *CreateRequest) {
				r.Criteria[0].Weight = 0.9
			},
		},
		{
			name: "duplicate criterion name",
			mutate: func(r *CreateRequest) {
				r.Criteria[1].Name = r.Criteria[0].Name
			},
		},
		{
			name: "weight out of range",
			mutate: func(r *CreateRequest) {
				r.Criteria[0].Weight = 1.5
				r.Criteria[1].Weight = -0.2
			},
		},
		{
			name: "threshold out of range",
			mutate: func(r *CreateRequest) {
				r.Criteria[0].Threshold = 11
			},
		},
		{
			name: "empty criterion name",
			mutate: func(r *CreateRequest) {
				r.Criteria[2].Name = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager()
			req := validCreate()
			tt.mutate(&req)

			_, err := m.Create(context.Background(), req)
			require.Error(t, err)

			var validation *apperr.ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	}
}

func TestManager_Get_NotFound(t *testing.T) {
	m := newManager()

	_, err := m.Get(context.Background(), uuid.New())
	require.Error(t, err)

	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestManager_Update_Partial(t *testing.T) {
	m := newManager()

	created, err := m.Create(context.Background(), validCreate())
	require.NoError(t, err)

	desc := "updated description"
	updated, err := m.Update(context.Background(), created.ID, UpdateRequest{Description: &desc})
	require.NoError(t, err)

	assert.Equal(t, "updated description", updated.Description)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Criteria, updated.Criteria)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
}

func TestManager_Update_InvalidCriteria(t *testing.T) {
	m := newManager()

	created, err := m.Create(context.Background(), validCreate())
	require.NoError(t, err)

	_, err = m.Update(context.Background(), created.ID, UpdateRequest{
		Criteria: []domain.Criterion{{Name: "only", Weight: 0.4, Threshold: 5}},
	})
	require.Error(t, err)

	var validation *apperr.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestManager_Update_NameConflict(t *testing.T) {
	m := newManager()

	first, err := m.Create(context.Background(), validCreate())
	require.NoError(t, err)

	other := validCreate()
	other.Name = "essay-quality"
	second, err := m.Create(context.Background(), other)
	require.NoError(t, err)

	name := first.Name
	_, err = m.Update(context.Background(), second.ID, UpdateRequest{Name: &name})
	require.Error(t, err)

	var conflict *apperr.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestManager_Delete(t *testing.T) {
	m := newManager()

	created, err := m.Create(context.Background(), validCreate())
	require.NoError(t, err)

	require.NoError(t, m.Delete(context.Background(), created.ID))

	_, err = m.Get(context.Background(), created.ID)
	require.Error(t, err)

	err = m.Delete(context.Background(), created.ID)
	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestManager_List(t *testing.T) {
	m := newManager()

	for _, name := range []string{"first", "second", "third"} {
		req := validCreate()
		req.Name = name
		_, err := m.Create(context.Background(), req)
		require.NoError(t, err)
	}

	page, total, err := m.List(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	page, _, err = m.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestManager_Export(t *testing.T) {
	m := newManager()

	created, err := m.Create(context.Background(), validCreate())
	require.NoError(t, err)

	jsonData, err := m.ExportJSON(context.Background(), created.ID)
	require.NoError(t, err)

	var fromJSON domain.Rubric
	require.NoError(t, json.Unmarshal(jsonData, &fromJSON))
	assert.Equal(t, created.ID, fromJSON.ID)
	assert.Len(t, fromJSON.Criteria, 3)

	yamlData, err := m.ExportYAML(context.Background(), created.ID)
	require.NoError(t, err)

	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(yamlData, &fromYAML))
	assert.Equal(t, "code-quality", fromYAML["name"])
}
