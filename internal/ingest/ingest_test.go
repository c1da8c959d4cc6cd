package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/storage/in_mem"
)

func collectAll(t *testing.T, c *CSVCollector) []Result[domain.Submission] {
	t.Helper()
	ch, err := c.Collect(context.Background())
	require.NoError(t, err)

	var out []Result[domain.Submission]
	for res := range ch {
		out = append(out, res)
	}
	return out
}

func TestCSVCollector(t *testing.T) {
	rubricID := uuid.New()
	csvData := "title,description,kind,content,filename,rubric_ids\n" +
		"first,desc one,text,hello world,," + rubricID.String() + "\n" +
		"second,,,package main,main.go,\n"

	results := collectAll(t, NewCSVCollector(strings.NewReader(csvData)))
	require.Len(t, results, 2)

	first := results[0]
	require.NoError(t, first.Err)
	assert.Equal(t, "first", first.Result.Title)
	assert.Equal(t, "desc one", first.Result.Description)
	require.Len(t, first.Result.RubricIDs, 1)
	assert.Equal(t, rubricID, first.Result.RubricIDs[0])
	require.Len(t, first.Result.Items, 1)
	assert.Equal(t, domain.MediaText, first.Result.Items[0].Kind)

	second := results[1]
	require.NoError(t, second.Err)
	assert.Equal(t, domain.MediaText, second.Result.Items[0].Kind)
	assert.Equal(t, "main.go", second.Result.Items[0].Filename)
	assert.Empty(t, second.Result.RubricIDs)
}

func TestCSVCollector_BadRows(t *testing.T) {
	csvData := "title,content,kind,rubric_ids\n" +
		",orphan content,text,\n" +
		"no content,,text,\n" +
		"bad kind,x,hologram,\n" +
		"bad rubric,x,text,not-a-uuid\n" +
		"good,x,text,\n"

	results := collectAll(t, NewCSVCollector(strings.NewReader(csvData)))
	require.Len(t, results, 5)

	assert.Error(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Error(t, results[2].Err)
	assert.Error(t, results[3].Err)
	require.NoError(t, results[4].Err)
	assert.Equal(t, "good", results[4].Result.Title)
}

func TestPipeline_Basic(t *testing.T) {
	store := in_mem.NewStore().SubmissionStore()
	csvData := "title,content\nalpha,aaa\nbeta,bbb\n"

	p := NewPipeline(NewCSVCollector(strings.NewReader(csvData)), store)
	require.NoError(t, p.Run(context.Background()))

	subs, total, err := store.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, subs, 2)
}

func TestPipeline_Bulk(t *testing.T) {
	store := in_mem.NewStore().SubmissionStore()

	var sb strings.Builder
	sb.WriteString("title,content\n")
	for i := 0; i < 7; i++ {
		sb.WriteString("sub,content\n")
	}

	p := NewPipeline(NewCSVCollector(strings.NewReader(sb.String())), store, WithBulk(3))
	require.NoError(t, p.Run(context.Background()))

	_, total, err := store.List(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
}

func TestLoadRubricDir(t *testing.T) {
	dir := t.TempDir()

	rubricYAML := `name: code-quality
description: general code quality
criteria:
  - name: correctness
    weight: 0.7
    threshold: 5.0
  - name: style
    weight: 0.3
    threshold: 4.0
    category: polish
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quality.yaml"), []byte(rubricYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	reqs, err := LoadRubricDir(dir)
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	req := reqs[0]
	assert.Equal(t, "code-quality", req.Name)
	require.Len(t, req.Criteria, 2)
	assert.Equal(t, 0.7, req.Criteria[0].Weight)
	assert.Equal(t, "polish", req.Criteria[1].Category)
}

func TestLoadRubricDir_Empty(t *testing.T) {
	_, err := LoadRubricDir(t.TempDir())
	assert.Error(t, err)
}

func TestLoadRubricFile_NoName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("description: nameless\n"), 0o644))

	_, err := LoadRubricFile(path)
	assert.Error(t, err)
}
