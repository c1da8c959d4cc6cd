package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("valid suite with defaults", func(t *testing.T) {
		yaml := `
name: demo
version: "1.0"
defaults:
  seed: 42
  runs: 7
cases:
  - id: c1
    description: first case
    text: "The mitochondria is the powerhouse of the cell."
  - id: c2
    text: "Second case text."
    overrides:
      runs: 3
`
		loaded, err := Parse([]byte(yaml))
		require.NoError(t, err)
		assert.Equal(t, "demo", loaded.Suite.Name)
		assert.Len(t, loaded.Suite.Cases, 2)

		cfg := loaded.Suite.Config(loaded.Suite.Cases[0])
		assert.Equal(t, int64(42), cfg.Seed)
		assert.Equal(t, 7, cfg.Runs)

		cfg = loaded.Suite.Config(loaded.Suite.Cases[1])
		assert.Equal(t, int64(42), cfg.Seed)
		assert.Equal(t, 3, cfg.Runs)
	})

	t.Run("defaults fall back to built-ins", func(t *testing.T) {
		yaml := `
name: demo
cases:
  - id: c1
    text: hello
`
		loaded, err := Parse([]byte(yaml))
		require.NoError(t, err)

		cfg := loaded.Suite.Config(loaded.Suite.Cases[0])
		assert.Equal(t, int64(20251020), cfg.Seed)
		assert.Equal(t, 5, cfg.Runs)
		assert.InDelta(t, 0.90, cfg.ReproducibilityThreshold, 1e-9)
		assert.InDelta(t, 0.05, cfg.VarianceThreshold, 1e-9)
	})

	t.Run("no cases", func(t *testing.T) {
		_, err := Parse([]byte("name: empty\ncases: []\n"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no cases")
	})

	t.Run("case missing id", func(t *testing.T) {
		yaml := `
name: demo
cases:
  - text: hello
`
		_, err := Parse([]byte(yaml))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no id")
	})

	t.Run("duplicate case id", func(t *testing.T) {
		yaml := `
name: demo
cases:
  - id: c1
    text: one
  - id: c1
    text: two
`
		_, err := Parse([]byte(yaml))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate case id")
	})

	t.Run("case without text or file", func(t *testing.T) {
		yaml := `
name: demo
cases:
  - id: c1
`
		_, err := Parse([]byte(yaml))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no text or file")
	})

	t.Run("case with both text and file", func(t *testing.T) {
		yaml := `
name: demo
cases:
  - id: c1
    text: inline
    file: case.txt
`
		_, err := Parse([]byte(yaml))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "both text and file")
	})

	t.Run("invalid override config", func(t *testing.T) {
		yaml := `
name: demo
cases:
  - id: c1
    text: hello
    overrides:
      runs: 0
`
		_, err := Parse([]byte(yaml))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()

	caseFile := filepath.Join(dir, "case.txt")
	require.NoError(t, os.WriteFile(caseFile, []byte("file-backed input"), 0644))

	suiteFile := filepath.Join(dir, "suite.yaml")
	yaml := `
name: files
cases:
  - id: inline
    text: inline input
  - id: from-file
    file: case.txt
`
	require.NoError(t, os.WriteFile(suiteFile, []byte(yaml), 0644))

	loaded, err := LoadFromFile(suiteFile)
	require.NoError(t, err)
	assert.Equal(t, dir, loaded.Dir)

	text, err := loaded.Text(loaded.Suite.Cases[0])
	require.NoError(t, err)
	assert.Equal(t, "inline input", text)

	text, err = loaded.Text(loaded.Suite.Cases[1])
	require.NoError(t, err)
	assert.Equal(t, "file-backed input", text)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
