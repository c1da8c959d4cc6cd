package suite

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type LoadedSuite struct {
	Suite *Suite
	Dir   string
}

func LoadFromFile(path string) (*LoadedSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file: %w", err)
	}
	loaded, err := Parse(data)
	if err != nil {
		return nil, err
	}
	loaded.Dir = filepath.Dir(path)
	return loaded, nil
}

func Parse(data []byte) (*LoadedSuite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse suite YAML: %w", err)
	}
	if len(s.Cases) == 0 {
		return nil, fmt.Errorf("suite has no cases")
	}

	seen := make(map[string]struct{}, len(s.Cases))
	for i, c := range s.Cases {
		if c.ID == "" {
			return nil, fmt.Errorf("case at index %d has no id", i)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("duplicate case id %q", c.ID)
		}
		seen[c.ID] = struct{}{}

		if c.Text == "" && c.File == "" {
			return nil, fmt.Errorf("case %q has no text or file", c.ID)
		}
		if c.Text != "" && c.File != "" {
			return nil, fmt.Errorf("case %q sets both text and file", c.ID)
		}

		cfg := s.Config(c)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("case %q has invalid config: %w", c.ID, err)
		}
	}

	return &LoadedSuite{Suite: &s}, nil
}

// Text resolves the case input, reading the referenced file relative to
// the suite directory when text is not inlined.
func (l *LoadedSuite) Text(c Case) (string, error) {
	if c.Text != "" {
		return c.Text, nil
	}

	path := c.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.Dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read case %q file: %w", c.ID, err)
	}
	return string(data), nil
}
