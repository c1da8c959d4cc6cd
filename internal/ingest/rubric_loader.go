package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/rubric"
)

type rubricFile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Criteria    []struct {
		Name        string  `yaml:"name"`
		Description string  `yaml:"description"`
		Weight      float64 `yaml:"weight"`
		Threshold   float64 `yaml:"threshold"`
		Category    string  `yaml:"category"`
	} `yaml:"criteria"`
}

// LoadRubricFile parses a single rubric definition from YAML.
func LoadRubricFile(path string) (rubric.CreateRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rubric.CreateRequest{}, fmt.Errorf("read rubric file: %w", err)
	}

	var rf rubricFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return rubric.CreateRequest{}, fmt.Errorf("parse rubric file %s: %w", filepath.Base(path), err)
	}
	if rf.Name == "" {
		return rubric.CreateRequest{}, fmt.Errorf("rubric file %s has no name", filepath.Base(path))
	}

	criteria := make([]domain.Criterion, 0, len(rf.Criteria))
	for _, c := range rf.Criteria {
		criteria = append(criteria, domain.Criterion{
			Name:        c.Name,
			Description: c.Description,
			Weight:      c.Weight,
			Threshold:   c.Threshold,
			Category:    c.Category,
		})
	}

	return rubric.CreateRequest{
		Name:        rf.Name,
		Description: rf.Description,
		Criteria:    criteria,
	}, nil
}

// LoadRubricDir loads every .yaml/.yml file in a directory, sorted by name.
func LoadRubricDir(dir string) ([]rubric.CreateRequest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read rubric dir: %w", err)
	}

	var reqs []rubric.CreateRequest
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		req, err := LoadRubricFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}

	if len(reqs) == 0 {
		return nil, fmt.Errorf("no rubric files found in %s", dir)
	}
	return reqs, nil
}
