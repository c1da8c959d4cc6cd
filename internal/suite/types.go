package suite

import (
	"github.com/reprolabs/verdict/internal/eval"
)

// Suite is a YAML-defined set of evaluation cases sharing default
// derivation settings.
type Suite struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Version     string   `yaml:"version"`
	Defaults    Defaults `yaml:"defaults"`
	Cases       []Case   `yaml:"cases"`
}

// Defaults carries the suite-wide derivation settings. Zero fields fall
// back to the built-in defaults.
type Defaults struct {
	Seed                     *int64   `yaml:"seed,omitempty"`
	Runs                     *int     `yaml:"runs,omitempty"`
	ReproducibilityThreshold *float64 `yaml:"reproducibility_threshold,omitempty"`
	VarianceThreshold        *float64 `yaml:"variance_threshold,omitempty"`
}

// Case is a single evaluation case. Overrides shadow suite defaults.
type Case struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"description"`
	Text        string   `yaml:"text"`
	File        string   `yaml:"file,omitempty"`
	Overrides   Defaults `yaml:"overrides,omitempty"`
}

// Config resolves the effective derivation config for a case by layering
// the case overrides over the suite defaults over the built-ins.
func (s *Suite) Config(c Case) eval.Config {
	cfg := eval.DefaultConfig()
	applyDefaults(&cfg, s.Defaults)
	applyDefaults(&cfg, c.Overrides)
	return cfg
}

func applyDefaults(cfg *eval.Config, d Defaults) {
	if d.Seed != nil {
		cfg.Seed = *d.Seed
	}
	if d.Runs != nil {
		cfg.Runs = *d.Runs
	}
	if d.ReproducibilityThreshold != nil {
		cfg.ReproducibilityThreshold = *d.ReproducibilityThreshold
	}
	if d.VarianceThreshold != nil {
		cfg.VarianceThreshold = *d.VarianceThreshold
	}
}
