package main

import (
	"flag"
	"fmt"

	"github.com/reprolabs/verdict/internal/eval"
)

type cliConfig struct {
	Mode string

	Text string
	File string

	SuitePath string

	ResultPath string

	Seed                     int64
	Runs                     int
	ReproducibilityThreshold float64
	VarianceThreshold        float64
	OrgName                  string
	DOI                      string

	Output string
	Format string
}

func parseFlags() cliConfig {
	cfg := cliConfig{}
	defaults := eval.DefaultConfig()

	flag.StringVar(&cfg.Mode, "mode", "run", "Run mode: run, suite, verify, or report")
	flag.StringVar(&cfg.Text, "text", "", "Input text to evaluate (run mode)")
	flag.StringVar(&cfg.File, "file", "", "Path to input text file (run mode)")
	flag.StringVar(&cfg.SuitePath, "suite", "", "Path to suite YAML (suite mode)")
	flag.StringVar(&cfg.ResultPath, "result", "", "Path to result or report JSON (verify and report modes)")
	flag.Int64Var(&cfg.Seed, "seed", defaults.Seed, "Derivation seed")
	flag.IntVar(&cfg.Runs, "runs", defaults.Runs, "Number of simulated runs")
	flag.Float64Var(&cfg.ReproducibilityThreshold, "repro-threshold", defaults.ReproducibilityThreshold, "Minimum reproducibility score to pass")
	flag.Float64Var(&cfg.VarianceThreshold, "variance-threshold", defaults.VarianceThreshold, "Maximum latency variance ratio to pass")
	flag.StringVar(&cfg.OrgName, "org", "", "Organization name recorded in results")
	flag.StringVar(&cfg.DOI, "doi", "", "DOI recorded in results")
	flag.StringVar(&cfg.Output, "output", "", "Output path (stdout when empty)")
	flag.StringVar(&cfg.Format, "format", "table", "Output format: table, json, csv, or html")

	flag.Parse()
	return cfg
}

func (c cliConfig) evalConfig() eval.Config {
	return eval.Config{
		Seed:                     c.Seed,
		Runs:                     c.Runs,
		ReproducibilityThreshold: c.ReproducibilityThreshold,
		VarianceThreshold:        c.VarianceThreshold,
		OrgName:                  c.OrgName,
		DOI:                      c.DOI,
	}
}

func (c cliConfig) validFormat() error {
	switch c.Format {
	case "table", "json", "csv", "html":
		return nil
	}
	return fmt.Errorf("unknown format %q", c.Format)
}
