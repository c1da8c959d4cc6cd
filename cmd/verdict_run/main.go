package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/reprolabs/verdict/internal/eval"
	"github.com/reprolabs/verdict/internal/report"
	"github.com/reprolabs/verdict/internal/suite"
)

func main() {
	cfg := parseFlags()

	if err := cfg.validFormat(); err != nil {
		slog.Error("Invalid format", "error", err)
		os.Exit(1)
	}

	switch cfg.Mode {
	case "run":
		runSingle(cfg)
	case "suite":
		runSuite(cfg)
	case "verify":
		runVerify(cfg)
	case "report":
		runReport(cfg)
	default:
		slog.Error("Unknown mode", "mode", cfg.Mode)
		os.Exit(1)
	}
}

func runSingle(cfg cliConfig) {
	text := cfg.Text
	if text == "" && cfg.File != "" {
		data, err := os.ReadFile(cfg.File)
		if err != nil {
			slog.Error("Failed to read input file", "path", cfg.File, "error", err)
			os.Exit(1)
		}
		text = strings.TrimRight(string(data), "\n")
	}
	if text == "" {
		slog.Error("Run mode requires --text or --file")
		os.Exit(1)
	}

	result, err := eval.Derive(text, cfg.evalConfig())
	if err != nil {
		slog.Error("Derivation failed", "error", err)
		os.Exit(1)
	}

	r := report.NewRunReport("single run", []report.CaseEntry{{ID: "run", Result: *result}})
	outputRunReport(r, cfg)
}

func runSuite(cfg cliConfig) {
	if cfg.SuitePath == "" {
		slog.Error("Suite mode requires --suite")
		os.Exit(1)
	}

	loaded, err := suite.LoadFromFile(cfg.SuitePath)
	if err != nil {
		slog.Error("Failed to load suite", "path", cfg.SuitePath, "error", err)
		os.Exit(1)
	}

	cases := make([]report.CaseEntry, 0, len(loaded.Suite.Cases))
	for _, c := range loaded.Suite.Cases {
		text, err := loaded.Text(c)
		if err != nil {
			slog.Error("Failed to resolve case input", "case", c.ID, "error", err)
			os.Exit(1)
		}

		result, err := eval.Derive(text, loaded.Suite.Config(c))
		if err != nil {
			slog.Error("Case derivation failed", "case", c.ID, "error", err)
			os.Exit(1)
		}

		slog.Info("case completed",
			"case", c.ID,
			"reproducibility", result.ReproducibilityScore,
			"passed", result.OverallPassed)
		cases = append(cases, report.CaseEntry{ID: c.ID, Result: *result})
	}

	r := report.NewRunReport(loaded.Suite.Name, cases)
	outputRunReport(r, cfg)

	for _, c := range r.Cases {
		if !c.Result.OverallPassed {
			os.Exit(2)
		}
	}
}

func runVerify(cfg cliConfig) {
	if cfg.ResultPath == "" {
		slog.Error("Verify mode requires --result")
		os.Exit(1)
	}

	data, err := os.ReadFile(cfg.ResultPath)
	if err != nil {
		slog.Error("Failed to read result file", "path", cfg.ResultPath, "error", err)
		os.Exit(1)
	}

	var result eval.Result
	if err := json.Unmarshal(data, &result); err != nil {
		slog.Error("Failed to parse result file", "path", cfg.ResultPath, "error", err)
		os.Exit(1)
	}

	ok, err := result.VerifyResultsHash()
	if err != nil {
		slog.Error("Failed to verify result hash", "error", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Println("FAIL: results hash does not match")
		os.Exit(2)
	}
	fmt.Println("OK: results hash verified")
}

// runReport re-renders a previously written run report JSON in another format.
func runReport(cfg cliConfig) {
	if cfg.ResultPath == "" {
		slog.Error("Report mode requires --result")
		os.Exit(1)
	}

	data, err := os.ReadFile(cfg.ResultPath)
	if err != nil {
		slog.Error("Failed to read report file", "path", cfg.ResultPath, "error", err)
		os.Exit(1)
	}

	var r report.RunReport
	if err := json.Unmarshal(data, &r); err != nil {
		slog.Error("Failed to parse report file", "path", cfg.ResultPath, "error", err)
		os.Exit(1)
	}

	outputRunReport(&r, cfg)
}

func outputRunReport(r *report.RunReport, cfg cliConfig) {
	w := io.Writer(os.Stdout)
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			slog.Error("Failed to create output file", "path", cfg.Output, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	var err error
	switch cfg.Format {
	case "json":
		err = report.EncodeJSON(w, r)
	case "csv":
		err = report.WriteRunCSV(r, w)
	case "html":
		err = report.WriteRunHTML(r, w)
	default:
		report.WriteRunTable(r, w)
	}
	if err != nil {
		slog.Error("Failed to write report", "format", cfg.Format, "error", err)
		os.Exit(1)
	}

	if cfg.Output != "" {
		slog.Info("report written", "path", cfg.Output, "format", cfg.Format)
	}
}
