package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes one row per evaluation with a score column for every
// criterion that appears anywhere in the report.
func WriteCSV(r *Report, w io.Writer) error {
	cw := csv.NewWriter(w)

	names := criterionNames(r.Entries)

	header := []string{"submission", "rubric_id", "overall_score", "passed"}
	for _, name := range names {
		header = append(header, name)
	}
	header = append(header, "input_sha256", "config_sha256", "processing_time_ms", "evaluated_at")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, e := range r.Entries {
		ev := e.Evaluation
		row := []string{
			e.SubmissionTitle,
			ev.RubricID.String(),
			strconv.FormatFloat(ev.OverallScore, 'f', 2, 64),
			strconv.FormatBool(ev.Passed),
		}
		for _, name := range names {
			if cs, ok := criterionScore(ev, name); ok {
				row = append(row, strconv.FormatFloat(cs.Score, 'f', 1, 64))
			} else {
				row = append(row, "")
			}
		}
		row = append(row,
			ev.InputSHA256,
			ev.ConfigSHA256,
			strconv.FormatInt(ev.ProcessingTimeMS, 10),
			ev.EvaluatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRunCSV writes one row per suite case with the derived metrics.
func WriteRunCSV(r *RunReport, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{
		"case_id", "seed", "runs",
		"reproducibility_score", "latency_mean_ms", "latency_stdev_ms", "latency_variance_ratio",
		"reproducibility_passed", "variance_passed", "overall_passed",
		"input_sha256", "results_sha256",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, c := range r.Cases {
		res := c.Result
		row := []string{
			c.ID,
			strconv.FormatInt(res.Seed, 10),
			strconv.Itoa(res.Runs),
			strconv.FormatFloat(res.ReproducibilityScore, 'f', 4, 64),
			strconv.FormatFloat(res.LatencyMeanMS, 'f', 2, 64),
			strconv.FormatFloat(res.LatencyStdevMS, 'f', 4, 64),
			strconv.FormatFloat(res.LatencyVarianceRatio, 'f', 6, 64),
			strconv.FormatBool(res.ReproducibilityPassed),
			strconv.FormatBool(res.VariancePassed),
			strconv.FormatBool(res.OverallPassed),
			res.InputSHA256,
			res.ResultsSHA256,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
