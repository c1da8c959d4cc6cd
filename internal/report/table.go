package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteTable renders an evaluation report as an aligned text table.
func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Evaluation Report: %s ===\n\n", r.Title)
	writeSummaryTable(tw, r.Summary)
	writeEntriesTable(tw, r)

	tw.Flush()
}

func writeSummaryTable(tw *tabwriter.Writer, s Summary) {
	fmt.Fprintf(tw, "Evaluated\t%d\n", s.Total)
	fmt.Fprintf(tw, "Passed\t%d (%.1f%%)\n", s.Passed, s.PassRate*100)
	fmt.Fprintf(tw, "Score avg/min/max\t%.2f / %.2f / %.2f\n", s.AvgScore, s.MinScore, s.MaxScore)
	fmt.Fprintf(tw, "Mean processing\t%.1fms\n", s.MeanProcessingMS)
	fmt.Fprintln(tw)
}

func writeEntriesTable(tw *tabwriter.Writer, r *Report) {
	names := criterionNames(r.Entries)

	header := []string{"Submission", "Score"}
	header = append(header, names...)
	header = append(header, "Status")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, e := range r.Entries {
		row := []string{
			e.SubmissionTitle,
			fmt.Sprintf("%.2f", e.Evaluation.OverallScore),
		}
		for _, name := range names {
			if cs, ok := criterionScore(e.Evaluation, name); ok {
				row = append(row, fmt.Sprintf("%.1f", cs.Score))
			} else {
				row = append(row, "-")
			}
		}
		row = append(row, passLabel(e.Evaluation.Passed))
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

// WriteRunTable renders a suite run report as an aligned text table.
func WriteRunTable(r *RunReport, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Reproducibility Report: %s ===\n\n", r.Suite)

	s := r.Summary
	fmt.Fprintf(tw, "Cases\t%d\n", s.Total)
	fmt.Fprintf(tw, "Passed\t%d (%.1f%%)\n", s.Passed, s.PassRate*100)
	fmt.Fprintf(tw, "Avg reproducibility\t%.4f\n", s.AvgReproducibility)
	fmt.Fprintf(tw, "Avg variance ratio\t%.6f\n", s.AvgVarianceRatio)
	fmt.Fprintf(tw, "Avg latency\t%.2fms\n", s.AvgLatencyMeanMS)
	fmt.Fprintf(tw, "Latency p50/p95/max\t%.2f / %.2f / %.2fms\n", s.LatencyP50MS, s.LatencyP95MS, s.LatencyMaxMS)
	fmt.Fprintln(tw)

	header := []string{"Case", "Seed", "Runs", "Repro", "Latency", "Stdev", "VarRatio", "Status"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, c := range r.Cases {
		res := c.Result
		row := []string{
			c.ID,
			fmt.Sprintf("%d", res.Seed),
			fmt.Sprintf("%d", res.Runs),
			fmt.Sprintf("%.4f", res.ReproducibilityScore),
			fmt.Sprintf("%.2fms", res.LatencyMeanMS),
			fmt.Sprintf("%.4f", res.LatencyStdevMS),
			fmt.Sprintf("%.6f", res.LatencyVarianceRatio),
			passLabel(res.OverallPassed),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
	tw.Flush()
}

func passLabel(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}
