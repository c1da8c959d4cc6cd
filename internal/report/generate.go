package report

import (
	"time"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/eval"
)

func newMeta() Meta {
	return Meta{
		Version:     PipelineVersion,
		Timestamp:   time.Now().UTC(),
		Environment: NewEnvironmentInfo(),
	}
}

// New builds an evaluation report. Submission titles are looked up from
// the given map; missing entries fall back to the submission ID.
func New(title string, evals []domain.Evaluation, titles map[string]string) *Report {
	r := &Report{
		Meta:    newMeta(),
		Title:   title,
		Entries: make([]Entry, 0, len(evals)),
	}

	for _, ev := range evals {
		name := titles[ev.SubmissionID.String()]
		if name == "" {
			name = ev.SubmissionID.String()
		}
		r.Entries = append(r.Entries, Entry{
			SubmissionTitle: name,
			Evaluation:      ev,
		})
	}

	r.Summary = summarize(evals)
	return r
}

func summarize(evals []domain.Evaluation) Summary {
	s := Summary{Total: len(evals)}
	if len(evals) == 0 {
		return s
	}

	s.MinScore = evals[0].OverallScore
	s.MaxScore = evals[0].OverallScore

	var scoreSum, processingSum float64
	for _, ev := range evals {
		if ev.Passed {
			s.Passed++
		}
		scoreSum += ev.OverallScore
		processingSum += float64(ev.ProcessingTimeMS)
		if ev.OverallScore < s.MinScore {
			s.MinScore = ev.OverallScore
		}
		if ev.OverallScore > s.MaxScore {
			s.MaxScore = ev.OverallScore
		}
	}

	s.PassRate = float64(s.Passed) / float64(s.Total)
	s.AvgScore = scoreSum / float64(s.Total)
	s.MeanProcessingMS = processingSum / float64(s.Total)
	return s
}

// NewRunReport builds a suite report over deterministic derivation results.
func NewRunReport(suiteName string, cases []CaseEntry) *RunReport {
	r := &RunReport{
		Meta:  newMeta(),
		Suite: suiteName,
		Cases: cases,
	}
	r.Summary = summarizeRuns(cases)
	return r
}

func summarizeRuns(cases []CaseEntry) RunSummary {
	s := RunSummary{Total: len(cases)}
	if len(cases) == 0 {
		return s
	}

	var reproSum, varianceSum, latencySum float64
	caseStats := make([]eval.LatencyStats, 0, len(cases))
	for _, c := range cases {
		if c.Result.OverallPassed {
			s.Passed++
		}
		reproSum += c.Result.ReproducibilityScore
		varianceSum += c.Result.LatencyVarianceRatio
		latencySum += c.Result.LatencyMeanMS
		caseStats = append(caseStats, eval.RunLatencyStats(c.Result.RunResults))
	}

	n := float64(s.Total)
	s.PassRate = float64(s.Passed) / n
	s.AvgReproducibility = reproSum / n
	s.AvgVarianceRatio = varianceSum / n
	s.AvgLatencyMeanMS = latencySum / n

	agg := eval.AggregateLatencyStats(caseStats)
	s.LatencyP50MS = float64(agg.P50()) / float64(time.Millisecond)
	s.LatencyP95MS = float64(agg.P95()) / float64(time.Millisecond)
	s.LatencyMaxMS = float64(agg.Max) / float64(time.Millisecond)
	return s
}

// criterionNames returns the union of criterion names across entries in
// first-seen order, for stable CSV and table columns.
func criterionNames(entries []Entry) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, e := range entries {
		for _, cs := range e.Evaluation.CriterionScores {
			if _, ok := seen[cs.CriterionName]; !ok {
				seen[cs.CriterionName] = struct{}{}
				names = append(names, cs.CriterionName)
			}
		}
	}
	return names
}

func criterionScore(ev domain.Evaluation, name string) (domain.CriterionScore, bool) {
	for _, cs := range ev.CriterionScores {
		if cs.CriterionName == name {
			return cs, true
		}
	}
	return domain.CriterionScore{}, false
}
