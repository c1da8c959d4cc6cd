package report

import (
	"runtime"
	"time"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/eval"
)

const PipelineVersion = "1.0.0"

type Meta struct {
	Version     string          `json:"version"`
	Timestamp   time.Time       `json:"timestamp"`
	Environment EnvironmentInfo `json:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

// Report summarizes a set of rubric evaluations.
type Report struct {
	Meta    Meta    `json:"meta"`
	Title   string  `json:"title"`
	Summary Summary `json:"summary"`
	Entries []Entry `json:"entries"`
}

type Entry struct {
	SubmissionTitle string            `json:"submission_title"`
	Evaluation      domain.Evaluation `json:"evaluation"`
}

type Summary struct {
	Total            int     `json:"total"`
	Passed           int     `json:"passed"`
	PassRate         float64 `json:"pass_rate"`
	AvgScore         float64 `json:"avg_score"`
	MinScore         float64 `json:"min_score"`
	MaxScore         float64 `json:"max_score"`
	MeanProcessingMS float64 `json:"mean_processing_ms"`
}

// RunReport summarizes a suite of deterministic derivation runs.
type RunReport struct {
	Meta    Meta        `json:"meta"`
	Suite   string      `json:"suite"`
	Summary RunSummary  `json:"summary"`
	Cases   []CaseEntry `json:"cases"`
}

type CaseEntry struct {
	ID     string      `json:"id"`
	Result eval.Result `json:"result"`
}

type RunSummary struct {
	Total              int     `json:"total"`
	Passed             int     `json:"passed"`
	PassRate           float64 `json:"pass_rate"`
	AvgReproducibility float64 `json:"avg_reproducibility"`
	AvgVarianceRatio   float64 `json:"avg_variance_ratio"`
	AvgLatencyMeanMS   float64 `json:"avg_latency_mean_ms"`

	// Percentiles over every run latency across all cases.
	LatencyP50MS float64 `json:"latency_p50_ms"`
	LatencyP95MS float64 `json:"latency_p95_ms"`
	LatencyMaxMS float64 `json:"latency_max_ms"`
}
