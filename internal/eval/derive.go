package eval

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Label is a simulated model output class.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
)

const labelCount = 3

// Latency bounds of the simulated model, in milliseconds.
const (
	latencyBaseMS   = 100
	latencySpreadMS = 10
)

// flipModulus controls the simulated instability: one run in ten flips
// its label to the next class.
const flipModulus = 10

type Config struct {
	Seed                     int64   `json:"seed"`
	Runs                     int     `json:"runs"`
	ReproducibilityThreshold float64 `json:"reproducibility_threshold"`
	VarianceThreshold        float64 `json:"variance_threshold"`
	OrgName                  string  `json:"org_name,omitempty"`
	DOI                      string  `json:"doi,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Seed:                     20251020,
		Runs:                     5,
		ReproducibilityThreshold: 0.90,
		VarianceThreshold:        0.05,
	}
}

func (c Config) Validate() error {
	if c.Runs < 1 {
		return fmt.Errorf("runs must be >= 1, got %d", c.Runs)
	}
	if c.ReproducibilityThreshold < 0 || c.ReproducibilityThreshold > 1 {
		return fmt.Errorf("reproducibility threshold must be in [0,1], got %v", c.ReproducibilityThreshold)
	}
	if c.VarianceThreshold < 0 {
		return fmt.Errorf("variance threshold must be >= 0, got %v", c.VarianceThreshold)
	}
	return nil
}

// SHA256 returns the hex SHA256 of the canonical config JSON.
func (c Config) SHA256() string {
	b, _ := json.Marshal(c)
	return HashString(string(b))
}

// Run is the outcome of a single simulated evaluation run.
type Run struct {
	Idx       int    `json:"run_idx"`
	Label     Label  `json:"label"`
	LatencyMS int    `json:"latency_ms"`
	HashInput string `json:"hash_input"`
}

// Result is the complete outcome of a deterministic evaluation.
type Result struct {
	TimestampUTC string `json:"timestamp_utc"`
	InputText    string `json:"input_text"`
	InputSHA256  string `json:"input_sha256"`
	ConfigSHA256 string `json:"config_sha256"`
	// ResultsSHA256 is the hex SHA256 of this result serialized with the
	// field itself cleared, so any holder can recompute and verify it.
	ResultsSHA256 string `json:"results_sha256"`

	Seed                     int64   `json:"seed"`
	Runs                     int     `json:"runs"`
	ReproducibilityThreshold float64 `json:"reproducibility_threshold"`
	VarianceThreshold        float64 `json:"variance_threshold"`
	OrgName                  string  `json:"org_name,omitempty"`
	DOI                      string  `json:"doi,omitempty"`

	RunResults           []Run   `json:"run_results"`
	ReproducibilityScore float64 `json:"reproducibility_score"`
	LatencyMeanMS        float64 `json:"latency_mean_ms"`
	LatencyStdevMS       float64 `json:"latency_stdev_ms"`
	LatencyVarianceRatio float64 `json:"latency_variance_ratio"`

	ReproducibilityPassed bool `json:"reproducibility_passed"`
	VariancePassed        bool `json:"variance_passed"`
	OverallPassed         bool `json:"overall_passed"`
}

// HashString returns the hex SHA256 of a UTF-8 string.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// DeriveLabel derives the run label from SHA256(seed|text|runIdx). The
// first word of the digest selects the base class; the second word flips
// it to the next class for ~10% of runs.
func DeriveLabel(seed int64, text string, runIdx int) Label {
	input := labelHashInput(seed, text, runIdx)
	sum := sha256.Sum256([]byte(input))

	idx := binary.BigEndian.Uint32(sum[0:4]) % labelCount
	flip := binary.BigEndian.Uint32(sum[4:8])
	if flip%flipModulus == 0 {
		idx = (idx + 1) % labelCount
	}

	return Label('A' + byte(idx))
}

// DeriveLatency derives a simulated latency in [100,109] ms from
// SHA256(seed|text|runIdx|latency).
func DeriveLatency(seed int64, text string, runIdx int) int {
	input := fmt.Sprintf("%d|%s|%d|latency", seed, text, runIdx)
	sum := sha256.Sum256([]byte(input))

	return latencyBaseMS + int(binary.BigEndian.Uint32(sum[0:4])%latencySpreadMS)
}

func labelHashInput(seed int64, text string, runIdx int) string {
	return fmt.Sprintf("%d|%s|%d", seed, text, runIdx)
}

// LabelCounts tallies labels across runs.
func LabelCounts(runs []Run) map[Label]int {
	counts := make(map[Label]int, labelCount)
	for _, r := range runs {
		counts[r.Label]++
	}
	return counts
}

// ReproducibilityScore is the fraction of runs carrying the majority label.
// An empty run set scores 0.
func ReproducibilityScore(runs []Run) float64 {
	if len(runs) == 0 {
		return 0
	}

	var maxCount int
	for _, n := range LabelCounts(runs) {
		if n > maxCount {
			maxCount = n
		}
	}

	return float64(maxCount) / float64(len(runs))
}

// Derive executes cfg.Runs simulated runs over the input text and
// aggregates reproducibility and latency-variance metrics. The result is a
// pure function of (seed, text, runs); thresholds only affect pass flags.
func Derive(text string, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	runs := make([]Run, cfg.Runs)
	latencies := make([]float64, cfg.Runs)
	for i := 0; i < cfg.Runs; i++ {
		runs[i] = Run{
			Idx:       i,
			Label:     DeriveLabel(cfg.Seed, text, i),
			LatencyMS: DeriveLatency(cfg.Seed, text, i),
			HashInput: labelHashInput(cfg.Seed, text, i),
		}
		latencies[i] = float64(runs[i].LatencyMS)
	}

	mean := meanOf(latencies)
	stdev := sampleStdev(latencies, mean)
	varianceRatio := 0.0
	if mean > 0 {
		varianceRatio = stdev / mean
	}

	score := ReproducibilityScore(runs)

	res := &Result{
		TimestampUTC:             time.Now().UTC().Format(time.RFC3339),
		InputText:                text,
		InputSHA256:              HashString(text),
		ConfigSHA256:             cfg.SHA256(),
		Seed:                     cfg.Seed,
		Runs:                     cfg.Runs,
		ReproducibilityThreshold: cfg.ReproducibilityThreshold,
		VarianceThreshold:        cfg.VarianceThreshold,
		OrgName:                  cfg.OrgName,
		DOI:                      cfg.DOI,
		RunResults:               runs,
		ReproducibilityScore:     score,
		LatencyMeanMS:            mean,
		LatencyStdevMS:           stdev,
		LatencyVarianceRatio:     varianceRatio,
		ReproducibilityPassed:    score >= cfg.ReproducibilityThreshold,
		VariancePassed:           varianceRatio <= cfg.VarianceThreshold,
	}
	res.OverallPassed = res.ReproducibilityPassed && res.VariancePassed

	hash, err := res.ComputeResultsHash()
	if err != nil {
		return nil, fmt.Errorf("compute results hash: %w", err)
	}
	res.ResultsSHA256 = hash

	return res, nil
}

// ComputeResultsHash hashes the result JSON with ResultsSHA256 cleared.
func (r *Result) ComputeResultsHash() (string, error) {
	clone := *r
	clone.ResultsSHA256 = ""
	b, err := json.Marshal(&clone)
	if err != nil {
		return "", err
	}
	return HashString(string(b)), nil
}

// VerifyResultsHash recomputes the self-hash and compares it to the stored
// value.
func (r *Result) VerifyResultsHash() (bool, error) {
	want, err := r.ComputeResultsHash()
	if err != nil {
		return false, err
	}
	return want == r.ResultsSHA256, nil
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleStdev is the n-1 standard deviation; 0 for fewer than two samples.
func sampleStdev(vals []float64, mean float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var sumSquares float64
	for _, v := range vals {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(vals)-1))
}
