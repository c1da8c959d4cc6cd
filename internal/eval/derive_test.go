package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoText = "Reliable evaluation demo text."

func TestDeriveLabel_Golden(t *testing.T) {
	// Values cross-checked against an independent SHA256 implementation.
	expected := []Label{"B", "C", "C", "C", "A"}
	for i, want := range expected {
		assert.Equal(t, want, DeriveLabel(42, demoText, i), "run %d", i)
	}
}

func TestDeriveLabel_FlipFires(t *testing.T) {
	// For these inputs the second digest word is divisible by 10, so the
	// base class is advanced by one.
	assert.Equal(t, Label("B"), DeriveLabel(42, "flipcase", 2))
	assert.Equal(t, Label("B"), DeriveLabel(42, "flipcase", 5))
	assert.Equal(t, Label("A"), DeriveLabel(42, "flipcase", 8))
}

func TestDeriveLabel_Deterministic(t *testing.T) {
	for i := 0; i < 20; i++ {
		first := DeriveLabel(7, "hello world", i)
		second := DeriveLabel(7, "hello world", i)
		assert.Equal(t, first, second)
		assert.Contains(t, []Label{LabelA, LabelB, LabelC}, first)
	}
}

func TestDeriveLatency_Golden(t *testing.T) {
	expected := []int{108, 103, 101, 107, 103}
	for i, want := range expected {
		assert.Equal(t, want, DeriveLatency(42, demoText, i), "run %d", i)
	}
}

func TestDeriveLatency_Range(t *testing.T) {
	for i := 0; i < 100; i++ {
		ms := DeriveLatency(99, "range probe", i)
		assert.GreaterOrEqual(t, ms, 100)
		assert.LessOrEqual(t, ms, 109)
	}
}

func TestReproducibilityScore(t *testing.T) {
	tests := []struct {
		name   string
		labels []Label
		want   float64
	}{
		{"empty", nil, 0},
		{"unanimous", []Label{"A", "A", "A"}, 1},
		{"majority", []Label{"A", "A", "B"}, 2.0 / 3.0},
		{"split", []Label{"A", "B", "C"}, 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := make([]Run, len(tt.labels))
			for i, l := range tt.labels {
				runs[i] = Run{Idx: i, Label: l}
			}
			assert.InDelta(t, tt.want, ReproducibilityScore(runs), 1e-12)
		})
	}
}

func TestDerive_Metrics(t *testing.T) {
	cfg := Config{Seed: 42, Runs: 5, ReproducibilityThreshold: 0.90, VarianceThreshold: 0.05}
	res, err := Derive(demoText, cfg)
	require.NoError(t, err)

	require.Len(t, res.RunResults, 5)
	assert.Equal(t, []Label{"B", "C", "C", "C", "A"}, runLabels(res.RunResults))
	assert.InDelta(t, 0.6, res.ReproducibilityScore, 1e-12)
	assert.InDelta(t, 104.4, res.LatencyMeanMS, 1e-9)
	assert.InDelta(t, 2.9664793948382653, res.LatencyStdevMS, 1e-9)
	assert.InDelta(t, 0.028414553590404838, res.LatencyVarianceRatio, 1e-12)

	// 0.6 < 0.90 but 0.0284 <= 0.05
	assert.False(t, res.ReproducibilityPassed)
	assert.True(t, res.VariancePassed)
	assert.False(t, res.OverallPassed)

	assert.Equal(t, "a1cb8948a1fd409c0f1b895e86e51f648de815cb33b8eb07c0021c2e2b387812", res.InputSHA256)
	assert.Equal(t, cfg.SHA256(), res.ConfigSHA256)
}

func TestDerive_MoreRuns(t *testing.T) {
	res, err := Derive(demoText, Config{Seed: 42, Runs: 10, ReproducibilityThreshold: 0.4, VarianceThreshold: 0.05})
	require.NoError(t, err)

	assert.InDelta(t, 0.4, res.ReproducibilityScore, 1e-12)
	assert.InDelta(t, 104.4, res.LatencyMeanMS, 1e-9)
	assert.InDelta(t, 0.028629006093818507, res.LatencyVarianceRatio, 1e-12)
	assert.True(t, res.ReproducibilityPassed)
	assert.True(t, res.OverallPassed)
}

func TestDerive_SingleRun(t *testing.T) {
	res, err := Derive("solo", Config{Seed: 1, Runs: 1, ReproducibilityThreshold: 1, VarianceThreshold: 0})
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.ReproducibilityScore)
	assert.Zero(t, res.LatencyStdevMS)
	assert.Zero(t, res.LatencyVarianceRatio)
	assert.True(t, res.OverallPassed)
}

func TestDerive_EmptyInput(t *testing.T) {
	res, err := Derive("", Config{Seed: 0, Runs: 3, ReproducibilityThreshold: 0.5, VarianceThreshold: 0.1})
	require.NoError(t, err)

	assert.Equal(t, []Label{"A", "A", "B"}, runLabels(res.RunResults))
	assert.InDelta(t, 2.0/3.0, res.ReproducibilityScore, 1e-12)
}

func TestDerive_Reproducible(t *testing.T) {
	cfg := Config{Seed: 123, Runs: 8, ReproducibilityThreshold: 0.7, VarianceThreshold: 0.05}

	first, err := Derive("multimodal sample", cfg)
	require.NoError(t, err)
	second, err := Derive("multimodal sample", cfg)
	require.NoError(t, err)

	assert.Equal(t, first.RunResults, second.RunResults)
	assert.Equal(t, first.ReproducibilityScore, second.ReproducibilityScore)
	assert.Equal(t, first.LatencyVarianceRatio, second.LatencyVarianceRatio)
	assert.Equal(t, first.InputSHA256, second.InputSHA256)
	assert.Equal(t, first.ConfigSHA256, second.ConfigSHA256)
}

func TestDerive_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero runs", Config{Seed: 1, Runs: 0, ReproducibilityThreshold: 0.5, VarianceThreshold: 0.1}},
		{"negative runs", Config{Seed: 1, Runs: -2, ReproducibilityThreshold: 0.5, VarianceThreshold: 0.1}},
		{"repro threshold above 1", Config{Seed: 1, Runs: 3, ReproducibilityThreshold: 1.5, VarianceThreshold: 0.1}},
		{"negative variance threshold", Config{Seed: 1, Runs: 3, ReproducibilityThreshold: 0.5, VarianceThreshold: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Derive("x", tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestResult_VerifyResultsHash(t *testing.T) {
	res, err := Derive(demoText, DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, res.ResultsSHA256)

	ok, err := res.VerifyResultsHash()
	require.NoError(t, err)
	assert.True(t, ok)

	res.ReproducibilityScore = 1.0
	ok, err = res.VerifyResultsHash()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLabelCounts(t *testing.T) {
	runs := []Run{
		{Label: "A"}, {Label: "B"}, {Label: "A"}, {Label: "C"}, {Label: "A"},
	}
	counts := LabelCounts(runs)
	assert.Equal(t, 3, counts["A"])
	assert.Equal(t, 1, counts["B"])
	assert.Equal(t, 1, counts["C"])
}

func runLabels(runs []Run) []Label {
	labels := make([]Label, len(runs))
	for i, r := range runs {
		labels[i] = r.Label
	}
	return labels
}
