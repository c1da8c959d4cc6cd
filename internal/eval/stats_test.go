package eval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeLatencyStats_Empty(t *testing.T) {
	stats := ComputeLatencyStats(nil)
	assert.Zero(t, stats.Min)
	assert.Zero(t, stats.Max)
	assert.Zero(t, stats.Mean)
	assert.Zero(t, stats.SampleCount)
	assert.True(t, stats.IsZero())
	assert.Zero(t, stats.VarianceRatio())
}

func TestComputeLatencyStats_SingleValue(t *testing.T) {
	stats := ComputeLatencyStats([]time.Duration{10 * time.Millisecond})

	assert.Equal(t, 10*time.Millisecond, stats.Min)
	assert.Equal(t, 10*time.Millisecond, stats.Max)
	assert.Equal(t, 10*time.Millisecond, stats.Mean)
	assert.Equal(t, 10*time.Millisecond, stats.Median)
	assert.Equal(t, 1, stats.SampleCount)
	assert.Zero(t, stats.Stddev)
}

func TestComputeLatencyStats_MultipleValues(t *testing.T) {
	durations := []time.Duration{
		50 * time.Millisecond,
		10 * time.Millisecond,
		30 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
	}
	stats := ComputeLatencyStats(durations)

	assert.Equal(t, 10*time.Millisecond, stats.Min)
	assert.Equal(t, 50*time.Millisecond, stats.Max)
	assert.Equal(t, 30*time.Millisecond, stats.Mean)
	assert.Equal(t, 30*time.Millisecond, stats.Median)
	assert.Equal(t, 5, stats.SampleCount)
}

func TestComputeLatencyStats_Percentiles(t *testing.T) {
	durations := make([]time.Duration, 100)
	for i := range durations {
		durations[i] = time.Duration(i+1) * time.Millisecond
	}
	stats := ComputeLatencyStats(durations)

	assert.InDelta(t, float64(50*time.Millisecond), float64(stats.P50()), float64(1*time.Millisecond))
	assert.InDelta(t, float64(90*time.Millisecond), float64(stats.P90()), float64(1*time.Millisecond))
	assert.InDelta(t, float64(99*time.Millisecond), float64(stats.P99()), float64(1*time.Millisecond))
}

func TestComputeLatencyStats_VarianceRatio(t *testing.T) {
	flat := ComputeLatencyStats([]time.Duration{
		100 * time.Millisecond,
		100 * time.Millisecond,
		100 * time.Millisecond,
	})
	assert.Zero(t, flat.VarianceRatio())

	spread := ComputeLatencyStats([]time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		30 * time.Millisecond,
	})
	assert.Greater(t, spread.VarianceRatio(), 0.0)
	assert.Less(t, spread.VarianceRatio(), 1.0)
}

func TestRunLatencyStats(t *testing.T) {
	runs := []Run{
		{Idx: 0, LatencyMS: 101},
		{Idx: 1, LatencyMS: 105},
		{Idx: 2, LatencyMS: 109},
	}
	stats := RunLatencyStats(runs)

	assert.Equal(t, 101*time.Millisecond, stats.Min)
	assert.Equal(t, 109*time.Millisecond, stats.Max)
	assert.Equal(t, 105*time.Millisecond, stats.Mean)
	assert.Equal(t, 3, stats.SampleCount)
}

func TestAggregateLatencyStats(t *testing.T) {
	stats1 := ComputeLatencyStats([]time.Duration{10 * time.Millisecond, 20 * time.Millisecond})
	stats2 := ComputeLatencyStats([]time.Duration{30 * time.Millisecond, 40 * time.Millisecond})

	agg := AggregateLatencyStats([]LatencyStats{stats1, stats2})

	assert.Equal(t, 10*time.Millisecond, agg.Min)
	assert.Equal(t, 40*time.Millisecond, agg.Max)
	assert.Equal(t, 4, agg.SampleCount)
	assert.Equal(t, 25*time.Millisecond, agg.Mean)

	assert.True(t, AggregateLatencyStats(nil).IsZero())
}

func TestPercentile_EdgeCases(t *testing.T) {
	sorted := []time.Duration{10 * time.Millisecond}
	assert.Equal(t, 10*time.Millisecond, percentile(sorted, 0))
	assert.Equal(t, 10*time.Millisecond, percentile(sorted, 100))
	assert.Zero(t, percentile(nil, 50))
}
