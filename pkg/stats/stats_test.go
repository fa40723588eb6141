package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/farma-analytics/pkg/stats"
)

func TestPercentile_InterpolacionLineal(t *testing.T) {
	xs := stats.Sorted([]float64{0.92, 0.10, 0.45, 0.25, 0.70})
	assert.InDelta(t, 0.25, stats.Percentile(xs, 25), 1e-12)
	assert.InDelta(t, 0.45, stats.Percentile(xs, 50), 1e-12)
	assert.InDelta(t, 0.70, stats.Percentile(xs, 75), 1e-12)
	assert.InDelta(t, 0.832, stats.Percentile(xs, 90), 1e-12)
	assert.InDelta(t, 0.10, stats.Percentile(xs, 0), 1e-12)
	assert.InDelta(t, 0.92, stats.Percentile(xs, 100), 1e-12)
	assert.Equal(t, 0.0, stats.Percentile(nil, 50))
}

func TestPercentileRank(t *testing.T) {
	xs := stats.Sorted([]float64{1, 2, 2, 4})
	assert.InDelta(t, 25, stats.PercentileRank(xs, 1), 1e-12)
	assert.InDelta(t, 62.5, stats.PercentileRank(xs, 2), 1e-12)
	assert.InDelta(t, 100, stats.PercentileRank(xs, 4), 1e-12)
	assert.InDelta(t, 75, stats.PercentileRank(xs, 3), 1e-12)
}

func TestMeanYDesviacion(t *testing.T) {
	assert.InDelta(t, 2.5, stats.Mean([]float64{1, 2, 3, 4}), 1e-12)
	assert.InDelta(t, 1.2909944487, stats.SampleStdDev([]float64{1, 2, 3, 4}), 1e-9)
	assert.Equal(t, 0.0, stats.SampleStdDev([]float64{5}))
	assert.Equal(t, 0.0, stats.Mean(nil))
	assert.Equal(t, 1.23, stats.Round(1.2349, 2))
}
