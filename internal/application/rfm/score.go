package rfm

import (
	"math"

	"github.com/jhoicas/farma-analytics/pkg/stats"
)

// quintiles asigna a cada valor un bin 1..5 por cortes de cuantil. Si los
// cortes no son únicos se usan cinco intervalos de igual ancho.
func quintiles(values []float64) []int {
	out := make([]int, len(values))
	if len(values) == 0 {
		return out
	}
	sorted := stats.Sorted(values)
	edges := make([]float64, 6)
	for i := range edges {
		edges[i] = stats.Percentile(sorted, float64(i*20))
	}
	if strictlyIncreasing(edges) {
		for i, x := range values {
			out[i] = quantileBin(edges, x)
		}
		return out
	}
	lo, hi := sorted[0], sorted[len(sorted)-1]
	for i, x := range values {
		out[i] = equalWidthBin(lo, hi, x)
	}
	return out
}

func strictlyIncreasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return false
		}
	}
	return true
}

// quantileBin primer intervalo (e[i-1], e[i]] que contiene x; el primero
// incluye su borde inferior.
func quantileBin(edges []float64, x float64) int {
	for i := 1; i < len(edges); i++ {
		if x <= edges[i] {
			return i
		}
	}
	return len(edges) - 1
}

func equalWidthBin(lo, hi, x float64) int {
	if hi == lo {
		return 3
	}
	width := (hi - lo) / 5
	bin := int(math.Ceil((x - lo) / width))
	return clampScore(bin)
}

func clampScore(s int) int {
	switch {
	case s < 1:
		return 1
	case s > 5:
		return 5
	default:
		return s
	}
}

// numericScore 0.30R + 0.25F + 0.25M + 0.20T.
func numericScore(r, f, m, t int) float64 {
	return stats.Round(0.30*float64(r)+0.25*float64(f)+0.25*float64(m)+0.20*float64(t), 2)
}
