// Package stats utilidades estadísticas sobre float64 para scoring y
// calibración: percentiles con interpolación lineal entre rangos, media y
// desviación muestral.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Sorted copia ordenada ascendente.
func Sorted(xs []float64) []float64 {
	out := append([]float64(nil), xs...)
	sort.Float64s(out)
	return out
}

// Percentile p en [0,100] sobre datos ya ordenados. Vacío → 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	pos := p / 100 * float64(n-1)
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	if lo == hi {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (sorted[int(hi)]-sorted[int(lo)])*(pos-lo)
}

// Mean media aritmética; vacío → 0.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// SampleStdDev desviación estándar muestral (n-1); menos de 2 datos → 0.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// PercentileRank rango percentil de x en la población (0..100): promedio de
// las posiciones que ocupa x (empates promediados) sobre n.
func PercentileRank(sorted []float64, x float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	below := sort.SearchFloat64s(sorted, x)
	equal := 0
	for i := below; i < n && sorted[i] == x; i++ {
		equal++
	}
	if equal == 0 {
		return float64(below) / float64(n) * 100
	}
	// rangos 1-based below+1 .. below+equal → promedio
	avgRank := float64(below) + float64(equal+1)/2
	return avgRank / float64(n) * 100
}

// Round redondea a dec decimales.
func Round(x float64, dec int) float64 {
	p := math.Pow(10, float64(dec))
	return math.Round(x*p) / p
}
