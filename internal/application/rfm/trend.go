package rfm

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farma-analytics/pkg/stats"
)

// Etiquetas de tendencia.
const (
	TrendStrongGrowth  = "strong_growth"
	TrendGrowth        = "growth"
	TrendStable        = "stable"
	TrendDecline       = "decline"
	TrendStrongDecline = "strong_decline"
)

// monthPoint neto de un mes (YYYY-MM).
type monthPoint struct {
	ym    string
	value float64
}

// Trend métricas de tendencia de la serie mensual de un cliente.
type Trend struct {
	CAGR        float64
	Var3M       float64
	VarRecent   float64
	Consistency float64
	Label       string
	Months      int
}

func (t Trend) growing() bool   { return t.Label == TrendGrowth || t.Label == TrendStrongGrowth }
func (t Trend) declining() bool { return t.Label == TrendDecline || t.Label == TrendStrongDecline }
func (t Trend) stable() bool    { return t.Label == TrendStable }

func seriesOf(byMonth map[string]decimal.Decimal) []monthPoint {
	out := make([]monthPoint, 0, len(byMonth))
	for ym, v := range byMonth {
		f, _ := v.Float64()
		out = append(out, monthPoint{ym: ym, value: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ym < out[j].ym })
	return out
}

// computeTrend calcula las métricas respecto al mes de today.
func computeTrend(series []monthPoint, today time.Time) Trend {
	t := Trend{
		CAGR:        cagrYTD(series, today.Year()),
		Var3M:       var3M(series, today),
		VarRecent:   varRecent(series),
		Consistency: consistency(series),
		Months:      len(series),
	}
	t.Label = trendLabel(t.CAGR, t.Var3M)
	return t
}

// cagrYTD CAGR mensual entre el primer y el último mes del año en curso.
// Con menos de 2 puntos en el año se usan los últimos 6 puntos de la serie.
func cagrYTD(series []monthPoint, year int) float64 {
	prefix := strconv.Itoa(year) + "-"
	ytd := make([]monthPoint, 0, 12)
	for _, p := range series {
		if strings.HasPrefix(p.ym, prefix) {
			ytd = append(ytd, p)
		}
	}
	points := ytd
	if len(points) < 2 {
		points = series
		if len(points) > 6 {
			points = points[len(points)-6:]
		}
	}
	if len(points) < 2 {
		return 0
	}
	first, last := points[0].value, points[len(points)-1].value
	if first <= 0 {
		return 0
	}
	if last <= 0 {
		return -100
	}
	periods := float64(len(points) - 1)
	return (math.Pow(last/first, 1/periods) - 1) * 100
}

// var3M compara los 3 meses cerrados más recientes (M-1..M-3) con los 3
// anteriores (M-4..M-6). Meses sin compra cuentan 0.
func var3M(series []monthPoint, today time.Time) float64 {
	values := make(map[string]float64, len(series))
	for _, p := range series {
		values[p.ym] = p.value
	}
	cur := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	sum := func(from, to int) float64 {
		s := 0.0
		for i := from; i <= to; i++ {
			s += values[cur.AddDate(0, -i, 0).Format("2006-01")]
		}
		return s
	}
	last3 := sum(1, 3)
	prev3 := sum(4, 6)
	if prev3 == 0 {
		if last3 > 0 {
			return 100
		}
		return 0
	}
	return (last3 - prev3) / math.Abs(prev3) * 100
}

// varRecent último punto frente a la media de los anteriores.
func varRecent(series []monthPoint) float64 {
	if len(series) < 2 {
		return 0
	}
	prior := make([]float64, 0, len(series)-1)
	for _, p := range series[:len(series)-1] {
		prior = append(prior, p.value)
	}
	mean := stats.Mean(prior)
	if mean <= 0 {
		return 0
	}
	return (series[len(series)-1].value - mean) / mean * 100
}

// consistency 100 - coeficiente de variación (%), mínimo 0; 50 con menos de 3 meses.
func consistency(series []monthPoint) float64 {
	if len(series) < 3 {
		return 50
	}
	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.value
	}
	mean := stats.Mean(values)
	if mean <= 0 {
		return 0
	}
	cv := stats.SampleStdDev(values) / mean * 100
	return math.Max(0, 100-cv)
}

func trendLabel(cagr, v3m float64) string {
	switch {
	case cagr >= 10 && v3m >= 5:
		return TrendStrongGrowth
	case cagr <= -10 && v3m <= -5:
		return TrendStrongDecline
	case cagr >= 5 || v3m >= 10:
		return TrendGrowth
	case cagr <= -5 || v3m <= -10:
		return TrendDecline
	default:
		return TrendStable
	}
}

// trendScore T a partir del CAGR con ajustes por variación reciente (±0.5) y
// consistencia (±0.3), recortado a [1,5].
func trendScore(t Trend) int {
	var base float64
	switch {
	case t.CAGR >= 20:
		base = 5
	case t.CAGR >= 5:
		base = 4
	case t.CAGR > -5:
		base = 3
	case t.CAGR > -20:
		base = 2
	default:
		base = 1
	}
	switch {
	case t.VarRecent > 20:
		base += 0.5
	case t.VarRecent < -20:
		base -= 0.5
	}
	switch {
	case t.Consistency >= 70:
		base += 0.3
	case t.Consistency < 30:
		base -= 0.3
	}
	return int(math.Round(math.Min(5, math.Max(1, base))))
}

func round2(x float64) float64 { return stats.Round(x, 2) }
