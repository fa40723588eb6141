// Package risk calcula el indicador de riesgo de cartera por vendedor y lo
// calibra contra los percentiles de la población de vendedores.
package risk

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/application/sales"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
	"github.com/jhoicas/farma-analytics/pkg/stats"
)

// Categorías de riesgo de menor a mayor.
const (
	CategoryLow      = "BAJO"
	CategoryModerate = "MODERADO"
	CategoryMedium   = "MEDIO"
	CategoryHigh     = "ALTO"
	CategoryCritical = "CRÍTICO"
)

// Pesos del riesgo compuesto.
const (
	weightOverdue       = 0.25
	weightWOF           = 0.25
	weightCollection    = 0.15
	weightDSO           = 0.20
	weightConcentration = 0.15
)

// Normalizadores de cada métrica a [0,1].
const (
	wofCeilingDays = 180.0
	dsoFloorDays   = 30.0
	dsoSpanDays    = 120.0
	dsoNoSales     = 365.0
)

// fallbackCuts cortes fijos cuando la población no permite calibrar.
var fallbackCuts = dto.RiskThresholdsDTO{P25: 0.2, P50: 0.4, P75: 0.6, P90: 0.8}

// Options parámetros del indicador.
type Options struct {
	PeriodDays int // ventana de ventas y recaudos que termina hoy
	TopClients int // clientes considerados en la concentración de mora
}

func (o Options) withDefaults() Options {
	if o.PeriodDays <= 0 {
		o.PeriodDays = 90
	}
	if o.TopClients <= 0 {
		o.TopClients = 3
	}
	return o
}

// SellerData insumos de un vendedor. Sales y Receipts pueden traer todo el
// histórico: se recortan al periodo.
type SellerData struct {
	Seller      string
	Receivables []entity.Receivable
	Sales       []entity.Sale
	Receipts    []entity.Receipt
}

// Indicator métricas y riesgo compuesto de un vendedor, sin calibrar.
func Indicator(in SellerData, opts Options, today time.Time) dto.RiskIndicatorDTO {
	opts = opts.withDefaults()
	y, m, d := today.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, today.Location()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -opts.PeriodDays)
	inPeriod := func(t time.Time) bool { return !t.Before(start) && t.Before(end) }

	var portfolio, overdue, weighted, overdueDated decimal.Decimal
	byClient := map[string]decimal.Decimal{}
	for _, r := range in.Receivables {
		portfolio = portfolio.Add(r.Balance)
		overdue = overdue.Add(r.OverdueAmount)
		if r.OverdueAmount.IsPositive() {
			byClient[r.ClientID] = byClient[r.ClientID].Add(r.OverdueAmount)
			if r.Dated && r.DaysOverdue > 0 {
				weighted = weighted.Add(r.OverdueAmount.Mul(decimal.NewFromInt(int64(r.DaysOverdue))))
				overdueDated = overdueDated.Add(r.OverdueAmount)
			}
		}
	}

	periodSales := make([]entity.Sale, 0, len(in.Sales))
	for _, s := range in.Sales {
		if s.HasDate() && inPeriod(s.Date) {
			periodSales = append(periodSales, s)
		}
	}
	sold := sales.Summary(periodSales).NetSales

	var receipts decimal.Decimal
	for _, r := range in.Receipts {
		if !r.Date.IsZero() && inPeriod(r.Date) {
			receipts = receipts.Add(r.Amount)
		}
	}

	out := dto.RiskIndicatorDTO{
		Seller:         in.Seller,
		TotalPortfolio: portfolio.Round(2),
		TotalOverdue:   overdue.Round(2),
		TotalSales:     sold.Round(2),
		TotalReceipts:  receipts.Round(2),
	}
	out.OverdueRate = ratio(overdue, portfolio) * 100
	out.WOF = ratio(weighted, overdueDated)
	out.DSO = dso(portfolio, sold, opts.PeriodDays)
	out.CollectionEfficiency = ratio(receipts, sold) * 100
	out.Concentration = ratio(topShare(byClient, opts.TopClients), overdue) * 100

	out.OverdueRisk = clamp01(out.OverdueRate / 100)
	out.WOFRisk = clamp01(out.WOF / wofCeilingDays)
	out.DSORisk = clamp01((out.DSO - dsoFloorDays) / dsoSpanDays)
	out.CollectionRisk = clamp01(1 - out.CollectionEfficiency/100)
	out.ConcentrationRisk = clamp01(out.Concentration / 100)
	out.CompositeRisk = stats.Round(weightOverdue*out.OverdueRisk+
		weightWOF*out.WOFRisk+
		weightCollection*out.CollectionRisk+
		weightDSO*out.DSORisk+
		weightConcentration*out.ConcentrationRisk, 4)

	out.OverdueRate = stats.Round(out.OverdueRate, 2)
	out.WOF = stats.Round(out.WOF, 2)
	out.DSO = stats.Round(out.DSO, 2)
	out.CollectionEfficiency = stats.Round(out.CollectionEfficiency, 2)
	out.Concentration = stats.Round(out.Concentration, 2)
	return out
}

// Calibrate asigna percentil, riesgo ajustado y categoría a cada indicador
// según la distribución del riesgo compuesto en la población. Con menos de
// dos valores distintos se usan cortes fijos y calibrated es false.
func Calibrate(inds []dto.RiskIndicatorDTO) (thresholds dto.RiskThresholdsDTO, calibrated bool) {
	composites := make([]float64, len(inds))
	for i, ind := range inds {
		composites[i] = ind.CompositeRisk
	}
	sorted := stats.Sorted(composites)

	thresholds = fallbackCuts
	if distinct(sorted) >= 2 {
		thresholds = dto.RiskThresholdsDTO{
			P25: stats.Round(stats.Percentile(sorted, 25), 4),
			P50: stats.Round(stats.Percentile(sorted, 50), 4),
			P75: stats.Round(stats.Percentile(sorted, 75), 4),
			P90: stats.Round(stats.Percentile(sorted, 90), 4),
		}
		calibrated = true
	}

	for i := range inds {
		p := stats.PercentileRank(sorted, inds[i].CompositeRisk)
		inds[i].Percentile = stats.Round(p, 2)
		inds[i].AdjustedRisk = stats.Round((inds[i].CompositeRisk+p/100)/2, 4)
		inds[i].Category = CategoryFor(inds[i].CompositeRisk, thresholds)
	}
	return thresholds, calibrated
}

// CategoryFor ubica un riesgo compuesto en los cortes.
func CategoryFor(composite float64, t dto.RiskThresholdsDTO) string {
	switch {
	case composite < t.P25:
		return CategoryLow
	case composite < t.P50:
		return CategoryModerate
	case composite < t.P75:
		return CategoryMedium
	case composite < t.P90:
		return CategoryHigh
	default:
		return CategoryCritical
	}
}

// Report indicador calibrado de toda la población, ordenado por riesgo
// ajustado descendente.
func Report(population []SellerData, opts Options, today time.Time) dto.RiskReportDTO {
	opts = opts.withDefaults()
	inds := make([]dto.RiskIndicatorDTO, 0, len(population))
	for _, p := range population {
		inds = append(inds, Indicator(p, opts, today))
	}
	thresholds, calibrated := Calibrate(inds)
	sort.SliceStable(inds, func(i, j int) bool {
		if inds[i].AdjustedRisk != inds[j].AdjustedRisk {
			return inds[i].AdjustedRisk > inds[j].AdjustedRisk
		}
		return inds[i].Seller < inds[j].Seller
	})
	return dto.RiskReportDTO{
		PeriodDays: opts.PeriodDays,
		Thresholds: thresholds,
		Calibrated: calibrated,
		Sellers:    inds,
	}
}

// dso cartera / venta diaria del periodo. Sin ventas y con cartera → 365.
func dso(portfolio, sold decimal.Decimal, days int) float64 {
	if !sold.IsPositive() {
		if portfolio.IsPositive() {
			return dsoNoSales
		}
		return 0
	}
	daily := sold.Div(decimal.NewFromInt(int64(days)))
	f, _ := portfolio.Div(daily).Float64()
	return f
}

func topShare(byClient map[string]decimal.Decimal, n int) decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(byClient))
	for _, v := range byClient {
		amounts = append(amounts, v)
	}
	sort.Slice(amounts, func(i, j int) bool { return amounts[i].GreaterThan(amounts[j]) })
	var top decimal.Decimal
	for i := 0; i < n && i < len(amounts); i++ {
		top = top.Add(amounts[i])
	}
	return top
}

func ratio(num, den decimal.Decimal) float64 {
	if !den.IsPositive() {
		return 0
	}
	f, _ := num.Div(den).Float64()
	return f
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

func distinct(sorted []float64) int {
	n := 0
	for i, x := range sorted {
		if i == 0 || x != sorted[i-1] {
			n++
		}
	}
	return n
}
