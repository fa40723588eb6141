// Package pdf genera la ficha de riesgo de cartera de un vendedor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Vendedor + periodo  │  Categoría + fecha            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Cartera / Vencida / Ventas / Recaudos              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Métrica | Valor | Riesgo (0..1) | Peso               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Compuesto / Percentil / Ajustado                   │
//	│  FOOTER: cortes P25..P90 de la población                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/application/risk"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var categoryColor = map[string]*props.Color{
	risk.CategoryLow:      {Red: 46, Green: 125, Blue: 50},
	risk.CategoryModerate: {Red: 124, Green: 179, Blue: 66},
	risk.CategoryMedium:   {Red: 249, Green: 168, Blue: 37},
	risk.CategoryHigh:     {Red: 239, Green: 108, Blue: 0},
	risk.CategoryCritical: {Red: 198, Green: 40, Blue: 40},
}

// ── Generator ─────────────────────────────────────────────────────────────────

// ScorecardGenerator genera la ficha de riesgo con Maroto v2.
type ScorecardGenerator struct {
	p *message.Printer
}

// NewScorecardGenerator construye el generador con formato numérico en español.
func NewScorecardGenerator() *ScorecardGenerator {
	return &ScorecardGenerator{p: message.NewPrinter(language.Spanish)}
}

// RiskScorecard genera el PDF de un vendedor y devuelve sus bytes.
func (g *ScorecardGenerator) RiskScorecard(
	_ context.Context,
	report dto.RiskReportDTO,
	ind dto.RiskIndicatorDTO,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Indicador de riesgo de cartera", true).
		WithAuthor("farma-analytics", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report, ind, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.totalsRow(ind))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.metricRows(ind) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.summaryRow(ind))
	m.AddRows(row.New(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ficha de riesgo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ScorecardGenerator) headerRow(report dto.RiskReportDTO, ind dto.RiskIndicatorDTO, at time.Time) core.Row {
	color, ok := categoryColor[ind.Category]
	if !ok {
		color = colorGray
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(ind.Seller, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(g.p.Sprintf("Ventas y recaudos de los últimos %d días", report.PeriodDays), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RIESGO DE CARTERA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(ind.Category, "-"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7, Color: color,
			}),
			text.New("Fecha: "+at.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func (g *ScorecardGenerator) totalsRow(ind dto.RiskIndicatorDTO) core.Row {
	cell := func(label string, v decimal.Decimal) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(g.money(v), props.Text{Size: 10, Top: 6}),
		)
	}
	return row.New(14).Add(
		cell("Cartera total", ind.TotalPortfolio),
		cell("Cartera vencida", ind.TotalOverdue),
		cell("Ventas del periodo", ind.TotalSales),
		cell("Recaudos del periodo", ind.TotalReceipts),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Métrica", 5, align.Left),
		h("Valor", 3, align.Right),
		h("Riesgo", 2, align.Right),
		h("Peso", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *ScorecardGenerator) metricRows(ind dto.RiskIndicatorDTO) []core.Row {
	metrics := []struct {
		name   string
		value  string
		risk   float64
		weight string
	}{
		{"Tasa de mora", g.p.Sprintf("%.2f %%", ind.OverdueRate), ind.OverdueRisk, "25 %"},
		{"Mora ponderada (días)", g.p.Sprintf("%.1f", ind.WOF), ind.WOFRisk, "25 %"},
		{"Eficiencia de recaudo", g.p.Sprintf("%.2f %%", ind.CollectionEfficiency), ind.CollectionRisk, "15 %"},
		{"Días de cartera (DSO)", g.p.Sprintf("%.1f", ind.DSO), ind.DSORisk, "20 %"},
		{"Concentración de mora", g.p.Sprintf("%.2f %%", ind.Concentration), ind.ConcentrationRisk, "15 %"},
	}
	out := make([]core.Row, 0, len(metrics))
	for _, mt := range metrics {
		out = append(out, row.New(7).Add(
			col.New(5).Add(text.New(mt.name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(mt.value, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.p.Sprintf("%.2f", mt.risk), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(mt.weight, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorGray})),
		))
	}
	return out
}

func (g *ScorecardGenerator) summaryRow(ind dto.RiskIndicatorDTO) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Riesgo compuesto:"),
			label("Percentil:"),
			label("Riesgo ajustado:"),
		),
		col.New(3).Add(
			value(g.p.Sprintf("%.4f", ind.CompositeRisk)),
			value(g.p.Sprintf("%.1f", ind.Percentile)),
			value(g.p.Sprintf("%.4f", ind.AdjustedRisk)),
		),
	)
}

func (g *ScorecardGenerator) footerRow(report dto.RiskReportDTO) core.Row {
	basis := "percentiles de la población de vendedores"
	if !report.Calibrated {
		basis = "cortes fijos (población sin variación)"
	}
	t := report.Thresholds
	return row.New(12).Add(col.New(12).Add(
		text.New("Categorías según "+basis, props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
		text.New(g.p.Sprintf("BAJO < %.3f <= MODERADO < %.3f <= MEDIO < %.3f <= ALTO < %.3f <= CRÍTICO", t.P25, t.P50, t.P75, t.P90),
			props.Text{Size: 7, Top: 6, Color: colorGray}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con separador de miles del español y sin decimales: "$1.234.567".
func (g *ScorecardGenerator) money(v decimal.Decimal) string {
	return g.p.Sprintf("$%d", v.Round(0).IntPart())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
