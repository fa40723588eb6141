package risk_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/application/risk"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

var today = time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sellerData() risk.SellerData {
	return risk.SellerData{
		Seller: "Ana",
		Receivables: []entity.Receivable{
			{ClientID: "A", Balance: d("1000"), OverdueAmount: d("600"), NonOverdueAmount: d("400"), DaysOverdue: 60, Dated: true},
			{ClientID: "B", Balance: d("0"), DaysOverdue: -10, Dated: true},
		},
		Sales: []entity.Sale{
			{Kind: entity.DocSale, Date: today.AddDate(0, 0, -10), Gross: d("9000"), Net: d("9000")},
			{Kind: entity.DocSale, Date: today.AddDate(0, 0, -200), Gross: d("5000"), Net: d("5000")},
		},
		Receipts: []entity.Receipt{
			{Amount: d("4500"), Date: today.AddDate(0, 0, -5)},
			{Amount: d("7000"), Date: today.AddDate(0, 0, -300)},
		},
	}
}

func TestIndicator_Metricas(t *testing.T) {
	ind := risk.Indicator(sellerData(), risk.Options{}, today)

	assert.True(t, ind.TotalPortfolio.Equal(d("1000")))
	assert.True(t, ind.TotalSales.Equal(d("9000")))
	assert.True(t, ind.TotalReceipts.Equal(d("4500")))
	assert.InDelta(t, 60.0, ind.OverdueRate, 1e-9)
	assert.InDelta(t, 60.0, ind.WOF, 1e-9)
	assert.InDelta(t, 10.0, ind.DSO, 1e-9)
	assert.InDelta(t, 50.0, ind.CollectionEfficiency, 1e-9)
	assert.InDelta(t, 100.0, ind.Concentration, 1e-9)

	assert.InDelta(t, 0.6, ind.OverdueRisk, 1e-9)
	assert.InDelta(t, 1.0/3, ind.WOFRisk, 1e-9)
	assert.Zero(t, ind.DSORisk)
	assert.InDelta(t, 0.5, ind.CollectionRisk, 1e-9)
	assert.InDelta(t, 1.0, ind.ConcentrationRisk, 1e-9)
	assert.InDelta(t, 0.4583, ind.CompositeRisk, 1e-9)
}

func TestIndicator_SinVentasConCartera(t *testing.T) {
	in := sellerData()
	in.Sales = nil
	in.Receipts = nil

	ind := risk.Indicator(in, risk.Options{PeriodDays: 90}, today)

	assert.Equal(t, 365.0, ind.DSO)
	assert.Equal(t, 1.0, ind.DSORisk)
	assert.Zero(t, ind.CollectionEfficiency)
	assert.Equal(t, 1.0, ind.CollectionRisk)
}

func TestIndicator_SinDatos(t *testing.T) {
	ind := risk.Indicator(risk.SellerData{Seller: "Nadie"}, risk.Options{}, today)

	assert.Zero(t, ind.OverdueRate)
	assert.Zero(t, ind.DSO)
	assert.Zero(t, ind.Concentration)
	assert.GreaterOrEqual(t, ind.CompositeRisk, 0.0)
	assert.LessOrEqual(t, ind.CompositeRisk, 1.0)
}

func TestCalibrate_CategoriasPorPercentil(t *testing.T) {
	composites := []float64{0.10, 0.25, 0.45, 0.70, 0.92}
	inds := make([]dto.RiskIndicatorDTO, len(composites))
	for i, c := range composites {
		inds[i] = dto.RiskIndicatorDTO{Seller: string(rune('A' + i)), CompositeRisk: c}
	}

	th, calibrated := risk.Calibrate(inds)

	require.True(t, calibrated)
	assert.InDelta(t, 0.25, th.P25, 1e-9)
	assert.InDelta(t, 0.45, th.P50, 1e-9)
	assert.InDelta(t, 0.70, th.P75, 1e-9)
	assert.InDelta(t, 0.832, th.P90, 1e-9)

	want := []string{risk.CategoryLow, risk.CategoryModerate, risk.CategoryMedium, risk.CategoryHigh, risk.CategoryCritical}
	for i, ind := range inds {
		assert.Equal(t, want[i], ind.Category, ind.Seller)
		if i > 0 {
			assert.Greater(t, ind.Percentile, inds[i-1].Percentile)
		}
	}
}

func TestCalibrate_PoblacionSinVariacionUsaCortesFijos(t *testing.T) {
	inds := []dto.RiskIndicatorDTO{{Seller: "A", CompositeRisk: 0.5}, {Seller: "B", CompositeRisk: 0.5}}

	th, calibrated := risk.Calibrate(inds)

	assert.False(t, calibrated)
	assert.Equal(t, 0.2, th.P25)
	assert.Equal(t, risk.CategoryMedium, inds[0].Category)
	assert.Equal(t, risk.CategoryMedium, inds[1].Category)
}

func TestReport_OrdenaPorRiesgoAjustado(t *testing.T) {
	healthy := risk.SellerData{
		Seller:      "Beto",
		Receivables: []entity.Receivable{{ClientID: "C", Balance: d("100"), NonOverdueAmount: d("100"), DaysOverdue: -20, Dated: true}},
		Sales:       []entity.Sale{{Kind: entity.DocSale, Date: today, Net: d("9000"), Gross: d("9000")}},
		Receipts:    []entity.Receipt{{Amount: d("9000"), Date: today}},
	}

	rep := risk.Report([]risk.SellerData{healthy, sellerData()}, risk.Options{}, today)

	require.Len(t, rep.Sellers, 2)
	assert.Equal(t, 90, rep.PeriodDays)
	assert.True(t, rep.Calibrated)
	assert.Equal(t, "Ana", rep.Sellers[0].Seller)
	assert.Equal(t, risk.CategoryCritical, rep.Sellers[0].Category)
	assert.Equal(t, risk.CategoryLow, rep.Sellers[1].Category)
}
