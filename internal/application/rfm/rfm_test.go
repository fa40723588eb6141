package rfm_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farma-analytics/internal/application/rfm"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

var today = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func sale(client string, at time.Time, net int64) entity.Sale {
	return entity.Sale{
		ClientID:   "id-" + client,
		FullClient: client,
		Seller:     entity.NewPartyRef("01", "Ana"),
		Date:       at,
		YearMonth:  entity.YearMonthOf(at),
		Kind:       entity.DocSale,
		Gross:      decimal.NewFromInt(net),
		Net:        decimal.NewFromInt(net),
	}
}

func TestCompute_CorteYMetricasBasicas(t *testing.T) {
	rows := []entity.Sale{
		sale("X", today.AddDate(0, 0, -30), 100),
		sale("X", today.AddDate(0, 0, -2), 300),
	}

	res := rfm.Compute(rows, "Ana", today)

	require.Len(t, res.Clients, 1)
	c := res.Clients[0]
	assert.Equal(t, 2, c.RecencyDays)
	assert.Equal(t, 2, c.Frequency)
	assert.True(t, c.Monetary.Equal(decimal.NewFromInt(400)))
	assert.True(t, c.AvgTicket.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "id-X", c.ClientID)
	assert.Equal(t, "Ana", c.Seller)
}

func TestCompute_CorteIncluyeHoyExcluyeFuturo(t *testing.T) {
	endOfDay := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)
	rows := []entity.Sale{
		sale("X", endOfDay, 50),
		sale("X", today.AddDate(0, 0, 1), 999),
		{FullClient: "X", Kind: entity.DocReturn, Date: today, YearMonth: "2025-06", Net: decimal.NewFromInt(-20)},
	}

	res := rfm.Compute(rows, "", today)

	require.Len(t, res.Clients, 1)
	assert.Equal(t, 0, res.Clients[0].RecencyDays)
	assert.Equal(t, 1, res.Clients[0].Frequency)
	assert.True(t, res.Clients[0].Monetary.Equal(decimal.NewFromInt(50)))
}

func TestCompute_InvariantesDePuntaje(t *testing.T) {
	rows := make([]entity.Sale, 0)
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for i, n := range names {
		for k := 0; k <= i; k++ {
			rows = append(rows, sale(n, today.AddDate(0, -k, -i*3), int64(100*(i+1))))
		}
	}

	res := rfm.Compute(rows, "", today)

	require.Len(t, res.Clients, len(names))
	total := 0
	for _, c := range res.Clients {
		for _, s := range []int{c.R, c.F, c.M, c.T} {
			assert.GreaterOrEqual(t, s, 1)
			assert.LessOrEqual(t, s, 5)
		}
		assert.Len(t, c.Score, 4)
		assert.GreaterOrEqual(t, c.Numeric, 1.0)
		assert.LessOrEqual(t, c.Numeric, 5.0)
		assert.Contains(t, rfm.Categories, c.Category)
		total++
	}
	segTotal := 0
	for _, s := range res.Segments {
		segTotal += s.Clients
	}
	assert.Equal(t, total, segTotal)
	for i := 1; i < len(res.Clients); i++ {
		assert.GreaterOrEqual(t, res.Clients[i-1].Numeric, res.Clients[i].Numeric)
	}
}

func TestCompute_SinDatosDevuelveFormaVacia(t *testing.T) {
	res := rfm.Compute(nil, "Ana", today)

	assert.NotNil(t, res.Clients)
	assert.Empty(t, res.Clients)
	assert.NotNil(t, res.Segments)
	assert.Equal(t, "Ana", res.Seller)
}

func TestQuintiles(t *testing.T) {
	t.Run("cortes de cuantil únicos", func(t *testing.T) {
		bins := rfm.Quintiles([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
		assert.Equal(t, []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}, bins)
	})
	t.Run("cortes repetidos usan ancho fijo", func(t *testing.T) {
		bins := rfm.Quintiles([]float64{1, 1, 1, 1, 10})
		assert.Equal(t, []int{1, 1, 1, 1, 5}, bins)
	})
	t.Run("todos iguales puntaje neutro", func(t *testing.T) {
		bins := rfm.Quintiles([]float64{7, 7, 7})
		assert.Equal(t, []int{3, 3, 3}, bins)
	})
}

func TestTrendLabel_Umbrales(t *testing.T) {
	assert.Equal(t, rfm.TrendStrongGrowth, rfm.TrendLabel(10, 5))
	assert.Equal(t, rfm.TrendStrongDecline, rfm.TrendLabel(-10, -5))
	assert.Equal(t, rfm.TrendGrowth, rfm.TrendLabel(5, 0))
	assert.Equal(t, rfm.TrendGrowth, rfm.TrendLabel(0, 10))
	assert.Equal(t, rfm.TrendDecline, rfm.TrendLabel(-5, 0))
	assert.Equal(t, rfm.TrendStable, rfm.TrendLabel(4.9, 9.9))
}

func TestTrendScore_AjustesYRecorte(t *testing.T) {
	assert.Equal(t, 5, rfm.TrendScore(rfm.Trend{CAGR: 25, VarRecent: 50, Consistency: 90}))
	assert.Equal(t, 3, rfm.TrendScore(rfm.Trend{CAGR: 0, Consistency: 50}))
	assert.Equal(t, 1, rfm.TrendScore(rfm.Trend{CAGR: -40, VarRecent: -50, Consistency: 10}))
	// 4 - 0.5 - 0.3 = 3.2
	assert.Equal(t, 3, rfm.TrendScore(rfm.Trend{CAGR: 6, VarRecent: -30, Consistency: 20}))
}

func TestCategorize(t *testing.T) {
	growing := rfm.Trend{Label: rfm.TrendGrowth, CAGR: 8}
	stable := rfm.Trend{Label: rfm.TrendStable}
	declining := rfm.Trend{Label: rfm.TrendDecline, CAGR: -8}

	assert.Equal(t, rfm.CatAscendingChampions, rfm.Categorize(5, 5, 5, growing))
	assert.Equal(t, rfm.CatDecliningChampions, rfm.Categorize(4, 4, 4, declining))
	assert.Equal(t, rfm.CatStars, rfm.Categorize(5, 4, 5, stable))
	assert.Equal(t, rfm.CatFreeFall, rfm.Categorize(2, 3, 3, rfm.Trend{Label: rfm.TrendStrongDecline, CAGR: -30}))
	assert.Equal(t, rfm.CatStableLoyals, rfm.Categorize(3, 3, 2, stable))
	assert.Equal(t, rfm.CatMomentumPotentials, rfm.Categorize(3, 2, 3, growing))
	assert.Equal(t, rfm.CatHotOpportunities, rfm.Categorize(5, 1, 1, growing))
	assert.Equal(t, rfm.CatDevelopingNewcomer, rfm.Categorize(4, 2, 2, stable))
	assert.Equal(t, rfm.CatImmediateRescue, rfm.Categorize(2, 4, 2, declining))
	assert.Equal(t, rfm.CatLost, rfm.Categorize(1, 1, 1, declining))
	assert.Equal(t, rfm.CatStableHibernating, rfm.Categorize(2, 2, 2, stable))
	assert.Equal(t, rfm.CatUrgentAttention, rfm.Categorize(3, 2, 2, declining))
	assert.Equal(t, rfm.CatIrregular, rfm.Categorize(3, 1, 1, growing))
}

func TestRecommendation_Sufijos(t *testing.T) {
	text := rfm.Recommendation(rfm.CatImmediateRescue, 120, -35)
	assert.Contains(t, text, "120 días")
	assert.Contains(t, text, "Cae 35.0%")

	plain := rfm.Recommendation(rfm.CatStars, 5, 0)
	assert.NotContains(t, plain, "días")
}

func TestClientDetail(t *testing.T) {
	rows := []entity.Sale{
		sale("X", time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), 100),
		sale("X", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 300),
		sale("Y", time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), 80),
	}

	t.Run("por etiqueta", func(t *testing.T) {
		d, ok := rfm.ClientDetail(rows, "X", today)
		require.True(t, ok)
		assert.NotEmpty(t, d.Recommendation)
		require.Len(t, d.Monthly, 2)
		assert.Equal(t, "2025-04", d.Monthly[0].YearMonth)
		assert.True(t, d.Monthly[1].NetSales.Equal(decimal.NewFromInt(300)))
	})
	t.Run("por id", func(t *testing.T) {
		d, ok := rfm.ClientDetail(rows, "id-Y", today)
		require.True(t, ok)
		assert.Equal(t, "Y", d.Client)
	})
	t.Run("desconocido", func(t *testing.T) {
		_, ok := rfm.ClientDetail(rows, "Z", today)
		assert.False(t, ok)
	})
}
