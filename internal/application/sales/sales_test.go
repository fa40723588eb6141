package sales_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farma-analytics/internal/application/sales"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(client string, kind entity.DocKind, date time.Time, gross, discount string) entity.Sale {
	g, ds := d(gross), d(discount)
	return entity.Sale{
		DocumentID: client + date.Format("0102") + gross,
		Seller:     entity.NewPartyRef("V1", "A"),
		ClientID:   client,
		FullClient: client,
		Kind:       kind,
		Date:       date,
		YearMonth:  entity.YearMonthOf(date),
		Gross:      g,
		Discount:   ds,
		Net:        g.Sub(ds),
	}
}

func day(y int, m time.Month, dd int) time.Time { return time.Date(y, m, dd, 10, 0, 0, 0, time.UTC) }

func TestSummary_VentasNetas(t *testing.T) {
	rows := []entity.Sale{
		line("X", entity.DocSale, day(2025, 3, 3), "100", "10"),
		line("Y", entity.DocSale, day(2025, 3, 4), "200", "0"),
		line("X", entity.DocReturn, day(2025, 3, 5), "-50", "0"),
		line("X", entity.DocCreditNote, day(2025, 3, 6), "-30", "0"),
	}
	s := sales.Summary(rows)
	assert.True(t, s.TotalSales.Equal(d("290")))
	assert.True(t, s.TotalReturns.Equal(d("50")))
	assert.True(t, s.TotalCreditNotes.Equal(d("30")))
	assert.True(t, s.NetSales.Equal(d("240")))
	assert.Equal(t, 2, s.InvoiceCount)
	assert.Equal(t, 1, s.ReturnCount)
	assert.Equal(t, 2, s.UniqueClients)
	assert.True(t, s.AvgTicket.Equal(d("145")))
	assert.True(t, s.TotalDiscount.Equal(d("10")))
	assert.True(t, s.DiscountPct.Equal(d("3.33")))
	assert.True(t, s.NetSales.Equal(s.TotalSales.Sub(s.TotalReturns)))
}

func TestSummary_SinDatos(t *testing.T) {
	s := sales.Summary(nil)
	assert.True(t, s.AvgTicket.IsZero())
	assert.True(t, s.DiscountPct.IsZero())
	assert.Equal(t, 0, s.InvoiceCount)
}

func TestByMonth_DescuentaDevoluciones(t *testing.T) {
	rows := []entity.Sale{
		line("X", entity.DocSale, day(2025, 3, 3), "100", "0"),
		line("X", entity.DocReturn, day(2025, 3, 5), "-40", "0"),
		line("X", entity.DocSale, day(2025, 2, 3), "70", "0"),
		line("X", entity.DocCreditNote, day(2025, 2, 4), "-70", "0"),
		{Kind: entity.DocSale, Net: d("5")},
	}
	series := sales.ByMonth(rows)
	require.Len(t, series, 2)
	assert.Equal(t, "2025-02", series[0].YearMonth)
	assert.True(t, series[0].NetSales.Equal(d("70")))
	assert.True(t, series[1].NetSales.Equal(d("60")))
	assert.Equal(t, 1, series[1].InvoiceCount)
}

func TestByWeekday_OrdenFijo(t *testing.T) {
	rows := []entity.Sale{
		line("X", entity.DocSale, day(2025, 3, 2), "10", "0"), // domingo
		line("X", entity.DocSale, day(2025, 3, 3), "20", "0"), // lunes
	}
	out := sales.ByWeekday(rows)
	require.Len(t, out, 7)
	assert.Equal(t, "Lunes", out[0].Weekday)
	assert.True(t, out[0].NetSales.Equal(d("20")))
	assert.Equal(t, "Domingo", out[6].Weekday)
	assert.True(t, out[6].NetSales.Equal(d("10")))
	assert.True(t, out[3].NetSales.IsZero())
}

func TestGroupByYTop(t *testing.T) {
	a := line("A", entity.DocSale, day(2025, 3, 3), "100", "0")
	a.Zone = "Norte"
	a.PaymentMethod = "Contado"
	b := line("B", entity.DocSale, day(2025, 3, 3), "300", "0")
	b.Zone = "Sur"
	c := line("C", entity.DocSale, day(2025, 3, 3), "50", "0")
	rows := []entity.Sale{a, b, c}

	zones := sales.ByZone(rows)
	require.Len(t, zones, 3)
	assert.Equal(t, "Sur", zones[0].Key)
	assert.Equal(t, "Sin zona", zones[2].Key)
	assert.True(t, zones[0].SharePct.Equal(d("66.67")))

	pay := sales.ByPaymentMethod(rows)
	assert.Equal(t, entity.NotResolved, pay[0].Key)

	top := sales.TopClients(rows, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].Client)
	assert.Equal(t, "A", top[1].Client)
}

func TestClientEvolution(t *testing.T) {
	rows := []entity.Sale{
		line("X", entity.DocSale, day(2025, 3, 3), "100", "0"),
		line("X", entity.DocSale, day(2025, 3, 3), "50", "0"),
		line("X", entity.DocReturn, day(2025, 4, 1), "-20", "0"),
		line("Y", entity.DocSale, day(2025, 3, 3), "999", "0"),
	}
	monthly := sales.ClientEvolution(rows, "X", sales.Monthly)
	require.Len(t, monthly, 2)
	assert.True(t, monthly[0].NetSales.Equal(d("150")))
	assert.True(t, monthly[1].NetSales.Equal(d("-20")))

	daily := sales.ClientEvolution(rows, "X", sales.ParseGranularity("day"))
	assert.Equal(t, "2025-03-03", daily[0].Period)
	assert.Equal(t, 2, daily[0].InvoiceCount)
}

func TestByDateRange_ExpandeAMesesCompletos(t *testing.T) {
	rows := []entity.Sale{
		line("X", entity.DocSale, day(2025, 1, 2), "10", "0"),
		line("X", entity.DocSale, day(2025, 2, 27), "20", "0"),
		line("Y", entity.DocSale, day(2025, 3, 1), "40", "0"),
		line("X", entity.DocSale, day(2024, 12, 31), "80", "0"),
	}
	out := sales.ByDateRange(rows, day(2025, 1, 15), day(2025, 2, 10))
	require.Len(t, out.Total, 1)
	assert.True(t, out.Total[0].NetSales.Equal(d("30")))
	assert.Len(t, out.Monthly, 2)
	assert.Equal(t, 1, out.Start.Day())
	assert.Equal(t, 28, out.End.Day())
}

func TestByMonthRange_FiltroDeMonto(t *testing.T) {
	rows := []entity.Sale{
		line("X", entity.DocSale, day(2025, 1, 2), "10", "0"),
		line("Y", entity.DocSale, day(2025, 2, 2), "500", "0"),
		line("Z", entity.DocSale, day(2025, 6, 2), "700", "0"),
		line("W", entity.DocSale, day(2024, 12, 2), "5", "0"),
	}
	all := sales.ByMonthRange(rows, 1, 2, sales.AmountRange{})
	assert.Len(t, all.Total, 2)

	floor := d("100")
	filtered := sales.ByMonthRange(rows, 1, 2, sales.AmountRange{Min: &floor})
	require.Len(t, filtered.Total, 1)
	assert.Equal(t, "Y", filtered.Total[0].Client)
	require.Len(t, filtered.Monthly, 1)

	wrap := sales.ByMonthRange(rows, 12, 1, sales.AmountRange{})
	assert.Len(t, wrap.Total, 2)
}

func TestMonthlyVariations(t *testing.T) {
	rows := []entity.Sale{
		line("Sube", entity.DocSale, day(2025, 1, 2), "100", "0"),
		line("Sube", entity.DocSale, day(2025, 2, 2), "150", "0"),
		line("Baja", entity.DocSale, day(2025, 1, 2), "100", "0"),
		line("Baja", entity.DocSale, day(2025, 2, 2), "50", "0"),
		line("Igual", entity.DocSale, day(2025, 1, 2), "100", "0"),
		line("Igual", entity.DocSale, day(2025, 2, 2), "100", "0"),
	}
	top := sales.MonthlyVariations(rows, sales.RankTop10, nil)
	assert.Equal(t, []string{"2025-01", "2025-02"}, top.Months)
	require.Len(t, top.Rows, 2)
	assert.Equal(t, "Sube", top.Rows[0].Client)
	assert.True(t, top.Rows[0].Variations[0].Equal(d("50")))

	bottom := sales.MonthlyVariations(rows, sales.RankBottom10, nil)
	assert.Equal(t, "Baja", bottom.Rows[0].Client)

	sel := sales.MonthlyVariations(rows, sales.RankSelected, []string{"Baja"})
	require.Len(t, sel.Rows, 1)
}

func TestImpactedClients(t *testing.T) {
	m := entity.EmptyMasters()
	m.Sellers = map[string]string{"V1": "A", "V2": "Vendedor 12"}
	m.Clients = map[string]entity.Client{
		"1": {Status: "Activo", Type: "Cliente", SellerCode: "V1"},
		"2": {Status: "Activo", Type: "Cliente proveedor", SellerCode: "V1"},
		"3": {Status: "Activo", Type: "Proveedor", SellerCode: "V1"},
		"4": {Status: "Anulado", Type: "Cliente", SellerCode: "V1"},
		"5": {Status: "Activo", Type: "Cliente", SellerCode: "V2"},
		"6": {Status: "Activo", Type: "Cliente", SellerCode: "V1"},
		"7": {Status: "Activo", Type: "Cliente", SellerCode: "V1"},
	}
	rows := []entity.Sale{
		line("X", entity.DocSale, day(2025, 1, 2), "1", "0"),
		line("Y", entity.DocSale, day(2025, 1, 3), "1", "0"),
		line("X", entity.DocSale, day(2025, 2, 2), "1", "0"),
	}
	out := sales.ImpactedClients(rows, m, entity.All())
	assert.Equal(t, 4, out.TotalActiveClients)
	require.Len(t, out.Months, 2)
	assert.True(t, out.AvgImpacted.Equal(d("1.5")))
	assert.True(t, out.AvgRatePct.Equal(d("37.5")))
}

func TestDaysWithoutSale(t *testing.T) {
	today := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	m := entity.EmptyMasters()
	m.Clients = map[string]entity.Client{
		"Reciente": {Status: "Activo"},
		"Semana":   {Status: "Activo"},
		"Viejo":    {Status: "Activo"},
		"Anulado":  {Status: "Anulado"},
	}
	rows := []entity.Sale{
		line("SinMaestro", entity.DocSale, today.AddDate(0, 0, -60), "1", "0"),
		line("Reciente", entity.DocSale, today.AddDate(0, 0, -3), "1", "0"),
		line("Semana", entity.DocSale, today.AddDate(0, 0, -10), "1", "0"),
		line("Semana", entity.DocSale, today.AddDate(0, 0, -40), "1", "0"),
		line("Viejo", entity.DocSale, today.AddDate(0, 0, -200), "1", "0"),
		line("Anulado", entity.DocSale, today.AddDate(0, 0, -100), "1", "0"),
	}
	out := sales.DaysWithoutSale(rows, m, today)
	require.Len(t, out.Clients, 2)
	assert.Equal(t, "Viejo", out.Clients[0].Client)
	assert.Equal(t, "180+", out.Clients[0].Bucket)
	assert.Equal(t, 10, out.Clients[1].Days)
	assert.Equal(t, "1–29", out.Clients[1].Bucket)

	require.Len(t, out.Buckets, 5)
	assert.Equal(t, sales.InactivityBuckets[0], out.Buckets[0].Bucket)
	assert.Equal(t, 1, out.Buckets[0].Clients)
	assert.Equal(t, 1, out.Buckets[4].Clients)
}
