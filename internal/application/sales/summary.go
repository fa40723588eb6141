// Package sales agrega líneas de venta ya filtradas por vendedor/transferencista
// y mes. Las remisiones suman, las devoluciones restan en el eje neto y las
// notas crédito nunca entran en ventas.
package sales

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// pct num/den*100 redondeado a 2 decimales; 0 si den es 0.
func pct(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Mul(hundred).Round(2)
}

// OnlySales filtra las remisiones.
func OnlySales(rows []entity.Sale) []entity.Sale {
	out := make([]entity.Sale, 0, len(rows))
	for _, r := range rows {
		if r.IsSale() {
			out = append(out, r)
		}
	}
	return out
}

// Summary KPIs del conjunto de líneas.
func Summary(rows []entity.Sale) dto.SalesSummaryDTO {
	var (
		sales, returns, credit, discount, gross decimal.Decimal
		invoices, returnCount                   int
	)
	clients := map[string]struct{}{}
	for _, r := range rows {
		switch r.Kind {
		case entity.DocSale:
			sales = sales.Add(r.Net)
			discount = discount.Add(r.Discount)
			gross = gross.Add(r.Gross)
			invoices++
			clients[r.FullClient] = struct{}{}
		case entity.DocReturn:
			returns = returns.Add(r.Net)
			returnCount++
		case entity.DocCreditNote:
			credit = credit.Add(r.Net)
		}
	}

	totalSales := sales.Round(2)
	totalReturns := returns.Abs().Round(2)
	totalDiscount := discount.Abs().Round(2)
	out := dto.SalesSummaryDTO{
		TotalSales:       totalSales,
		TotalReturns:     totalReturns,
		TotalCreditNotes: credit.Abs().Round(2),
		NetSales:         totalSales.Sub(totalReturns),
		InvoiceCount:     invoices,
		UniqueClients:    len(clients),
		ReturnCount:      returnCount,
		AvgTicket:        decimal.Zero,
		TotalDiscount:    totalDiscount,
		DiscountPct:      pct(discount.Abs(), gross),
	}
	if invoices > 0 {
		out.AvgTicket = sales.Div(decimal.NewFromInt(int64(invoices))).Round(2)
	}
	return out
}

// ── Series ────────────────────────────────────────────────────────────────────

// ByMonth serie mensual ascendente: neto = remisiones - |devoluciones| del mes.
func ByMonth(rows []entity.Sale) []dto.MonthlySalesDTO {
	type acc struct {
		sales, returns decimal.Decimal
		invoices       int
	}
	byMonth := map[string]*acc{}
	for _, r := range rows {
		if r.YearMonth == "" || !(r.IsSale() || r.IsReturn()) {
			continue
		}
		a, ok := byMonth[r.YearMonth]
		if !ok {
			a = &acc{}
			byMonth[r.YearMonth] = a
		}
		if r.IsSale() {
			a.sales = a.sales.Add(r.Net)
			a.invoices++
		} else {
			a.returns = a.returns.Add(r.Net.Abs())
		}
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]dto.MonthlySalesDTO, 0, len(months))
	for _, m := range months {
		a := byMonth[m]
		out = append(out, dto.MonthlySalesDTO{
			YearMonth:    m,
			Sales:        a.sales.Round(2),
			Returns:      a.returns.Round(2),
			NetSales:     a.sales.Sub(a.returns).Round(2),
			InvoiceCount: a.invoices,
		})
	}
	return out
}

// Weekdays etiquetas en orden fijo, lunes primero.
var Weekdays = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

// ByWeekday ventas por día de la semana; siempre siete filas.
func ByWeekday(rows []entity.Sale) []dto.WeekdaySalesDTO {
	out := make([]dto.WeekdaySalesDTO, len(Weekdays))
	for i, label := range Weekdays {
		out[i] = dto.WeekdaySalesDTO{Weekday: label, Order: i, NetSales: decimal.Zero}
	}
	for _, r := range rows {
		if !r.IsSale() || !r.HasDate() {
			continue
		}
		i := (int(r.Date.Weekday()) + 6) % 7
		out[i].NetSales = out[i].NetSales.Add(r.Net)
		out[i].InvoiceCount++
	}
	for i := range out {
		out[i].NetSales = out[i].NetSales.Round(2)
	}
	return out
}

// ByZone agrupa remisiones por zona del cliente.
func ByZone(rows []entity.Sale) []dto.GroupSalesDTO {
	return groupBy(rows, func(r entity.Sale) string { return labelOr(r.Zone, "Sin zona") })
}

// ByPaymentMethod distribución de remisiones por forma de pago.
func ByPaymentMethod(rows []entity.Sale) []dto.GroupSalesDTO {
	return groupBy(rows, func(r entity.Sale) string { return labelOr(r.PaymentMethod, entity.NotResolved) })
}

func groupBy(rows []entity.Sale, key func(entity.Sale) string) []dto.GroupSalesDTO {
	type acc struct {
		net      decimal.Decimal
		invoices int
		clients  map[string]struct{}
	}
	groups := map[string]*acc{}
	total := decimal.Zero
	for _, r := range rows {
		if !r.IsSale() {
			continue
		}
		k := key(r)
		a, ok := groups[k]
		if !ok {
			a = &acc{clients: map[string]struct{}{}}
			groups[k] = a
		}
		a.net = a.net.Add(r.Net)
		a.invoices++
		a.clients[r.FullClient] = struct{}{}
		total = total.Add(r.Net)
	}
	out := make([]dto.GroupSalesDTO, 0, len(groups))
	for k, a := range groups {
		out = append(out, dto.GroupSalesDTO{
			Key:           k,
			NetSales:      a.net.Round(2),
			InvoiceCount:  a.invoices,
			UniqueClients: len(a.clients),
			SharePct:      pct(a.net, total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].NetSales.Cmp(out[j].NetSales); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// TopClients los n clientes con mayor neto en remisiones.
func TopClients(rows []entity.Sale, n int) []dto.ClientSalesDTO {
	type acc struct {
		id       string
		net      decimal.Decimal
		invoices int
	}
	byClient := map[string]*acc{}
	for _, r := range rows {
		if !r.IsSale() {
			continue
		}
		a, ok := byClient[r.FullClient]
		if !ok {
			a = &acc{id: r.ClientID}
			byClient[r.FullClient] = a
		}
		a.net = a.net.Add(r.Net)
		a.invoices++
	}
	out := make([]dto.ClientSalesDTO, 0, len(byClient))
	for name, a := range byClient {
		out = append(out, dto.ClientSalesDTO{ClientID: a.id, Client: name, NetSales: a.net.Round(2), InvoiceCount: a.invoices})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].NetSales.Cmp(out[j].NetSales); c != 0 {
			return c > 0
		}
		return out[i].Client < out[j].Client
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Granularity de la evolución de un cliente.
type Granularity string

const (
	Daily   Granularity = "day"
	Monthly Granularity = "month"
)

// ParseGranularity acepta day/dia/diario y month/mes/mensual; por defecto mensual.
func ParseGranularity(s string) Granularity {
	switch s {
	case "day", "dia", "día", "diario", "D":
		return Daily
	default:
		return Monthly
	}
}

// ClientEvolution serie del cliente (full_client) por día o por mes; las
// devoluciones restan.
func ClientEvolution(rows []entity.Sale, client string, g Granularity) []dto.PeriodValueDTO {
	type acc struct {
		net      decimal.Decimal
		invoices int
	}
	byPeriod := map[string]*acc{}
	for _, r := range rows {
		if r.FullClient != client || !r.HasDate() || !(r.IsSale() || r.IsReturn()) {
			continue
		}
		p := r.YearMonth
		if g == Daily {
			p = r.Date.Format("2006-01-02")
		}
		a, ok := byPeriod[p]
		if !ok {
			a = &acc{}
			byPeriod[p] = a
		}
		if r.IsSale() {
			a.net = a.net.Add(r.Net)
			a.invoices++
		} else {
			a.net = a.net.Sub(r.Net.Abs())
		}
	}
	periods := make([]string, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	out := make([]dto.PeriodValueDTO, 0, len(periods))
	for _, p := range periods {
		out = append(out, dto.PeriodValueDTO{Period: p, NetSales: byPeriod[p].net.Round(2), InvoiceCount: byPeriod[p].invoices})
	}
	return out
}

func labelOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
