package sales

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

// ByDateRange agrega remisiones en [start, end] ampliado a meses completos en
// ambos extremos. Devuelve totales por cliente y cliente × mes.
func ByDateRange(rows []entity.Sale, start, end time.Time) dto.RangeSalesDTO {
	if end.Before(start) {
		start, end = end, start
	}
	loc := start.Location()
	from := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc)
	e := end.In(loc)
	to := time.Date(e.Year(), e.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)

	selected := make([]entity.Sale, 0, len(rows))
	for _, r := range rows {
		if r.IsSale() && r.HasDate() && !r.Date.Before(from) && r.Date.Before(to) {
			selected = append(selected, r)
		}
	}
	out := aggregateRange(selected)
	out.Start = from
	out.End = to.Add(-time.Nanosecond)
	return out
}

// AmountRange filtro opcional del total neto por cliente.
type AmountRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

func (a AmountRange) contains(v decimal.Decimal) bool {
	if a.Min != nil && v.LessThan(*a.Min) {
		return false
	}
	if a.Max != nil && v.GreaterThan(*a.Max) {
		return false
	}
	return true
}

// ByMonthRange agrega remisiones cuyo mes calendario (1..12) está en
// [mStart, mEnd]; si mStart > mEnd el rango cruza el fin de año. Con amounts
// se conservan solo los clientes cuyo total cae en el rango.
func ByMonthRange(rows []entity.Sale, mStart, mEnd int, amounts AmountRange) dto.RangeSalesDTO {
	in := func(m int) bool {
		if mStart <= mEnd {
			return m >= mStart && m <= mEnd
		}
		return m >= mStart || m <= mEnd
	}
	selected := make([]entity.Sale, 0, len(rows))
	for _, r := range rows {
		if r.IsSale() && r.HasDate() && in(int(r.Date.Month())) {
			selected = append(selected, r)
		}
	}
	out := aggregateRange(selected)
	if amounts.Min == nil && amounts.Max == nil {
		return out
	}
	keep := map[string]struct{}{}
	total := make([]dto.ClientTotalDTO, 0, len(out.Total))
	for _, t := range out.Total {
		if amounts.contains(t.NetSales) {
			keep[t.Client] = struct{}{}
			total = append(total, t)
		}
	}
	monthly := make([]dto.ClientMonthDTO, 0, len(out.Monthly))
	for _, m := range out.Monthly {
		if _, ok := keep[m.Client]; ok {
			monthly = append(monthly, m)
		}
	}
	out.Total, out.Monthly = total, monthly
	return out
}

func aggregateRange(rows []entity.Sale) dto.RangeSalesDTO {
	totals := map[string]decimal.Decimal{}
	monthly := map[[2]string]decimal.Decimal{}
	for _, r := range rows {
		totals[r.FullClient] = totals[r.FullClient].Add(r.Net)
		k := [2]string{r.FullClient, r.YearMonth}
		monthly[k] = monthly[k].Add(r.Net)
	}
	out := dto.RangeSalesDTO{
		Total:   make([]dto.ClientTotalDTO, 0, len(totals)),
		Monthly: make([]dto.ClientMonthDTO, 0, len(monthly)),
	}
	for c, v := range totals {
		out.Total = append(out.Total, dto.ClientTotalDTO{Client: c, NetSales: v.Round(2)})
	}
	sort.Slice(out.Total, func(i, j int) bool {
		if c := out.Total[i].NetSales.Cmp(out.Total[j].NetSales); c != 0 {
			return c > 0
		}
		return out.Total[i].Client < out.Total[j].Client
	})
	for k, v := range monthly {
		out.Monthly = append(out.Monthly, dto.ClientMonthDTO{Client: k[0], YearMonth: k[1], NetSales: v.Round(2)})
	}
	sort.Slice(out.Monthly, func(i, j int) bool {
		if out.Monthly[i].Client != out.Monthly[j].Client {
			return out.Monthly[i].Client < out.Monthly[j].Client
		}
		return out.Monthly[i].YearMonth < out.Monthly[j].YearMonth
	})
	return out
}

// ── Variaciones mensuales ─────────────────────────────────────────────────────

// Modos de selección del mapa de calor.
const (
	RankTop10    = "top10"
	RankBottom10 = "bottom10"
	RankSelected = "selected"
)

var minVariation = decimal.NewFromFloat(0.1)

// MonthlyVariations pivota remisiones cliente × mes y calcula la variación %
// entre meses consecutivos (0 si el mes previo es 0). Se conservan las filas
// con algún |Δ| > 0.1 %. El modo top10/bottom10 ordena por suma de variaciones;
// selected conserva solo los clientes indicados.
func MonthlyVariations(rows []entity.Sale, mode string, clients []string) dto.MonthlyVariationsDTO {
	pivot := map[string]map[string]decimal.Decimal{}
	monthSet := map[string]struct{}{}
	for _, r := range rows {
		if !r.IsSale() || r.YearMonth == "" {
			continue
		}
		row, ok := pivot[r.FullClient]
		if !ok {
			row = map[string]decimal.Decimal{}
			pivot[r.FullClient] = row
		}
		row[r.YearMonth] = row[r.YearMonth].Add(r.Net)
		monthSet[r.YearMonth] = struct{}{}
	}
	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)

	out := dto.MonthlyVariationsDTO{Months: months, Rows: []dto.VariationRowDTO{}}
	if len(months) < 2 {
		return out
	}

	wanted := map[string]struct{}{}
	for _, c := range clients {
		wanted[c] = struct{}{}
	}

	for client, byMonth := range pivot {
		if mode == RankSelected {
			if _, ok := wanted[client]; !ok {
				continue
			}
		}
		row := dto.VariationRowDTO{
			Client:     client,
			Sales:      make([]decimal.Decimal, len(months)),
			Variations: make([]decimal.Decimal, len(months)-1),
			Total:      decimal.Zero,
		}
		significant := false
		for i, m := range months {
			row.Sales[i] = byMonth[m].Round(2)
			if i == 0 {
				continue
			}
			prev := byMonth[months[i-1]]
			v := decimal.Zero
			if !prev.IsZero() {
				v = byMonth[m].Sub(prev).Div(prev.Abs()).Mul(hundred).Round(2)
			}
			row.Variations[i-1] = v
			row.Total = row.Total.Add(v)
			if v.Abs().GreaterThan(minVariation) {
				significant = true
			}
		}
		if significant {
			out.Rows = append(out.Rows, row)
		}
	}

	sort.Slice(out.Rows, func(i, j int) bool {
		c := out.Rows[i].Total.Cmp(out.Rows[j].Total)
		if c == 0 {
			return out.Rows[i].Client < out.Rows[j].Client
		}
		if mode == RankBottom10 {
			return c < 0
		}
		return c > 0
	})
	if mode != RankSelected && len(out.Rows) > 10 {
		out.Rows = out.Rows[:10]
	}
	return out
}

// ── Cobertura de clientes ─────────────────────────────────────────────────────

// ImpactedClients clientes únicos con remisión por mes y tasa promedio
// (promedio mensual / clientes activos * 100). Son activos los clientes del
// maestro en estado Activo, de tipo Cliente o Cliente proveedor y con vendedor
// resuelto que pase el filtro.
func ImpactedClients(rows []entity.Sale, m *entity.Masters, seller entity.Selection) dto.ImpactedClientsDTO {
	byMonth := map[string]map[string]struct{}{}
	for _, r := range rows {
		if !r.IsSale() || r.YearMonth == "" {
			continue
		}
		set, ok := byMonth[r.YearMonth]
		if !ok {
			set = map[string]struct{}{}
			byMonth[r.YearMonth] = set
		}
		set[r.FullClient] = struct{}{}
	}
	months := make([]string, 0, len(byMonth))
	for k := range byMonth {
		months = append(months, k)
	}
	sort.Strings(months)

	out := dto.ImpactedClientsDTO{Months: make([]dto.MonthClientsDTO, 0, len(months)), AvgImpacted: decimal.Zero, AvgRatePct: decimal.Zero}
	sum := 0
	for _, k := range months {
		n := len(byMonth[k])
		sum += n
		out.Months = append(out.Months, dto.MonthClientsDTO{YearMonth: k, Clients: n})
	}

	if m != nil {
		for id, c := range m.Clients {
			if !c.IsActive() || !c.IsCustomerType() {
				continue
			}
			ref := m.SellerOfClient(id)
			if !ref.IsResolved() || !seller.Matches(ref.Name) {
				continue
			}
			out.TotalActiveClients++
		}
	}
	if len(months) > 0 {
		avg := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(months))))
		out.AvgImpacted = avg.Round(2)
		out.AvgRatePct = pct(avg, decimal.NewFromInt(int64(out.TotalActiveClients)))
	}
	return out
}

// Rangos de días sin venta, en orden fijo.
var InactivityBuckets = []string{"1–29", "30–59", "60–89", "90–179", "180+"}

// MinDaysWithoutSale por debajo de este umbral el cliente compró hace poco y no
// requiere seguimiento.
const MinDaysWithoutSale = 7

func inactivityBucket(days int) string {
	switch {
	case days < 30:
		return InactivityBuckets[0]
	case days < 60:
		return InactivityBuckets[1]
	case days < 90:
		return InactivityBuckets[2]
	case days < 180:
		return InactivityBuckets[3]
	default:
		return InactivityBuckets[4]
	}
}

// DaysWithoutSale última remisión por cliente del maestro no anulado y días
// transcurridos hasta today. Clientes con menos de 7 días se excluyen.
func DaysWithoutSale(rows []entity.Sale, m *entity.Masters, today time.Time) dto.DaysWithoutSaleDTO {
	lastByClient := map[string]entity.Sale{}
	for _, r := range rows {
		if !r.IsSale() || !r.HasDate() || r.ClientID == "" {
			continue
		}
		if cur, ok := lastByClient[r.ClientID]; !ok || r.Date.After(cur.Date) {
			lastByClient[r.ClientID] = r
		}
	}

	counts := make(map[string]int, len(InactivityBuckets))
	out := dto.DaysWithoutSaleDTO{Clients: []dto.InactiveClientDTO{}}
	loc := today.Location()
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	for id, last := range lastByClient {
		if m != nil {
			if c, ok := m.Client(id); !ok || c.IsCancelled() {
				continue
			}
		}
		d := last.Date.In(loc)
		saleDate := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
		days := int(math.Round(todayDate.Sub(saleDate).Hours() / 24))
		if days < MinDaysWithoutSale {
			continue
		}
		b := inactivityBucket(days)
		counts[b]++
		out.Clients = append(out.Clients, dto.InactiveClientDTO{
			ClientID: id,
			Client:   last.FullClient,
			Seller:   last.Seller.Label(),
			LastSale: last.Date,
			Days:     days,
			Bucket:   b,
		})
	}
	sort.Slice(out.Clients, func(i, j int) bool {
		if out.Clients[i].Days != out.Clients[j].Days {
			return out.Clients[i].Days > out.Clients[j].Days
		}
		return out.Clients[i].Client < out.Clients[j].Client
	})
	out.Buckets = make([]dto.BucketCountDTO, len(InactivityBuckets))
	for i, b := range InactivityBuckets {
		out.Buckets[i] = dto.BucketCountDTO{Bucket: b, Clients: counts[b]}
	}
	return out
}
