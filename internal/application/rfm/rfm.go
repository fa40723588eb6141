// Package rfm puntúa clientes por Recencia, Frecuencia, Monto y Tendencia
// (RFM+), los segmenta y genera una recomendación comercial por cliente.
package rfm

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// clientAgg acumulado por cliente sobre ventas hasta el corte.
type clientAgg struct {
	clientID  string
	client    string
	seller    string
	last      time.Time
	frequency int
	monetary  decimal.Decimal
	byMonth   map[string]decimal.Decimal
}

// Compute calcula RFM+ para todos los clientes presentes en rows. El corte
// es el final del día de today: se consideran solo remisiones con fecha ≤ corte.
// seller es informativo (las filas ya vienen filtradas).
func Compute(rows []entity.Sale, seller string, today time.Time) dto.RFMResultDTO {
	day := dateOnly(today)
	cutoff := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	res := dto.RFMResultDTO{Seller: seller, CutOff: cutoff, Clients: []dto.RFMClientDTO{}, Segments: []dto.SegmentDTO{}}

	aggs := aggregate(rows, cutoff)
	if len(aggs) == 0 {
		return res
	}

	recency := make([]float64, len(aggs))
	frequency := make([]float64, len(aggs))
	monetary := make([]float64, len(aggs))
	for i, a := range aggs {
		recency[i] = float64(daysBetween(dateOnly(a.last), day))
		frequency[i] = float64(a.frequency)
		monetary[i], _ = a.monetary.Float64()
	}
	rBins := quintiles(recency)
	fBins := quintiles(frequency)
	mBins := quintiles(monetary)

	for i, a := range aggs {
		trend := computeTrend(seriesOf(a.byMonth), today)
		r := 6 - rBins[i]
		f := fBins[i]
		m := mBins[i]
		t := trendScore(trend)
		res.Clients = append(res.Clients, dto.RFMClientDTO{
			ClientID:     a.clientID,
			Client:       a.client,
			Seller:       a.seller,
			LastPurchase: a.last,
			RecencyDays:  int(recency[i]),
			Frequency:    a.frequency,
			Monetary:     a.monetary.Round(2),
			AvgTicket:    a.monetary.Div(decimal.NewFromInt(int64(a.frequency))).Round(2),
			R:            r,
			F:            f,
			M:            m,
			T:            t,
			Score:        fmt.Sprintf("%d%d%d%d", r, f, m, t),
			Numeric:      numericScore(r, f, m, t),
			Category:     Categorize(r, f, m, trend),
			Trend:        trendDTO(trend),
		})
	}
	sort.SliceStable(res.Clients, func(i, j int) bool {
		a, b := res.Clients[i], res.Clients[j]
		if a.Numeric != b.Numeric {
			return a.Numeric > b.Numeric
		}
		if !a.Monetary.Equal(b.Monetary) {
			return a.Monetary.GreaterThan(b.Monetary)
		}
		return a.Client < b.Client
	})
	res.Segments = segments(res.Clients)
	return res
}

// ClientDetail recalcula la población y devuelve el cliente pedido (por
// etiqueta completa o id) con su recomendación y serie mensual.
func ClientDetail(rows []entity.Sale, client string, today time.Time) (dto.RFMClientDetailDTO, bool) {
	res := Compute(rows, "", today)
	for _, c := range res.Clients {
		if c.Client != client && c.ClientID != client {
			continue
		}
		detail := dto.RFMClientDetailDTO{
			RFMClientDTO:   c,
			Recommendation: Recommendation(c.Category, c.RecencyDays, c.Trend.CAGR),
			Monthly:        monthly(rows, c.Client, res.CutOff),
		}
		return detail, true
	}
	return dto.RFMClientDetailDTO{Monthly: []dto.MonthValueDTO{}}, false
}

func aggregate(rows []entity.Sale, cutoff time.Time) []*clientAgg {
	index := make(map[string]*clientAgg)
	order := make([]string, 0)
	for _, s := range rows {
		if !s.IsSale() || !s.HasDate() || s.Date.After(cutoff) || strings.TrimSpace(s.FullClient) == "" {
			continue
		}
		a, ok := index[s.FullClient]
		if !ok {
			a = &clientAgg{client: s.FullClient, byMonth: make(map[string]decimal.Decimal)}
			index[s.FullClient] = a
			order = append(order, s.FullClient)
		}
		if !s.Date.Before(a.last) {
			a.last = s.Date
			a.clientID = s.ClientID
			a.seller = s.Seller.Label()
		}
		a.frequency++
		a.monetary = a.monetary.Add(s.Net)
		a.byMonth[s.YearMonth] = a.byMonth[s.YearMonth].Add(s.Net)
	}
	sort.Strings(order)
	out := make([]*clientAgg, len(order))
	for i, k := range order {
		out[i] = index[k]
	}
	return out
}

func monthly(rows []entity.Sale, client string, cutoff time.Time) []dto.MonthValueDTO {
	byMonth := make(map[string]decimal.Decimal)
	for _, s := range rows {
		if s.IsSale() && s.HasDate() && !s.Date.After(cutoff) && s.FullClient == client {
			byMonth[s.YearMonth] = byMonth[s.YearMonth].Add(s.Net)
		}
	}
	out := make([]dto.MonthValueDTO, 0, len(byMonth))
	for ym, v := range byMonth {
		out = append(out, dto.MonthValueDTO{YearMonth: ym, NetSales: v.Round(2)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].YearMonth < out[j].YearMonth })
	return out
}

func segments(clients []dto.RFMClientDTO) []dto.SegmentDTO {
	count := make(map[string]int)
	money := make(map[string]decimal.Decimal)
	for _, c := range clients {
		count[c.Category]++
		money[c.Category] = money[c.Category].Add(c.Monetary)
	}
	total := decimal.NewFromInt(int64(len(clients)))
	out := make([]dto.SegmentDTO, 0, len(count))
	for _, cat := range Categories {
		n, ok := count[cat]
		if !ok {
			continue
		}
		out = append(out, dto.SegmentDTO{
			Category: cat,
			Clients:  n,
			Monetary: money[cat].Round(2),
			SharePct: decimal.NewFromInt(int64(n)).Mul(hundred).Div(total).Round(2),
		})
	}
	return out
}

func trendDTO(t Trend) dto.TrendDTO {
	return dto.TrendDTO{
		CAGR:        round2(t.CAGR),
		Var3M:       round2(t.Var3M),
		VarRecent:   round2(t.VarRecent),
		Consistency: round2(t.Consistency),
		Label:       t.Label,
		Months:      t.Months,
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween días calendario de a hasta b (ambas a medianoche).
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
