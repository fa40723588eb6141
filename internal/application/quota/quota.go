// Package quota calcula el cumplimiento de cuotas mensuales por vendedor con
// ritmo esperado en días hábiles y semántica de mes cerrado.
package quota

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Estados de cumplimiento.
const (
	StateMet      = "Cumplido"
	StateNotMet   = "No Cumplió"
	StateMeeting  = "Cumpliendo"
	StateAhead    = "Adelantado"
	StateProgress = "En Progreso"
	StateBehind   = "Atrasado"
)

// progressBand margen bajo el ritmo esperado que aún cuenta como "En Progreso".
var progressBand = decimal.NewFromInt(10)

// Input datos de un vendedor en un mes con los días hábiles ya contados.
type Input struct {
	Seller      string
	Month       string // YYYY-MM
	Quota       decimal.Decimal
	Real        decimal.Decimal
	TotalDays   int
	ElapsedDays int
	Closed      bool
}

// Evaluate aplica las fórmulas de cumplimiento y el estado.
func Evaluate(in Input) dto.QuotaAttainmentDTO {
	expectedPct := hundred
	if in.TotalDays > 0 {
		expectedPct = decimal.NewFromInt(int64(in.ElapsedDays)).Div(decimal.NewFromInt(int64(in.TotalDays))).Mul(hundred)
	}
	attainment := decimal.Zero
	if !in.Quota.IsZero() {
		attainment = in.Real.Div(in.Quota).Mul(hundred)
	}
	return dto.QuotaAttainmentDTO{
		Seller:              in.Seller,
		Month:               in.Month,
		Quota:               in.Quota.Round(2),
		Real:                in.Real.Round(2),
		ExpectedAmount:      in.Quota.Mul(expectedPct).Div(hundred).Round(2),
		DifferenceVsQuota:   in.Real.Sub(in.Quota).Round(2),
		AttainmentPct:       attainment.Round(2),
		ExpectedProgressPct: expectedPct.Round(2),
		TotalBusinessDays:   in.TotalDays,
		ElapsedBusinessDays: in.ElapsedDays,
		Closed:              in.Closed,
		State:               State(attainment, expectedPct, in.Closed),
	}
}

// State etiqueta del cumplimiento. En mes cerrado solo importa llegar al 100 %.
func State(attainment, expected decimal.Decimal, closed bool) string {
	if closed {
		if attainment.GreaterThanOrEqual(hundred) {
			return StateMet
		}
		return StateNotMet
	}
	switch {
	case attainment.GreaterThanOrEqual(hundred):
		return StateMeeting
	case attainment.GreaterThanOrEqual(expected):
		return StateAhead
	case attainment.GreaterThan(expected.Sub(progressBand)):
		return StateProgress
	default:
		return StateBehind
	}
}

// Engine cuenta días hábiles con el calendario inyectado.
type Engine struct {
	cal BusinessCalendar
}

// NewEngine construye el motor de cuotas.
func NewEngine(cal BusinessCalendar) *Engine {
	if cal == nil {
		cal = MondaySaturdayCalendar{}
	}
	return &Engine{cal: cal}
}

// Calendar calendario en uso.
func (e *Engine) Calendar() BusinessCalendar { return e.cal }

// Days días hábiles totales y transcurridos del mes respecto a now.
// Mes cerrado: transcurridos = totales. Mes en curso: se excluye el día en
// curso. Mes futuro: 0.
func (e *Engine) Days(period, now time.Time) (total, elapsed int, closed bool) {
	year, month := period.Year(), period.Month()
	total = CountMonth(e.cal, year, month).Business

	cur := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	p := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	switch {
	case p.Before(cur):
		return total, total, true
	case p.After(cur):
		return total, 0, false
	default:
		elapsed = BusinessDaysThrough(e.cal, year, month, now.Day()) - 1
		if elapsed < 0 {
			elapsed = 0
		}
		return total, elapsed, false
	}
}

// RealSales ventas reales del mes: remisiones menos devoluciones.
func RealSales(rows []entity.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		switch {
		case r.IsSale():
			total = total.Add(r.Net)
		case r.IsReturn():
			total = total.Sub(r.Net.Abs())
		}
	}
	return total
}

// Attainment cumplimiento de un vendedor. month es el primer día del mes.
func (e *Engine) Attainment(seller string, month time.Time, quotas []entity.Quota, rows []entity.Sale, now time.Time) dto.QuotaAttainmentDTO {
	total, elapsed, closed := e.Days(month, now)
	return Evaluate(Input{
		Seller:      seller,
		Month:       month.Format("2006-01"),
		Quota:       QuotaFor(quotas, seller, month),
		Real:        RealSales(filterSeller(rows, seller)),
		TotalDays:   total,
		ElapsedDays: elapsed,
		Closed:      closed,
	})
}

// Board vista multivendedor del mes: una fila por vendedor con cuota o
// ventas, excluyendo a quienes no vendieron, más el total del equipo.
func (e *Engine) Board(month time.Time, quotas []entity.Quota, rows []entity.Sale, now time.Time) dto.QuotaBoardDTO {
	total, elapsed, closed := e.Days(month, now)
	ym := month.Format("2006-01")
	key := month.Format("200601")

	quotaBySeller := map[string]decimal.Decimal{}
	for _, q := range quotas {
		if q.Month == key {
			quotaBySeller[q.Seller] = quotaBySeller[q.Seller].Add(q.Amount)
		}
	}
	realBySeller := map[string][]entity.Sale{}
	for _, r := range rows {
		if r.YearMonth == ym && r.Seller.IsResolved() {
			realBySeller[r.Seller.Name] = append(realBySeller[r.Seller.Name], r)
		}
	}

	sellers := map[string]struct{}{}
	for s := range quotaBySeller {
		sellers[s] = struct{}{}
	}
	for s := range realBySeller {
		sellers[s] = struct{}{}
	}

	out := dto.QuotaBoardDTO{Month: ym, Sellers: []dto.QuotaAttainmentDTO{}}
	teamQuota, teamReal := decimal.Zero, decimal.Zero
	for s := range sellers {
		sold := RealSales(realBySeller[s])
		if sold.IsZero() {
			continue
		}
		q := quotaBySeller[s]
		teamQuota = teamQuota.Add(q)
		teamReal = teamReal.Add(sold)
		out.Sellers = append(out.Sellers, Evaluate(Input{
			Seller: s, Month: ym, Quota: q, Real: sold,
			TotalDays: total, ElapsedDays: elapsed, Closed: closed,
		}))
	}
	sort.Slice(out.Sellers, func(i, j int) bool {
		if c := out.Sellers[i].AttainmentPct.Cmp(out.Sellers[j].AttainmentPct); c != 0 {
			return c > 0
		}
		return out.Sellers[i].Seller < out.Sellers[j].Seller
	})
	if len(out.Sellers) > 0 {
		team := Evaluate(Input{
			Seller: "Equipo", Month: ym, Quota: teamQuota, Real: teamReal,
			TotalDays: total, ElapsedDays: elapsed, Closed: closed,
		})
		out.Team = &team
	}
	return out
}

// QuotaFor suma las cuotas del vendedor en el mes.
func QuotaFor(quotas []entity.Quota, seller string, month time.Time) decimal.Decimal {
	key := month.Format("200601")
	total := decimal.Zero
	for _, q := range quotas {
		if q.Month == key && q.Seller == seller {
			total = total.Add(q.Amount)
		}
	}
	return total
}

func filterSeller(rows []entity.Sale, seller string) []entity.Sale {
	out := make([]entity.Sale, 0, len(rows))
	for _, r := range rows {
		if r.Seller.Name == seller {
			out = append(out, r)
		}
	}
	return out
}
