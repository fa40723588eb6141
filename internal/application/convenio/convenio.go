// Package convenio concilia los convenios confirmados contra lo facturado:
// descuento efectivo frente al tope pactado, avance contra la meta y ritmo
// esperado según los días transcurridos del año.
package convenio

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

func pct(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Mul(hundred).Round(2)
}

// DaysInYear 365 o 366.
func DaysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

type totals struct {
	gross, discount decimal.Decimal
}

// Analyze concilia cada convenio con las remisiones agregadas por NIT.
// rows ya viene filtrado por período; seller filtra por el vendedor del convenio.
func Analyze(convenios []entity.Convenio, rows []entity.Sale, seller entity.Selection, now time.Time) dto.ConvenioAnalysisDTO {
	byTaxID := map[string]*totals{}
	for _, r := range rows {
		if !r.IsSale() || r.TaxID == "" {
			continue
		}
		t, ok := byTaxID[r.TaxID]
		if !ok {
			t = &totals{}
			byTaxID[r.TaxID] = t
		}
		t.gross = t.gross.Add(r.Gross)
		t.discount = t.discount.Add(r.Discount)
	}

	daysInYear := DaysInYear(now.Year())
	daysElapsed := now.YearDay()
	yearShare := decimal.NewFromInt(int64(daysElapsed)).Div(decimal.NewFromInt(int64(daysInYear)))

	out := dto.ConvenioAnalysisDTO{Agreements: []dto.ConvenioDTO{}}
	sumTarget, sumNet := decimal.Zero, decimal.Zero
	for _, c := range convenios {
		if !seller.Matches(c.SellerName) {
			continue
		}
		t := byTaxID[c.TaxID]
		if t == nil {
			t = &totals{}
		}
		net := t.gross.Sub(t.discount)
		effective := pct(t.discount, t.gross)
		row := dto.ConvenioDTO{
			TaxID:                c.TaxID,
			Client:               entity.FullClientLabel(c.ClientName, c.TradeName),
			Seller:               c.SellerName,
			RebatePct:            c.RebatePct.Round(2),
			TargetValue:          c.TargetValue.Round(2),
			Gross:                t.gross.Round(2),
			Discount:             t.discount.Round(2),
			NetValue:             net.Round(2),
			EffectiveDiscountPct: effective,
			DiscountCompliant:    effective.LessThanOrEqual(c.RebatePct),
			TargetCompliant:      net.GreaterThanOrEqual(c.TargetValue),
			TargetProgressPct:    pct(net, c.TargetValue),
			ExpectedSales:        c.TargetValue.Mul(yearShare).Round(2),
			ExpectedProgressPct:  yearShare.Mul(hundred).Round(2),
			DaysElapsed:          daysElapsed,
			DaysInYear:           daysInYear,
			Observations:         c.Observations,
		}
		out.Agreements = append(out.Agreements, row)

		out.Summary.Agreements++
		if row.DiscountCompliant {
			out.Summary.DiscountCompliant++
		}
		if row.TargetCompliant {
			out.Summary.TargetCompliant++
		}
		sumTarget = sumTarget.Add(c.TargetValue)
		sumNet = sumNet.Add(net)
	}
	sort.Slice(out.Agreements, func(i, j int) bool {
		if c := out.Agreements[i].TargetProgressPct.Cmp(out.Agreements[j].TargetProgressPct); c != 0 {
			return c > 0
		}
		return out.Agreements[i].TaxID < out.Agreements[j].TaxID
	})
	out.Summary.TotalTarget = sumTarget.Round(2)
	out.Summary.TotalNet = sumNet.Round(2)
	out.Summary.ProgressPct = pct(sumNet, sumTarget)
	return out
}
