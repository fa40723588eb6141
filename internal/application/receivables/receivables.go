// Package receivables analiza la cartera: edades de mora, resumen de calidad,
// vencimientos próximos, detalle por cliente y la estructura del treemap.
package receivables

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

func pct(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Mul(hundred).Round(2)
}

// Rangos de edad de cartera en orden fijo.
const (
	BucketNotDue  = "Por Vencer"
	Bucket0to30   = "0–30"
	Bucket31to60  = "31–60"
	Bucket61to90  = "61–90"
	Bucket91to180 = "91–180"
	BucketOver180 = ">180"
	BucketUndated = "Sin Fecha"
)

// AgingOrder orden de presentación de los rangos.
var AgingOrder = []string{BucketNotDue, Bucket0to30, Bucket31to60, Bucket61to90, Bucket91to180, BucketOver180, BucketUndated}

// BucketOf rango de un documento según sus días de mora.
func BucketOf(r entity.Receivable) string {
	switch {
	case !r.Dated:
		return BucketUndated
	case r.DaysOverdue < 0:
		return BucketNotDue
	case r.DaysOverdue <= 30:
		return Bucket0to30
	case r.DaysOverdue <= 60:
		return Bucket31to60
	case r.DaysOverdue <= 90:
		return Bucket61to90
	case r.DaysOverdue <= 180:
		return Bucket91to180
	default:
		return BucketOver180
	}
}

// Aging suma saldos por rango. Los rangos particionan la cartera: la suma de
// los montos es igual a la suma de saldos.
func Aging(recs []entity.Receivable) []dto.AgingBucketDTO {
	idx := make(map[string]int, len(AgingOrder))
	out := make([]dto.AgingBucketDTO, len(AgingOrder))
	for i, b := range AgingOrder {
		idx[b] = i
		out[i] = dto.AgingBucketDTO{Bucket: b, Amount: decimal.Zero}
	}
	for _, r := range recs {
		i := idx[BucketOf(r)]
		out[i].Amount = out[i].Amount.Add(r.Balance)
		out[i].Documents++
	}
	for i := range out {
		out[i].Amount = out[i].Amount.Round(2)
	}
	return out
}

// Summary totales y calidad de cartera.
func Summary(recs []entity.Receivable) dto.ARSummaryDTO {
	var portfolio, overdue, current decimal.Decimal
	clients := map[string]struct{}{}
	withOverdue := map[string]struct{}{}
	invoices := 0
	for _, r := range recs {
		portfolio = portfolio.Add(r.Balance)
		overdue = overdue.Add(r.OverdueAmount)
		current = current.Add(r.NonOverdueAmount)
		clients[r.ClientID] = struct{}{}
		if r.OverdueAmount.IsPositive() {
			withOverdue[r.ClientID] = struct{}{}
		}
		if r.Balance.IsPositive() {
			invoices++
		}
	}
	return dto.ARSummaryDTO{
		TotalPortfolio:     portfolio.Round(2),
		TotalOverdue:       overdue.Round(2),
		TotalCurrent:       current.Round(2),
		QualityPct:         pct(current, portfolio),
		UniqueClients:      len(clients),
		ClientsWithOverdue: len(withOverdue),
		DocumentCount:      len(recs),
		InvoiceCount:       invoices,
	}
}

// MaxListedDocuments documentos listados por grupo de vencimiento.
const MaxListedDocuments = 10

// UpcomingExpirations documentos corrientes que vencen en los próximos window
// días, agrupados por (días para vencer, cliente).
func UpcomingExpirations(recs []entity.Receivable, window int) []dto.ExpirationDTO {
	type key struct {
		days   int
		client string
	}
	type acc struct {
		amount decimal.Decimal
		docs   []string
	}
	groups := map[key]*acc{}
	for _, r := range recs {
		if !r.Dated || r.DaysOverdue >= 0 || r.DaysOverdue < -window || !r.NonOverdueAmount.IsPositive() {
			continue
		}
		k := key{days: -r.DaysOverdue, client: r.FullClient}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		a.amount = a.amount.Add(r.NonOverdueAmount)
		a.docs = append(a.docs, r.DocumentID)
	}
	out := make([]dto.ExpirationDTO, 0, len(groups))
	for k, a := range groups {
		sort.Strings(a.docs)
		out = append(out, dto.ExpirationDTO{
			DaysUntilDue: k.days,
			Client:       k.client,
			Amount:       a.amount.Round(2),
			Documents:    len(a.docs),
			DocumentIDs:  listDocuments(a.docs),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DaysUntilDue != out[j].DaysUntilDue {
			return out[i].DaysUntilDue < out[j].DaysUntilDue
		}
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c < 0
		}
		return out[i].Client < out[j].Client
	})
	return out
}

func listDocuments(ids []string) string {
	if len(ids) <= MaxListedDocuments {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s +%d más", strings.Join(ids[:MaxListedDocuments], ", "), len(ids)-MaxListedDocuments)
}

// Tipos de fila del detalle por cliente.
const (
	TypeOverdue = "overdue"
	TypeCurrent = "current"
)

// ClientDetail documentos vencidos y corrientes de un cliente (full_client),
// vencidos primero y por días de mora descendente.
func ClientDetail(recs []entity.Receivable, client string) []dto.ARDetailDTO {
	out := make([]dto.ARDetailDTO, 0)
	for _, r := range recs {
		if r.FullClient != client && r.ClientID != client {
			continue
		}
		if r.OverdueAmount.IsPositive() {
			out = append(out, detailRow(r, TypeOverdue, r.OverdueAmount))
		}
		if r.NonOverdueAmount.IsPositive() {
			out = append(out, detailRow(r, TypeCurrent, r.NonOverdueAmount))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type > out[j].Type
		}
		if out[i].DaysOverdue != out[j].DaysOverdue {
			return out[i].DaysOverdue > out[j].DaysOverdue
		}
		return out[i].DocumentID < out[j].DocumentID
	})
	return out
}

func detailRow(r entity.Receivable, typ string, amount decimal.Decimal) dto.ARDetailDTO {
	row := dto.ARDetailDTO{
		DocumentID:  r.DocumentID,
		Type:        typ,
		Amount:      amount.Round(2),
		Balance:     r.Balance.Round(2),
		DaysOverdue: r.DaysOverdue,
		Status:      string(r.Status),
		Notes:       r.Notes,
	}
	if !r.IssueDate.IsZero() {
		row.IssueDate = timePtr(r.IssueDate)
	}
	if r.Dated {
		row.DueDate = timePtr(r.DueDate)
	}
	return row
}

func timePtr(t time.Time) *time.Time { return &t }

// ── Treemap ───────────────────────────────────────────────────────────────────

// Llaves de color del treemap.
const (
	ColorRoot    = "root"
	ColorClient  = "client"
	ColorOverdue = "overdue"
	ColorCurrent = "current"
	TreemapRoot  = "root"
)

var minTileShare = decimal.NewFromFloat(0.02)

// Treemap estructura raíz → cliente → {vencido, corriente}. Las fichas con
// menos del 2 % de su padre se omiten. ColorValue de cada cliente es su % vencido.
func Treemap(recs []entity.Receivable) []dto.TreemapNodeDTO {
	type acc struct {
		overdue, current decimal.Decimal
	}
	byClient := map[string]*acc{}
	for _, r := range recs {
		a, ok := byClient[r.FullClient]
		if !ok {
			a = &acc{}
			byClient[r.FullClient] = a
		}
		a.overdue = a.overdue.Add(r.OverdueAmount)
		a.current = a.current.Add(r.NonOverdueAmount)
	}
	total := decimal.Zero
	for _, a := range byClient {
		total = total.Add(a.overdue).Add(a.current)
	}
	nodes := []dto.TreemapNodeDTO{{ID: TreemapRoot, Label: "Cartera", Value: total.Round(2), ColorKey: ColorRoot}}
	if !total.IsPositive() {
		return nodes
	}

	clients := make([]string, 0, len(byClient))
	for c := range byClient {
		clients = append(clients, c)
	}
	sort.Strings(clients)

	for _, c := range clients {
		a := byClient[c]
		value := a.overdue.Add(a.current)
		if value.Div(total).LessThan(minTileShare) {
			continue
		}
		clientID := "client:" + c
		pctOverdue, _ := pct(a.overdue, value).Float64()
		nodes = append(nodes, dto.TreemapNodeDTO{
			ID: clientID, Label: c, Parent: TreemapRoot, Value: value.Round(2),
			ColorKey: ColorClient, ColorValue: pctOverdue,
		})
		children := []struct {
			kind   string
			label  string
			amount decimal.Decimal
		}{
			{ColorOverdue, "Vencido", a.overdue},
			{ColorCurrent, "Corriente", a.current},
		}
		for _, ch := range children {
			if !ch.amount.IsPositive() || ch.amount.Div(value).LessThan(minTileShare) {
				continue
			}
			nodes = append(nodes, dto.TreemapNodeDTO{
				ID: clientID + ":" + ch.kind, Label: ch.label, Parent: clientID,
				Value: ch.amount.Round(2), ColorKey: ch.kind,
			})
		}
	}
	return nodes
}
