// Package store mantiene la instantánea inmutable de los datos normalizados:
// ventas y sus particiones por vendedor y por transferencista, recibos, cartera,
// convenios, cuotas, impactos y maestros, más las listas de los filtros.
package store

import (
	"sort"
	"time"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

// Frames colecciones normalizadas de una carga.
type Frames struct {
	Masters     *entity.Masters
	Sales       []entity.Sale
	Receipts    []entity.Receipt
	Receivables []entity.Receivable
	Convenios   []entity.Convenio
	Quotas      []entity.Quota
	Impacts     entity.Impacts
}

// Snapshot estado completo de una carga. Nunca se muta después de Build;
// una recarga construye otra y la reemplaza de forma atómica.
type Snapshot struct {
	Frames
	LoadID   string
	LoadedAt time.Time

	bySeller   []entity.Sale
	byTransfer []entity.Sale

	sellers        []string
	transferAgents []string
	months         []string
}

// Build deriva particiones y listas.
func Build(f Frames, loadID string, loadedAt time.Time) *Snapshot {
	if f.Masters == nil {
		f.Masters = entity.EmptyMasters()
	}
	if f.Impacts.Projected == nil {
		f.Impacts = entity.EmptyImpacts()
	}
	s := &Snapshot{Frames: f, LoadID: loadID, LoadedAt: loadedAt}

	sellers := map[string]struct{}{}
	agents := map[string]struct{}{}
	months := map[string]struct{}{}
	for _, sale := range f.Sales {
		if sale.Seller.IsResolved() {
			s.bySeller = append(s.bySeller, sale)
			sellers[sale.Seller.Name] = struct{}{}
		}
		if sale.TransferAgent.IsResolved() {
			s.byTransfer = append(s.byTransfer, sale)
			agents[sale.TransferAgent.Name] = struct{}{}
		}
		if sale.YearMonth != "" {
			months[sale.YearMonth] = struct{}{}
		}
	}
	s.sellers = withSentinel(sortedSet(sellers))
	s.transferAgents = withSentinel(sortedSet(agents))

	ml := sortedSet(months)
	sort.Sort(sort.Reverse(sort.StringSlice(ml)))
	s.months = withSentinel(ml)
	return s
}

// Empty instantánea sin datos (antes de la primera carga).
func Empty() *Snapshot { return Build(Frames{}, "", time.Time{}) }

// SalesBySeller partición de ventas con vendedor resuelto.
func (s *Snapshot) SalesBySeller() []entity.Sale { return s.bySeller }

// SalesByTransfer partición de ventas con transferencista resuelto.
func (s *Snapshot) SalesByTransfer() []entity.Sale { return s.byTransfer }

// Sellers lista de vendedores con "Todos" primero.
func (s *Snapshot) Sellers() []string { return append([]string(nil), s.sellers...) }

// TransferAgents lista de transferencistas con "Todos" primero.
func (s *Snapshot) TransferAgents() []string { return append([]string(nil), s.transferAgents...) }

// Months lista de meses YYYY-MM, más reciente primero, con "Todos" al inicio.
func (s *Snapshot) Months() []string { return append([]string(nil), s.months...) }

// FilterSales copia de la partición por vendedor filtrada por vendedor y mes.
func (s *Snapshot) FilterSales(seller, month entity.Selection) []entity.Sale {
	return filter(s.bySeller, month, func(x entity.Sale) string { return x.Seller.Name }, seller)
}

// FilterTransfers copia de la partición por transferencista filtrada.
func (s *Snapshot) FilterTransfers(agent, month entity.Selection) []entity.Sale {
	return filter(s.byTransfer, month, func(x entity.Sale) string { return x.TransferAgent.Name }, agent)
}

func filter(rows []entity.Sale, month entity.Selection, key func(entity.Sale) string, who entity.Selection) []entity.Sale {
	out := make([]entity.Sale, 0, len(rows))
	for _, r := range rows {
		if who.Matches(key(r)) && month.Matches(r.YearMonth) {
			out = append(out, r)
		}
	}
	return out
}

// ReceivablesFor cartera del vendedor (todos si la selección es ALL).
func (s *Snapshot) ReceivablesFor(seller entity.Selection) []entity.Receivable {
	out := make([]entity.Receivable, 0, len(s.Receivables))
	for _, r := range s.Receivables {
		if seller.Matches(r.Seller.Name) {
			out = append(out, r)
		}
	}
	return out
}

// RecordsCount total de registros de la carga.
func (s *Snapshot) RecordsCount() int {
	return len(s.Sales) + len(s.Receipts) + len(s.Receivables) + len(s.Convenios) + len(s.Quotas) + len(s.Masters.Clients)
}

// Counts registros por colección.
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		"sales":       len(s.Sales),
		"receipts":    len(s.Receipts),
		"receivables": len(s.Receivables),
		"convenios":   len(s.Convenios),
		"quotas":      len(s.Quotas),
		"clients":     len(s.Masters.Clients),
	}
}

// CacheStatus registros y fecha de actualización de cada colección.
func (s *Snapshot) CacheStatus() dto.CacheStatusDTO {
	clients := map[string]struct{}{}
	for _, sale := range s.Sales {
		if sale.ClientID != "" {
			clients[sale.ClientID] = struct{}{}
		}
	}
	masters := len(s.Masters.DocTypes) + len(s.Masters.Sellers) + len(s.Masters.PaymentMethods) + len(s.Masters.Clients)
	return dto.CacheStatusDTO{
		LoadID:      s.LoadID,
		Sales:       dto.FrameStatusDTO{Records: len(s.Sales), UpdatedAt: s.LoadedAt},
		Convenios:   dto.FrameStatusDTO{Records: len(s.Convenios), UpdatedAt: s.LoadedAt},
		Receipts:    dto.FrameStatusDTO{Records: len(s.Receipts), UpdatedAt: s.LoadedAt},
		Receivables: dto.FrameStatusDTO{Records: len(s.Receivables), UpdatedAt: s.LoadedAt},
		Clients:     dto.FrameStatusDTO{Records: len(s.Masters.Clients), UpdatedAt: s.Masters.LoadedAt},
		NumClients:  len(clients),
		Masters:     dto.FrameStatusDTO{Records: masters, UpdatedAt: s.Masters.LoadedAt},
	}
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func withSentinel(list []string) []string {
	return append([]string{entity.AllTokenUI}, list...)
}
