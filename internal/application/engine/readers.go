package engine

import (
	"sort"
	"time"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/application/receivables"
	"github.com/jhoicas/farma-analytics/internal/application/sales"
	"github.com/jhoicas/farma-analytics/internal/application/store"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

// ── Ventas ────────────────────────────────────────────────────────────────────

// SalesSummary KPIs de ventas del vendedor y mes.
func (e *Engine) SalesSummary(seller, month entity.Selection) dto.SalesSummaryDTO {
	return guard(e, "sales_summary", emptySummary, func(s *store.Snapshot) dto.SalesSummaryDTO {
		return sales.Summary(s.FilterSales(seller, month))
	})
}

// TransfersSummary KPIs de la partición por transferencista.
func (e *Engine) TransfersSummary(agent, month entity.Selection) dto.SalesSummaryDTO {
	return guard(e, "transfers_summary", emptySummary, func(s *store.Snapshot) dto.SalesSummaryDTO {
		return sales.Summary(s.FilterTransfers(agent, month))
	})
}

// SalesByMonth serie mensual del vendedor.
func (e *Engine) SalesByMonth(seller entity.Selection) []dto.MonthlySalesDTO {
	return guard(e, "sales_by_month", emptySlice[dto.MonthlySalesDTO], func(s *store.Snapshot) []dto.MonthlySalesDTO {
		return sales.ByMonth(s.FilterSales(seller, entity.All()))
	})
}

// SalesByWeekday ventas por día de la semana en orden fijo.
func (e *Engine) SalesByWeekday(seller, month entity.Selection) []dto.WeekdaySalesDTO {
	return guard(e, "sales_by_weekday", emptySlice[dto.WeekdaySalesDTO], func(s *store.Snapshot) []dto.WeekdaySalesDTO {
		return sales.ByWeekday(s.FilterSales(seller, month))
	})
}

// SalesByZone ventas por zona.
func (e *Engine) SalesByZone(seller, month entity.Selection) []dto.GroupSalesDTO {
	return guard(e, "sales_by_zone", emptySlice[dto.GroupSalesDTO], func(s *store.Snapshot) []dto.GroupSalesDTO {
		return sales.ByZone(s.FilterSales(seller, month))
	})
}

// PaymentMethodDistribution ventas por forma de pago.
func (e *Engine) PaymentMethodDistribution(seller, month entity.Selection) []dto.GroupSalesDTO {
	return guard(e, "payment_methods", emptySlice[dto.GroupSalesDTO], func(s *store.Snapshot) []dto.GroupSalesDTO {
		return sales.ByPaymentMethod(s.FilterSales(seller, month))
	})
}

// TopClients los n clientes de mayor venta; n <= 0 usa el valor configurado.
func (e *Engine) TopClients(seller, month entity.Selection, n int) []dto.ClientSalesDTO {
	if n <= 0 {
		n = e.opts.TopN
	}
	return guard(e, "top_clients", emptySlice[dto.ClientSalesDTO], func(s *store.Snapshot) []dto.ClientSalesDTO {
		return sales.TopClients(s.FilterSales(seller, month), n)
	})
}

// SalesByDateRange ventas entre dos fechas, expandidas a meses completos.
func (e *Engine) SalesByDateRange(seller entity.Selection, start, end time.Time) dto.RangeSalesDTO {
	return guard(e, "sales_by_date_range", emptyRange, func(s *store.Snapshot) dto.RangeSalesDTO {
		return sales.ByDateRange(s.FilterSales(seller, entity.All()), start, end)
	})
}

// SalesByMonthRange ventas entre números de mes con filtro de monto.
func (e *Engine) SalesByMonthRange(seller entity.Selection, mStart, mEnd int, amounts sales.AmountRange) dto.RangeSalesDTO {
	return guard(e, "sales_by_month_range", emptyRange, func(s *store.Snapshot) dto.RangeSalesDTO {
		return sales.ByMonthRange(s.FilterSales(seller, entity.All()), mStart, mEnd, amounts)
	})
}

// MonthlyVariations variación mensual por cliente.
func (e *Engine) MonthlyVariations(seller entity.Selection, mode string, clients []string) dto.MonthlyVariationsDTO {
	return guard(e, "monthly_variations", emptyVariations, func(s *store.Snapshot) dto.MonthlyVariationsDTO {
		return sales.MonthlyVariations(s.FilterSales(seller, entity.All()), mode, clients)
	})
}

// ImpactedClients clientes con compra por mes frente a los activos.
func (e *Engine) ImpactedClients(seller entity.Selection) dto.ImpactedClientsDTO {
	return guard(e, "impacted_clients", emptyImpacted, func(s *store.Snapshot) dto.ImpactedClientsDTO {
		return sales.ImpactedClients(s.FilterSales(seller, entity.All()), s.Masters, seller)
	})
}

// DaysWithoutSale clientes sin remisión reciente.
func (e *Engine) DaysWithoutSale(seller entity.Selection) dto.DaysWithoutSaleDTO {
	return guard(e, "days_without_sale", emptyDaysWithout, func(s *store.Snapshot) dto.DaysWithoutSaleDTO {
		return sales.DaysWithoutSale(s.FilterSales(seller, entity.All()), s.Masters, e.now())
	})
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// ClientList clientes con ventas del vendedor, ordenados por etiqueta.
func (e *Engine) ClientList(seller entity.Selection) []dto.ClientOptionDTO {
	return guard(e, "client_list", emptySlice[dto.ClientOptionDTO], func(s *store.Snapshot) []dto.ClientOptionDTO {
		seen := map[string]string{}
		for _, r := range s.FilterSales(seller, entity.All()) {
			if r.FullClient == "" {
				continue
			}
			if _, ok := seen[r.FullClient]; !ok || seen[r.FullClient] == "" {
				seen[r.FullClient] = r.ClientID
			}
		}
		out := make([]dto.ClientOptionDTO, 0, len(seen))
		for label, id := range seen {
			out = append(out, dto.ClientOptionDTO{ClientID: id, Label: label})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
		return out
	})
}

// ClientEvolution serie diaria o mensual de un cliente.
func (e *Engine) ClientEvolution(client string, seller entity.Selection, g sales.Granularity) []dto.PeriodValueDTO {
	return guard(e, "client_evolution", emptySlice[dto.PeriodValueDTO], func(s *store.Snapshot) []dto.PeriodValueDTO {
		return sales.ClientEvolution(s.FilterSales(seller, entity.All()), client, g)
	})
}

// ClientARDetail documentos de cartera de un cliente.
func (e *Engine) ClientARDetail(client string, seller entity.Selection) []dto.ARDetailDTO {
	return guard(e, "client_ar_detail", emptySlice[dto.ARDetailDTO], func(s *store.Snapshot) []dto.ARDetailDTO {
		return receivables.ClientDetail(s.ReceivablesFor(seller), client)
	})
}

// ── Cartera ───────────────────────────────────────────────────────────────────

// ARSummary totales y calidad de la cartera del vendedor.
func (e *Engine) ARSummary(seller entity.Selection) dto.ARSummaryDTO {
	return guard(e, "ar_summary", func() dto.ARSummaryDTO { return receivables.Summary(nil) }, func(s *store.Snapshot) dto.ARSummaryDTO {
		return receivables.Summary(s.ReceivablesFor(seller))
	})
}

// AgingBuckets cartera por edad en orden fijo.
func (e *Engine) AgingBuckets(seller entity.Selection) []dto.AgingBucketDTO {
	return guard(e, "aging_buckets", func() []dto.AgingBucketDTO { return receivables.Aging(nil) }, func(s *store.Snapshot) []dto.AgingBucketDTO {
		return receivables.Aging(s.ReceivablesFor(seller))
	})
}

// UpcomingExpirations vencimientos de los próximos días; window <= 0 usa el configurado.
func (e *Engine) UpcomingExpirations(seller entity.Selection, window int) []dto.ExpirationDTO {
	if window <= 0 {
		window = e.opts.ExpirationWindow
	}
	return guard(e, "upcoming_expirations", emptySlice[dto.ExpirationDTO], func(s *store.Snapshot) []dto.ExpirationDTO {
		return receivables.UpcomingExpirations(s.ReceivablesFor(seller), window)
	})
}

// ARTreemap jerarquía cliente → vencido/corriente.
func (e *Engine) ARTreemap(seller entity.Selection) []dto.TreemapNodeDTO {
	return guard(e, "ar_treemap", emptySlice[dto.TreemapNodeDTO], func(s *store.Snapshot) []dto.TreemapNodeDTO {
		return receivables.Treemap(s.ReceivablesFor(seller))
	})
}

// ── Formas vacías ─────────────────────────────────────────────────────────────

func emptySlice[T any]() []T { return []T{} }

func emptySummary() dto.SalesSummaryDTO { return sales.Summary(nil) }

func emptyRange() dto.RangeSalesDTO { return sales.ByMonthRange(nil, 1, 12, sales.AmountRange{}) }

func emptyVariations() dto.MonthlyVariationsDTO { return sales.MonthlyVariations(nil, "", nil) }

func emptyImpacted() dto.ImpactedClientsDTO {
	return sales.ImpactedClients(nil, entity.EmptyMasters(), entity.All())
}

func emptyDaysWithout() dto.DaysWithoutSaleDTO {
	return sales.DaysWithoutSale(nil, entity.EmptyMasters(), time.Time{})
}
