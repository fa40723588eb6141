package engine

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farma-analytics/internal/application/convenio"
	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/application/rfm"
	"github.com/jhoicas/farma-analytics/internal/application/risk"
	"github.com/jhoicas/farma-analytics/internal/application/store"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
	"github.com/jhoicas/farma-analytics/pkg/cache"
)

var hundred = decimal.NewFromInt(100)

// ── Cuotas y convenios ────────────────────────────────────────────────────────

// monthOf interpreta YYYY-MM; vacío o inválido es el mes en curso.
func (e *Engine) monthOf(ym string) time.Time {
	if t, err := time.ParseInLocation("2006-01", ym, e.opts.Location); err == nil {
		return t
	}
	now := e.now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, e.opts.Location)
}

// QuotaAttainment cumplimiento de cuota de un vendedor en el mes (YYYY-MM).
func (e *Engine) QuotaAttainment(seller, month string) dto.QuotaAttainmentDTO {
	empty := func() dto.QuotaAttainmentDTO { return dto.QuotaAttainmentDTO{Seller: seller, Month: month} }
	return guard(e, "quota_attainment", empty, func(s *store.Snapshot) dto.QuotaAttainmentDTO {
		m := e.monthOf(month)
		rows := s.FilterSales(entity.Only(seller), entity.Only(m.Format("2006-01")))
		return e.quota.Attainment(seller, m, s.Quotas, rows, e.now())
	})
}

// QuotaBoard cumplimiento de todos los vendedores del mes con total del equipo.
func (e *Engine) QuotaBoard(month string) dto.QuotaBoardDTO {
	empty := func() dto.QuotaBoardDTO { return dto.QuotaBoardDTO{Month: month, Sellers: []dto.QuotaAttainmentDTO{}} }
	return guard(e, "quota_board", empty, func(s *store.Snapshot) dto.QuotaBoardDTO {
		m := e.monthOf(month)
		return e.quota.Board(m, s.Quotas, s.FilterSales(entity.All(), entity.Only(m.Format("2006-01"))), e.now())
	})
}

// ConvenioAnalysis cumplimiento de convenios del vendedor en el periodo.
func (e *Engine) ConvenioAnalysis(seller, month entity.Selection) dto.ConvenioAnalysisDTO {
	empty := func() dto.ConvenioAnalysisDTO { return convenio.Analyze(nil, nil, entity.All(), e.now()) }
	return guard(e, "convenio_analysis", empty, func(s *store.Snapshot) dto.ConvenioAnalysisDTO {
		rows := make([]entity.Sale, 0, len(s.Sales))
		for _, r := range s.Sales {
			if month.Matches(r.YearMonth) {
				rows = append(rows, r)
			}
		}
		return convenio.Analyze(s.Convenios, rows, seller, e.now())
	})
}

// ── RFM+ ──────────────────────────────────────────────────────────────────────

// rfmKey incluye el load_id: un resultado calculado sobre una instantánea
// anterior queda inalcanzable después de la recarga.
func rfmKey(s *store.Snapshot, seller entity.Selection) string {
	return rfmPrefix + s.LoadID + "_" + seller.String()
}

func (e *Engine) riskKey(s *store.Snapshot) string {
	return cache.Key(riskPrefix, "report", []any{s.LoadID}, map[string]any{
		"period_days": e.opts.RiskPeriodDays,
		"top_clients": e.opts.RiskTopClients,
	})
}

// ComputeRFM puntajes RFM+ de los clientes del vendedor. Con useCache el
// resultado se guarda por vendedor durante el TTL configurado.
func (e *Engine) ComputeRFM(seller entity.Selection, useCache bool) dto.RFMResultDTO {
	empty := func() dto.RFMResultDTO { return rfm.Compute(nil, seller.String(), e.now()) }
	return guard(e, "compute_rfm", empty, func(s *store.Snapshot) dto.RFMResultDTO {
		compute := func() (dto.RFMResultDTO, error) {
			return rfm.Compute(s.FilterSales(seller, entity.All()), seller.String(), e.now()), nil
		}
		if !useCache {
			res, _ := compute()
			return res
		}
		res, _ := cache.GetOrCompute(e.cache, rfmKey(s, seller), e.opts.RFMTTL, compute)
		return res
	})
}

// ClearRFMCache descarta todos los resultados RFM+ guardados.
func (e *Engine) ClearRFMCache() int {
	n := e.cache.InvalidatePrefix(rfmPrefix)
	e.log.Info().Int("entries", n).Msg("caché RFM limpiado")
	return n
}

// ClientRFMDetails detalle RFM+ de un cliente dentro de la población del vendedor.
func (e *Engine) ClientRFMDetails(client string, seller entity.Selection) (dto.RFMClientDetailDTO, bool) {
	type result struct {
		detail dto.RFMClientDetailDTO
		ok     bool
	}
	empty := func() result { return result{detail: dto.RFMClientDetailDTO{Monthly: []dto.MonthValueDTO{}}} }
	r := guard(e, "client_rfm_details", empty, func(s *store.Snapshot) result {
		d, ok := rfm.ClientDetail(s.FilterSales(seller, entity.All()), client, e.now())
		return result{detail: d, ok: ok}
	})
	return r.detail, r.ok
}

// ── Riesgo ────────────────────────────────────────────────────────────────────

// PortfolioIndicator indicador de riesgo calibrado sobre todos los vendedores.
// Con un vendedor seleccionado se devuelve solo su fila, con la calibración
// de la población completa.
func (e *Engine) PortfolioIndicator(seller entity.Selection) dto.RiskReportDTO {
	empty := func() dto.RiskReportDTO {
		return dto.RiskReportDTO{PeriodDays: e.opts.RiskPeriodDays, Sellers: []dto.RiskIndicatorDTO{}}
	}
	return guard(e, "portfolio_indicator", empty, func(s *store.Snapshot) dto.RiskReportDTO {
		report, _ := cache.GetOrCompute(e.cache, e.riskKey(s), e.opts.RiskTTL, func() (dto.RiskReportDTO, error) {
			return risk.Report(population(s), risk.Options{
				PeriodDays: e.opts.RiskPeriodDays,
				TopClients: e.opts.RiskTopClients,
			}, e.now()), nil
		})
		if seller.IsAll() {
			return report
		}
		filtered := report
		filtered.Sellers = []dto.RiskIndicatorDTO{}
		for _, ind := range report.Sellers {
			if ind.Seller == seller.Value() {
				filtered.Sellers = append(filtered.Sellers, ind)
			}
		}
		return filtered
	})
}

// population insumos por vendedor resuelto con ventas o cartera.
func population(s *store.Snapshot) []risk.SellerData {
	bySeller := map[string]*risk.SellerData{}
	get := func(name string) *risk.SellerData {
		d, ok := bySeller[name]
		if !ok {
			d = &risk.SellerData{Seller: name}
			bySeller[name] = d
		}
		return d
	}
	for _, r := range s.SalesBySeller() {
		d := get(r.Seller.Name)
		d.Sales = append(d.Sales, r)
	}
	for _, r := range s.Receivables {
		if r.Seller.IsResolved() {
			d := get(r.Seller.Name)
			d.Receivables = append(d.Receivables, r)
		}
	}
	for _, r := range s.Receipts {
		if d, ok := bySeller[r.Seller.Name]; ok && r.Seller.IsResolved() {
			d.Receipts = append(d.Receipts, r)
		}
	}
	names := make([]string, 0, len(bySeller))
	for n := range bySeller {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]risk.SellerData, len(names))
	for i, n := range names {
		out[i] = *bySeller[n]
	}
	return out
}

// ── Estado y filtros ──────────────────────────────────────────────────────────

// CacheStatus registros por colección, estado del caché de cálculos y, si la
// fuente lo permite, tamaño de los documentos raíz.
func (e *Engine) CacheStatus(ctx context.Context) dto.CacheStatusDTO {
	status := guard(e, "cache_status", func() dto.CacheStatusDTO { return store.Empty().CacheStatus() }, func(s *store.Snapshot) dto.CacheStatusDTO {
		return s.CacheStatus()
	})
	st := e.cache.Stats()
	status.Cache = dto.CacheEntriesDTO{
		Entries:     st.Entries,
		MaxEntries:  st.MaxEntries,
		Hits:        st.Hits,
		Misses:      st.Misses,
		Evictions:   st.Evictions,
		Expirations: st.Expirations,
		Accesses:    st.Accesses,
	}
	if e.opts.Inspector == nil {
		return status
	}
	docs, err := e.opts.Inspector.Stats(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("no se pudo inspeccionar la fuente")
		return status
	}
	for _, d := range docs {
		status.Source = append(status.Source, dto.SourceDocumentDTO{Path: d.Path, SizeBytes: d.SizeBytes, UpdatedAt: d.UpdatedAt})
	}
	return status
}

// FilterOptions listas de vendedores, transferencistas y meses.
func (e *Engine) FilterOptions() dto.FilterOptionsDTO {
	s := e.snap.Load()
	return dto.FilterOptionsDTO{Sellers: s.Sellers(), TransferAgents: s.TransferAgents(), Months: s.Months()}
}

// ── Impactos ──────────────────────────────────────────────────────────────────

// ImpactProgress impactos proyectados frente a clientes realizados por
// vendedor y molécula. quarter vacío usa el trimestre de la proyección.
func (e *Engine) ImpactProgress(quarter string, seller, molecule entity.Selection) dto.ImpactProgressDTO {
	empty := func() dto.ImpactProgressDTO {
		imp := entity.EmptyImpacts()
		return dto.ImpactProgressDTO{Quarter: quarter, Rows: []dto.ImpactRowDTO{}, Molecules: imp.Molecules, Sellers: imp.Sellers}
	}
	return guard(e, "impact_progress", empty, func(s *store.Snapshot) dto.ImpactProgressDTO {
		return impactProgress(s.Impacts, quarter, seller, molecule)
	})
}

func impactProgress(imp entity.Impacts, quarter string, seller, molecule entity.Selection) dto.ImpactProgressDTO {
	if quarter == "" {
		quarter = imp.ProjectedQuarter
	}
	realized := imp.Realized[quarter]
	type key struct{ seller, molecule string }
	rows := map[key]*dto.ImpactRowDTO{}
	row := func(sl, mol string) *dto.ImpactRowDTO {
		k := key{sl, mol}
		r, ok := rows[k]
		if !ok {
			r = &dto.ImpactRowDTO{Seller: sl, Molecule: mol}
			rows[k] = r
		}
		return r
	}
	for mol, bySeller := range imp.Projected {
		if !molecule.Matches(mol) {
			continue
		}
		for sl, n := range bySeller {
			if seller.Matches(sl) {
				row(sl, mol).Projected += n
			}
		}
	}
	for mol, bySeller := range realized {
		if !molecule.Matches(mol) {
			continue
		}
		for sl, clients := range bySeller {
			if seller.Matches(sl) {
				row(sl, mol).Realized += len(clients)
			}
		}
	}

	out := dto.ImpactProgressDTO{
		Quarter:   quarter,
		Rows:      make([]dto.ImpactRowDTO, 0, len(rows)),
		Molecules: imp.Molecules,
		Sellers:   imp.Sellers,
	}
	for _, r := range rows {
		r.ProgressPct = decimal.Zero
		if r.Projected > 0 {
			r.ProgressPct = decimal.NewFromInt(int64(r.Realized)).Mul(hundred).Div(decimal.NewFromInt(int64(r.Projected))).Round(2)
		}
		out.Rows = append(out.Rows, *r)
	}
	sort.Slice(out.Rows, func(i, j int) bool {
		if out.Rows[i].Seller != out.Rows[j].Seller {
			return out.Rows[i].Seller < out.Rows[j].Seller
		}
		return out.Rows[i].Molecule < out.Rows[j].Molecule
	})
	return out
}
