package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/application/engine"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

// ScorecardRenderer genera la ficha PDF de riesgo de un vendedor.
// Lo implementa *pdf.ScorecardGenerator.
type ScorecardRenderer interface {
	RiskScorecard(ctx context.Context, report dto.RiskReportDTO, ind dto.RiskIndicatorDTO, generatedAt time.Time) ([]byte, error)
}

// AnalyticsHandler maneja cuotas, convenios, RFM+, riesgo e impactos.
type AnalyticsHandler struct {
	eng *engine.Engine
	pdf ScorecardRenderer
	now func() time.Time
}

// NewAnalyticsHandler construye el handler. pdf puede ser nil (la ficha responde 501).
func NewAnalyticsHandler(eng *engine.Engine, pdf ScorecardRenderer, now func() time.Time) *AnalyticsHandler {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsHandler{eng: eng, pdf: pdf, now: now}
}

// Filters godoc
// @Summary      Opciones de los filtros
// @Description  Vendedores, transferencistas y meses; "Todos" primero.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.FilterOptionsDTO
// @Router       /api/filters [get]
func (h *AnalyticsHandler) Filters(c *fiber.Ctx) error {
	opts := h.eng.FilterOptions()
	if own, ok := pinnedSeller(c); ok {
		opts.Sellers = []string{own}
	}
	return c.JSON(opts)
}

// ── Cuotas ────────────────────────────────────────────────────────────────────

// Quota godoc
// @Summary      Cumplimiento de cuota de un vendedor
// @Tags         quotas
// @Security     Bearer
// @Produce      json
// @Param        seller  path   string  true   "Vendedor"
// @Param        month   query  string  false  "Mes YYYY-MM (default: mes en curso)"
// @Success      200  {object}  dto.QuotaAttainmentDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/quotas/{seller} [get]
func (h *AnalyticsHandler) Quota(c *fiber.Ctx) error {
	seller, ok := sellerParam(c)
	if !ok {
		return forbidden(c)
	}
	return c.JSON(h.eng.QuotaAttainment(seller, c.Query("month")))
}

// QuotaBoard godoc
// @Summary      Cumplimiento de cuota de todos los vendedores
// @Description  Incluye la fila del equipo.
// @Tags         quotas
// @Security     Bearer
// @Produce      json
// @Param        month  query  string  false  "Mes YYYY-MM"
// @Success      200  {object}  dto.QuotaBoardDTO
// @Router       /api/quotas [get]
func (h *AnalyticsHandler) QuotaBoard(c *fiber.Ctx) error {
	return c.JSON(h.eng.QuotaBoard(c.Query("month")))
}

// ── Convenios ─────────────────────────────────────────────────────────────────

// Convenios godoc
// @Summary      Cumplimiento de convenios comerciales
// @Tags         convenios
// @Security     Bearer
// @Produce      json
// @Param        seller  query  string  false  "Vendedor"
// @Param        month   query  string  false  "Mes YYYY-MM"
// @Success      200  {object}  dto.ConvenioAnalysisDTO
// @Router       /api/convenios [get]
func (h *AnalyticsHandler) Convenios(c *fiber.Ctx) error {
	return c.JSON(h.eng.ConvenioAnalysis(sellerFilter(c), monthFilter(c)))
}

// ── RFM+ ──────────────────────────────────────────────────────────────────────

// RFM godoc
// @Summary      Segmentación RFM+ de clientes
// @Tags         rfm
// @Security     Bearer
// @Produce      json
// @Param        seller  query  string  false  "Vendedor"
// @Param        cache   query  bool    false  "Usar caché (default true)"
// @Success      200  {object}  dto.RFMResultDTO
// @Router       /api/rfm [get]
func (h *AnalyticsHandler) RFM(c *fiber.Ctx) error {
	return c.JSON(h.eng.ComputeRFM(sellerFilter(c), c.QueryBool("cache", true)))
}

// ClientRFM godoc
// @Summary      Detalle RFM+ de un cliente
// @Tags         rfm
// @Security     Bearer
// @Produce      json
// @Param        client  path  string  true  "Cliente (nombre completo o código)"
// @Success      200  {object}  dto.RFMClientDetailDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{client}/rfm [get]
func (h *AnalyticsHandler) ClientRFM(c *fiber.Ctx) error {
	detail, ok := h.eng.ClientRFMDetails(param(c, "client"), sellerFilter(c))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente sin compras en la población"})
	}
	return c.JSON(detail)
}

// ClearRFMCache godoc
// @Summary      Limpia el caché RFM+
// @Tags         rfm
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/rfm/cache [delete]
func (h *AnalyticsHandler) ClearRFMCache(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"cleared": h.eng.ClearRFMCache()})
}

// ── Riesgo ────────────────────────────────────────────────────────────────────

// Risk godoc
// @Summary      Indicador de riesgo de cartera
// @Description  Calibrado contra la población completa de vendedores.
// @Tags         risk
// @Security     Bearer
// @Produce      json
// @Param        seller  query  string  false  "Vendedor"
// @Success      200  {object}  dto.RiskReportDTO
// @Router       /api/risk [get]
func (h *AnalyticsHandler) Risk(c *fiber.Ctx) error {
	return c.JSON(h.eng.PortfolioIndicator(sellerFilter(c)))
}

// RiskScorecard godoc
// @Summary      Ficha PDF de riesgo de un vendedor
// @Tags         risk
// @Security     Bearer
// @Produce      application/pdf
// @Param        seller  path  string  true  "Vendedor"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/risk/{seller}/pdf [get]
func (h *AnalyticsHandler) RiskScorecard(c *fiber.Ctx) error {
	seller, ok := sellerParam(c)
	if !ok {
		return forbidden(c)
	}
	if h.pdf == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "PDF_DISABLED", Message: "generador PDF no configurado"})
	}
	report := h.eng.PortfolioIndicator(entity.Only(seller))
	if len(report.Sellers) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "vendedor sin datos de riesgo"})
	}
	out, err := h.pdf.RiskScorecard(c.UserContext(), report, report.Sellers[0], h.now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_FAILED", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="riesgo.pdf"`)
	return c.Send(out)
}

// ── Impactos ──────────────────────────────────────────────────────────────────

// Impacts godoc
// @Summary      Avance de impactos por vendedor y molécula
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        quarter   query  string  false  "Trimestre (default: el de la proyección)"
// @Param        seller    query  string  false  "Vendedor"
// @Param        molecule  query  string  false  "Molécula"
// @Success      200  {object}  dto.ImpactProgressDTO
// @Router       /api/impacts [get]
func (h *AnalyticsHandler) Impacts(c *fiber.Ctx) error {
	return c.JSON(h.eng.ImpactProgress(c.Query("quarter"), sellerFilter(c), entity.ParseSelection(c.Query("molecule"))))
}
