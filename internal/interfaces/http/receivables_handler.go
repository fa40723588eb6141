package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farma-analytics/internal/application/engine"
)

// ReceivablesHandler maneja los endpoints de cartera.
type ReceivablesHandler struct {
	eng *engine.Engine
}

// NewReceivablesHandler construye el handler.
func NewReceivablesHandler(eng *engine.Engine) *ReceivablesHandler {
	return &ReceivablesHandler{eng: eng}
}

// Summary godoc
// @Summary      Resumen de cartera
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Param        seller  query  string  false  "Vendedor"
// @Success      200  {object}  dto.ARSummaryDTO
// @Router       /api/receivables/summary [get]
func (h *ReceivablesHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(h.eng.ARSummary(sellerFilter(c)))
}

// Aging godoc
// @Summary      Cartera por rango de vencimiento
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AgingBucketDTO
// @Router       /api/receivables/aging [get]
func (h *ReceivablesHandler) Aging(c *fiber.Ctx) error {
	return c.JSON(h.eng.AgingBuckets(sellerFilter(c)))
}

// Expirations godoc
// @Summary      Próximos vencimientos
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Param        window  query  int  false  "Días hacia adelante (default configurado)"
// @Success      200  {array}  dto.ExpirationDTO
// @Router       /api/receivables/expirations [get]
func (h *ReceivablesHandler) Expirations(c *fiber.Ctx) error {
	return c.JSON(h.eng.UpcomingExpirations(sellerFilter(c), c.QueryInt("window", 0)))
}

// Treemap godoc
// @Summary      Cartera por cliente (vencido / corriente)
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TreemapNodeDTO
// @Router       /api/receivables/treemap [get]
func (h *ReceivablesHandler) Treemap(c *fiber.Ctx) error {
	return c.JSON(h.eng.ARTreemap(sellerFilter(c)))
}

// ClientDetail godoc
// @Summary      Documentos de cartera de un cliente
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        client  path  string  true  "Cliente"
// @Success      200  {array}  dto.ARDetailDTO
// @Router       /api/clients/{client}/receivables [get]
func (h *ReceivablesHandler) ClientDetail(c *fiber.Ctx) error {
	return c.JSON(h.eng.ClientARDetail(param(c, "client"), sellerFilter(c)))
}
