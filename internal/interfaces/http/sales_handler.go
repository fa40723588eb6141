package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/farma-analytics/internal/application/engine"
	"github.com/jhoicas/farma-analytics/internal/application/sales"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

// SalesHandler maneja los endpoints de ventas y clientes.
type SalesHandler struct {
	eng *engine.Engine
}

// NewSalesHandler construye el handler.
func NewSalesHandler(eng *engine.Engine) *SalesHandler {
	return &SalesHandler{eng: eng}
}

// Summary godoc
// @Summary      Resumen de ventas
// @Description  Ventas, devoluciones, ventas netas, facturas, clientes únicos y ticket promedio.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        seller  query  string  false  "Vendedor (ALL/Todos = sin filtro)"
// @Param        month   query  string  false  "Mes YYYY-MM (ALL/Todos = sin filtro)"
// @Success      200  {object}  dto.SalesSummaryDTO
// @Router       /api/sales/summary [get]
func (h *SalesHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(h.eng.SalesSummary(sellerFilter(c), monthFilter(c)))
}

// Transfers godoc
// @Summary      Resumen de transferencias por agente
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        agent  query  string  false  "Agente de transferencia"
// @Param        month  query  string  false  "Mes YYYY-MM"
// @Success      200  {object}  dto.SalesSummaryDTO
// @Router       /api/transfers/summary [get]
func (h *SalesHandler) Transfers(c *fiber.Ctx) error {
	return c.JSON(h.eng.TransfersSummary(entity.ParseSelection(c.Query("agent")), monthFilter(c)))
}

// ByMonth godoc
// @Summary      Ventas por mes
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        seller  query  string  false  "Vendedor"
// @Success      200  {array}  dto.MonthlySalesDTO
// @Router       /api/sales/monthly [get]
func (h *SalesHandler) ByMonth(c *fiber.Ctx) error {
	return c.JSON(h.eng.SalesByMonth(sellerFilter(c)))
}

// ByWeekday godoc
// @Summary      Ventas por día de la semana
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WeekdaySalesDTO
// @Router       /api/sales/weekday [get]
func (h *SalesHandler) ByWeekday(c *fiber.Ctx) error {
	return c.JSON(h.eng.SalesByWeekday(sellerFilter(c), monthFilter(c)))
}

// ByZone godoc
// @Summary      Ventas por zona
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.GroupSalesDTO
// @Router       /api/sales/zones [get]
func (h *SalesHandler) ByZone(c *fiber.Ctx) error {
	return c.JSON(h.eng.SalesByZone(sellerFilter(c), monthFilter(c)))
}

// PaymentMethods godoc
// @Summary      Distribución por forma de pago
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.GroupSalesDTO
// @Router       /api/sales/payment-methods [get]
func (h *SalesHandler) PaymentMethods(c *fiber.Ctx) error {
	return c.JSON(h.eng.PaymentMethodDistribution(sellerFilter(c), monthFilter(c)))
}

// TopClients godoc
// @Summary      Clientes de mayor venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        n  query  int  false  "Cantidad (default configurado)"
// @Success      200  {array}  dto.ClientSalesDTO
// @Router       /api/sales/top-clients [get]
func (h *SalesHandler) TopClients(c *fiber.Ctx) error {
	return c.JSON(h.eng.TopClients(sellerFilter(c), monthFilter(c), c.QueryInt("n", 0)))
}

// DateRange godoc
// @Summary      Ventas entre fechas
// @Description  Las fechas se expanden a meses completos.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true  "Inicio YYYY-MM-DD"
// @Param        end    query  string  true  "Fin YYYY-MM-DD"
// @Success      200  {object}  dto.RangeSalesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/range [get]
func (h *SalesHandler) DateRange(c *fiber.Ctx) error {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		return badRequest(c, "start debe tener formato YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		return badRequest(c, "end debe tener formato YYYY-MM-DD")
	}
	if end.Before(start) {
		return badRequest(c, "end no puede ser anterior a start")
	}
	return c.JSON(h.eng.SalesByDateRange(sellerFilter(c), start, end))
}

type monthRangeQuery struct {
	From      int    `query:"from"`
	To        int    `query:"to"`
	MinAmount string `query:"min_amount"`
	MaxAmount string `query:"max_amount"`
}

// MonthRange godoc
// @Summary      Ventas entre meses del año
// @Description  Si from > to el rango cruza el fin de año. min_amount/max_amount filtran clientes por total neto.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from        query  int     true   "Mes inicial 1..12"
// @Param        to          query  int     true   "Mes final 1..12"
// @Param        min_amount  query  string  false  "Monto mínimo por cliente"
// @Param        max_amount  query  string  false  "Monto máximo por cliente"
// @Success      200  {object}  dto.RangeSalesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/month-range [get]
func (h *SalesHandler) MonthRange(c *fiber.Ctx) error {
	var q monthRangeQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "parámetros de consulta inválidos")
	}
	if q.From < 1 || q.From > 12 || q.To < 1 || q.To > 12 {
		return badRequest(c, "from y to deben estar entre 1 y 12")
	}
	var amounts sales.AmountRange
	if q.MinAmount != "" {
		v, err := decimal.NewFromString(q.MinAmount)
		if err != nil {
			return badRequest(c, "min_amount inválido")
		}
		amounts.Min = &v
	}
	if q.MaxAmount != "" {
		v, err := decimal.NewFromString(q.MaxAmount)
		if err != nil {
			return badRequest(c, "max_amount inválido")
		}
		amounts.Max = &v
	}
	return c.JSON(h.eng.SalesByMonthRange(sellerFilter(c), q.From, q.To, amounts))
}

// Variations godoc
// @Summary      Variación mensual por cliente
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        mode     query  string  false  "top10 | bottom10 | selected"
// @Param        clients  query  string  false  "Clientes separados por coma (modo selected)"
// @Success      200  {object}  dto.MonthlyVariationsDTO
// @Router       /api/sales/variations [get]
func (h *SalesHandler) Variations(c *fiber.Ctx) error {
	mode := c.Query("mode", sales.RankTop10)
	switch mode {
	case sales.RankTop10, sales.RankBottom10, sales.RankSelected:
	default:
		return badRequest(c, "mode debe ser top10, bottom10 o selected")
	}
	return c.JSON(h.eng.MonthlyVariations(sellerFilter(c), mode, csv(c.Query("clients"))))
}

// ImpactedClients godoc
// @Summary      Clientes impactados por mes
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ImpactedClientsDTO
// @Router       /api/sales/impacted-clients [get]
func (h *SalesHandler) ImpactedClients(c *fiber.Ctx) error {
	return c.JSON(h.eng.ImpactedClients(sellerFilter(c)))
}

// DaysWithoutSale godoc
// @Summary      Clientes sin compra reciente
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DaysWithoutSaleDTO
// @Router       /api/sales/days-without-sale [get]
func (h *SalesHandler) DaysWithoutSale(c *fiber.Ctx) error {
	return c.JSON(h.eng.DaysWithoutSale(sellerFilter(c)))
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// Clients godoc
// @Summary      Clientes con ventas del vendedor
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ClientOptionDTO
// @Router       /api/clients [get]
func (h *SalesHandler) Clients(c *fiber.Ctx) error {
	return c.JSON(h.eng.ClientList(sellerFilter(c)))
}

// Evolution godoc
// @Summary      Evolución de compras de un cliente
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        client       path   string  true   "Cliente (nombre completo o código)"
// @Param        granularity  query  string  false  "day | month"
// @Success      200  {array}  dto.PeriodValueDTO
// @Router       /api/clients/{client}/evolution [get]
func (h *SalesHandler) Evolution(c *fiber.Ctx) error {
	g := sales.ParseGranularity(c.Query("granularity"))
	return c.JSON(h.eng.ClientEvolution(param(c, "client"), sellerFilter(c), g))
}
