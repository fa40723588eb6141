package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farma-analytics/internal/application/engine"
	"github.com/jhoicas/farma-analytics/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine    *engine.Engine
	PDF       ScorecardRenderer
	JWTSecret string // vacío = API sin autenticación (uso local)
	Now       func() time.Time
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api
	managers := func(c *fiber.Ctx) error { return c.Next() }
	if deps.JWTSecret != "" {
		protected = api.Group("/", AuthMiddleware(deps.JWTSecret))
		managers = RequireRole(jwt.RoleAdmin, jwt.RoleGerente)
	}

	salesHandler := NewSalesHandler(deps.Engine)
	arHandler := NewReceivablesHandler(deps.Engine)
	analyticsHandler := NewAnalyticsHandler(deps.Engine, deps.PDF, deps.Now)
	adminHandler := NewAdminHandler(deps.Engine)

	protected.Get("/filters", analyticsHandler.Filters)

	// Ventas
	salesGroup := protected.Group("/sales")
	salesGroup.Get("/summary", salesHandler.Summary)
	salesGroup.Get("/monthly", salesHandler.ByMonth)
	salesGroup.Get("/weekday", salesHandler.ByWeekday)
	salesGroup.Get("/zones", salesHandler.ByZone)
	salesGroup.Get("/payment-methods", salesHandler.PaymentMethods)
	salesGroup.Get("/top-clients", salesHandler.TopClients)
	salesGroup.Get("/range", salesHandler.DateRange)
	salesGroup.Get("/month-range", salesHandler.MonthRange)
	salesGroup.Get("/variations", salesHandler.Variations)
	salesGroup.Get("/impacted-clients", salesHandler.ImpactedClients)
	salesGroup.Get("/days-without-sale", salesHandler.DaysWithoutSale)
	protected.Get("/transfers/summary", managers, salesHandler.Transfers)

	// Clientes
	clients := protected.Group("/clients")
	clients.Get("/", salesHandler.Clients)
	clients.Get("/:client/evolution", salesHandler.Evolution)
	clients.Get("/:client/receivables", arHandler.ClientDetail)
	clients.Get("/:client/rfm", analyticsHandler.ClientRFM)

	// Cartera
	ar := protected.Group("/receivables")
	ar.Get("/summary", arHandler.Summary)
	ar.Get("/aging", arHandler.Aging)
	ar.Get("/expirations", arHandler.Expirations)
	ar.Get("/treemap", arHandler.Treemap)

	// Cuotas, convenios, RFM+, riesgo e impactos
	protected.Get("/quotas", managers, analyticsHandler.QuotaBoard)
	protected.Get("/quotas/:seller", analyticsHandler.Quota)
	protected.Get("/convenios", analyticsHandler.Convenios)
	protected.Get("/rfm", analyticsHandler.RFM)
	protected.Delete("/rfm/cache", managers, analyticsHandler.ClearRFMCache)
	protected.Get("/risk", analyticsHandler.Risk)
	protected.Get("/risk/:seller/pdf", analyticsHandler.RiskScorecard)
	protected.Get("/impacts", analyticsHandler.Impacts)

	// Administración
	admin := protected.Group("/admin", managers)
	admin.Post("/reload", adminHandler.Reload)
	admin.Get("/cache", adminHandler.CacheStatus)
}
