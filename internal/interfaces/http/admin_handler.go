package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farma-analytics/internal/application/engine"
)

// AdminHandler recarga de datos y estado del caché.
type AdminHandler struct {
	eng *engine.Engine
}

// NewAdminHandler construye el handler.
func NewAdminHandler(eng *engine.Engine) *AdminHandler {
	return &AdminHandler{eng: eng}
}

// Reload godoc
// @Summary      Recarga los datos desde la fuente
// @Description  Si la carga falla se conservan los datos anteriores y se responde 503.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReloadResultDTO
// @Failure      503  {object}  dto.ReloadResultDTO
// @Router       /api/admin/reload [post]
func (h *AdminHandler) Reload(c *fiber.Ctx) error {
	res := h.eng.ReloadData(c.UserContext())
	if !res.Success {
		return c.Status(fiber.StatusServiceUnavailable).JSON(res)
	}
	return c.JSON(res)
}

// CacheStatus godoc
// @Summary      Estado de los datos en memoria y del caché
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CacheStatusDTO
// @Router       /api/admin/cache [get]
func (h *AdminHandler) CacheStatus(c *fiber.Ctx) error {
	return c.JSON(h.eng.CacheStatus(c.UserContext()))
}
