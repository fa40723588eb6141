package http

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
	"github.com/jhoicas/farma-analytics/pkg/jwt"
)

// pinnedSeller devuelve el vendedor fijado por el token de rol vendedor.
func pinnedSeller(c *fiber.Ctx) (string, bool) {
	if GetRole(c) != jwt.RoleVendedor {
		return "", false
	}
	s := GetSeller(c)
	return s, s != ""
}

// sellerFilter filtro de vendedor de la consulta (?seller=). Para el rol
// vendedor se ignora la consulta y se usa su propio nombre.
func sellerFilter(c *fiber.Ctx) entity.Selection {
	if s, ok := pinnedSeller(c); ok {
		return entity.Only(s)
	}
	return entity.ParseSelection(c.Query("seller"))
}

func monthFilter(c *fiber.Ctx) entity.Selection {
	return entity.ParseSelection(c.Query("month"))
}

// param devuelve el parámetro de ruta decodificado.
func param(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(raw)
}

// sellerParam devuelve el vendedor de la ruta; false si el token de
// vendedor intenta consultar a otro.
func sellerParam(c *fiber.Ctx) (string, bool) {
	seller := param(c, "seller")
	if own, ok := pinnedSeller(c); ok && own != seller {
		return seller, false
	}
	return seller, true
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Code: "FORBIDDEN", Message: "solo puede consultar sus propios datos",
	})
}

// csv separa una lista separada por comas descartando vacíos.
func csv(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: msg})
}
