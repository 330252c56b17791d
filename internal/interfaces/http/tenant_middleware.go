package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-alerts/internal/application/dto"
)

const companyIDLocal = "company_id"

// TenantMiddleware carga el scope de tenant desde la cabecera X-Company-ID.
// La autenticación real es un colaborador externo a este motor: lo que sea
// que haga de frente (gateway, capa de identidad) inyecta esta cabecera ya
// verificada. Sin scope no se atiende la petición.
func TenantMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := c.Get("X-Company-ID")
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "UNAUTHORIZED", Message: "falta el scope de empresa",
			})
		}
		c.Locals(companyIDLocal, companyID)
		return c.Next()
	}
}

// GetCompanyID devuelve el scope de tenant cargado por el middleware.
func GetCompanyID(c *fiber.Ctx) string {
	if v, ok := c.Locals(companyIDLocal).(string); ok {
		return v
	}
	return ""
}
