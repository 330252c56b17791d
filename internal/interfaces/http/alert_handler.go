package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-alerts/internal/application/alerting"
	"github.com/invorya/stock-alerts/internal/application/dto"
	"github.com/invorya/stock-alerts/internal/domain"
)

// AlertHandler maneja el barrido de umbrales y el envío del resumen.
type AlertHandler struct {
	sweep      *alerting.SweepUseCase
	dispatcher *alerting.DispatcherUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(sweep *alerting.SweepUseCase, dispatcher *alerting.DispatcherUseCase) *AlertHandler {
	return &AlertHandler{sweep: sweep, dispatcher: dispatcher}
}

// Evaluate dispara el barrido de umbrales de la empresa; product_id opcional
// limita la evaluación a un producto.
func (h *AlertHandler) Evaluate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	productID := c.Query("product_id")

	result, err := h.sweep.EvaluateThresholds(c.Context(), companyID, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	// 207 cuando hubo fallos por producto: el barrido siguió con el resto.
	status := fiber.StatusOK
	if result.Errored > 0 {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(result)
}

// SendDigest dispara el envío del resumen de alertas abiertas.
func (h *AlertHandler) SendDigest(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)

	result, err := h.dispatcher.SendDigest(c.Context(), companyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if !result.Success && result.Reason == dto.ReasonRateLimited {
		return c.Status(fiber.StatusTooManyRequests).JSON(result)
	}
	return c.JSON(result)
}

// RateLimitStatus expone la ventana de envíos sin consumir cupo.
func (h *AlertHandler) RateLimitStatus(c *fiber.Ctx) error {
	return c.JSON(h.dispatcher.Status(GetCompanyID(c)))
}
