package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-alerts/internal/application/dto"
	"github.com/invorya/stock-alerts/internal/domain"
	"github.com/invorya/stock-alerts/internal/domain/repository"
)

const defaultUnreadLimit = 50

// NotificationHandler maneja la bandeja de notificaciones de la empresa.
type NotificationHandler struct {
	repo repository.NotificationRepository
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(repo repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

// ListUnread devuelve las notificaciones no leídas, más recientes primero.
func (h *NotificationHandler) ListUnread(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	limit := c.QueryInt("limit", defaultUnreadLimit)
	if limit < 1 {
		limit = defaultUnreadLimit
	}

	list, err := h.repo.ListUnread(c.Context(), companyID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, dto.ToNotificationResponse(n))
	}
	return c.JSON(fiber.Map{"data": out, "count": len(out)})
}

// MarkRead marca una notificación como leída.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if err := h.repo.MarkRead(c.Context(), companyID, c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "notificación no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "notificación leída"})
}

// MarkAllRead marca todas las no leídas y devuelve cuántas fueron.
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	count, err := h.repo.MarkAllRead(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"marked": count})
}

// Delete borra una notificación (acción explícita del usuario).
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if err := h.repo.Delete(c.Context(), companyID, c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "notificación no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "notificación eliminada"})
}
