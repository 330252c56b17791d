package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-alerts/internal/application/dto"
	"github.com/invorya/stock-alerts/internal/application/ledger"
	"github.com/invorya/stock-alerts/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP del ledger de inventario.
type InventoryHandler struct {
	uc *ledger.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *ledger.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterDelta aplica un delta de inventario y devuelve el producto actualizado.
func (h *InventoryHandler) RegisterDelta(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)

	var in dto.RegisterDeltaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	product, err := h.uc.ApplyDelta(c.Context(), ledger.ApplyDeltaInput{
		CompanyID:   companyID,
		ProductID:   in.ProductID,
		Delta:       in.Delta,
		Source:      in.Source,
		ReferenceID: in.ReferenceID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(product))
}

// ListLedger devuelve el historial del ledger de un producto, más reciente
// primero. Un producto no visible responde lista vacía, no 404.
func (h *InventoryHandler) ListLedger(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	productID := c.Params("id")

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}

	entries, err := h.uc.ListLedger(c.Context(), companyID, productID, from, to)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToLedgerEntryResponse(e))
	}
	return c.JSON(fiber.Map{"data": out, "count": len(out)})
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
