package dto

import (
	"time"

	"github.com/invorya/stock-alerts/internal/domain/entity"
)

// RegisterDeltaRequest cuerpo HTTP para aplicar un delta de inventario.
type RegisterDeltaRequest struct {
	ProductID   string `json:"product_id"`
	Delta       int64  `json:"delta"`
	Source      string `json:"source"`
	ReferenceID string `json:"reference_id,omitempty"`
}

// ProductResponse proyección HTTP de un producto.
type ProductResponse struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	OnHand       int64     `json:"on_hand"`
	ReorderPoint int64     `json:"reorder_point"`
	SafetyStock  int64     `json:"safety_stock"`
	LeadTimeDays int       `json:"lead_time_days"`
	AlertTier    string    `json:"alert_tier"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToProductResponse mapea la entidad a su respuesta HTTP.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		OnHand:       p.OnHand,
		ReorderPoint: p.ReorderPoint,
		SafetyStock:  p.SafetyStock,
		LeadTimeDays: p.LeadTimeDays,
		AlertTier:    p.AlertTier,
		UpdatedAt:    p.UpdatedAt,
	}
}

// LedgerEntryResponse proyección HTTP de una entrada del ledger.
type LedgerEntryResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	QuantityDelta int64     `json:"quantity_delta"`
	QuantityAfter int64     `json:"quantity_after"`
	Source        string    `json:"source"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToLedgerEntryResponse mapea la entidad a su respuesta HTTP.
func ToLedgerEntryResponse(e *entity.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:            e.ID,
		ProductID:     e.ProductID,
		QuantityDelta: e.QuantityDelta,
		QuantityAfter: e.QuantityAfter,
		Source:        e.Source,
		ReferenceID:   e.ReferenceID,
		CreatedAt:     e.CreatedAt,
	}
}
