package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/stock-alerts/internal/domain/entity"
)

// Razones de fallo de un envío de resumen.
const (
	ReasonRateLimited    = "RATE_LIMITED"
	ReasonTransportError = "TRANSPORT_ERROR"
	ReasonNoRecipient    = "NO_RECIPIENT"
)

// SweepItem resultado de la evaluación de umbrales de un producto.
type SweepItem struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	OnHand            int64           `json:"on_hand"`
	OldReorderPoint   int64           `json:"old_reorder_point"`
	NewReorderPoint   int64           `json:"new_reorder_point"`
	Tier              string          `json:"tier"`
	DaysOfStock       decimal.Decimal `json:"days_of_stock"`
	SuggestedQuantity int64           `json:"suggested_quantity"`
}

// SweepResult resultado de un barrido de umbrales sobre la empresa.
// Un barrido parcialmente fallido no es un booleano: reporta cuántos
// productos se procesaron y el detalle por producto de los que fallaron.
type SweepResult struct {
	Items     []SweepItem       `json:"items"`
	Processed int               `json:"processed"`
	Errored   int               `json:"errored"`
	Errors    map[string]string `json:"errors,omitempty"` // product_id -> detalle
}

// DispatchResult resultado de un envío de resumen de alertas.
// Reason distingue "denegado" (RATE_LIMITED) y "entrega fallida"
// (TRANSPORT_ERROR) de "nada que enviar" (Success con AlertsSent=0).
type DispatchResult struct {
	Success    bool   `json:"success"`
	AlertsSent int    `json:"alerts_sent"`
	Reason     string `json:"reason,omitempty"`
}

// NotificationResponse proyección HTTP de una notificación.
type NotificationResponse struct {
	ID      string                     `json:"id"`
	Channel string                     `json:"channel"`
	Payload entity.NotificationPayload `json:"payload"`
	SentAt  time.Time                  `json:"sent_at"`
	ReadAt  *time.Time                 `json:"read_at,omitempty"`
}

// ToNotificationResponse mapea la entidad a su respuesta HTTP.
func ToNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:      n.ID,
		Channel: n.Channel,
		Payload: n.Payload,
		SentAt:  n.SentAt,
		ReadAt:  n.ReadAt,
	}
}

// RateLimitStatusResponse estado de la ventana de envíos de la empresa.
type RateLimitStatusResponse struct {
	Used      int       `json:"used"`
	Remaining int       `json:"remaining"`
	Limit     int       `json:"limit"`
	ResetAt   time.Time `json:"reset_at"`
}
