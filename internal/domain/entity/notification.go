package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canales de entrega de notificaciones.
const (
	NotificationChannelInApp = "IN_APP"
	NotificationChannelEmail = "EMAIL"
)

// Tipos de payload de notificación.
const (
	NotificationKindAlert  = "ALERT"  // alerta individual de producto
	NotificationKindDigest = "DIGEST" // resumen de alertas enviado por correo
)

// NotificationPayload es la foto estructurada que viaja con la notificación.
// Registro etiquetado por Kind: los campos de producto aplican a ALERT y los
// conteos por nivel a DIGEST. Se persiste como JSONB.
type NotificationPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`

	// Campos de alerta individual (Kind=ALERT)
	SKU               string          `json:"sku,omitempty"`
	ProductName       string          `json:"product_name,omitempty"`
	OnHand            int64           `json:"on_hand,omitempty"`
	ReorderPoint      int64           `json:"reorder_point,omitempty"`
	SafetyStock       int64           `json:"safety_stock,omitempty"`
	Tier              string          `json:"tier,omitempty"`
	DaysOfStock       decimal.Decimal `json:"days_of_stock,omitempty"`
	SuggestedQuantity int64           `json:"suggested_quantity,omitempty"`

	// Conteos del resumen (Kind=DIGEST)
	RedCount    int `json:"red_count,omitempty"`
	YellowCount int `json:"yellow_count,omitempty"`
}

// Notification es la proyección de entrega de un AlertRecord o de un resumen.
// Solo muta ReadAt; el borrado es acción explícita del usuario.
type Notification struct {
	ID        string
	CompanyID string
	Channel   string
	Payload   NotificationPayload
	SentAt    time.Time
	ReadAt    *time.Time
}
