package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertRecord es el estado derivado de alerta de un producto.
// Existe a lo sumo un registro abierto (Resolved=false) por producto;
// una transición de nivel resuelve el abierto y crea uno nuevo solo si el
// nivel cambió, lo que evita tormentas de alertas por estado sin cambios.
// DaysOfStock es la foto al momento de abrir el registro (columna NUMERIC).
type AlertRecord struct {
	ID          string
	CompanyID   string
	ProductID   string
	Tier        string
	DaysOfStock decimal.Decimal
	CreatedAt   time.Time
	Resolved    bool
	ResolvedAt  *time.Time
}
