package entity

import "time"

// Product representa un producto o SKU del inventario de una empresa.
// OnHand es derivado: su único camino de mutación es el registro de un
// movimiento en el libro de inventario (ledger). ReorderPoint se recalcula
// en cada barrido a partir del historial de ventas; AlertTier es el nivel
// de alerta vigente (NONE, YELLOW, RED).
type Product struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Name         string
	OnHand       int64
	ReorderPoint int64
	SafetyStock  int64
	LeadTimeDays int // días de reposición del proveedor, mínimo 1
	AlertTier    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
