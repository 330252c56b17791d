package entity

import "time"

// SalesRecord es una venta registrada por el colaborador de ventas/facturación.
// Para este motor es solo-lectura: alimenta el cálculo de punto de reorden.
type SalesRecord struct {
	ID        string
	CompanyID string
	ProductID string
	Quantity  int64
	SoldAt    time.Time
}
