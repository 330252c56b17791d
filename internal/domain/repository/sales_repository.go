package repository

import (
	"context"
	"time"
)

// SalesRepository lectura de historial de ventas (dato del colaborador de
// facturación, solo-lectura para este motor).
type SalesRepository interface {
	// TotalsSoldSince devuelve, en una sola consulta agregada, el total de
	// unidades vendidas por producto desde la fecha dada. Los productos sin
	// ventas no aparecen en el mapa.
	TotalsSoldSince(ctx context.Context, companyID string, since time.Time) (map[string]int64, error)
}
