package repository

import (
	"context"
	"time"

	"github.com/invorya/stock-alerts/internal/domain/entity"
)

// LedgerRepository puerto del libro de inventario. Solo inserciones y lecturas:
// el ledger es el rastro de auditoría y nunca se actualiza ni se borra.
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// ListByProduct devuelve las entradas del producto en orden descendente
	// por fecha. from/to acotan el rango (nil = sin cota).
	ListByProduct(ctx context.Context, productID string, from, to *time.Time) ([]*entity.LedgerEntry, error)
}
