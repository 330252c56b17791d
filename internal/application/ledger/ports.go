package ledger

import (
	"context"

	"github.com/invorya/stock-alerts/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. La actualización del on_hand y el append al
// ledger deben confirmarse como unidad: una aplicación parcial rompe la
// reconciliación del libro.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}
