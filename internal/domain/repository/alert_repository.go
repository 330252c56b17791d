package repository

import (
	"context"
	"time"

	"github.com/invorya/stock-alerts/internal/domain/entity"
)

// AlertRepository puerto de persistencia para los registros de alerta.
type AlertRepository interface {
	Create(ctx context.Context, record *entity.AlertRecord) error
	// ResolveOpen marca como resuelto el registro abierto del producto, si
	// existe. Resolver sin abierto no es error.
	ResolveOpen(ctx context.Context, productID string, at time.Time) error
	ListOpenByCompany(ctx context.Context, companyID string) ([]*entity.AlertRecord, error)
}
