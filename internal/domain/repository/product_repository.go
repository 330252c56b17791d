package repository

import (
	"context"
	"time"

	"github.com/invorya/stock-alerts/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos.
// Todas las lecturas van filtradas por empresa: un ID de otra empresa se
// comporta como inexistente (nil, nil).
type ProductRepository interface {
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Product, error)
	UpdateOnHand(ctx context.Context, id string, onHand int64, updatedAt time.Time) error
	UpdateReorderPoint(ctx context.Context, id string, reorderPoint int64) error
	UpdateAlertTier(ctx context.Context, id, tier string) error
}
