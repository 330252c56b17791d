package repository

import (
	"context"

	"github.com/invorya/stock-alerts/internal/domain/entity"
)

// CompanyRepository directorio mínimo de tenants (destinatario del resumen).
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// ListIDs devuelve todos los tenants, para el barrido programado.
	ListIDs(ctx context.Context) ([]string, error)
}
