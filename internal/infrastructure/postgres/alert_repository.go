package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/stock-alerts/internal/domain"
	"github.com/invorya/stock-alerts/internal/domain/entity"
	"github.com/invorya/stock-alerts/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository sobre PostgreSQL (usable con
// pool o tx). Un índice único parcial sobre (product_id) WHERE NOT resolved
// respalda el invariante de un solo registro abierto por producto.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de alertas. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste un nuevo registro de alerta abierto.
func (r *AlertRepo) Create(ctx context.Context, record *entity.AlertRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `
		INSERT INTO alerts (id, company_id, product_id, tier, days_of_stock, created_at, resolved, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, NULL)`
	_, err := r.q.Exec(ctx, query,
		record.ID, record.CompanyID, record.ProductID, record.Tier,
		record.DaysOfStock, record.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// ResolveOpen marca como resuelto el registro abierto del producto, si hay.
func (r *AlertRepo) ResolveOpen(ctx context.Context, productID string, at time.Time) error {
	query := `
		UPDATE alerts SET resolved = true, resolved_at = $2
		WHERE product_id = $1 AND resolved = false`
	if _, err := r.q.Exec(ctx, query, productID, at); err != nil {
		return fmt.Errorf("resolve open alert: %w", err)
	}
	return nil
}

// ListOpenByCompany lista los registros abiertos de la empresa, más
// recientes primero.
func (r *AlertRepo) ListOpenByCompany(ctx context.Context, companyID string) ([]*entity.AlertRecord, error) {
	query := `
		SELECT id, company_id, product_id, tier, days_of_stock, created_at, resolved, resolved_at
		FROM alerts
		WHERE company_id = $1 AND resolved = false
		ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list open alerts: %w", err)
	}
	defer rows.Close()

	var list []*entity.AlertRecord
	for rows.Next() {
		var rec entity.AlertRecord
		if err := rows.Scan(&rec.ID, &rec.CompanyID, &rec.ProductID, &rec.Tier,
			&rec.DaysOfStock, &rec.CreatedAt, &rec.Resolved, &rec.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
