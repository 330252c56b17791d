package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/invorya/stock-alerts/internal/domain/entity"
	"github.com/invorya/stock-alerts/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx). El filtro por company_id va en cada consulta: un
// producto de otra empresa simplemente no existe para el caller.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, company_id, sku, name, on_hand, reorder_point, safety_stock, lead_time_days, alert_tier, created_at, updated_at`

// GetByID obtiene un producto de la empresa. Devuelve nil, nil si no existe
// o pertenece a otra empresa.
func (r *ProductRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE company_id = $1 AND id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, companyID, id))
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE)
// para serializar deltas concurrentes sobre el mismo on_hand.
func (r *ProductRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE company_id = $1 AND id = $2
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, companyID, id))
}

// ListByCompany lista todos los productos de la empresa en una consulta.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE company_id = $1
		ORDER BY sku`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.OnHand, &p.ReorderPoint,
			&p.SafetyStock, &p.LeadTimeDays, &p.AlertTier, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// UpdateOnHand fija el on_hand del producto. Solo el caso de uso del ledger
// llama esto, y siempre dentro de la misma tx que el append.
func (r *ProductRepo) UpdateOnHand(ctx context.Context, id string, onHand int64, updatedAt time.Time) error {
	query := `UPDATE products SET on_hand = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id, onHand, updatedAt); err != nil {
		return fmt.Errorf("update on_hand: %w", err)
	}
	return nil
}

// UpdateReorderPoint fija el punto de reorden recalculado por el barrido.
func (r *ProductRepo) UpdateReorderPoint(ctx context.Context, id string, reorderPoint int64) error {
	query := `UPDATE products SET reorder_point = $2, updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id, reorderPoint); err != nil {
		return fmt.Errorf("update reorder_point: %w", err)
	}
	return nil
}

// UpdateAlertTier fija el nivel de alerta vigente del producto.
func (r *ProductRepo) UpdateAlertTier(ctx context.Context, id, tier string) error {
	query := `UPDATE products SET alert_tier = $2, updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id, tier); err != nil {
		return fmt.Errorf("update alert_tier: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.OnHand, &p.ReorderPoint,
		&p.SafetyStock, &p.LeadTimeDays, &p.AlertTier, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}
