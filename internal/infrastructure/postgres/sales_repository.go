package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/invorya/stock-alerts/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

// SalesRepo lectura agregada del historial de ventas (tabla del colaborador
// de facturación; este motor nunca la escribe).
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

// TotalsSoldSince agrega en una sola consulta las unidades vendidas por
// producto de la empresa desde la fecha dada. El barrido depende de que esto
// sea una consulta, no n.
func (r *SalesRepo) TotalsSoldSince(ctx context.Context, companyID string, since time.Time) (map[string]int64, error) {
	const query = `
		SELECT product_id, COALESCE(SUM(quantity), 0) AS total_sold
		FROM sales
		WHERE company_id = $1 AND sold_at >= $2
		GROUP BY product_id`

	rows, err := r.q.Query(ctx, query, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("totals sold since: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int64)
	for rows.Next() {
		var productID string
		var total int64
		if err := rows.Scan(&productID, &total); err != nil {
			return nil, fmt.Errorf("scan sales total: %w", err)
		}
		totals[productID] = total
	}
	return totals, rows.Err()
}
