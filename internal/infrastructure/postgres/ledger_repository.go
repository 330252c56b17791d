package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/stock-alerts/internal/domain/entity"
	"github.com/invorya/stock-alerts/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del libro de inventario sobre PostgreSQL
// (usable con pool o tx). La tabla inventory_ledger es solo-append: este
// adaptador no tiene UPDATE ni DELETE a propósito.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append persiste una entrada del ledger.
func (r *LedgerRepo) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_ledger (id, product_id, quantity_delta, quantity_after, source, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	referenceID := (*string)(nil)
	if entry.ReferenceID != "" {
		referenceID = &entry.ReferenceID
	}
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.ProductID, entry.QuantityDelta, entry.QuantityAfter,
		entry.Source, referenceID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// ListByProduct lista las entradas del producto en un rango de fechas,
// más recientes primero.
func (r *LedgerRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, product_id, quantity_delta, quantity_after, source, reference_id, created_at
		FROM inventory_ledger WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var referenceID *string
		if err := rows.Scan(&e.ID, &e.ProductID, &e.QuantityDelta, &e.QuantityAfter,
			&e.Source, &referenceID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if referenceID != nil {
			e.ReferenceID = *referenceID
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
