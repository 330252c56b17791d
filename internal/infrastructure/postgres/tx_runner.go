package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invorya/stock-alerts/internal/application/alerting"
	"github.com/invorya/stock-alerts/internal/application/ledger"
	"github.com/invorya/stock-alerts/internal/domain/repository"
)

// Verificar en tiempo de compilación que TxRunner implementa ambos puertos.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ alerting.SweepTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción para un movimiento del ledger: bloqueo de fila,
// actualización de on_hand y append, con Commit o Rollback como unidad.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductRepository(tx), NewLedgerRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSweep inicia una transacción para la transición de un producto del
// barrido (nivel, registro de alerta y notificación como unidad).
func (r *TxRunner) RunSweep(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	alertRepo repository.AlertRepository,
	notificationRepo repository.NotificationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductRepository(tx), NewAlertRepository(tx), NewNotificationRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
