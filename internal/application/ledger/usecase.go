package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invorya/stock-alerts/internal/domain"
	"github.com/invorya/stock-alerts/internal/domain/entity"
	"github.com/invorya/stock-alerts/internal/domain/repository"
	"github.com/invorya/stock-alerts/pkg/logger"
)

// UseCase registra mutaciones de inventario de forma transaccional.
// Cada delta bloquea la fila del producto (SELECT FOR UPDATE), actualiza el
// on_hand y deja una entrada inmutable en el ledger, todo en una transacción.
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
	log         *logger.Logger
}

// NewUseCase construye el caso de uso del ledger.
func NewUseCase(txRunner TxRunner, productRepo repository.ProductRepository, ledgerRepo repository.LedgerRepository, log *logger.Logger) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
		log:         log,
	}
}

// ApplyDeltaInput entrada para registrar un cambio de inventario.
// Delta es con signo; Source etiqueta el origen (manual, sale, csv, nombre
// del conector); ReferenceID es correlación externa opcional.
type ApplyDeltaInput struct {
	CompanyID   string
	ProductID   string
	Delta       int64
	Source      string
	ReferenceID string
}

// ApplyDelta aplica un delta de inventario a un producto de la empresa.
// Un resultado negativo se fija en cero en lugar de rechazarse; el delta
// solicitado queda íntegro en el ledger, así que el recorte es auditable
// comparando quantity_delta contra quantity_after. Devuelve el producto ya
// actualizado o domain.ErrNotFound si el producto no es visible para la
// empresa.
func (uc *UseCase) ApplyDelta(ctx context.Context, input ApplyDeltaInput) (*entity.Product, error) {
	if input.CompanyID == "" || input.ProductID == "" || input.Source == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		// Bloquea la fila del producto para serializar deltas concurrentes
		product, err := productRepo.GetForUpdate(ctx, input.CompanyID, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		newQuantity := product.OnHand + input.Delta
		if newQuantity < 0 {
			uc.log.Warn().
				Str("product_id", product.ID).
				Str("source", input.Source).
				Int64("on_hand", product.OnHand).
				Int64("delta", input.Delta).
				Msg("delta dejaría on_hand negativo; se fija en cero")
			newQuantity = 0
		}

		if err := productRepo.UpdateOnHand(ctx, product.ID, newQuantity, now); err != nil {
			return err
		}
		entry := &entity.LedgerEntry{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			QuantityDelta: input.Delta,
			QuantityAfter: newQuantity,
			Source:        input.Source,
			ReferenceID:   input.ReferenceID,
			CreatedAt:     now,
		}
		if err := ledgerRepo.Append(ctx, entry); err != nil {
			return err
		}

		product.OnHand = newQuantity
		product.UpdatedAt = now
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListLedger devuelve las entradas del producto en orden descendente por
// fecha, acotadas por from/to. Si el producto no es visible para la empresa
// devuelve una secuencia vacía, no un error: listar no revela existencia.
func (uc *UseCase) ListLedger(ctx context.Context, companyID, productID string, from, to *time.Time) ([]*entity.LedgerEntry, error) {
	if companyID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return []*entity.LedgerEntry{}, nil
	}
	return uc.ledgerRepo.ListByProduct(ctx, productID, from, to)
}
