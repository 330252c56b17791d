package alerting

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/stock-alerts/internal/application/dto"
	"github.com/invorya/stock-alerts/internal/application/threshold"
	"github.com/invorya/stock-alerts/internal/domain"
	"github.com/invorya/stock-alerts/internal/domain/alert"
	"github.com/invorya/stock-alerts/internal/domain/entity"
	"github.com/invorya/stock-alerts/internal/domain/repository"
	"github.com/invorya/stock-alerts/pkg/logger"
)

// SweepUseCase recorre los productos de una empresa recalculando punto de
// reorden y nivel de alerta. Las transiciones de nivel resuelven el registro
// de alerta abierto y, en subidas, crean uno nuevo más una notificación
// IN_APP. Reevaluar un producto sin cambios no escribe nada: el barrido es
// idempotente.
type SweepUseCase struct {
	txRunner          SweepTxRunner
	calc              *threshold.Calculator
	notifyOnRecovered bool
	log               *logger.Logger
}

// NewSweepUseCase construye el caso de uso de barrido. notifyOnRecovered
// habilita la notificación opcional al volver a nivel NONE (apagada por
// defecto: el silencio en la recuperación evita ruido).
func NewSweepUseCase(txRunner SweepTxRunner, calc *threshold.Calculator, notifyOnRecovered bool, log *logger.Logger) *SweepUseCase {
	return &SweepUseCase{
		txRunner:          txRunner,
		calc:              calc,
		notifyOnRecovered: notifyOnRecovered,
		log:               log,
	}
}

// EvaluateThresholds evalúa todos los productos de la empresa, o solo uno si
// productID no es vacío. Los errores por producto se aíslan en el resultado
// parcial; solo un fallo del almacén aborta el barrido completo. Devuelve
// domain.ErrNotFound si se pidió un producto que la empresa no ve.
func (uc *SweepUseCase) EvaluateThresholds(ctx context.Context, companyID, productID string) (*dto.SweepResult, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}

	var ids []string
	if productID != "" {
		ids = []string{productID}
	}
	stats, statErrs, err := uc.calc.BatchStats(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	if productID != "" && len(stats) == 0 && len(statErrs) == 0 {
		return nil, domain.ErrNotFound
	}

	// Orden determinista por SKU: dos barridos sobre el mismo estado
	// producen la misma secuencia.
	ordered := make([]threshold.Stats, 0, len(stats))
	for _, s := range stats {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Product.SKU < ordered[j].Product.SKU
	})

	result := &dto.SweepResult{
		Items:  make([]dto.SweepItem, 0, len(ordered)),
		Errors: make(map[string]string),
	}
	for id, perr := range statErrs {
		result.Errored++
		result.Errors[id] = perr.Error()
	}

	for _, s := range ordered {
		if err := ctx.Err(); err != nil {
			// Cancelación cooperativa: lo ya confirmado queda, el resto
			// se evalúa en el próximo barrido.
			return result, err
		}
		item, err := uc.evaluateProduct(ctx, s)
		if err != nil {
			uc.log.Error().Err(err).
				Str("company_id", companyID).
				Str("product_id", s.Product.ID).
				Msg("fallo al evaluar producto en el barrido")
			result.Errored++
			result.Errors[s.Product.ID] = err.Error()
			continue
		}
		result.Processed++
		result.Items = append(result.Items, item)
	}
	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result, nil
}

// evaluateProduct aplica la transición de un producto en su propia transacción.
func (uc *SweepUseCase) evaluateProduct(ctx context.Context, s threshold.Stats) (dto.SweepItem, error) {
	p := s.Product
	newTier := alert.Classify(p.OnHand, s.ReorderPoint, p.SafetyStock)
	suggested := alert.SuggestedReorderQuantity(s.ReorderPoint, p.OnHand)

	item := dto.SweepItem{
		ProductID:         p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		OnHand:            p.OnHand,
		OldReorderPoint:   p.ReorderPoint,
		NewReorderPoint:   s.ReorderPoint,
		Tier:              newTier,
		DaysOfStock:       s.DaysOfStock,
		SuggestedQuantity: suggested,
	}

	if s.ReorderPoint == p.ReorderPoint && newTier == p.AlertTier {
		// Sin cambios: ninguna escritura, ningún registro duplicado.
		return item, nil
	}

	err := uc.txRunner.RunSweep(ctx, func(
		productRepo repository.ProductRepository,
		alertRepo repository.AlertRepository,
		notificationRepo repository.NotificationRepository,
	) error {
		now := time.Now()
		if s.ReorderPoint != p.ReorderPoint {
			if err := productRepo.UpdateReorderPoint(ctx, p.ID, s.ReorderPoint); err != nil {
				return err
			}
		}
		if newTier == p.AlertTier {
			return nil
		}
		if err := productRepo.UpdateAlertTier(ctx, p.ID, newTier); err != nil {
			return err
		}
		if err := alertRepo.ResolveOpen(ctx, p.ID, now); err != nil {
			return err
		}
		if newTier == alert.TierNone {
			if !uc.notifyOnRecovered {
				return nil
			}
			return notificationRepo.Create(ctx, uc.recoveredNotification(p, now))
		}
		record := &entity.AlertRecord{
			ID:          uuid.New().String(),
			CompanyID:   p.CompanyID,
			ProductID:   p.ID,
			Tier:        newTier,
			DaysOfStock: s.DaysOfStock,
			CreatedAt:   now,
		}
		if err := alertRepo.Create(ctx, record); err != nil {
			return err
		}
		return notificationRepo.Create(ctx, uc.alertNotification(p, s, newTier, suggested, now))
	})
	if err != nil {
		return dto.SweepItem{}, err
	}

	p.ReorderPoint = s.ReorderPoint
	p.AlertTier = newTier
	return item, nil
}

func (uc *SweepUseCase) alertNotification(p *entity.Product, s threshold.Stats, tier string, suggested int64, now time.Time) *entity.Notification {
	return &entity.Notification{
		ID:        uuid.New().String(),
		CompanyID: p.CompanyID,
		Channel:   entity.NotificationChannelInApp,
		Payload: entity.NotificationPayload{
			Kind:              entity.NotificationKindAlert,
			Message:           alert.Message(tier, p.SKU, p.Name, p.OnHand, suggested),
			SKU:               p.SKU,
			ProductName:       p.Name,
			OnHand:            p.OnHand,
			ReorderPoint:      s.ReorderPoint,
			SafetyStock:       p.SafetyStock,
			Tier:              tier,
			DaysOfStock:       s.DaysOfStock,
			SuggestedQuantity: suggested,
		},
		SentAt: now,
	}
}

func (uc *SweepUseCase) recoveredNotification(p *entity.Product, now time.Time) *entity.Notification {
	return &entity.Notification{
		ID:        uuid.New().String(),
		CompanyID: p.CompanyID,
		Channel:   entity.NotificationChannelInApp,
		Payload: entity.NotificationPayload{
			Kind:        entity.NotificationKindAlert,
			Message:     "El producto " + p.Name + " (" + p.SKU + ") volvió a nivel normal.",
			SKU:         p.SKU,
			ProductName: p.Name,
			OnHand:      p.OnHand,
			Tier:        alert.TierNone,
		},
		SentAt: now,
	}
}
