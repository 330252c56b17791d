package alerting

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/stock-alerts/internal/application/dto"
	"github.com/invorya/stock-alerts/internal/domain"
	"github.com/invorya/stock-alerts/internal/domain/alert"
	"github.com/invorya/stock-alerts/internal/domain/entity"
	"github.com/invorya/stock-alerts/internal/domain/repository"
	"github.com/invorya/stock-alerts/pkg/logger"
	"github.com/invorya/stock-alerts/pkg/ratelimit"
)

// DispatcherUseCase arma y envía el resumen de alertas abiertas de una
// empresa: consulta el limitador, rebarre para no enviar niveles viejos,
// renderiza el payload y lo entrega al transporte de correo.
type DispatcherUseCase struct {
	limiter          *ratelimit.Limiter
	sweep            *SweepUseCase
	alertRepo        repository.AlertRepository
	notificationRepo repository.NotificationRepository
	companyRepo      repository.CompanyRepository
	mailer           Mailer
	topN             int
	log              *logger.Logger
}

// NewDispatcherUseCase construye el despachador. topN acota cuántas alertas
// individuales lleva el cuerpo del resumen.
func NewDispatcherUseCase(
	limiter *ratelimit.Limiter,
	sweep *SweepUseCase,
	alertRepo repository.AlertRepository,
	notificationRepo repository.NotificationRepository,
	companyRepo repository.CompanyRepository,
	mailer Mailer,
	topN int,
	log *logger.Logger,
) *DispatcherUseCase {
	return &DispatcherUseCase{
		limiter:          limiter,
		sweep:            sweep,
		alertRepo:        alertRepo,
		notificationRepo: notificationRepo,
		companyRepo:      companyRepo,
		mailer:           mailer,
		topN:             topN,
		log:              log,
	}
}

// SendDigest envía el resumen de alertas de la empresa. Si el limitador lo
// deniega no toca ledger ni clasificador. Un fallo del transporte se reporta
// como resultado fallido sin revertir los niveles ya confirmados por el
// barrido: el estado del inventario es verdad independiente de la entrega.
func (uc *DispatcherUseCase) SendDigest(ctx context.Context, companyID string) (*dto.DispatchResult, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}

	if !uc.limiter.Allow(companyID) {
		uc.log.Warn().Str("company_id", companyID).Msg("resumen denegado por límite de envíos")
		return &dto.DispatchResult{Success: false, Reason: dto.ReasonRateLimited}, nil
	}

	// Rebarrer garantiza que el resumen refleja el estado actual y no
	// niveles cacheados de un barrido anterior.
	sweepRes, err := uc.sweep.EvaluateThresholds(ctx, companyID, "")
	if err != nil {
		return nil, err
	}

	open, err := uc.alertRepo.ListOpenByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return &dto.DispatchResult{Success: true, AlertsSent: 0}, nil
	}

	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if company.Email == "" {
		return &dto.DispatchResult{Success: false, Reason: dto.ReasonNoRecipient}, nil
	}

	var redCount, yellowCount int
	for _, rec := range open {
		switch rec.Tier {
		case alert.TierRed:
			redCount++
		case alert.TierYellow:
			yellowCount++
		}
	}

	items := digestItems(sweepRes.Items, open, uc.topN)
	msg := renderDigest(company.Name, redCount, yellowCount, items)

	if err := uc.mailer.Send(ctx, company.Email, msg); err != nil {
		uc.log.Error().Err(err).
			Str("company_id", companyID).
			Str("recipient", company.Email).
			Msg("fallo al entregar el resumen de alertas")
		return &dto.DispatchResult{Success: false, Reason: dto.ReasonTransportError}, nil
	}

	notification := &entity.Notification{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Channel:   entity.NotificationChannelEmail,
		Payload: entity.NotificationPayload{
			Kind:        entity.NotificationKindDigest,
			Message:     msg.Subject,
			RedCount:    redCount,
			YellowCount: yellowCount,
		},
		SentAt: time.Now(),
	}
	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		// El correo ya salió; el registro fallido no convierte el envío
		// en fracaso para el caller.
		uc.log.Error().Err(err).
			Str("company_id", companyID).
			Msg("no se pudo registrar la notificación del resumen enviado")
	}

	return &dto.DispatchResult{Success: true, AlertsSent: len(open)}, nil
}

// Status expone la ventana de envíos de la empresa sin consumir cupo.
func (uc *DispatcherUseCase) Status(companyID string) dto.RateLimitStatusResponse {
	st := uc.limiter.Status(companyID)
	return dto.RateLimitStatusResponse{
		Used:      st.Used,
		Remaining: st.Remaining,
		Limit:     st.Limit,
		ResetAt:   st.ResetAt,
	}
}

// digestItems cruza las alertas abiertas con los resultados del barrido y
// devuelve las topN más urgentes: RED primero, menos días de stock primero.
func digestItems(items []dto.SweepItem, open []*entity.AlertRecord, topN int) []dto.SweepItem {
	byProduct := make(map[string]dto.SweepItem, len(items))
	for _, it := range items {
		byProduct[it.ProductID] = it
	}
	selected := make([]dto.SweepItem, 0, len(open))
	for _, rec := range open {
		if it, ok := byProduct[rec.ProductID]; ok {
			selected = append(selected, it)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.Tier != b.Tier {
			return a.Tier == alert.TierRed
		}
		if !a.DaysOfStock.Equal(b.DaysOfStock) {
			return a.DaysOfStock.LessThan(b.DaysOfStock)
		}
		return a.SKU < b.SKU
	})
	if topN > 0 && len(selected) > topN {
		selected = selected[:topN]
	}
	return selected
}
