package alerting

import (
	"context"

	"github.com/invorya/stock-alerts/internal/domain/repository"
)

// SweepTxRunner ejecuta la transición de un producto dentro de su propia
// transacción. Cada producto es su propia frontera de commit: el fallo de
// uno no revierte ni aborta a los demás.
type SweepTxRunner interface {
	RunSweep(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		alertRepo repository.AlertRepository,
		notificationRepo repository.NotificationRepository,
	) error) error
}

// OutboundMessage es el payload ya renderizado que se entrega al transporte
// de correo. El motor no conoce la mecánica SMTP, solo éxito o fallo.
type OutboundMessage struct {
	Subject   string
	HTMLBody  string
	PlainBody string
}

// Mailer puerto del transporte de correo saliente.
type Mailer interface {
	Send(ctx context.Context, to string, msg OutboundMessage) error
}
