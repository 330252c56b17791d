package mail

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/invorya/stock-alerts/internal/application/alerting"
	"github.com/invorya/stock-alerts/internal/domain"
	"github.com/invorya/stock-alerts/pkg/config"
)

var _ alerting.Mailer = (*SMTPSender)(nil)

// SMTPSender entrega el resumen por SMTP vía gomail. El motor solo ve el
// puerto Mailer: éxito o fallo, nada de mecánica de transporte.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender construye el transporte con la configuración SMTP.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send entrega el mensaje renderizado. gomail no acepta context: se chequea
// la cancelación antes de marcar, y un fallo de entrega se envuelve en
// domain.ErrTransport.
func (s *SMTPSender) Send(ctx context.Context, to string, msg alerting.OutboundMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.PlainBody)
	m.AddAlternative("text/html", msg.HTMLBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar resumen a %s: %w: %v", to, domain.ErrTransport, err)
	}
	return nil
}
