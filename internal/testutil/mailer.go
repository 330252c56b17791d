package testutil

import (
	"context"
	"sync"

	"github.com/invorya/stock-alerts/internal/application/alerting"
)

// SentMail es un correo capturado por el mailer de prueba.
type SentMail struct {
	To      string
	Message alerting.OutboundMessage
}

// Mailer implementa alerting.Mailer capturando envíos en memoria.
// Err, si se fija, hace fallar todos los envíos sin registrarlos.
type Mailer struct {
	mu   sync.Mutex
	Err  error
	sent []SentMail
}

var _ alerting.Mailer = (*Mailer)(nil)

// Send captura el correo o devuelve el error inyectado.
func (m *Mailer) Send(ctx context.Context, to string, msg alerting.OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, SentMail{To: to, Message: msg})
	return nil
}

// Sent devuelve los correos capturados en orden de envío.
func (m *Mailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMail(nil), m.sent...)
}
