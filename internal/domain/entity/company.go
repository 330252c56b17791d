package entity

import "time"

// Company es el tenant dueño de productos, ledger y alertas.
// Para este motor es un directorio mínimo: el correo es el destinatario
// del resumen de alertas.
type Company struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
