package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// ErrNotFound cubre también los accesos fuera del tenant: nunca se revela
// la existencia de datos de otra empresa con un "forbidden".
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrTransport    = errors.New("fallo en el transporte de correo")
)
