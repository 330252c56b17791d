package repository

import (
	"context"

	"github.com/invorya/stock-alerts/internal/domain/entity"
)

// NotificationRepository puerto de persistencia para notificaciones.
// MarkRead y Delete filtran por empresa: sobre un ID ajeno devuelven
// domain.ErrNotFound, nunca un "forbidden".
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// ListUnread devuelve las no leídas más recientes primero, hasta limit.
	ListUnread(ctx context.Context, companyID string, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, companyID, id string) error
	// MarkAllRead marca todas las no leídas de la empresa y devuelve cuántas.
	MarkAllRead(ctx context.Context, companyID string) (int64, error)
	Delete(ctx context.Context, companyID, id string) error
}
