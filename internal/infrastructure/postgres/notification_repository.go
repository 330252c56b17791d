package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/invorya/stock-alerts/internal/domain"
	"github.com/invorya/stock-alerts/internal/domain/entity"
	"github.com/invorya/stock-alerts/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación de NotificationRepository sobre PostgreSQL
// (usable con pool o tx). El payload viaja como JSONB; MarkRead y Delete
// filtran por company_id y devuelven ErrNotFound sobre IDs ajenos.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador de notificaciones. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create persiste una notificación con su payload serializado.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	query := `
		INSERT INTO notifications (id, company_id, channel, payload, sent_at, read_at)
		VALUES ($1, $2, $3, $4, $5, NULL)`
	if _, err := r.q.Exec(ctx, query, n.ID, n.CompanyID, n.Channel, payload, n.SentAt); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListUnread lista las no leídas de la empresa, más recientes primero.
func (r *NotificationRepo) ListUnread(ctx context.Context, companyID string, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT id, company_id, channel, payload, sent_at, read_at
		FROM notifications
		WHERE company_id = $1 AND read_at IS NULL
		ORDER BY sent_at DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	defer rows.Close()

	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var payload []byte
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.Channel, &payload, &n.SentAt, &n.ReadAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if err := json.Unmarshal(payload, &n.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal notification payload: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// MarkRead marca una notificación de la empresa como leída.
func (r *NotificationRepo) MarkRead(ctx context.Context, companyID, id string) error {
	query := `
		UPDATE notifications SET read_at = now()
		WHERE company_id = $1 AND id = $2 AND read_at IS NULL`
	tag, err := r.q.Exec(ctx, query, companyID, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marca todas las no leídas de la empresa; devuelve cuántas.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, companyID string) (int64, error) {
	query := `
		UPDATE notifications SET read_at = now()
		WHERE company_id = $1 AND read_at IS NULL`
	tag, err := r.q.Exec(ctx, query, companyID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete borra una notificación de la empresa (acción explícita del usuario).
func (r *NotificationRepo) Delete(ctx context.Context, companyID, id string) error {
	query := `DELETE FROM notifications WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, companyID, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
