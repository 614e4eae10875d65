package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// NotificationRepository persistencia de notificaciones.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, error)
	// MarkAsRead marca como leída una notificación del usuario; (nil, nil) si no existe o es de otro.
	MarkAsRead(ctx context.Context, id, userID string) (*entity.Notification, error)
	// ExistsSince indica si ya existe una notificación idéntica creada desde since.
	ExistsSince(ctx context.Context, userID, title, message string, since time.Time) (bool, error)
}
