package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo notificaciones por usuario sobre PostgreSQL.
type NotificationRepo struct {
	db Querier
}

// NewNotificationRepository construye el adaptador de notificaciones.
func NewNotificationRepository(db Querier) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create persiste una notificación.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.UserID, n.Title, n.Message, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return dbError("insert notification", err)
	}
	return nil
}

// ListByUser notificaciones del usuario, más recientes primero.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, message, is_read, created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC, id LIMIT NULLIF($2::int, 0) OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, dbError("list notifications", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, dbError("scan notification", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// MarkAsRead marca como leída la notificación si pertenece al usuario.
func (r *NotificationRepo) MarkAsRead(ctx context.Context, id, userID string) (*entity.Notification, error) {
	var n entity.Notification
	err := r.db.QueryRow(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, message, is_read, created_at`,
		id, userID,
	).Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("mark notification as read", err)
	}
	return &n, nil
}

// ExistsSince indica si ya existe una notificación idéntica para el usuario desde since.
func (r *NotificationRepo) ExistsSince(ctx context.Context, userID, title, message string, since time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND title = $2 AND message = $3 AND created_at >= $4
		)`, userID, title, message, since,
	).Scan(&exists)
	if err != nil {
		return false, dbError("check notification", err)
	}
	return exists, nil
}
