package postgres

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.MessageRepository = (*MessageRepo)(nil)

// MessageRepo mensajes de chat sobre PostgreSQL.
type MessageRepo struct {
	db Querier
}

// NewMessageRepository construye el adaptador de chat.
func NewMessageRepository(db Querier) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create persiste un mensaje.
func (r *MessageRepo) Create(ctx context.Context, m *entity.Message) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, message, sent_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.SenderID, m.ReceiverID, m.Message, m.SentAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return dbError("insert message", err)
	}
	return nil
}

type messageRow struct {
	ID           string    `db:"id"`
	SenderID     string    `db:"sender_id"`
	ReceiverID   string    `db:"receiver_id"`
	Message      string    `db:"message"`
	SentAt       time.Time `db:"sent_at"`
	SenderName   string    `db:"sender_name"`
	ReceiverName string    `db:"receiver_name"`
}

// ListBetween mensajes entre dos usuarios en ambos sentidos, en orden cronológico.
func (r *MessageRepo) ListBetween(ctx context.Context, userA, userB string) ([]*entity.Message, error) {
	query := `
		SELECT m.id, m.sender_id, m.receiver_id, m.message, m.sent_at,
		       s.full_name AS sender_name, rc.full_name AS receiver_name
		FROM messages m
		JOIN users s ON s.id = m.sender_id
		JOIN users rc ON rc.id = m.receiver_id
		WHERE (m.sender_id = $1 AND m.receiver_id = $2)
		   OR (m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.sent_at, m.id`
	var rows []messageRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, userA, userB); err != nil {
		return nil, dbError("list messages", err)
	}
	out := make([]*entity.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Message{
			ID: row.ID, SenderID: row.SenderID, ReceiverID: row.ReceiverID, Message: row.Message,
			SentAt: row.SentAt, SenderName: row.SenderName, ReceiverName: row.ReceiverName,
		})
	}
	return out, nil
}

type conversationRow struct {
	UserID          string    `db:"user_id"`
	FullName        string    `db:"full_name"`
	LastMessageTime time.Time `db:"last_message_time"`
}

// ListConversations interlocutores del usuario con la hora del último mensaje, más recientes primero.
func (r *MessageRepo) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	query := `
		SELECT u.id AS user_id, u.full_name, MAX(m.sent_at) AS last_message_time
		FROM messages m
		JOIN users u ON u.id = CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		GROUP BY u.id, u.full_name
		ORDER BY last_message_time DESC`
	var rows []conversationRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, userID); err != nil {
		return nil, dbError("list conversations", err)
	}
	out := make([]*entity.Conversation, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Conversation{UserID: row.UserID, FullName: row.FullName, LastMessageTime: row.LastMessageTime})
	}
	return out, nil
}
