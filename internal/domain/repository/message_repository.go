package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// MessageRepository persistencia del chat.
type MessageRepository interface {
	Create(ctx context.Context, m *entity.Message) error
	// ListBetween mensajes en ambos sentidos entre dos usuarios, del más antiguo al más reciente.
	ListBetween(ctx context.Context, userA, userB string) ([]*entity.Message, error)
	ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error)
}
