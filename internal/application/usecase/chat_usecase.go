package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ChatUseCase mensajería simple entre personal y clientes.
type ChatUseCase struct {
	repo     repository.MessageRepository
	userRepo repository.UserRepository
}

// NewChatUseCase construye el caso de uso.
func NewChatUseCase(repo repository.MessageRepository, userRepo repository.UserRepository) *ChatUseCase {
	return &ChatUseCase{repo: repo, userRepo: userRepo}
}

// Send envía un mensaje del usuario autenticado a receiverID.
func (uc *ChatUseCase) Send(ctx context.Context, senderID string, in dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if in.ReceiverID == "" || in.Message == "" || in.ReceiverID == senderID {
		return nil, domain.ErrInvalidInput
	}
	receiver, err := uc.userRepo.GetByID(ctx, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, domain.ErrUserNotFound
	}
	m := &entity.Message{
		ID:           uuid.New().String(),
		SenderID:     senderID,
		ReceiverID:   in.ReceiverID,
		Message:      in.Message,
		SentAt:       time.Now(),
		ReceiverName: receiver.FullName,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	out := dto.NewMessageResponse(m)
	return &out, nil
}

// Messages conversación completa entre el usuario y otherUserID, en orden cronológico.
func (uc *ChatUseCase) Messages(ctx context.Context, userID, otherUserID string) ([]dto.MessageResponse, error) {
	if otherUserID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.ListBetween(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MessageResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.NewMessageResponse(m))
	}
	return out, nil
}

// Conversations contrapartes con las que el usuario ha conversado, la más reciente primero.
func (uc *ChatUseCase) Conversations(ctx context.Context, userID string) ([]dto.ConversationResponse, error) {
	list, err := uc.repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConversationResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ConversationResponse{UserID: c.UserID, FullName: c.FullName, LastMessageTime: c.LastMessageTime})
	}
	return out, nil
}
