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

// NotificationUseCase avisos por usuario.
type NotificationUseCase struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository, userRepo repository.UserRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo, userRepo: userRepo}
}

// ListForUser notificaciones del usuario, más recientes primero.
func (uc *NotificationUseCase) ListForUser(ctx context.Context, userID string, limit, offset int) ([]dto.NotificationResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, dto.NewNotificationResponse(n))
	}
	return out, nil
}

// Create aviso manual a un usuario existente.
func (uc *NotificationUseCase) Create(ctx context.Context, in dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	if in.UserID == "" || in.Title == "" || in.Message == "" {
		return nil, domain.ErrInvalidInput
	}
	u, err := uc.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    in.UserID,
		Title:     in.Title,
		Message:   in.Message,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	out := dto.NewNotificationResponse(n)
	return &out, nil
}

// MarkAsRead marca como leída una notificación propia; ajena o inexistente es domain.ErrNotFound.
func (uc *NotificationUseCase) MarkAsRead(ctx context.Context, userID, id string) (*dto.NotificationResponse, error) {
	n, err := uc.repo.MarkAsRead(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewNotificationResponse(n)
	return &out, nil
}
