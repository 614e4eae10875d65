package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// DeliveryTxRunner ejecuta el cambio de estado de una entrega y de su pedido en una transacción.
type DeliveryTxRunner interface {
	RunDelivery(ctx context.Context, fn func(
		deliveryRepo repository.DeliveryRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

var deliveryStatusRank = map[string]int{
	entity.DeliveryStatusPending:   0,
	entity.DeliveryStatusInTransit: 1,
	entity.DeliveryStatusDelivered: 2,
}

// DeliveryUseCase entregas a domicilio y valoraciones.
type DeliveryUseCase struct {
	txRunner     DeliveryTxRunner
	deliveryRepo repository.DeliveryRepository
	orderRepo    repository.OrderRepository
	userRepo     repository.UserRepository
	now          func() time.Time
}

// NewDeliveryUseCase construye el caso de uso.
func NewDeliveryUseCase(
	txRunner DeliveryTxRunner,
	deliveryRepo repository.DeliveryRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
) *DeliveryUseCase {
	return &DeliveryUseCase{
		txRunner:     txRunner,
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		now:          time.Now,
	}
}

// List entregas con total del pedido, repartidor y cliente.
func (uc *DeliveryUseCase) List(ctx context.Context, filter repository.DeliveryFilter) ([]dto.DeliveryResponse, error) {
	list, err := uc.deliveryRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeliveryResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.NewDeliveryResponse(d))
	}
	return out, nil
}

// Create asigna un pedido a un usuario con rol Delivery; la entrega nace PENDING.
func (uc *DeliveryUseCase) Create(ctx context.Context, in dto.CreateDeliveryRequest) (*dto.DeliveryResponse, error) {
	if in.OrderID == "" || in.DeliveryPersonID == "" || in.DeliveryAddress == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if order.OrderStatus == entity.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: el pedido está cancelado", domain.ErrConflict)
	}
	person, err := uc.userRepo.GetByID(ctx, in.DeliveryPersonID)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, domain.ErrUserNotFound
	}
	if person.Role != entity.RoleDelivery {
		return nil, domain.ErrInvalidInput
	}
	d := &entity.Delivery{
		ID:                 uuid.New().String(),
		OrderID:            in.OrderID,
		DeliveryPersonID:   in.DeliveryPersonID,
		DeliveryAddress:    in.DeliveryAddress,
		Status:             entity.DeliveryStatusPending,
		CreatedAt:          uc.now(),
		OrderTotal:         order.TotalAmount,
		DeliveryPersonName: person.FullName,
		CustomerName:       order.CustomerName,
	}
	if err := uc.deliveryRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	out := dto.NewDeliveryResponse(d)
	return &out, nil
}

// UpdateStatus avanza la entrega (PENDING → IN_TRANSIT → DELIVERED). Al llegar a DELIVERED fija
// delivered_at y marca el pedido como DELIVERED en la misma transacción.
func (uc *DeliveryUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.DeliveryResponse, error) {
	next, ok := deliveryStatusRank[status]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	var d *entity.Delivery
	err := uc.txRunner.RunDelivery(ctx, func(deliveryRepo repository.DeliveryRepository, orderRepo repository.OrderRepository) error {
		var err error
		d, err = deliveryRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if next <= deliveryStatusRank[d.Status] {
			return fmt.Errorf("%w: la entrega ya está %s", domain.ErrConflict, d.Status)
		}
		var deliveredAt *time.Time
		if status == entity.DeliveryStatusDelivered {
			now := uc.now()
			deliveredAt = &now
			if err := orderRepo.UpdateOrderStatus(ctx, d.OrderID, entity.OrderStatusDelivered); err != nil {
				return err
			}
		}
		if err := deliveryRepo.UpdateStatus(ctx, id, status, deliveredAt); err != nil {
			return err
		}
		d.Status = status
		d.DeliveredAt = deliveredAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewDeliveryResponse(d)
	return &out, nil
}

// ListFeedback valoraciones más recientes primero.
func (uc *DeliveryUseCase) ListFeedback(ctx context.Context, limit, offset int) ([]dto.FeedbackResponse, error) {
	list, err := uc.deliveryRepo.ListFeedback(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FeedbackResponse, 0, len(list))
	for _, f := range list {
		out = append(out, dto.NewFeedbackResponse(f))
	}
	return out, nil
}

// CreateFeedback registra la valoración (1..5) del usuario sobre un pedido existente.
func (uc *DeliveryUseCase) CreateFeedback(ctx context.Context, userID string, in dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error) {
	if in.OrderID == "" || in.Rating < 1 || in.Rating > 5 {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	f := &entity.Feedback{
		ID:        uuid.New().String(),
		OrderID:   in.OrderID,
		UserID:    userID,
		Message:   in.Message,
		Rating:    in.Rating,
		CreatedAt: uc.now(),
	}
	if err := uc.deliveryRepo.CreateFeedback(ctx, f); err != nil {
		return nil, err
	}
	out := dto.NewFeedbackResponse(f)
	return &out, nil
}
