package ordering

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// OrderUseCase consultas y mantenimiento de pedidos fuera del flujo de creación.
type OrderUseCase struct {
	orderRepo repository.OrderRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orderRepo repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orderRepo: orderRepo}
}

// List pedidos más recientes primero, con filtros opcionales.
func (uc *OrderUseCase) List(ctx context.Context, filter repository.OrderFilter) (*dto.OrderListResponse, error) {
	list, err := uc.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}
	for _, o := range list {
		out.Items = append(out.Items, dto.NewOrderResponse(o, nil))
	}
	return out, nil
}

// GetByID pedido con sus líneas. Retorna (nil, nil) si no existe.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	items, err := uc.orderRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewOrderResponse(o, items)
	return &out, nil
}

// Update cambia order_status y/o payment_status.
// order_status solo transiciona desde PENDING (DELIVERED y CANCELLED son finales).
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	if in.OrderStatus == "" && in.PaymentStatus == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.OrderStatus != "" && !entity.IsValidOrderStatus(in.OrderStatus) {
		return nil, domain.ErrInvalidInput
	}
	if in.PaymentStatus != "" && !entity.IsValidPaymentStatus(in.PaymentStatus) {
		return nil, domain.ErrInvalidInput
	}
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	if in.OrderStatus != "" && in.OrderStatus != o.OrderStatus {
		if o.OrderStatus != entity.OrderStatusPending {
			return nil, fmt.Errorf("%w: el pedido ya está %s", domain.ErrConflict, o.OrderStatus)
		}
		if err := uc.orderRepo.UpdateOrderStatus(ctx, id, in.OrderStatus); err != nil {
			return nil, err
		}
	}
	if in.PaymentStatus != "" && in.PaymentStatus != o.PaymentStatus {
		if err := uc.orderRepo.UpdatePaymentStatus(ctx, id, in.PaymentStatus); err != nil {
			return nil, err
		}
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina un pedido sin pagos (los pagos referencian al pedido).
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		return domain.ErrOrderNotFound
	}
	return uc.orderRepo.Delete(ctx, id)
}
