package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// OrderRepository persistencia de pedidos y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la cabecera del pedido (serializa pagos concurrentes).
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	GetItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
	UpdatePaymentStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// OrderFilter filtros opcionales del listado de pedidos.
type OrderFilter struct {
	OrderStatus   string
	PaymentStatus string
	CustomerID    string
	Limit         int
	Offset        int
}
