package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// PaymentRepository persistencia de pagos y recibos.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Payment, error)
	// SumByOrder total pagado del pedido (0 si no hay pagos).
	SumByOrder(ctx context.Context, orderID string) (decimal.Decimal, error)
	List(ctx context.Context, filter PaymentFilter) ([]*entity.Payment, error)

	CreateReceipt(ctx context.Context, r *entity.Receipt) error
	GetReceipt(ctx context.Context, id string) (*entity.Receipt, error)
	GetReceiptByPayment(ctx context.Context, paymentID string) (*entity.Receipt, error)
	ListReceipts(ctx context.Context, limit, offset int) ([]*entity.Receipt, error)
}

// PaymentFilter filtros del listado de pagos.
type PaymentFilter struct {
	OrderID string
	Limit   int
	Offset  int
}
