package payments

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// PaymentTxRunner ejecuta la conciliación de un pago dentro de una transacción.
type PaymentTxRunner interface {
	RunPayment(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// ReceiptPDFGenerator genera la versión imprimible de un recibo.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, data ReceiptDocument) ([]byte, error)
}

// ReceiptDocument datos necesarios para imprimir un recibo.
type ReceiptDocument struct {
	PharmacyName string
	Receipt      *entity.Receipt
	Payment      *entity.Payment
	Order        *entity.Order
	Items        []*entity.OrderItem
}
