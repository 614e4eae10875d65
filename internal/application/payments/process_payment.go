package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/pharmacy"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// MaxIdempotencyKeyLen longitud máxima de la clave de idempotencia (columna VARCHAR(100)).
const MaxIdempotencyKeyLen = 100

// ProcessPaymentUseCase registra un pago, recalcula el estado de pago del pedido y emite el recibo,
// todo en una transacción.
type ProcessPaymentUseCase struct {
	txRunner PaymentTxRunner
	now      func() time.Time
}

// NewProcessPaymentUseCase construye el caso de uso.
func NewProcessPaymentUseCase(txRunner PaymentTxRunner) *ProcessPaymentUseCase {
	return &ProcessPaymentUseCase{txRunner: txRunner, now: time.Now}
}

// PaymentInput entrada tipada de la conciliación.
type PaymentInput struct {
	OrderID              string
	PayerID              string
	Amount               decimal.Decimal
	Method               string
	TransactionReference string
	IdempotencyKey       string // opcional; si se repite para el mismo pedido se devuelve el pago original
}

// ProcessPaymentFromRequest adapta el request HTTP. El header Idempotency-Key tiene prioridad sobre el body.
func (uc *ProcessPaymentUseCase) ProcessPaymentFromRequest(ctx context.Context, payerID, idempotencyKey string, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	key := idempotencyKey
	if key == "" {
		key = in.IdempotencyKey
	}
	return uc.ProcessPayment(ctx, PaymentInput{
		OrderID:              in.OrderID,
		PayerID:              payerID,
		Amount:               in.Amount,
		Method:               in.PaymentMethod,
		TransactionReference: in.TransactionReference,
		IdempotencyKey:       key,
	})
}

// ProcessPayment bloquea el pedido, inserta el pago, suma todos los pagos del pedido,
// deriva PAID/PARTIAL/UNPAID, actualiza el pedido e inserta el recibo.
func (uc *ProcessPaymentUseCase) ProcessPayment(ctx context.Context, in PaymentInput) (*dto.PaymentResponse, error) {
	if in.OrderID == "" || in.PayerID == "" || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidPaymentMethod(in.Method) {
		return nil, domain.ErrInvalidInput
	}
	if len(in.IdempotencyKey) > MaxIdempotencyKeyLen {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	var out dto.PaymentResponse

	err := uc.txRunner.RunPayment(ctx, func(
		orderRepo repository.OrderRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		order, err := orderRepo.GetForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}

		if in.IdempotencyKey != "" {
			prev, err := paymentRepo.GetByIdempotencyKey(ctx, in.IdempotencyKey)
			if err != nil {
				return err
			}
			if prev != nil {
				if prev.OrderID != in.OrderID {
					return domain.ErrIdempotencyConflict
				}
				return uc.replay(ctx, paymentRepo, order, prev, &out)
			}
		}

		payment := &entity.Payment{
			ID:                   uuid.New().String(),
			OrderID:              in.OrderID,
			PaidBy:               in.PayerID,
			Amount:               in.Amount,
			Method:               in.Method,
			TransactionReference: in.TransactionReference,
			IdempotencyKey:       in.IdempotencyKey,
			CreatedAt:            now,
		}
		if err := paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		totalPaid, err := paymentRepo.SumByOrder(ctx, in.OrderID)
		if err != nil {
			return err
		}
		status := pharmacy.DerivePaymentStatus(totalPaid, order.TotalAmount)
		if err := orderRepo.UpdatePaymentStatus(ctx, in.OrderID, status); err != nil {
			return err
		}

		receipt := &entity.Receipt{
			ID:        uuid.New().String(),
			PaymentID: payment.ID,
			PrintedBy: in.PayerID,
			CreatedAt: now,
		}
		if err := paymentRepo.CreateReceipt(ctx, receipt); err != nil {
			return err
		}

		out = dto.NewPaymentResponse(payment)
		out.OrderPaymentStatus = status
		out.TotalPaid = &totalPaid
		out.ReceiptID = receipt.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// replay arma la respuesta de un pago ya registrado con la misma clave; no escribe nada.
func (uc *ProcessPaymentUseCase) replay(
	ctx context.Context,
	paymentRepo repository.PaymentRepository,
	order *entity.Order,
	prev *entity.Payment,
	out *dto.PaymentResponse,
) error {
	totalPaid, err := paymentRepo.SumByOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	receipt, err := paymentRepo.GetReceiptByPayment(ctx, prev.ID)
	if err != nil {
		return err
	}
	*out = dto.NewPaymentResponse(prev)
	out.OrderPaymentStatus = order.PaymentStatus
	out.TotalPaid = &totalPaid
	out.Replayed = true
	if receipt != nil {
		out.ReceiptID = receipt.ID
	}
	return nil
}
