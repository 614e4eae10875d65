package ordering

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/pharmacy"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// CreateOrderUseCase crea un pedido y descuenta el stock de los lotes en una sola transacción.
type CreateOrderUseCase struct {
	txRunner OrderTxRunner
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewCreateOrderUseCase construye el caso de uso.
func NewCreateOrderUseCase(txRunner OrderTxRunner, userRepo repository.UserRepository) *CreateOrderUseCase {
	return &CreateOrderUseCase{txRunner: txRunner, userRepo: userRepo, now: time.Now}
}

// OrderInput entrada tipada y ya validada en el borde HTTP.
type OrderInput struct {
	CustomerID string
	ActorID    string // personal que registra el pedido (ordered_by)
	Lines      []OrderLine
	Discount   decimal.Decimal
}

// OrderLine línea del pedido en el orden recibido.
type OrderLine struct {
	BatchID    string
	Quantity   int
	UnitPrice  decimal.Decimal
	VATPercent decimal.Decimal
}

// CreateOrderFromRequest adapta el request HTTP al caso de uso CreateOrder(ctx, OrderInput).
func (uc *CreateOrderUseCase) CreateOrderFromRequest(ctx context.Context, actorID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	input := OrderInput{
		CustomerID: in.CustomerID,
		ActorID:    actorID,
		Discount:   in.Discount,
	}
	for _, it := range in.Items {
		input.Lines = append(input.Lines, OrderLine{
			BatchID:    it.BatchID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			VATPercent: it.VATPercent,
		})
	}
	return uc.CreateOrder(ctx, input)
}

// CreateOrder valida la entrada, inserta cabecera y líneas, descuenta cada lote con bloqueo de fila
// (SELECT FOR UPDATE) y registra un movimiento OUT por línea. Todo o nada.
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, in OrderInput) (*dto.OrderResponse, error) {
	if in.CustomerID == "" || in.ActorID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]pharmacy.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.BatchID == "" || l.Quantity <= 0 || l.UnitPrice.IsNegative() || l.VATPercent.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		lines = append(lines, pharmacy.Line{Quantity: l.Quantity, UnitPrice: l.UnitPrice, VATPercent: l.VATPercent})
	}
	totals := pharmacy.ComputeTotals(lines, in.Discount)
	if !totals.DiscountAllowed() {
		return nil, domain.ErrInvalidInput
	}

	customer, err := uc.userRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("buscar cliente: %w", err)
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}

	now := uc.now()
	order := &entity.Order{
		ID:            uuid.New().String(),
		CustomerID:    in.CustomerID,
		OrderedBy:     in.ActorID,
		OrderStatus:   entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusUnpaid,
		TotalAmount:   totals.Total,
		Discount:      in.Discount,
		CreatedAt:     now,
		UpdatedAt:     now,
		CustomerName:  customer.FullName,
	}
	reason := "Order #" + order.ID
	items := make([]*entity.OrderItem, 0, len(in.Lines))

	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		for _, l := range in.Lines {
			// Bloquea la fila del lote; líneas repetidas del mismo lote leen el saldo ya descontado.
			batch, err := batchRepo.GetForUpdate(ctx, l.BatchID)
			if err != nil {
				return err
			}
			if batch == nil {
				return domain.ErrBatchNotFound
			}
			if batch.Quantity < l.Quantity {
				return fmt.Errorf("%w: lote %s tiene %d unidades, se solicitaron %d",
					domain.ErrInsufficientStock, batch.BatchNumber, batch.Quantity, l.Quantity)
			}
			item := &entity.OrderItem{
				ID:           uuid.New().String(),
				OrderID:      order.ID,
				BatchID:      l.BatchID,
				Quantity:     l.Quantity,
				UnitPrice:    l.UnitPrice,
				VATPercent:   l.VATPercent,
				MedicineName: batch.MedicineName,
				BatchNumber:  batch.BatchNumber,
			}
			if err := orderRepo.CreateItem(ctx, item); err != nil {
				return err
			}
			if _, err := batchRepo.AdjustQuantity(ctx, l.BatchID, -l.Quantity); err != nil {
				return err
			}
			if err := movRepo.Create(ctx, &entity.StockMovement{
				ID:        uuid.New().String(),
				BatchID:   l.BatchID,
				Quantity:  -l.Quantity,
				Type:      entity.MovementTypeOUT,
				Reason:    reason,
				CreatedBy: in.ActorID,
				CreatedAt: now,
			}); err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := dto.NewOrderResponse(order, items)
	vat := totals.VAT
	out.VATTotal = &vat
	return &out, nil
}
