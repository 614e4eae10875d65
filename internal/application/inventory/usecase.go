package inventory

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

// BatchUseCase recepción de lotes y ajustes de stock (IN / DAMAGE) con su asiento en el libro.
// Las salidas por venta (OUT) las registra el flujo de pedidos.
type BatchUseCase struct {
	txRunner     TxRunner
	batchRepo    repository.BatchRepository
	medicineRepo repository.MedicineRepository
	movRepo      repository.StockMovementRepository
	now          func() time.Time
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(
	txRunner TxRunner,
	batchRepo repository.BatchRepository,
	medicineRepo repository.MedicineRepository,
	movRepo repository.StockMovementRepository,
) *BatchUseCase {
	return &BatchUseCase{
		txRunner:     txRunner,
		batchRepo:    batchRepo,
		medicineRepo: medicineRepo,
		movRepo:      movRepo,
		now:          time.Now,
	}
}

// CreateBatch registra un lote nuevo y, si trae cantidad inicial, su movimiento IN.
func (uc *BatchUseCase) CreateBatch(ctx context.Context, userID string, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if in.MedicineID == "" || in.BatchNumber == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PurchasePrice.IsNegative() || in.SellingPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	expiry, err := time.Parse(time.DateOnly, in.ExpiryDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	medicine, err := uc.medicineRepo.GetByID(ctx, in.MedicineID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	batch := &entity.Batch{
		ID:            uuid.New().String(),
		MedicineID:    in.MedicineID,
		BatchNumber:   in.BatchNumber,
		Quantity:      in.Quantity,
		ExpiryDate:    expiry,
		PurchasePrice: in.PurchasePrice,
		SellingPrice:  in.SellingPrice,
		CreatedAt:     now,
		MedicineName:  medicine.Name,
	}
	err = uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, movRepo repository.StockMovementRepository) error {
		if err := batchRepo.Create(ctx, batch); err != nil {
			return err
		}
		if batch.Quantity == 0 {
			return nil
		}
		return movRepo.Create(ctx, &entity.StockMovement{
			ID:        uuid.New().String(),
			BatchID:   batch.ID,
			Quantity:  batch.Quantity,
			Type:      entity.MovementTypeIN,
			Reason:    "Batch " + batch.BatchNumber + " received",
			CreatedBy: userID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewBatchResponse(batch)
	return &out, nil
}

// Restock suma unidades al lote (movimiento IN).
func (uc *BatchUseCase) Restock(ctx context.Context, userID, batchID string, in dto.StockAdjustmentRequest) (*dto.BatchResponse, error) {
	reason := in.Reason
	if reason == "" {
		reason = "Restock"
	}
	return uc.adjust(ctx, userID, batchID, in.Quantity, entity.MovementTypeIN, reason)
}

// RegisterDamage da de baja unidades dañadas (movimiento DAMAGE). No puede dejar el lote en negativo.
func (uc *BatchUseCase) RegisterDamage(ctx context.Context, userID, batchID string, in dto.StockAdjustmentRequest) (*dto.BatchResponse, error) {
	reason := in.Reason
	if reason == "" {
		reason = "Damaged stock"
	}
	return uc.adjust(ctx, userID, batchID, in.Quantity, entity.MovementTypeDAMAGE, reason)
}

func (uc *BatchUseCase) adjust(ctx context.Context, userID, batchID string, qty int, movType, reason string) (*dto.BatchResponse, error) {
	if batchID == "" || qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	delta := qty
	if movType == entity.MovementTypeDAMAGE {
		delta = -qty
	}
	var batch *entity.Batch
	err := uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, movRepo repository.StockMovementRepository) error {
		var err error
		batch, err = batchRepo.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrBatchNotFound
		}
		if batch.Quantity+delta < 0 {
			return fmt.Errorf("%w: lote %s tiene %d unidades", domain.ErrInsufficientStock, batch.BatchNumber, batch.Quantity)
		}
		newQty, err := batchRepo.AdjustQuantity(ctx, batchID, delta)
		if err != nil {
			return err
		}
		batch.Quantity = newQty
		return movRepo.Create(ctx, &entity.StockMovement{
			ID:        uuid.New().String(),
			BatchID:   batchID,
			Quantity:  delta,
			Type:      movType,
			Reason:    reason,
			CreatedBy: userID,
			CreatedAt: uc.now(),
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewBatchResponse(batch)
	return &out, nil
}

// List lotes con filtros opcionales (medicamento, stock bajo).
func (uc *BatchUseCase) List(ctx context.Context, filter repository.BatchFilter) (*dto.BatchListResponse, error) {
	list, err := uc.batchRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.BatchListResponse{
		Items: make([]dto.BatchResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}
	for _, b := range list {
		out.Items = append(out.Items, dto.NewBatchResponse(b))
	}
	return out, nil
}

// Movements libro de movimientos de un lote, más recientes primero.
func (uc *BatchUseCase) Movements(ctx context.Context, batchID string, limit, offset int) ([]dto.StockMovementResponse, error) {
	batch, err := uc.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrBatchNotFound
	}
	list, err := uc.movRepo.ListByBatch(ctx, batchID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.NewStockMovementResponse(m))
	}
	return out, nil
}
