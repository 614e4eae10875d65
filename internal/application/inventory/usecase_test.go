package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/testing/memstore"
)

func newBatchUseCase(s *memstore.Store) *inventory.BatchUseCase {
	return inventory.NewBatchUseCase(s.TxRunner(), s.Batches(), s.Medicines(), s.Movements())
}

func batchRequest(medicineID, number string, qty int) dto.CreateBatchRequest {
	return dto.CreateBatchRequest{
		MedicineID:    medicineID,
		BatchNumber:   number,
		Quantity:      qty,
		ExpiryDate:    "2027-06-30",
		PurchasePrice: decimal.RequireFromString("1.50"),
		SellingPrice:  decimal.RequireFromString("2.75"),
	}
}

func TestCreateBatch_RegistraMovimientoIN(t *testing.T) {
	s := memstore.New()
	tech := s.SeedUser(entity.RoleTechnician, "Técnico")
	med := s.SeedMedicine("Metformina")
	uc := newBatchUseCase(s)

	out, err := uc.CreateBatch(context.Background(), tech, batchRequest(med, "M-2027", 40))
	require.NoError(t, err)
	assert.Equal(t, "Metformina", out.MedicineName)
	assert.Equal(t, "2027-06-30", out.ExpiryDate)
	assert.Equal(t, 40, s.BatchQuantity(out.ID))

	movs := s.AllMovements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIN, movs[0].Type)
	assert.Equal(t, 40, movs[0].Quantity)
	assert.Equal(t, "Batch M-2027 received", movs[0].Reason)
	assert.Equal(t, tech, movs[0].CreatedBy)
}

func TestCreateBatch_SinCantidadNoRegistraMovimiento(t *testing.T) {
	s := memstore.New()
	tech := s.SeedUser(entity.RoleTechnician, "Técnico")
	med := s.SeedMedicine("Metformina")

	_, err := newBatchUseCase(s).CreateBatch(context.Background(), tech, batchRequest(med, "M-0", 0))
	require.NoError(t, err)
	assert.Empty(t, s.AllMovements())
}

func TestCreateBatch_Errores(t *testing.T) {
	s := memstore.New()
	tech := s.SeedUser(entity.RoleTechnician, "Técnico")
	med := s.SeedMedicine("Metformina")
	uc := newBatchUseCase(s)
	ctx := context.Background()

	badDate := batchRequest(med, "X-1", 1)
	badDate.ExpiryDate = "30/06/2027"
	_, err := uc.CreateBatch(ctx, tech, badDate)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	negative := batchRequest(med, "X-2", 1)
	negative.SellingPrice = decimal.NewFromInt(-1)
	_, err = uc.CreateBatch(ctx, tech, negative)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateBatch(ctx, tech, batchRequest("00000000-0000-0000-0000-000000000000", "X-3", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.CreateBatch(ctx, tech, batchRequest(med, "X-4", 5))
	require.NoError(t, err)
	_, err = uc.CreateBatch(ctx, tech, batchRequest(med, "X-4", 5))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, s.AllMovements(), 1)
}

func TestRestockYDamage(t *testing.T) {
	s := memstore.New()
	tech := s.SeedUser(entity.RoleTechnician, "Técnico")
	batch := s.SeedBatch(s.SeedMedicine("Salbutamol"), "S-1", 10, time.Now().AddDate(1, 0, 0), decimal.NewFromInt(3))
	uc := newBatchUseCase(s)
	ctx := context.Background()

	out, err := uc.Restock(ctx, tech, batch, dto.StockAdjustmentRequest{Quantity: 15})
	require.NoError(t, err)
	assert.Equal(t, 25, out.Quantity)

	out, err = uc.RegisterDamage(ctx, tech, batch, dto.StockAdjustmentRequest{Quantity: 5, Reason: "Frascos rotos"})
	require.NoError(t, err)
	assert.Equal(t, 20, out.Quantity)

	_, err = uc.RegisterDamage(ctx, tech, batch, dto.StockAdjustmentRequest{Quantity: 21})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 20, s.BatchQuantity(batch))

	movs, err := uc.Movements(ctx, batch, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeDAMAGE, movs[0].Type)
	assert.Equal(t, -5, movs[0].Quantity)
	assert.Equal(t, "Frascos rotos", movs[0].Reason)
	assert.Equal(t, entity.MovementTypeIN, movs[1].Type)
	assert.Equal(t, "Restock", movs[1].Reason)
}

func TestAdjust_Errores(t *testing.T) {
	s := memstore.New()
	tech := s.SeedUser(entity.RoleTechnician, "Técnico")
	batch := s.SeedBatch(s.SeedMedicine("Salbutamol"), "S-1", 10, time.Now().AddDate(1, 0, 0), decimal.NewFromInt(3))
	uc := newBatchUseCase(s)
	ctx := context.Background()

	_, err := uc.Restock(ctx, tech, batch, dto.StockAdjustmentRequest{Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Restock(ctx, tech, "00000000-0000-0000-0000-000000000000", dto.StockAdjustmentRequest{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)

	s.FailOn("movements.Create", assert.AnError)
	_, err = uc.Restock(ctx, tech, batch, dto.StockAdjustmentRequest{Quantity: 1})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 10, s.BatchQuantity(batch), "sin asiento en el libro no cambia el stock")

	_, err = uc.Movements(ctx, "00000000-0000-0000-0000-000000000000", 0, 0)
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}

func TestBatchList_StockBajo(t *testing.T) {
	s := memstore.New()
	med := s.SeedMedicine("Salbutamol")
	s.SeedBatch(med, "S-1", 3, time.Now().AddDate(1, 0, 0), decimal.NewFromInt(3))
	s.SeedBatch(med, "S-2", 30, time.Now().AddDate(1, 0, 0), decimal.NewFromInt(3))

	out, err := newBatchUseCase(s).List(context.Background(), repository.BatchFilter{LowStockThreshold: 10})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "S-1", out.Items[0].BatchNumber)
}
