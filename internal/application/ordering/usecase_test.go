package ordering_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ordering"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/testing/memstore"
)

func TestOrderUseCase_GetByIDConLineas(t *testing.T) {
	f := newOrderFixture(t)
	created, err := f.uc.CreateOrder(context.Background(), f.input(line(f.batchB, 1, 5), line(f.batchA, 1, 10)))
	require.NoError(t, err)

	uc := ordering.NewOrderUseCase(f.store.Orders())
	got, err := uc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Amoxicilina", got.Items[0].MedicineName, "líneas ordenadas por nombre de medicamento")
	assert.Equal(t, "Carlos Caja", got.OrderedByName)

	missing, err := uc.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderUseCase_ListFiltraPorCliente(t *testing.T) {
	s := memstore.New()
	staff := s.SeedUser(entity.RoleManager, "Gerente")
	c1 := s.SeedUser(entity.RoleCustomer, "Cliente Uno")
	c2 := s.SeedUser(entity.RoleCustomer, "Cliente Dos")
	s.SeedOrder(c1, staff, decimal.NewFromInt(10))
	s.SeedOrder(c1, staff, decimal.NewFromInt(20))
	s.SeedOrder(c2, staff, decimal.NewFromInt(30))

	uc := ordering.NewOrderUseCase(s.Orders())
	out, err := uc.List(context.Background(), repository.OrderFilter{CustomerID: c1})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	for _, o := range out.Items {
		assert.Equal(t, c1, o.CustomerID)
	}
}

func TestOrderUseCase_UpdateTransiciones(t *testing.T) {
	s := memstore.New()
	staff := s.SeedUser(entity.RoleManager, "Gerente")
	customer := s.SeedUser(entity.RoleCustomer, "Cliente")
	id := s.SeedOrder(customer, staff, decimal.NewFromInt(10))
	uc := ordering.NewOrderUseCase(s.Orders())
	ctx := context.Background()

	out, err := uc.Update(ctx, id, dto.UpdateOrderRequest{OrderStatus: entity.OrderStatusDelivered})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, out.OrderStatus)

	_, err = uc.Update(ctx, id, dto.UpdateOrderRequest{OrderStatus: entity.OrderStatusCancelled})
	assert.ErrorIs(t, err, domain.ErrConflict, "DELIVERED es final")

	out, err = uc.Update(ctx, id, dto.UpdateOrderRequest{OrderStatus: entity.OrderStatusDelivered})
	require.NoError(t, err, "mismo estado no es una transición")
	assert.Equal(t, entity.OrderStatusDelivered, out.OrderStatus)

	out, err = uc.Update(ctx, id, dto.UpdateOrderRequest{PaymentStatus: entity.PaymentStatusPaid})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, out.PaymentStatus)

	_, err = uc.Update(ctx, id, dto.UpdateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(ctx, id, dto.UpdateOrderRequest{OrderStatus: "SHIPPED"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(ctx, "00000000-0000-0000-0000-000000000000", dto.UpdateOrderRequest{OrderStatus: entity.OrderStatusCancelled})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderUseCase_DeleteConPagosEsConflicto(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	created, err := f.uc.CreateOrder(ctx, f.input(line(f.batchA, 1, 10)))
	require.NoError(t, err)
	require.NoError(t, f.store.Payments().Create(ctx, &entity.Payment{
		ID:      "11111111-1111-1111-1111-111111111111",
		OrderID: created.ID,
		PaidBy:  f.cashier,
		Amount:  decimal.NewFromInt(5),
		Method:  entity.PaymentMethodCash,
	}))

	uc := ordering.NewOrderUseCase(f.store.Orders())
	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrConflict)
	assert.Equal(t, 1, f.store.Counts().Orders)
}

func TestOrderUseCase_DeleteEliminaLineas(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	created, err := f.uc.CreateOrder(ctx, f.input(line(f.batchA, 1, 10), line(f.batchB, 1, 5)))
	require.NoError(t, err)

	uc := ordering.NewOrderUseCase(f.store.Orders())
	require.NoError(t, uc.Delete(ctx, created.ID))
	c := f.store.Counts()
	assert.Equal(t, 0, c.Orders)
	assert.Equal(t, 0, c.Items)
	assert.Equal(t, 2, c.Movements, "los movimientos de stock son historial y se conservan")

	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrOrderNotFound)
}
