package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/testing/memstore"
)

type deliveryFixture struct {
	store    *memstore.Store
	uc       *usecase.DeliveryUseCase
	courier  string
	customer string
	order    string
}

func newDeliveryFixture(t *testing.T) deliveryFixture {
	t.Helper()
	s := memstore.New()
	staff := s.SeedUser(entity.RoleManager, "Gerente")
	customer := s.SeedUser(entity.RoleCustomer, "Cliente")
	return deliveryFixture{
		store:    s,
		uc:       usecase.NewDeliveryUseCase(s.TxRunner(), s.Deliveries(), s.Orders(), s.Users()),
		courier:  s.SeedUser(entity.RoleDelivery, "Repartidor"),
		customer: customer,
		order:    s.SeedOrder(customer, staff, decimal.NewFromInt(80)),
	}
}

func (f deliveryFixture) create(t *testing.T) *dto.DeliveryResponse {
	t.Helper()
	d, err := f.uc.Create(context.Background(), dto.CreateDeliveryRequest{
		OrderID:          f.order,
		DeliveryPersonID: f.courier,
		DeliveryAddress:  "Calle 10 # 5-20",
	})
	require.NoError(t, err)
	return d
}

func TestDelivery_CreateNacePendiente(t *testing.T) {
	f := newDeliveryFixture(t)
	d := f.create(t)

	assert.Equal(t, entity.DeliveryStatusPending, d.Status)
	assert.Equal(t, "Repartidor", d.DeliveryPersonName)
	assert.True(t, decimal.NewFromInt(80).Equal(d.OrderTotal))
	assert.Nil(t, d.DeliveredAt)
}

func TestDelivery_CreateValidaPedidoYRepartidor(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, dto.CreateDeliveryRequest{OrderID: f.order, DeliveryPersonID: f.customer, DeliveryAddress: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el usuario no tiene rol Delivery")

	_, err = f.uc.Create(ctx, dto.CreateDeliveryRequest{
		OrderID: "00000000-0000-0000-0000-000000000000", DeliveryPersonID: f.courier, DeliveryAddress: "x",
	})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	require.NoError(t, f.store.Orders().UpdateOrderStatus(ctx, f.order, entity.OrderStatusCancelled))
	_, err = f.uc.Create(ctx, dto.CreateDeliveryRequest{OrderID: f.order, DeliveryPersonID: f.courier, DeliveryAddress: "x"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 0, f.store.Counts().Deliveries)
}

// TestDelivery_EntregadaMarcaElPedido: DELIVERED fija delivered_at y el estado del pedido.
func TestDelivery_EntregadaMarcaElPedido(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()
	d := f.create(t)

	out, err := f.uc.UpdateStatus(ctx, d.ID, entity.DeliveryStatusInTransit)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusInTransit, out.Status)
	assert.Nil(t, out.DeliveredAt)

	out, err = f.uc.UpdateStatus(ctx, d.ID, entity.DeliveryStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusDelivered, out.Status)
	assert.NotNil(t, out.DeliveredAt)

	o, err := f.store.Orders().GetByID(ctx, f.order)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, o.OrderStatus)
}

func TestDelivery_EstadoSoloAvanza(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()
	d := f.create(t)

	_, err := f.uc.UpdateStatus(ctx, d.ID, entity.DeliveryStatusPending)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.UpdateStatus(ctx, d.ID, entity.DeliveryStatusDelivered)
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(ctx, d.ID, entity.DeliveryStatusInTransit)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.UpdateStatus(ctx, d.ID, "LOST")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000000", entity.DeliveryStatusInTransit)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelivery_FalloAlMarcarPedidoRevierte(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()
	d := f.create(t)
	f.store.FailOn("orders.UpdateOrderStatus", assert.AnError)

	_, err := f.uc.UpdateStatus(ctx, d.ID, entity.DeliveryStatusDelivered)
	require.ErrorIs(t, err, assert.AnError)

	list, err := f.uc.List(ctx, repository.DeliveryFilter{DeliveryPersonID: f.courier})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.DeliveryStatusPending, list[0].Status)
}

func TestDelivery_Feedback(t *testing.T) {
	f := newDeliveryFixture(t)
	ctx := context.Background()

	fb, err := f.uc.CreateFeedback(ctx, f.customer, dto.CreateFeedbackRequest{OrderID: f.order, Message: "Rápido", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, fb.Rating)

	_, err = f.uc.CreateFeedback(ctx, f.customer, dto.CreateFeedbackRequest{OrderID: f.order, Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.CreateFeedback(ctx, f.customer, dto.CreateFeedbackRequest{OrderID: "00000000-0000-0000-0000-000000000000", Rating: 3})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	list, err := f.uc.ListFeedback(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Cliente", list[0].UserName)
}
