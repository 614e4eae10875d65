package payments_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/payments"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

type fakeReceiptGenerator struct {
	got payments.ReceiptDocument
}

func (g *fakeReceiptGenerator) GenerateReceiptPDF(_ context.Context, data payments.ReceiptDocument) ([]byte, error) {
	g.got = data
	return []byte("%PDF-fake"), nil
}

func TestPaymentUseCase_ReceiptPDF(t *testing.T) {
	f := newPaymentFixture(t, 100)
	paid, err := f.pay(100, "")
	require.NoError(t, err)

	gen := &fakeReceiptGenerator{}
	uc := payments.NewPaymentUseCase(f.store.Payments(), f.store.Orders(), gen, "Farmacia Central")

	pdf, filename, err := uc.ReceiptPDF(context.Background(), paid.ReceiptID, "")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, "recibo-"+paid.ReceiptID+".pdf", filename)
	assert.Equal(t, "Farmacia Central", gen.got.PharmacyName)
	require.NotNil(t, gen.got.Payment)
	assert.Equal(t, paid.ID, gen.got.Payment.ID)
	require.NotNil(t, gen.got.Order)
	assert.Equal(t, f.order, gen.got.Order.ID)

	_, _, err = uc.ReceiptPDF(context.Background(), "00000000-0000-0000-0000-000000000000", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaymentUseCase_ReceiptPDF_SoloDelClienteDuenio(t *testing.T) {
	f := newPaymentFixture(t, 100)
	paid, err := f.pay(100, "")
	require.NoError(t, err)
	order, err := f.store.Orders().GetByID(context.Background(), f.order)
	require.NoError(t, err)
	other := f.store.SeedUser(entity.RoleCustomer, "Otro Cliente")

	gen := &fakeReceiptGenerator{}
	uc := payments.NewPaymentUseCase(f.store.Payments(), f.store.Orders(), gen, "")

	_, _, err = uc.ReceiptPDF(context.Background(), paid.ReceiptID, other)
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, gen.got.Order, "no debe generarse el PDF de un pedido ajeno")

	_, _, err = uc.ReceiptPDF(context.Background(), paid.ReceiptID, order.CustomerID)
	assert.NoError(t, err)
}

func TestPaymentUseCase_ListYRecibos(t *testing.T) {
	f := newPaymentFixture(t, 100)
	_, err := f.pay(40, "")
	require.NoError(t, err)
	_, err = f.pay(60, "")
	require.NoError(t, err)

	uc := payments.NewPaymentUseCase(f.store.Payments(), f.store.Orders(), &fakeReceiptGenerator{}, "")
	list, err := uc.List(context.Background(), repository.PaymentFilter{OrderID: f.order})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, "Carla Caja", list.Items[0].PaidByName)

	receipts, err := uc.ListReceipts(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, receipts.Items, 1)
	assert.Equal(t, 1, receipts.Page.Limit)
}
