package payments_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/payments"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/testing/memstore"
)

type paymentFixture struct {
	store   *memstore.Store
	uc      *payments.ProcessPaymentUseCase
	cashier string
	order   string
}

func newPaymentFixture(t *testing.T, total int64) paymentFixture {
	t.Helper()
	s := memstore.New()
	cashier := s.SeedUser(entity.RoleCashier, "Carla Caja")
	customer := s.SeedUser(entity.RoleCustomer, "Cliente")
	return paymentFixture{
		store:   s,
		uc:      payments.NewProcessPaymentUseCase(s.TxRunner()),
		cashier: cashier,
		order:   s.SeedOrder(customer, cashier, decimal.NewFromInt(total)),
	}
}

func (f paymentFixture) pay(amount int64, key string) (*dto.PaymentResponse, error) {
	return f.uc.ProcessPayment(context.Background(), payments.PaymentInput{
		OrderID:        f.order,
		PayerID:        f.cashier,
		Amount:         decimal.NewFromInt(amount),
		Method:         entity.PaymentMethodCash,
		IdempotencyKey: key,
	})
}

func (f paymentFixture) orderPaymentStatus(t *testing.T) string {
	t.Helper()
	o, err := f.store.Orders().GetByID(context.Background(), f.order)
	require.NoError(t, err)
	require.NotNil(t, o)
	return o.PaymentStatus
}

// TestProcessPayment_ParcialLuegoPagado: pedido de 100, pago de 40 y luego de 60.
func TestProcessPayment_ParcialLuegoPagado(t *testing.T) {
	f := newPaymentFixture(t, 100)

	first, err := f.pay(40, "")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartial, first.OrderPaymentStatus)
	require.NotNil(t, first.TotalPaid)
	assert.True(t, decimal.NewFromInt(40).Equal(*first.TotalPaid))
	assert.NotEmpty(t, first.ReceiptID)
	assert.Equal(t, entity.PaymentStatusPartial, f.orderPaymentStatus(t))

	second, err := f.pay(60, "")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, second.OrderPaymentStatus)
	assert.True(t, decimal.NewFromInt(100).Equal(*second.TotalPaid))
	assert.NotEqual(t, first.ReceiptID, second.ReceiptID)
	assert.Equal(t, entity.PaymentStatusPaid, f.orderPaymentStatus(t))

	c := f.store.Counts()
	assert.Equal(t, 2, c.Payments)
	assert.Equal(t, 2, c.Receipts)
}

func TestProcessPayment_SobrepagoQuedaPagado(t *testing.T) {
	f := newPaymentFixture(t, 100)

	out, err := f.pay(150, "")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, out.OrderPaymentStatus)
	assert.True(t, decimal.NewFromInt(150).Equal(*out.TotalPaid))
}

// TestProcessPayment_ReintentoConMismaClave: el segundo envío devuelve el pago original sin escribir.
func TestProcessPayment_ReintentoConMismaClave(t *testing.T) {
	f := newPaymentFixture(t, 100)

	first, err := f.pay(40, "caja-1-0001")
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	again, err := f.pay(40, "caja-1-0001")
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.ReceiptID, again.ReceiptID)
	assert.Equal(t, entity.PaymentStatusPartial, again.OrderPaymentStatus)
	assert.True(t, decimal.NewFromInt(40).Equal(*again.TotalPaid))

	c := f.store.Counts()
	assert.Equal(t, 1, c.Payments)
	assert.Equal(t, 1, c.Receipts)
}

func TestProcessPayment_ClaveDeOtroPedido(t *testing.T) {
	f := newPaymentFixture(t, 100)
	_, err := f.pay(40, "caja-1-0002")
	require.NoError(t, err)

	customer := f.store.SeedUser(entity.RoleCustomer, "Otro Cliente")
	other := f.store.SeedOrder(customer, f.cashier, decimal.NewFromInt(50))
	_, err = f.uc.ProcessPayment(context.Background(), payments.PaymentInput{
		OrderID:        other,
		PayerID:        f.cashier,
		Amount:         decimal.NewFromInt(50),
		Method:         entity.PaymentMethodCash,
		IdempotencyKey: "caja-1-0002",
	})
	require.ErrorIs(t, err, domain.ErrIdempotencyConflict)
	assert.Equal(t, 1, f.store.Counts().Payments)
}

func TestProcessPayment_PedidoInexistente(t *testing.T) {
	f := newPaymentFixture(t, 100)
	f.order = "00000000-0000-0000-0000-000000000000"

	_, err := f.pay(10, "")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Equal(t, 0, f.store.Counts().Payments)
}

func TestProcessPayment_EntradaInvalida(t *testing.T) {
	f := newPaymentFixture(t, 100)

	_, err := f.pay(0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.pay(-5, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.ProcessPayment(context.Background(), payments.PaymentInput{
		OrderID: f.order, PayerID: f.cashier, Amount: decimal.NewFromInt(5), Method: "Bitcoin",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.pay(5, strings.Repeat("k", payments.MaxIdempotencyKeyLen+1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la clave no cabe en la columna")
	assert.Equal(t, 0, f.store.Counts().Payments)

	_, err = f.pay(5, strings.Repeat("k", payments.MaxIdempotencyKeyLen))
	assert.NoError(t, err)
}

// TestProcessPayment_FalloEnReciboRevierte: sin recibo no queda pago ni cambia el estado del pedido.
func TestProcessPayment_FalloEnReciboRevierte(t *testing.T) {
	f := newPaymentFixture(t, 100)
	f.store.FailOn("payments.CreateReceipt", assert.AnError)

	_, err := f.pay(100, "caja-1-0003")
	require.ErrorIs(t, err, assert.AnError)

	c := f.store.Counts()
	assert.Equal(t, 0, c.Payments)
	assert.Equal(t, 0, c.Receipts)
	assert.Equal(t, entity.PaymentStatusUnpaid, f.orderPaymentStatus(t))

	// La clave no quedó consumida: el reintento se procesa como pago nuevo.
	f.store.ClearFailures()
	out, err := f.pay(100, "caja-1-0003")
	require.NoError(t, err)
	assert.False(t, out.Replayed)
	assert.Equal(t, entity.PaymentStatusPaid, out.OrderPaymentStatus)
}

func TestProcessPaymentFromRequest_HeaderTienePrioridad(t *testing.T) {
	f := newPaymentFixture(t, 100)
	req := dto.CreatePaymentRequest{
		OrderID:        f.order,
		Amount:         decimal.NewFromInt(30),
		PaymentMethod:  entity.PaymentMethodMobileMoney,
		IdempotencyKey: "body-key",
	}

	_, err := f.uc.ProcessPaymentFromRequest(context.Background(), f.cashier, "header-key", req)
	require.NoError(t, err)

	byHeader, err := f.store.Payments().GetByIdempotencyKey(context.Background(), "header-key")
	require.NoError(t, err)
	require.NotNil(t, byHeader)
	byBody, err := f.store.Payments().GetByIdempotencyKey(context.Background(), "body-key")
	require.NoError(t, err)
	assert.Nil(t, byBody)

	out, err := f.uc.ProcessPaymentFromRequest(context.Background(), f.cashier, "", req)
	require.NoError(t, err)
	assert.False(t, out.Replayed, "sin header se usa la clave del body")
	assert.Equal(t, 2, f.store.Counts().Payments)
}
