package ordering_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ordering"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/testing/memstore"
)

type orderFixture struct {
	store    *memstore.Store
	uc       *ordering.CreateOrderUseCase
	customer string
	cashier  string
	batchA   string
	batchB   string
}

func newOrderFixture(t *testing.T) orderFixture {
	t.Helper()
	s := memstore.New()
	expiry := time.Now().AddDate(1, 0, 0)
	return orderFixture{
		store:    s,
		uc:       ordering.NewCreateOrderUseCase(s.TxRunner(), s.Users()),
		customer: s.SeedUser(entity.RoleCustomer, "Ana Cliente"),
		cashier:  s.SeedUser(entity.RoleCashier, "Carlos Caja"),
		batchA:   s.SeedBatch(s.SeedMedicine("Amoxicilina"), "A-001", 10, expiry, decimal.NewFromInt(10)),
		batchB:   s.SeedBatch(s.SeedMedicine("Ibuprofeno"), "B-001", 10, expiry, decimal.NewFromInt(5)),
	}
}

func (f orderFixture) input(lines ...ordering.OrderLine) ordering.OrderInput {
	return ordering.OrderInput{CustomerID: f.customer, ActorID: f.cashier, Lines: lines}
}

func line(batchID string, qty int, price int64) ordering.OrderLine {
	return ordering.OrderLine{BatchID: batchID, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

// TestCreateOrder_DescuentaStockYRegistraMovimientos: A×3 a 10 y B×2 a 5 sin descuento → total 40.
func TestCreateOrder_DescuentaStockYRegistraMovimientos(t *testing.T) {
	f := newOrderFixture(t)

	out, err := f.uc.CreateOrder(context.Background(), f.input(line(f.batchA, 3, 10), line(f.batchB, 2, 5)))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(40).Equal(out.TotalAmount), "total: %s", out.TotalAmount)
	assert.Equal(t, entity.OrderStatusPending, out.OrderStatus)
	assert.Equal(t, entity.PaymentStatusUnpaid, out.PaymentStatus)
	assert.Equal(t, "Ana Cliente", out.CustomerName)
	require.Len(t, out.Items, 2)
	require.NotNil(t, out.VATTotal)
	assert.True(t, out.VATTotal.IsZero())

	assert.Equal(t, 7, f.store.BatchQuantity(f.batchA))
	assert.Equal(t, 8, f.store.BatchQuantity(f.batchB))

	movs := f.store.AllMovements()
	require.Len(t, movs, 2)
	assert.Equal(t, f.batchA, movs[0].BatchID)
	assert.Equal(t, -3, movs[0].Quantity)
	assert.Equal(t, f.batchB, movs[1].BatchID)
	assert.Equal(t, -2, movs[1].Quantity)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeOUT, m.Type)
		assert.Equal(t, "Order #"+out.ID, m.Reason)
		assert.Equal(t, f.cashier, m.CreatedBy)
	}

	c := f.store.Counts()
	assert.Equal(t, 1, c.Orders)
	assert.Equal(t, 2, c.Items)
}

// TestCreateOrder_LoteInexistenteNoPersisteNada: la segunda línea falla y nada queda escrito.
func TestCreateOrder_LoteInexistenteNoPersisteNada(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.CreateOrder(context.Background(),
		f.input(line(f.batchA, 3, 10), line("00000000-0000-0000-0000-000000000000", 1, 5)))
	require.ErrorIs(t, err, domain.ErrBatchNotFound)

	assert.Equal(t, memstore.Counts{}, f.store.Counts())
	assert.Equal(t, 10, f.store.BatchQuantity(f.batchA))
}

func TestCreateOrder_StockInsuficienteRevierteTodo(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), f.input(line(f.batchA, 2, 10), line(f.batchB, 11, 5)))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "B-001")

	assert.Equal(t, memstore.Counts{}, f.store.Counts())
	assert.Equal(t, 10, f.store.BatchQuantity(f.batchA))
	assert.Equal(t, 10, f.store.BatchQuantity(f.batchB))
}

// TestCreateOrder_LineasRepetidasDelMismoLote: la segunda línea ve el saldo ya descontado.
func TestCreateOrder_LineasRepetidasDelMismoLote(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), f.input(line(f.batchA, 6, 10), line(f.batchA, 5, 10)))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.store.BatchQuantity(f.batchA))

	out, err := f.uc.CreateOrder(context.Background(), f.input(line(f.batchA, 6, 10), line(f.batchA, 4, 10)))
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 0, f.store.BatchQuantity(f.batchA))
}

func TestCreateOrder_Descuento(t *testing.T) {
	tests := []struct {
		name     string
		discount int64
		vat      int64
		wantErr  bool
		total    int64
	}{
		{name: "sin descuento", discount: 0, total: 30},
		{name: "parcial", discount: 5, total: 25},
		{name: "igual al subtotal", discount: 30, total: 0},
		{name: "igual al subtotal con IVA", discount: 30, vat: 19, total: 0},
		{name: "mayor al subtotal", discount: 31, wantErr: true},
		{name: "entre subtotal y subtotal más IVA", discount: 31, vat: 19, wantErr: true},
		{name: "negativo", discount: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			l := line(f.batchA, 3, 10)
			l.VATPercent = decimal.NewFromInt(tt.vat)
			in := f.input(l)
			in.Discount = decimal.NewFromInt(tt.discount)

			out, err := f.uc.CreateOrder(context.Background(), in)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Equal(t, 0, f.store.Counts().Orders)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.total).Equal(out.TotalAmount), "total: %s", out.TotalAmount)
		})
	}
}

func TestCreateOrder_IVAInformativo(t *testing.T) {
	f := newOrderFixture(t)
	l := line(f.batchA, 2, 10)
	l.VATPercent = decimal.NewFromInt(19)

	out, err := f.uc.CreateOrder(context.Background(), f.input(l))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(out.TotalAmount))
	require.NotNil(t, out.VATTotal)
	assert.True(t, decimal.RequireFromString("3.8").Equal(*out.VATTotal), "iva: %s", out.VATTotal)
}

func TestCreateOrder_EntradaInvalida(t *testing.T) {
	f := newOrderFixture(t)
	cases := map[string]ordering.OrderInput{
		"sin líneas":      f.input(),
		"cantidad cero":   f.input(line(f.batchA, 0, 10)),
		"precio negativo": f.input(line(f.batchA, 1, -1)),
		"sin lote":        f.input(line("", 1, 10)),
		"sin cliente":     {ActorID: f.cashier, Lines: []ordering.OrderLine{line(f.batchA, 1, 10)}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.CreateOrder(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, memstore.Counts{}, f.store.Counts())
}

func TestCreateOrder_ClienteInexistente(t *testing.T) {
	f := newOrderFixture(t)
	in := f.input(line(f.batchA, 1, 10))
	in.CustomerID = "00000000-0000-0000-0000-000000000000"

	_, err := f.uc.CreateOrder(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
	assert.Equal(t, 10, f.store.BatchQuantity(f.batchA))
}

// TestCreateOrder_FalloAlRegistrarMovimiento: si falla el último paso de la transacción no queda nada.
func TestCreateOrder_FalloAlRegistrarMovimiento(t *testing.T) {
	f := newOrderFixture(t)
	f.store.FailOn("movements.Create", assert.AnError)

	_, err := f.uc.CreateOrder(context.Background(), f.input(line(f.batchA, 3, 10)))
	require.ErrorIs(t, err, assert.AnError)

	assert.Equal(t, memstore.Counts{}, f.store.Counts())
	assert.Equal(t, 10, f.store.BatchQuantity(f.batchA))
}

func TestCreateOrderFromRequest_UsaActorComoOrderedBy(t *testing.T) {
	f := newOrderFixture(t)

	out, err := f.uc.CreateOrderFromRequest(context.Background(), f.cashier, dto.CreateOrderRequest{
		CustomerID: f.customer,
		Items: []dto.OrderItemRequest{
			{BatchID: f.batchB, Quantity: 1, UnitPrice: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, f.cashier, out.OrderedBy)
	assert.Equal(t, f.customer, out.CustomerID)
	assert.Equal(t, 9, f.store.BatchQuantity(f.batchB))
}
