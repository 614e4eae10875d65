package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/payments"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

func TestGenerateReceiptPDF_GeneraDocumento(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	doc := payments.ReceiptDocument{
		PharmacyName: "Farmacia Central",
		Receipt:      &entity.Receipt{ID: "5f0c7d1e-1111-2222-3333-444455556666", PaymentID: "p1", CreatedAt: now, PrintedByName: "Caja 1"},
		Payment:      &entity.Payment{ID: "p1", OrderID: "o1", Amount: decimal.RequireFromString("60"), Method: entity.PaymentMethodCash},
		Order: &entity.Order{
			ID: "9a8b7c6d-0000-0000-0000-000000000000", CustomerName: "Ana",
			OrderStatus: entity.OrderStatusPending, PaymentStatus: entity.PaymentStatusPartial,
			TotalAmount: decimal.RequireFromString("100"), Discount: decimal.Zero,
		},
		Items: []*entity.OrderItem{
			{Quantity: 10, UnitPrice: decimal.RequireFromString("10"), VATPercent: decimal.Zero, MedicineName: "Paracetamol", BatchNumber: "B1"},
		},
	}

	out, err := NewMarotoReceiptGenerator().GenerateReceiptPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
}

func TestGenerateReceiptPDF_SinPedido_Falla(t *testing.T) {
	_, err := NewMarotoReceiptGenerator().GenerateReceiptPDF(context.Background(), payments.ReceiptDocument{
		Receipt: &entity.Receipt{ID: "r1"},
		Payment: &entity.Payment{ID: "p1"},
	})
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0,00",
		"25000":     "25.000,00",
		"1234567.5": "1.234.567,50",
		"-1500.25":  "-1.500,25",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}
