package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash         = "Cash"
	PaymentMethodMobileMoney  = "Mobile Money"
	PaymentMethodInsurance    = "Insurance"
	PaymentMethodCreditCard   = "Credit Card"
	PaymentMethodBankTransfer = "Bank Transfer"
)

// PaymentMethods lista de métodos válidos.
var PaymentMethods = []string{
	PaymentMethodCash, PaymentMethodMobileMoney, PaymentMethodInsurance,
	PaymentMethodCreditCard, PaymentMethodBankTransfer,
}

// IsValidPaymentMethod indica si m pertenece a la enumeración de métodos de pago.
func IsValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// Payment pago append-only aplicado a un pedido.
type Payment struct {
	ID                   string
	OrderID              string
	PaidBy               string
	Amount               decimal.Decimal
	Method               string
	TransactionReference string // opcional
	IdempotencyKey       string // opcional
	CreatedAt            time.Time

	// Solo lectura (JOIN).
	PaidByName string
}

// Receipt comprobante 1:1 de un pago.
type Receipt struct {
	ID        string
	PaymentID string
	PrintedBy string
	CreatedAt time.Time

	// Solo lectura (JOIN).
	OrderID       string
	Amount        decimal.Decimal
	PaymentMethod string
	PrintedByName string
}
