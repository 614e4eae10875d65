package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest body para POST /api/payments.
// IdempotencyKey también puede enviarse en el header Idempotency-Key.
type CreatePaymentRequest struct {
	OrderID              string          `json:"order_id" validate:"required,uuid"`
	Amount               decimal.Decimal `json:"amount"`
	PaymentMethod        string          `json:"payment_method" validate:"required,oneof=Cash 'Mobile Money' Insurance 'Credit Card' 'Bank Transfer'"`
	TransactionReference string          `json:"transaction_reference" validate:"omitempty,max=100"`
	IdempotencyKey       string          `json:"idempotency_key" validate:"omitempty,max=100"`
}

// PaymentResponse salida de un pago. Los campos de conciliación se informan al registrarlo.
type PaymentResponse struct {
	ID                   string           `json:"id"`
	OrderID              string           `json:"order_id"`
	PaidBy               string           `json:"paid_by"`
	PaidByName           string           `json:"paid_by_name,omitempty"`
	Amount               decimal.Decimal  `json:"amount"`
	PaymentMethod        string           `json:"payment_method"`
	TransactionReference string           `json:"transaction_reference,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	OrderPaymentStatus   string           `json:"order_payment_status,omitempty"`
	TotalPaid            *decimal.Decimal `json:"total_paid,omitempty"`
	ReceiptID            string           `json:"receipt_id,omitempty"`
	Replayed             bool             `json:"replayed,omitempty"`
}

// PaymentListResponse lista paginada de pagos.
type PaymentListResponse struct {
	Items []PaymentResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ReceiptResponse salida de un recibo.
type ReceiptResponse struct {
	ID            string          `json:"id"`
	PaymentID     string          `json:"payment_id"`
	OrderID       string          `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PrintedBy     string          `json:"printed_by"`
	PrintedByName string          `json:"printed_by_name,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ReceiptListResponse lista paginada de recibos.
type ReceiptListResponse struct {
	Items []ReceiptResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
