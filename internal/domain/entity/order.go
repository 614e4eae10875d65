package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de despacho del pedido.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// Estados de pago del pedido.
const (
	PaymentStatusUnpaid  = "UNPAID"
	PaymentStatusPartial = "PARTIAL"
	PaymentStatusPaid    = "PAID"
)

// IsValidOrderStatus indica si s es un estado de despacho conocido.
func IsValidOrderStatus(s string) bool {
	return s == OrderStatusPending || s == OrderStatusDelivered || s == OrderStatusCancelled
}

// IsValidPaymentStatus indica si s es un estado de pago conocido.
func IsValidPaymentStatus(s string) bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusPartial || s == PaymentStatusPaid
}

// Order cabecera de pedido. TotalAmount = Σ(cantidad × precio unitario) − Discount.
type Order struct {
	ID            string
	CustomerID    string
	OrderedBy     string // usuario del personal que registró el pedido
	OrderStatus   string
	PaymentStatus string
	TotalAmount   decimal.Decimal
	Discount      decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Solo lectura (JOIN).
	CustomerName  string
	OrderedByName string
}

// OrderItem snapshot inmutable de una línea del pedido.
type OrderItem struct {
	ID         string
	OrderID    string
	BatchID    string
	Quantity   int
	UnitPrice  decimal.Decimal
	VATPercent decimal.Decimal

	// Solo lectura (JOIN).
	MedicineName string
	BatchNumber  string
}

// Subtotal cantidad × precio unitario.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
