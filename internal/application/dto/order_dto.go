package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id" validate:"required,uuid"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount   decimal.Decimal    `json:"discount"`
}

// OrderItemRequest línea del pedido.
type OrderItemRequest struct {
	BatchID    string          `json:"batch_id" validate:"required,uuid"`
	Quantity   int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	VATPercent decimal.Decimal `json:"vat_percent"`
}

// UpdateOrderRequest body para PUT /api/orders/:id (al menos un campo).
type UpdateOrderRequest struct {
	OrderStatus   string `json:"order_status" validate:"omitempty,oneof=PENDING DELIVERED CANCELLED"`
	PaymentStatus string `json:"payment_status" validate:"omitempty,oneof=UNPAID PARTIAL PAID"`
}

// OrderResponse salida de un pedido; Items solo se incluye en el detalle y al crear.
type OrderResponse struct {
	ID            string              `json:"id"`
	CustomerID    string              `json:"customer_id"`
	CustomerName  string              `json:"customer_name,omitempty"`
	OrderedBy     string              `json:"ordered_by"`
	OrderedByName string              `json:"ordered_by_name,omitempty"`
	OrderStatus   string              `json:"order_status"`
	PaymentStatus string              `json:"payment_status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Discount      decimal.Decimal     `json:"discount"`
	VATTotal      *decimal.Decimal    `json:"vat_total,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}

// OrderItemResponse línea del pedido.
type OrderItemResponse struct {
	ID           string          `json:"id"`
	BatchID      string          `json:"batch_id"`
	BatchNumber  string          `json:"batch_number,omitempty"`
	MedicineName string          `json:"medicine_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	VATPercent   decimal.Decimal `json:"vat_percent"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
