package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDeliveryRequest asignación de un pedido a un repartidor.
type CreateDeliveryRequest struct {
	OrderID          string `json:"order_id" validate:"required,uuid"`
	DeliveryPersonID string `json:"delivery_person_id" validate:"required,uuid"`
	DeliveryAddress  string `json:"delivery_address" validate:"required,min=1,max=500"`
}

// UpdateDeliveryStatusRequest body para PUT /api/deliveries/:id/status.
type UpdateDeliveryStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING IN_TRANSIT DELIVERED"`
}

// DeliveryResponse salida de una entrega.
type DeliveryResponse struct {
	ID                 string          `json:"id"`
	OrderID            string          `json:"order_id"`
	DeliveryPersonID   string          `json:"delivery_person_id"`
	DeliveryPersonName string          `json:"delivery_person_name,omitempty"`
	CustomerName       string          `json:"customer_name,omitempty"`
	OrderTotal         decimal.Decimal `json:"total_amount"`
	DeliveryAddress    string          `json:"delivery_address"`
	Status             string          `json:"status"`
	DeliveredAt        *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// CreateFeedbackRequest valoración de un pedido.
type CreateFeedbackRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
	Message string `json:"message" validate:"omitempty,max=1000"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

// FeedbackResponse salida de una valoración.
type FeedbackResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
