package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una entrega.
const (
	DeliveryStatusPending   = "PENDING"
	DeliveryStatusInTransit = "IN_TRANSIT"
	DeliveryStatusDelivered = "DELIVERED"
)

// IsValidDeliveryStatus indica si s es un estado de entrega conocido.
func IsValidDeliveryStatus(s string) bool {
	return s == DeliveryStatusPending || s == DeliveryStatusInTransit || s == DeliveryStatusDelivered
}

// Delivery asignación de un pedido a un repartidor.
type Delivery struct {
	ID               string
	OrderID          string
	DeliveryPersonID string
	DeliveryAddress  string
	Status           string
	DeliveredAt      *time.Time
	CreatedAt        time.Time

	// Solo lectura (JOIN).
	OrderTotal         decimal.Decimal
	DeliveryPersonName string
	CustomerName       string
}

// Feedback valoración (1..5) de un pedido entregado.
type Feedback struct {
	ID        string
	OrderID   string
	UserID    string
	Message   string
	Rating    int
	CreatedAt time.Time

	UserName string // solo lectura
}
