package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch lote físico de un medicamento con cantidad, vencimiento y precios propios.
// Invariante: Quantity >= 0 en todo momento.
type Batch struct {
	ID            string
	MedicineID    string
	BatchNumber   string
	Quantity      int
	ExpiryDate    time.Time
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	CreatedAt     time.Time

	// Solo lectura (JOIN).
	MedicineName string
}
