package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN     = "IN"     // entrada (recepción, reabastecimiento)
	MovementTypeOUT    = "OUT"    // salida por pedido
	MovementTypeDAMAGE = "DAMAGE" // baja por daño
)

// StockMovement asiento append-only del libro de stock de un lote.
// Quantity es con signo: negativo en OUT y DAMAGE.
type StockMovement struct {
	ID        string
	BatchID   string
	Quantity  int
	Type      string
	Reason    string
	CreatedBy string // UserID
	CreatedAt time.Time
}
