package pharmacy

import (
	"fmt"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// Umbrales por defecto del barrido de alertas.
const (
	DefaultLowStockThreshold = 10
	DefaultExpiryWindowDays  = 30
)

// Títulos de las notificaciones generadas por el barrido.
const (
	LowStockTitle = "Low Stock Alert"
	ExpiryTitle   = "Expiry Alert"
)

// AlertRecipientRoles roles que reciben las alertas de stock.
var AlertRecipientRoles = []string{entity.RoleManager, entity.RoleAdmin}

// IsLowStock indica si el lote está estrictamente por debajo del umbral.
func IsLowStock(b *entity.Batch, threshold int) bool {
	return b.Quantity < threshold
}

// ExpiryCutoff fecha límite (inclusive) para considerar un lote próximo a vencer.
// No hay cota inferior: un lote ya vencido también alerta.
func ExpiryCutoff(today time.Time, windowDays int) time.Time {
	y, m, d := today.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, windowDays)
}

// IsExpiringSoon indica si el lote vence en o antes del corte.
func IsExpiringSoon(b *entity.Batch, cutoff time.Time) bool {
	return !dateOnly(b.ExpiryDate).After(cutoff)
}

// LowStockMessage texto de la alerta de stock bajo.
func LowStockMessage(b *entity.Batch) string {
	return fmt.Sprintf("%s (Batch: %s) has low stock: %d units remaining", b.MedicineName, b.BatchNumber, b.Quantity)
}

// ExpiryMessage texto de la alerta de vencimiento (fecha YYYY-MM-DD).
func ExpiryMessage(b *entity.Batch) string {
	return fmt.Sprintf("%s (Batch: %s) expires on %s", b.MedicineName, b.BatchNumber, b.ExpiryDate.Format(time.DateOnly))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
