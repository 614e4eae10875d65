package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// BatchRepository persistencia de lotes. Usable con pool o dentro de una transacción.
type BatchRepository interface {
	Create(ctx context.Context, b *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	// GetForUpdate lee el lote bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Batch, error)
	// AdjustQuantity suma delta (con signo) a la cantidad y devuelve la cantidad resultante.
	AdjustQuantity(ctx context.Context, id string, delta int) (int, error)
	List(ctx context.Context, filter BatchFilter) ([]*entity.Batch, error)
	ListLowStock(ctx context.Context, threshold int) ([]*entity.Batch, error)
	ListExpiringBy(ctx context.Context, cutoff time.Time) ([]*entity.Batch, error)
}

// BatchFilter filtros del listado de lotes.
type BatchFilter struct {
	MedicineID        string
	LowStockThreshold int // > 0 limita a lotes con cantidad menor al umbral
	Limit             int
	Offset            int
}

// StockMovementRepository libro append-only de movimientos de stock.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	ListByBatch(ctx context.Context, batchID string, limit, offset int) ([]*entity.StockMovement, error)
}
