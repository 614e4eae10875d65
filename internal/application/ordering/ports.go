package ordering

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// OrderTxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a ella.
// Commit si fn retorna nil; Rollback en cualquier otro caso.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
