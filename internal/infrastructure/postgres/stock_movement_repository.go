package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro append-only de movimientos de stock.
type StockMovementRepo struct {
	db Querier
}

// NewStockMovementRepository construye el adaptador del libro de movimientos.
func NewStockMovementRepository(db Querier) *StockMovementRepo {
	return &StockMovementRepo{db: db}
}

// Create registra un movimiento. No existen Update ni Delete.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, batch_id, quantity, movement_type, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.BatchID, m.Quantity, m.Type, m.Reason, nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: lote o usuario inexistente", domain.ErrInvalidReference)
		}
		return dbError("insert stock movement", err)
	}
	return nil
}

// ListByBatch movimientos de un lote, del más reciente al más antiguo.
func (r *StockMovementRepo) ListByBatch(ctx context.Context, batchID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, batch_id, quantity, movement_type, reason, COALESCE(created_by::text, ''), created_at
		FROM stock_movements WHERE batch_id = $1
		ORDER BY created_at DESC, id LIMIT NULLIF($2::int, 0) OFFSET $3`
	rows, err := r.db.Query(ctx, query, batchID, limit, offset)
	if err != nil {
		return nil, dbError("list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.BatchID, &m.Quantity, &m.Type, &m.Reason, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, dbError("scan stock movement", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
