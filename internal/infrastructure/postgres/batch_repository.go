package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo lotes de medicamentos sobre PostgreSQL.
type BatchRepo struct {
	db Querier
}

// NewBatchRepository construye el adaptador de lotes (pool o transacción).
func NewBatchRepository(db Querier) *BatchRepo {
	return &BatchRepo{db: db}
}

type batchRow struct {
	ID            string          `db:"id"`
	MedicineID    string          `db:"medicine_id"`
	BatchNumber   string          `db:"batch_number"`
	Quantity      int             `db:"quantity"`
	ExpiryDate    time.Time       `db:"expiry_date"`
	PurchasePrice decimal.Decimal `db:"purchase_price"`
	SellingPrice  decimal.Decimal `db:"selling_price"`
	CreatedAt     time.Time       `db:"created_at"`
	MedicineName  string          `db:"medicine_name"`
}

func (r batchRow) toEntity() *entity.Batch {
	return &entity.Batch{
		ID:            r.ID,
		MedicineID:    r.MedicineID,
		BatchNumber:   r.BatchNumber,
		Quantity:      r.Quantity,
		ExpiryDate:    r.ExpiryDate,
		PurchasePrice: r.PurchasePrice,
		SellingPrice:  r.SellingPrice,
		CreatedAt:     r.CreatedAt,
		MedicineName:  r.MedicineName,
	}
}

func batchSelect() squirrel.SelectBuilder {
	return psql.Select(
		"b.id", "b.medicine_id", "b.batch_number", "b.quantity", "b.expiry_date",
		"b.purchase_price", "b.selling_price", "b.created_at", "m.name AS medicine_name",
	).
		From("batches b").
		Join("medicines m ON m.id = b.medicine_id")
}

func (r *BatchRepo) selectBatches(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.Batch, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, dbError("build batch query", err)
	}
	var rows []batchRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, dbError("select batches", err)
	}
	out := make([]*entity.Batch, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// Create persiste un lote. Número de lote repetido para el mismo medicamento devuelve domain.ErrDuplicate.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `
		INSERT INTO batches (id, medicine_id, batch_number, quantity, expiry_date, purchase_price, selling_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		b.ID, b.MedicineID, b.BatchNumber, b.Quantity, b.ExpiryDate, b.PurchasePrice, b.SellingPrice, b.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("%w: el lote %s ya existe para el medicamento", domain.ErrDuplicate, b.BatchNumber)
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: medicamento inexistente", domain.ErrInvalidReference)
		case isCheckViolation(err):
			return fmt.Errorf("%w: cantidad o precios negativos", domain.ErrInvalidInput)
		}
		return dbError("insert batch", err)
	}
	return nil
}

// GetByID obtiene un lote con el nombre del medicamento.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	return r.getOne(ctx, batchSelect().Where(squirrel.Eq{"b.id": id}))
}

// GetForUpdate lee el lote con SELECT ... FOR UPDATE OF b; el bloqueo dura hasta el fin de la transacción.
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.getOne(ctx, batchSelect().Where(squirrel.Eq{"b.id": id}).Suffix("FOR UPDATE OF b"))
}

func (r *BatchRepo) getOne(ctx context.Context, q squirrel.SelectBuilder) (*entity.Batch, error) {
	list, err := r.selectBatches(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// AdjustQuantity suma delta a la cantidad del lote. El CHECK (quantity >= 0) de la tabla
// convierte cualquier resultado negativo en domain.ErrInsufficientStock.
func (r *BatchRepo) AdjustQuantity(ctx context.Context, id string, delta int) (int, error) {
	var qty int
	err := r.db.QueryRow(ctx,
		`UPDATE batches SET quantity = quantity + $2 WHERE id = $1 RETURNING quantity`, id, delta,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrBatchNotFound
		}
		if isCheckViolation(err) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, dbError("adjust batch quantity", err)
	}
	return qty, nil
}

// List lista lotes, por medicamento y/o por debajo de un umbral de stock.
func (r *BatchRepo) List(ctx context.Context, filter repository.BatchFilter) ([]*entity.Batch, error) {
	q := batchSelect().OrderBy("b.expiry_date", "b.id")
	if filter.MedicineID != "" {
		q = q.Where(squirrel.Eq{"b.medicine_id": filter.MedicineID})
	}
	if filter.LowStockThreshold > 0 {
		q = q.Where(squirrel.Lt{"b.quantity": filter.LowStockThreshold})
	}
	return r.selectBatches(ctx, page(q, filter.Limit, filter.Offset))
}

// ListLowStock lotes con cantidad estrictamente menor que threshold.
func (r *BatchRepo) ListLowStock(ctx context.Context, threshold int) ([]*entity.Batch, error) {
	return r.selectBatches(ctx, batchSelect().
		Where(squirrel.Lt{"b.quantity": threshold}).
		OrderBy("b.quantity", "b.id"))
}

// ListExpiringBy lotes con vencimiento en o antes de cutoff (incluye los ya vencidos).
func (r *BatchRepo) ListExpiringBy(ctx context.Context, cutoff time.Time) ([]*entity.Batch, error) {
	return r.selectBatches(ctx, batchSelect().
		Where(squirrel.LtOrEq{"b.expiry_date": cutoff}).
		OrderBy("b.expiry_date", "b.id"))
}
