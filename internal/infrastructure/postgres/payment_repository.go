package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos y recibos sobre PostgreSQL.
type PaymentRepo struct {
	db Querier
}

// NewPaymentRepository construye el adaptador de pagos (pool o transacción).
func NewPaymentRepository(db Querier) *PaymentRepo {
	return &PaymentRepo{db: db}
}

type paymentRow struct {
	ID                   string          `db:"id"`
	OrderID              string          `db:"order_id"`
	PaidBy               string          `db:"paid_by"`
	Amount               decimal.Decimal `db:"amount"`
	PaymentMethod        string          `db:"payment_method"`
	TransactionReference string          `db:"transaction_reference"`
	IdempotencyKey       string          `db:"idempotency_key"`
	CreatedAt            time.Time       `db:"created_at"`
	PaidByName           string          `db:"paid_by_name"`
}

func (r paymentRow) toEntity() *entity.Payment {
	return &entity.Payment{
		ID:                   r.ID,
		OrderID:              r.OrderID,
		PaidBy:               r.PaidBy,
		Amount:               r.Amount,
		Method:               r.PaymentMethod,
		TransactionReference: r.TransactionReference,
		IdempotencyKey:       r.IdempotencyKey,
		CreatedAt:            r.CreatedAt,
		PaidByName:           r.PaidByName,
	}
}

func paymentSelect() squirrel.SelectBuilder {
	return psql.Select(
		"p.id", "p.order_id", "p.paid_by", "p.amount", "p.payment_method", "p.transaction_reference",
		"COALESCE(p.idempotency_key, '') AS idempotency_key", "p.created_at", "u.full_name AS paid_by_name",
	).
		From("payments p").
		Join("users u ON u.id = p.paid_by")
}

func (r *PaymentRepo) selectPayments(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.Payment, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, dbError("build payment query", err)
	}
	var rows []paymentRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, dbError("select payments", err)
	}
	out := make([]*entity.Payment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// Create registra un pago. Una clave de idempotencia ya usada devuelve domain.ErrIdempotencyConflict.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, paid_by, amount, payment_method, transaction_reference, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.OrderID, p.PaidBy, p.Amount, p.Method, p.TransactionReference, nullIfEmpty(p.IdempotencyKey), p.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrIdempotencyConflict
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: pedido o usuario inexistente", domain.ErrInvalidReference)
		case isCheckViolation(err):
			return fmt.Errorf("%w: monto o método de pago inválido", domain.ErrInvalidInput)
		}
		return dbError("insert payment", err)
	}
	return nil
}

// GetByID obtiene un pago.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	return r.getOne(ctx, paymentSelect().Where(squirrel.Eq{"p.id": id}))
}

// GetByIdempotencyKey obtiene el pago registrado con la clave dada.
func (r *PaymentRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Payment, error) {
	if key == "" {
		return nil, nil
	}
	return r.getOne(ctx, paymentSelect().Where(squirrel.Eq{"p.idempotency_key": key}))
}

func (r *PaymentRepo) getOne(ctx context.Context, q squirrel.SelectBuilder) (*entity.Payment, error) {
	list, err := r.selectPayments(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// SumByOrder total pagado del pedido, leído dentro de la misma transacción que el pago nuevo.
func (r *PaymentRepo) SumByOrder(ctx context.Context, orderID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE order_id = $1`, orderID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, dbError("sum payments", err)
	}
	return total, nil
}

// List pagos del más reciente al más antiguo, opcionalmente de un pedido.
func (r *PaymentRepo) List(ctx context.Context, filter repository.PaymentFilter) ([]*entity.Payment, error) {
	q := paymentSelect().OrderBy("p.created_at DESC", "p.id")
	if filter.OrderID != "" {
		q = q.Where(squirrel.Eq{"p.order_id": filter.OrderID})
	}
	return r.selectPayments(ctx, page(q, filter.Limit, filter.Offset))
}

// CreateReceipt emite el recibo de un pago (uno por pago).
func (r *PaymentRepo) CreateReceipt(ctx context.Context, rc *entity.Receipt) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO receipts (id, payment_id, printed_by, created_at) VALUES ($1, $2, $3, $4)`,
		rc.ID, rc.PaymentID, rc.PrintedBy, rc.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("%w: el pago ya tiene recibo", domain.ErrDuplicate)
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: pago o usuario inexistente", domain.ErrInvalidReference)
		}
		return dbError("insert receipt", err)
	}
	return nil
}

type receiptRow struct {
	ID            string          `db:"id"`
	PaymentID     string          `db:"payment_id"`
	PrintedBy     string          `db:"printed_by"`
	CreatedAt     time.Time       `db:"created_at"`
	OrderID       string          `db:"order_id"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentMethod string          `db:"payment_method"`
	PrintedByName string          `db:"printed_by_name"`
}

func receiptSelect() squirrel.SelectBuilder {
	return psql.Select(
		"r.id", "r.payment_id", "r.printed_by", "r.created_at",
		"p.order_id", "p.amount", "p.payment_method", "u.full_name AS printed_by_name",
	).
		From("receipts r").
		Join("payments p ON p.id = r.payment_id").
		Join("users u ON u.id = r.printed_by")
}

func (r *PaymentRepo) selectReceipts(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.Receipt, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, dbError("build receipt query", err)
	}
	var rows []receiptRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, dbError("select receipts", err)
	}
	out := make([]*entity.Receipt, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Receipt{
			ID:            row.ID,
			PaymentID:     row.PaymentID,
			PrintedBy:     row.PrintedBy,
			CreatedAt:     row.CreatedAt,
			OrderID:       row.OrderID,
			Amount:        row.Amount,
			PaymentMethod: row.PaymentMethod,
			PrintedByName: row.PrintedByName,
		})
	}
	return out, nil
}

// GetReceipt obtiene un recibo por ID.
func (r *PaymentRepo) GetReceipt(ctx context.Context, id string) (*entity.Receipt, error) {
	list, err := r.selectReceipts(ctx, receiptSelect().Where(squirrel.Eq{"r.id": id}))
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// GetReceiptByPayment obtiene el recibo de un pago.
func (r *PaymentRepo) GetReceiptByPayment(ctx context.Context, paymentID string) (*entity.Receipt, error) {
	list, err := r.selectReceipts(ctx, receiptSelect().Where(squirrel.Eq{"r.payment_id": paymentID}))
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// ListReceipts recibos del más reciente al más antiguo.
func (r *PaymentRepo) ListReceipts(ctx context.Context, limit, offset int) ([]*entity.Receipt, error) {
	return r.selectReceipts(ctx, page(receiptSelect().OrderBy("r.created_at DESC", "r.id"), limit, offset))
}
