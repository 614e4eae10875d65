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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos y líneas de pedido sobre PostgreSQL.
type OrderRepo struct {
	db Querier
}

// NewOrderRepository construye el adaptador de pedidos (pool o transacción).
func NewOrderRepository(db Querier) *OrderRepo {
	return &OrderRepo{db: db}
}

type orderRow struct {
	ID            string          `db:"id"`
	CustomerID    string          `db:"customer_id"`
	OrderedBy     string          `db:"ordered_by"`
	OrderStatus   string          `db:"order_status"`
	PaymentStatus string          `db:"payment_status"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Discount      decimal.Decimal `db:"discount"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	CustomerName  string          `db:"customer_name"`
	OrderedByName string          `db:"ordered_by_name"`
}

func (r orderRow) toEntity() *entity.Order {
	return &entity.Order{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		OrderedBy:     r.OrderedBy,
		OrderStatus:   r.OrderStatus,
		PaymentStatus: r.PaymentStatus,
		TotalAmount:   r.TotalAmount,
		Discount:      r.Discount,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		CustomerName:  r.CustomerName,
		OrderedByName: r.OrderedByName,
	}
}

func orderSelect() squirrel.SelectBuilder {
	return psql.Select(
		"o.id", "o.customer_id", "o.ordered_by", "o.order_status", "o.payment_status",
		"o.total_amount", "o.discount", "o.created_at", "o.updated_at",
		"c.full_name AS customer_name", "s.full_name AS ordered_by_name",
	).
		From("orders o").
		Join("users c ON c.id = o.customer_id").
		Join("users s ON s.id = o.ordered_by")
}

func (r *OrderRepo) selectOrders(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.Order, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, dbError("build order query", err)
	}
	var rows []orderRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, dbError("select orders", err)
	}
	out := make([]*entity.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *OrderRepo) getOne(ctx context.Context, q squirrel.SelectBuilder) (*entity.Order, error) {
	list, err := r.selectOrders(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// Create persiste la cabecera del pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, ordered_by, order_status, payment_status, total_amount, discount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		o.ID, o.CustomerID, o.OrderedBy, o.OrderStatus, o.PaymentStatus,
		o.TotalAmount, o.Discount, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente o usuario inexistente", domain.ErrInvalidReference)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: total o descuento negativo", domain.ErrInvalidInput)
		}
		return dbError("insert order", err)
	}
	return nil
}

// CreateItem persiste una línea del pedido.
func (r *OrderRepo) CreateItem(ctx context.Context, item *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, batch_id, quantity, unit_price, vat_percent)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		item.ID, item.OrderID, item.BatchID, item.Quantity, item.UnitPrice, item.VATPercent,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: pedido o lote inexistente", domain.ErrInvalidReference)
		}
		return dbError("insert order item", err)
	}
	return nil
}

// GetByID obtiene un pedido con los nombres de cliente y vendedor.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect().Where(squirrel.Eq{"o.id": id}))
}

// GetForUpdate lee el pedido bloqueando su fila (FOR UPDATE OF o).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect().Where(squirrel.Eq{"o.id": id}).Suffix("FOR UPDATE OF o"))
}

type orderItemRow struct {
	ID           string          `db:"id"`
	OrderID      string          `db:"order_id"`
	BatchID      string          `db:"batch_id"`
	Quantity     int             `db:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	VATPercent   decimal.Decimal `db:"vat_percent"`
	MedicineName string          `db:"medicine_name"`
	BatchNumber  string          `db:"batch_number"`
}

// GetItems líneas del pedido con medicamento y número de lote.
func (r *OrderRepo) GetItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT i.id, i.order_id, i.batch_id, i.quantity, i.unit_price, i.vat_percent,
		       m.name AS medicine_name, b.batch_number
		FROM order_items i
		JOIN batches b ON b.id = i.batch_id
		JOIN medicines m ON m.id = b.medicine_id
		WHERE i.order_id = $1
		ORDER BY m.name, i.id`
	var rows []orderItemRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, orderID); err != nil {
		return nil, dbError("list order items", err)
	}
	out := make([]*entity.OrderItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.OrderItem{
			ID:           row.ID,
			OrderID:      row.OrderID,
			BatchID:      row.BatchID,
			Quantity:     row.Quantity,
			UnitPrice:    row.UnitPrice,
			VATPercent:   row.VATPercent,
			MedicineName: row.MedicineName,
			BatchNumber:  row.BatchNumber,
		})
	}
	return out, nil
}

// List lista pedidos del más reciente al más antiguo aplicando filtros opcionales.
func (r *OrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	q := orderSelect().OrderBy("o.created_at DESC", "o.id")
	if filter.OrderStatus != "" {
		q = q.Where(squirrel.Eq{"o.order_status": filter.OrderStatus})
	}
	if filter.PaymentStatus != "" {
		q = q.Where(squirrel.Eq{"o.payment_status": filter.PaymentStatus})
	}
	if filter.CustomerID != "" {
		q = q.Where(squirrel.Eq{"o.customer_id": filter.CustomerID})
	}
	return r.selectOrders(ctx, page(q, filter.Limit, filter.Offset))
}

// UpdateOrderStatus cambia el estado de despacho.
func (r *OrderRepo) UpdateOrderStatus(ctx context.Context, id, status string) error {
	return r.updateStatus(ctx, "order_status", id, status)
}

// UpdatePaymentStatus cambia el estado de pago.
func (r *OrderRepo) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	return r.updateStatus(ctx, "payment_status", id, status)
}

func (r *OrderRepo) updateStatus(ctx context.Context, column, id, status string) error {
	query, args, err := psql.Update("orders").
		Set(column, status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update %s: %w", column, err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
		}
		return dbError("update "+column, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// Delete elimina un pedido y sus líneas. Con pagos registrados devuelve domain.ErrConflict.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el pedido tiene pagos registrados", domain.ErrConflict)
		}
		return dbError("delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
