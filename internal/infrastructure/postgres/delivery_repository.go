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

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo entregas y valoraciones sobre PostgreSQL.
type DeliveryRepo struct {
	db Querier
}

// NewDeliveryRepository construye el adaptador de entregas (pool o transacción).
func NewDeliveryRepository(db Querier) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

type deliveryRow struct {
	ID                 string          `db:"id"`
	OrderID            string          `db:"order_id"`
	DeliveryPersonID   string          `db:"delivery_person_id"`
	DeliveryAddress    string          `db:"delivery_address"`
	Status             string          `db:"status"`
	DeliveredAt        *time.Time      `db:"delivered_at"`
	CreatedAt          time.Time       `db:"created_at"`
	OrderTotal         decimal.Decimal `db:"order_total"`
	DeliveryPersonName string          `db:"delivery_person_name"`
	CustomerName       string          `db:"customer_name"`
}

func (r deliveryRow) toEntity() *entity.Delivery {
	return &entity.Delivery{
		ID:                 r.ID,
		OrderID:            r.OrderID,
		DeliveryPersonID:   r.DeliveryPersonID,
		DeliveryAddress:    r.DeliveryAddress,
		Status:             r.Status,
		DeliveredAt:        r.DeliveredAt,
		CreatedAt:          r.CreatedAt,
		OrderTotal:         r.OrderTotal,
		DeliveryPersonName: r.DeliveryPersonName,
		CustomerName:       r.CustomerName,
	}
}

func deliverySelect() squirrel.SelectBuilder {
	return psql.Select(
		"d.id", "d.order_id", "d.delivery_person_id", "d.delivery_address", "d.status",
		"d.delivered_at", "d.created_at", "o.total_amount AS order_total",
		"dp.full_name AS delivery_person_name", "c.full_name AS customer_name",
	).
		From("deliveries d").
		Join("orders o ON o.id = d.order_id").
		Join("users dp ON dp.id = d.delivery_person_id").
		Join("users c ON c.id = o.customer_id")
}

func (r *DeliveryRepo) selectDeliveries(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.Delivery, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, dbError("build delivery query", err)
	}
	var rows []deliveryRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, dbError("select deliveries", err)
	}
	out := make([]*entity.Delivery, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *DeliveryRepo) getOne(ctx context.Context, q squirrel.SelectBuilder) (*entity.Delivery, error) {
	list, err := r.selectDeliveries(ctx, q)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// Create registra una entrega.
func (r *DeliveryRepo) Create(ctx context.Context, d *entity.Delivery) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO deliveries (id, order_id, delivery_person_id, delivery_address, status, delivered_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.OrderID, d.DeliveryPersonID, d.DeliveryAddress, d.Status, d.DeliveredAt, d.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: pedido o repartidor inexistente", domain.ErrInvalidReference)
		}
		return dbError("insert delivery", err)
	}
	return nil
}

// GetByID obtiene una entrega.
func (r *DeliveryRepo) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	return r.getOne(ctx, deliverySelect().Where(squirrel.Eq{"d.id": id}))
}

// GetForUpdate lee la entrega bloqueando su fila.
func (r *DeliveryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error) {
	return r.getOne(ctx, deliverySelect().Where(squirrel.Eq{"d.id": id}).Suffix("FOR UPDATE OF d"))
}

// List entregas más recientes primero, por repartidor y/o estado.
func (r *DeliveryRepo) List(ctx context.Context, filter repository.DeliveryFilter) ([]*entity.Delivery, error) {
	q := deliverySelect().OrderBy("d.created_at DESC", "d.id")
	if filter.DeliveryPersonID != "" {
		q = q.Where(squirrel.Eq{"d.delivery_person_id": filter.DeliveryPersonID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"d.status": filter.Status})
	}
	return r.selectDeliveries(ctx, page(q, filter.Limit, filter.Offset))
}

// UpdateStatus cambia el estado y la fecha de entrega.
func (r *DeliveryRepo) UpdateStatus(ctx context.Context, id, status string, deliveredAt *time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE deliveries SET status = $2, delivered_at = $3 WHERE id = $1`, id, status, deliveredAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
		}
		return dbError("update delivery status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateFeedback registra una valoración.
func (r *DeliveryRepo) CreateFeedback(ctx context.Context, f *entity.Feedback) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO delivery_feedback (id, order_id, user_id, message, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.OrderID, f.UserID, f.Message, f.Rating, f.CreatedAt,
	)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: pedido inexistente", domain.ErrInvalidReference)
		case isCheckViolation(err):
			return fmt.Errorf("%w: la valoración debe estar entre 1 y 5", domain.ErrInvalidInput)
		}
		return dbError("insert feedback", err)
	}
	return nil
}

type feedbackRow struct {
	ID        string    `db:"id"`
	OrderID   string    `db:"order_id"`
	UserID    string    `db:"user_id"`
	Message   string    `db:"message"`
	Rating    int       `db:"rating"`
	CreatedAt time.Time `db:"created_at"`
	UserName  string    `db:"user_name"`
}

// ListFeedback valoraciones más recientes primero.
func (r *DeliveryRepo) ListFeedback(ctx context.Context, limit, offset int) ([]*entity.Feedback, error) {
	q := psql.Select(
		"f.id", "f.order_id", "f.user_id", "f.message", "f.rating", "f.created_at", "u.full_name AS user_name",
	).
		From("delivery_feedback f").
		Join("users u ON u.id = f.user_id").
		OrderBy("f.created_at DESC", "f.id")
	query, args, err := page(q, limit, offset).ToSql()
	if err != nil {
		return nil, dbError("build list feedback", err)
	}
	var rows []feedbackRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, dbError("list feedback", err)
	}
	out := make([]*entity.Feedback, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Feedback{
			ID: row.ID, OrderID: row.OrderID, UserID: row.UserID, Message: row.Message,
			Rating: row.Rating, CreatedAt: row.CreatedAt, UserName: row.UserName,
		})
	}
	return out, nil
}
