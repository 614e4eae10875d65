package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// fakeQuerier responde a toda consulta con el mismo error.
type fakeQuerier struct {
	err error
}

func (f fakeQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, f.err
}

func (f fakeQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{f.err}
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func pgErr(code string) error {
	return &pgconn.PgError{Code: code, Message: "detalle interno de postgres"}
}

func TestDBError_ValoresRechazadosSonEntradaInvalida(t *testing.T) {
	for _, code := range []string{"22P02", "22001", "22003", "23514"} {
		t.Run(code, func(t *testing.T) {
			err := dbError("select orders", pgErr(code))
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.NotContains(t, err.Error(), "detalle interno", "no debe filtrar el mensaje de postgres")
		})
	}
}

func TestDBError_OtrosErroresConservanLaCausa(t *testing.T) {
	err := dbError("select orders", pgErr("57014"))
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
	var pe *pgconn.PgError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "57014", pe.Code)

	err = dbError("select orders", context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "select orders")
}

func TestCreate_TraduceErroresDePostgres(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		code string
		call func(q Querier) error
		want error
	}{
		{"pedido con total negativo", "23514", func(q Querier) error {
			return NewOrderRepository(q).Create(ctx, &entity.Order{})
		}, domain.ErrInvalidInput},
		{"pedido con cliente inexistente", "23503", func(q Querier) error {
			return NewOrderRepository(q).Create(ctx, &entity.Order{})
		}, domain.ErrInvalidReference},
		{"pedido con id mal formado", "22P02", func(q Querier) error {
			return NewOrderRepository(q).Create(ctx, &entity.Order{})
		}, domain.ErrInvalidInput},
		{"línea con lote inexistente", "23503", func(q Querier) error {
			return NewOrderRepository(q).CreateItem(ctx, &entity.OrderItem{})
		}, domain.ErrInvalidReference},
		{"lote duplicado", "23505", func(q Querier) error {
			return NewBatchRepository(q).Create(ctx, &entity.Batch{})
		}, domain.ErrDuplicate},
		{"lote de medicamento inexistente", "23503", func(q Querier) error {
			return NewBatchRepository(q).Create(ctx, &entity.Batch{})
		}, domain.ErrInvalidReference},
		{"lote con cantidad negativa", "23514", func(q Querier) error {
			return NewBatchRepository(q).Create(ctx, &entity.Batch{})
		}, domain.ErrInvalidInput},
		{"categoría duplicada", "23505", func(q Querier) error {
			return NewCategoryRepository(q).Create(ctx, &entity.Category{})
		}, domain.ErrDuplicate},
		{"laboratorio duplicado", "23505", func(q Querier) error {
			return NewCompanyRepository(q).Create(ctx, &entity.Company{})
		}, domain.ErrDuplicate},
		{"nombre de laboratorio demasiado largo", "22001", func(q Querier) error {
			return NewCompanyRepository(q).Create(ctx, &entity.Company{})
		}, domain.ErrInvalidInput},
		{"entrega de pedido inexistente", "23503", func(q Querier) error {
			return NewDeliveryRepository(q).Create(ctx, &entity.Delivery{})
		}, domain.ErrInvalidReference},
		{"valoración fuera de rango", "23514", func(q Querier) error {
			return NewDeliveryRepository(q).CreateFeedback(ctx, &entity.Feedback{})
		}, domain.ErrInvalidInput},
		{"medicamento con categoría inexistente", "23503", func(q Querier) error {
			return NewMedicineRepository(q).Create(ctx, &entity.Medicine{})
		}, domain.ErrInvalidReference},
		{"mensaje a usuario inexistente", "23503", func(q Querier) error {
			return NewMessageRepository(q).Create(ctx, &entity.Message{})
		}, domain.ErrUserNotFound},
		{"notificación a usuario inexistente", "23503", func(q Querier) error {
			return NewNotificationRepository(q).Create(ctx, &entity.Notification{})
		}, domain.ErrUserNotFound},
		{"clave de idempotencia repetida", "23505", func(q Querier) error {
			return NewPaymentRepository(q).Create(ctx, &entity.Payment{})
		}, domain.ErrIdempotencyConflict},
		{"clave de idempotencia demasiado larga", "22001", func(q Querier) error {
			return NewPaymentRepository(q).Create(ctx, &entity.Payment{})
		}, domain.ErrInvalidInput},
		{"método de pago inválido", "23514", func(q Querier) error {
			return NewPaymentRepository(q).Create(ctx, &entity.Payment{})
		}, domain.ErrInvalidInput},
		{"recibo repetido", "23505", func(q Querier) error {
			return NewPaymentRepository(q).CreateReceipt(ctx, &entity.Receipt{})
		}, domain.ErrDuplicate},
		{"recibo de pago inexistente", "23503", func(q Querier) error {
			return NewPaymentRepository(q).CreateReceipt(ctx, &entity.Receipt{})
		}, domain.ErrInvalidReference},
		{"movimiento de lote inexistente", "23503", func(q Querier) error {
			return NewStockMovementRepository(q).Create(ctx, &entity.StockMovement{})
		}, domain.ErrInvalidReference},
		{"email repetido", "23505", func(q Querier) error {
			return NewUserRepository(q).Create(ctx, &entity.User{})
		}, domain.ErrEmailAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call(fakeQuerier{err: pgErr(tt.code)})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreate_SinErrorRetornaNil(t *testing.T) {
	ctx := context.Background()
	q := fakeQuerier{}
	assert.NoError(t, NewOrderRepository(q).Create(ctx, &entity.Order{}))
	assert.NoError(t, NewPaymentRepository(q).Create(ctx, &entity.Payment{}))
	assert.NoError(t, NewUserRepository(q).Create(ctx, &entity.User{}))
}

func TestConsultas_IDMalFormadoEsEntradaInvalida(t *testing.T) {
	ctx := context.Background()
	q := fakeQuerier{err: pgErr("22P02")}

	_, err := NewOrderRepository(q).GetByID(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = NewBatchRepository(q).GetForUpdate(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = NewMedicineRepository(q).GetByID(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = NewPaymentRepository(q).GetByIdempotencyKey(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConsultas_ErrorNoMapeadoNoEsDeDominio(t *testing.T) {
	_, err := NewOrderRepository(fakeQuerier{err: pgErr("57014")}).GetByID(context.Background(), "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
