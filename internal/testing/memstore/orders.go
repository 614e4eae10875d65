package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// OrderRepo pedidos y líneas en memoria.
type OrderRepo struct{ v view }

var _ repository.OrderRepository = (*OrderRepo)(nil)

func withOrderNames(st *state, o entity.Order) *entity.Order {
	o.CustomerName = userName(st, o.CustomerID)
	o.OrderedByName = userName(st, o.OrderedBy)
	return &o
}

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.v.do("orders.Create", func(st *state) error {
		if _, ok := st.users[o.CustomerID]; !ok {
			return fmt.Errorf("%w: cliente o usuario inexistente", domain.ErrInvalidReference)
		}
		if _, ok := st.users[o.OrderedBy]; !ok {
			return fmt.Errorf("%w: cliente o usuario inexistente", domain.ErrInvalidReference)
		}
		if o.TotalAmount.IsNegative() || o.Discount.IsNegative() {
			return fmt.Errorf("%w: total o descuento negativo", domain.ErrInvalidInput)
		}
		st.orders[o.ID] = *o
		return nil
	})
}

func (r *OrderRepo) CreateItem(_ context.Context, item *entity.OrderItem) error {
	return r.v.do("orders.CreateItem", func(st *state) error {
		if _, ok := st.orders[item.OrderID]; !ok {
			return fmt.Errorf("%w: pedido o lote inexistente", domain.ErrInvalidReference)
		}
		if _, ok := st.batches[item.BatchID]; !ok {
			return fmt.Errorf("%w: pedido o lote inexistente", domain.ErrInvalidReference)
		}
		st.items = append(st.items, *item)
		return nil
	})
}

func (r *OrderRepo) get(op, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.v.do(op, func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = withOrderNames(st, o)
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	return r.get("orders.GetByID", id)
}

func (r *OrderRepo) GetForUpdate(_ context.Context, id string) (*entity.Order, error) {
	return r.get("orders.GetForUpdate", id)
}

func (r *OrderRepo) GetItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	err := r.v.do("orders.GetItems", func(st *state) error {
		for _, it := range st.items {
			if it.OrderID != orderID {
				continue
			}
			b := st.batches[it.BatchID]
			it.BatchNumber = b.BatchNumber
			it.MedicineName = st.medicines[b.MedicineID].Name
			out = append(out, ptr(it))
		}
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].MedicineName == out[j].MedicineName {
				return out[i].ID < out[j].ID
			}
			return out[i].MedicineName < out[j].MedicineName
		})
		return nil
	})
	return out, err
}

func (r *OrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.v.do("orders.List", func(st *state) error {
		all := sortedValues(st.orders, func(a, b *entity.Order) bool {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.After(b.CreatedAt)
		})
		var matched []entity.Order
		for _, o := range all {
			if filter.OrderStatus != "" && o.OrderStatus != filter.OrderStatus {
				continue
			}
			if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
				continue
			}
			if filter.CustomerID != "" && o.CustomerID != filter.CustomerID {
				continue
			}
			matched = append(matched, o)
		}
		for _, o := range paginate(matched, filter.Limit, filter.Offset) {
			out = append(out, withOrderNames(st, o))
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) UpdateOrderStatus(_ context.Context, id, status string) error {
	return r.v.do("orders.UpdateOrderStatus", func(st *state) error {
		if !entity.IsValidOrderStatus(status) {
			return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
		}
		o, ok := st.orders[id]
		if !ok {
			return domain.ErrOrderNotFound
		}
		o.OrderStatus = status
		st.orders[id] = o
		return nil
	})
}

func (r *OrderRepo) UpdatePaymentStatus(_ context.Context, id, status string) error {
	return r.v.do("orders.UpdatePaymentStatus", func(st *state) error {
		if !entity.IsValidPaymentStatus(status) {
			return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
		}
		o, ok := st.orders[id]
		if !ok {
			return domain.ErrOrderNotFound
		}
		o.PaymentStatus = status
		st.orders[id] = o
		return nil
	})
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	return r.v.do("orders.Delete", func(st *state) error {
		if _, ok := st.orders[id]; !ok {
			return domain.ErrOrderNotFound
		}
		for _, p := range st.payments {
			if p.OrderID == id {
				return fmt.Errorf("%w: el pedido tiene pagos registrados", domain.ErrConflict)
			}
		}
		delete(st.orders, id)
		// Líneas, entregas y valoraciones caen en cascada.
		var items []entity.OrderItem
		for _, it := range st.items {
			if it.OrderID != id {
				items = append(items, it)
			}
		}
		st.items = items
		for k, d := range st.deliveries {
			if d.OrderID == id {
				delete(st.deliveries, k)
			}
		}
		var feedback []entity.Feedback
		for _, f := range st.feedback {
			if f.OrderID != id {
				feedback = append(feedback, f)
			}
		}
		st.feedback = feedback
		return nil
	})
}

// PaymentRepo pagos y recibos en memoria.
type PaymentRepo struct{ v view }

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

func withPayerName(st *state, p entity.Payment) *entity.Payment {
	p.PaidByName = userName(st, p.PaidBy)
	return &p
}

func withReceiptDetail(st *state, rc entity.Receipt) *entity.Receipt {
	p := st.payments[rc.PaymentID]
	rc.OrderID, rc.Amount, rc.PaymentMethod = p.OrderID, p.Amount, p.Method
	rc.PrintedByName = userName(st, rc.PrintedBy)
	return &rc
}

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.v.do("payments.Create", func(st *state) error {
		if _, ok := st.orders[p.OrderID]; !ok {
			return fmt.Errorf("%w: pedido o usuario inexistente", domain.ErrInvalidReference)
		}
		if !p.Amount.IsPositive() || !entity.IsValidPaymentMethod(p.Method) {
			return fmt.Errorf("%w: monto o método de pago inválido", domain.ErrInvalidInput)
		}
		if p.IdempotencyKey != "" {
			for _, x := range st.payments {
				if x.IdempotencyKey == p.IdempotencyKey {
					return domain.ErrIdempotencyConflict
				}
			}
		}
		st.payments[p.ID] = *p
		return nil
	})
}

func (r *PaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	var out *entity.Payment
	err := r.v.do("payments.GetByID", func(st *state) error {
		if p, ok := st.payments[id]; ok {
			out = withPayerName(st, p)
		}
		return nil
	})
	return out, err
}

func (r *PaymentRepo) GetByIdempotencyKey(_ context.Context, key string) (*entity.Payment, error) {
	var out *entity.Payment
	err := r.v.do("payments.GetByIdempotencyKey", func(st *state) error {
		for _, p := range st.payments {
			if key != "" && p.IdempotencyKey == key {
				out = withPayerName(st, p)
			}
		}
		return nil
	})
	return out, err
}

func (r *PaymentRepo) SumByOrder(_ context.Context, orderID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.v.do("payments.SumByOrder", func(st *state) error {
		for _, p := range st.payments {
			if p.OrderID == orderID {
				sum = sum.Add(p.Amount)
			}
		}
		return nil
	})
	return sum, err
}

func (r *PaymentRepo) List(_ context.Context, filter repository.PaymentFilter) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.v.do("payments.List", func(st *state) error {
		all := sortedValues(st.payments, func(a, b *entity.Payment) bool {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.After(b.CreatedAt)
		})
		var matched []entity.Payment
		for _, p := range all {
			if filter.OrderID == "" || p.OrderID == filter.OrderID {
				matched = append(matched, p)
			}
		}
		for _, p := range paginate(matched, filter.Limit, filter.Offset) {
			out = append(out, withPayerName(st, p))
		}
		return nil
	})
	return out, err
}

func (r *PaymentRepo) CreateReceipt(_ context.Context, rc *entity.Receipt) error {
	return r.v.do("payments.CreateReceipt", func(st *state) error {
		if _, ok := st.payments[rc.PaymentID]; !ok {
			return fmt.Errorf("%w: pago o usuario inexistente", domain.ErrInvalidReference)
		}
		for _, x := range st.receipts {
			if x.PaymentID == rc.PaymentID {
				return fmt.Errorf("%w: el pago ya tiene recibo", domain.ErrDuplicate)
			}
		}
		st.receipts[rc.ID] = *rc
		return nil
	})
}

func (r *PaymentRepo) GetReceipt(_ context.Context, id string) (*entity.Receipt, error) {
	var out *entity.Receipt
	err := r.v.do("payments.GetReceipt", func(st *state) error {
		if rc, ok := st.receipts[id]; ok {
			out = withReceiptDetail(st, rc)
		}
		return nil
	})
	return out, err
}

func (r *PaymentRepo) GetReceiptByPayment(_ context.Context, paymentID string) (*entity.Receipt, error) {
	var out *entity.Receipt
	err := r.v.do("payments.GetReceiptByPayment", func(st *state) error {
		for _, rc := range st.receipts {
			if rc.PaymentID == paymentID {
				out = withReceiptDetail(st, rc)
			}
		}
		return nil
	})
	return out, err
}

func (r *PaymentRepo) ListReceipts(_ context.Context, limit, offset int) ([]*entity.Receipt, error) {
	var out []*entity.Receipt
	err := r.v.do("payments.ListReceipts", func(st *state) error {
		all := sortedValues(st.receipts, func(a, b *entity.Receipt) bool {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.After(b.CreatedAt)
		})
		for _, rc := range paginate(all, limit, offset) {
			out = append(out, withReceiptDetail(st, rc))
		}
		return nil
	})
	return out, err
}

// Counts número de filas por tabla; útil para comprobar que un rollback no dejó rastros.
type Counts struct {
	Orders, Items, Movements, Payments, Receipts, Notifications, Deliveries int
}

// Counts devuelve los conteos del estado publicado.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Orders:        len(s.st.orders),
		Items:         len(s.st.items),
		Movements:     len(s.st.movements),
		Payments:      len(s.st.payments),
		Receipts:      len(s.st.receipts),
		Notifications: len(s.st.notifications),
		Deliveries:    len(s.st.deliveries),
	}
}
