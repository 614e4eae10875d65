// Package memstore implementa los repositorios en memoria, con transacciones de todo o nada,
// para probar los casos de uso sin PostgreSQL.
//
// Una transacción trabaja sobre una copia del estado y solo la publica si la función
// termina sin error. Las transacciones se serializan con el mutex del store, lo que
// equivale a los bloqueos de fila (FOR UPDATE) de la implementación real.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

type state struct {
	users         map[string]entity.User
	categories    map[string]entity.Category
	companies     map[string]entity.Company
	medicines     map[string]entity.Medicine
	batches       map[string]entity.Batch
	movements     []entity.StockMovement
	orders        map[string]entity.Order
	items         []entity.OrderItem
	payments      map[string]entity.Payment
	receipts      map[string]entity.Receipt
	notifications map[string]entity.Notification
	deliveries    map[string]entity.Delivery
	feedback      []entity.Feedback
	messages      []entity.Message
}

func newState() *state {
	return &state{
		users:         map[string]entity.User{},
		categories:    map[string]entity.Category{},
		companies:     map[string]entity.Company{},
		medicines:     map[string]entity.Medicine{},
		batches:       map[string]entity.Batch{},
		orders:        map[string]entity.Order{},
		payments:      map[string]entity.Payment{},
		receipts:      map[string]entity.Receipt{},
		notifications: map[string]entity.Notification{},
		deliveries:    map[string]entity.Delivery{},
	}
}

func (s *state) clone() *state {
	return &state{
		users:         cloneMap(s.users),
		categories:    cloneMap(s.categories),
		companies:     cloneMap(s.companies),
		medicines:     cloneMap(s.medicines),
		batches:       cloneMap(s.batches),
		movements:     append([]entity.StockMovement(nil), s.movements...),
		orders:        cloneMap(s.orders),
		items:         append([]entity.OrderItem(nil), s.items...),
		payments:      cloneMap(s.payments),
		receipts:      cloneMap(s.receipts),
		notifications: cloneMap(s.notifications),
		deliveries:    cloneMap(s.deliveries),
		feedback:      append([]entity.Feedback(nil), s.feedback...),
		messages:      append([]entity.Message(nil), s.messages...),
	}
}

func cloneMap[T any](m map[string]T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu       sync.Mutex
	st       *state
	failures map[string]error
	seeded   int64 // fixtures creados; separa sus CreatedAt
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState(), failures: map[string]error{}}
}

// FailOn hace que la operación op (ej. "payments.CreateReceipt") devuelva err
// en lugar de ejecutarse. Sirve para verificar el rollback de las transacciones.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// ClearFailures quita todos los fallos inyectados.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]error{}
}

// view acceso al estado: vivo (tx == nil, toma el mutex por operación) o la copia de una transacción.
type view struct {
	s  *Store
	tx *state
}

func (v view) do(op string, fn func(st *state) error) error {
	if v.tx != nil {
		if err := v.s.failures[op]; err != nil {
			return err
		}
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if err := v.s.failures[op]; err != nil {
		return err
	}
	return fn(v.s.st)
}

func (s *Store) live() view { return view{s: s} }

// Repositorios sobre el estado vivo.
func (s *Store) Users() *UserRepo {
	return &UserRepo{s.live()}
}

func (s *Store) Categories() *CategoryRepo {
	return &CategoryRepo{s.live()}
}

func (s *Store) Companies() *CompanyRepo {
	return &CompanyRepo{s.live()}
}

func (s *Store) Medicines() *MedicineRepo {
	return &MedicineRepo{s.live()}
}

func (s *Store) Batches() *BatchRepo {
	return &BatchRepo{s.live()}
}

func (s *Store) Movements() *MovementRepo {
	return &MovementRepo{s.live()}
}

func (s *Store) Orders() *OrderRepo {
	return &OrderRepo{s.live()}
}

func (s *Store) Payments() *PaymentRepo {
	return &PaymentRepo{s.live()}
}

func (s *Store) Notifications() *NotificationRepo {
	return &NotificationRepo{s.live()}
}

func (s *Store) Deliveries() *DeliveryRepo {
	return &DeliveryRepo{s.live()}
}

func (s *Store) Messages() *MessageRepo {
	return &MessageRepo{s.live()}
}

// inTx ejecuta fn sobre una copia del estado y la publica solo si fn retorna nil.
func (s *Store) inTx(ctx context.Context, fn func(v view) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.st.clone()
	if err := fn(view{s: s, tx: tx}); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// TxRunner implementa los runners transaccionales de los casos de uso.
type TxRunner struct {
	s *Store
}

// TxRunner devuelve el runner transaccional del store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

func (r *TxRunner) Run(ctx context.Context, fn func(repository.BatchRepository, repository.StockMovementRepository) error) error {
	return r.s.inTx(ctx, func(v view) error {
		return fn(&BatchRepo{v}, &MovementRepo{v})
	})
}

func (r *TxRunner) RunOrder(ctx context.Context, fn func(repository.OrderRepository, repository.BatchRepository, repository.StockMovementRepository) error) error {
	return r.s.inTx(ctx, func(v view) error {
		return fn(&OrderRepo{v}, &BatchRepo{v}, &MovementRepo{v})
	})
}

func (r *TxRunner) RunPayment(ctx context.Context, fn func(repository.OrderRepository, repository.PaymentRepository) error) error {
	return r.s.inTx(ctx, func(v view) error {
		return fn(&OrderRepo{v}, &PaymentRepo{v})
	})
}

func (r *TxRunner) RunDelivery(ctx context.Context, fn func(repository.DeliveryRepository, repository.OrderRepository) error) error {
	return r.s.inTx(ctx, func(v view) error {
		return fn(&DeliveryRepo{v}, &OrderRepo{v})
	})
}

// pageBounds aplica limit/offset sobre n elementos; limit 0 = sin límite.
func pageBounds(n, limit, offset int) (int, int) {
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}

func paginate[T any](list []T, limit, offset int) []T {
	start, end := pageBounds(len(list), limit, offset)
	return list[start:end]
}

func sortedValues[T any](m map[string]T, less func(a, b *T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}

func ptr[T any](v T) *T { return &v }
