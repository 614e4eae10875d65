package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// seedTime instante estrictamente creciente entre fixtures, para que el orden por created_at sea el de creación.
func (s *Store) seedTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeded++
	return time.Now().Add(time.Duration(s.seeded) * time.Millisecond)
}

// SeedUser inserta un usuario con el rol dado y devuelve su ID.
func (s *Store) SeedUser(role, fullName string) string {
	u := &entity.User{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        uuid.New().String() + "@farmacia.test",
		PasswordHash: "x",
		Role:         role,
	}
	u.CreatedAt = s.seedTime()
	u.UpdatedAt = u.CreatedAt
	if err := s.Users().Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u.ID
}

// SeedMedicine inserta un medicamento sin categoría ni laboratorio y devuelve su ID.
func (s *Store) SeedMedicine(name string) string {
	now := s.seedTime()
	m := &entity.Medicine{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.Medicines().Create(context.Background(), m); err != nil {
		panic(err)
	}
	return m.ID
}

// SeedBatch inserta un lote del medicamento y devuelve su ID.
func (s *Store) SeedBatch(medicineID, batchNumber string, quantity int, expiry time.Time, price decimal.Decimal) string {
	b := &entity.Batch{
		ID:            uuid.New().String(),
		MedicineID:    medicineID,
		BatchNumber:   batchNumber,
		Quantity:      quantity,
		ExpiryDate:    expiry,
		PurchasePrice: price,
		SellingPrice:  price,
		CreatedAt:     s.seedTime(),
	}
	if err := s.Batches().Create(context.Background(), b); err != nil {
		panic(err)
	}
	return b.ID
}

// SeedOrder inserta un pedido PENDING/UNPAID sin líneas con el total dado y devuelve su ID.
func (s *Store) SeedOrder(customerID, orderedBy string, total decimal.Decimal) string {
	now := s.seedTime()
	o := &entity.Order{
		ID:            uuid.New().String(),
		CustomerID:    customerID,
		OrderedBy:     orderedBy,
		OrderStatus:   entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusUnpaid,
		TotalAmount:   total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Orders().Create(context.Background(), o); err != nil {
		panic(err)
	}
	return o.ID
}

// BatchQuantity cantidad actual del lote (-1 si no existe).
func (s *Store) BatchQuantity(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.batches[id]
	if !ok {
		return -1
	}
	return b.Quantity
}
