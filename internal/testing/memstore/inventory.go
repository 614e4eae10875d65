package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/pharmacy"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// MedicineRepo catálogo de medicamentos en memoria.
type MedicineRepo struct{ v view }

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

func checkMedicineRefs(st *state, m *entity.Medicine) error {
	if m.CategoryID != "" {
		if _, ok := st.categories[m.CategoryID]; !ok {
			return fmt.Errorf("%w: categoría o laboratorio inexistente", domain.ErrInvalidReference)
		}
	}
	if m.CompanyID != "" {
		if _, ok := st.companies[m.CompanyID]; !ok {
			return fmt.Errorf("%w: categoría o laboratorio inexistente", domain.ErrInvalidReference)
		}
	}
	return nil
}

func withMedicineNames(st *state, m entity.Medicine) *entity.Medicine {
	m.CategoryName = st.categories[m.CategoryID].Name
	m.CompanyName = st.companies[m.CompanyID].Name
	return &m
}

func (r *MedicineRepo) Create(_ context.Context, m *entity.Medicine) error {
	return r.v.do("medicines.Create", func(st *state) error {
		if err := checkMedicineRefs(st, m); err != nil {
			return err
		}
		st.medicines[m.ID] = *m
		return nil
	})
}

func (r *MedicineRepo) GetByID(_ context.Context, id string) (*entity.Medicine, error) {
	var out *entity.Medicine
	err := r.v.do("medicines.GetByID", func(st *state) error {
		if m, ok := st.medicines[id]; ok {
			out = withMedicineNames(st, m)
		}
		return nil
	})
	return out, err
}

func (r *MedicineRepo) Update(_ context.Context, m *entity.Medicine) error {
	return r.v.do("medicines.Update", func(st *state) error {
		cur, ok := st.medicines[m.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if err := checkMedicineRefs(st, m); err != nil {
			return err
		}
		cur.Name, cur.DosageForm, cur.Strength = m.Name, m.DosageForm, m.Strength
		cur.CategoryID, cur.CompanyID = m.CategoryID, m.CompanyID
		cur.RequiresPrescription, cur.UpdatedAt = m.RequiresPrescription, m.UpdatedAt
		st.medicines[m.ID] = cur
		return nil
	})
}

func (r *MedicineRepo) Delete(_ context.Context, id string) error {
	return r.v.do("medicines.Delete", func(st *state) error {
		if _, ok := st.medicines[id]; !ok {
			return domain.ErrNotFound
		}
		for _, b := range st.batches {
			if b.MedicineID == id {
				return fmt.Errorf("%w: el medicamento tiene lotes registrados", domain.ErrConflict)
			}
		}
		delete(st.medicines, id)
		return nil
	})
}

func (r *MedicineRepo) List(_ context.Context, filter repository.MedicineFilter) ([]*entity.Medicine, error) {
	var out []*entity.Medicine
	err := r.v.do("medicines.List", func(st *state) error {
		all := sortedValues(st.medicines, func(a, b *entity.Medicine) bool {
			if a.Name == b.Name {
				return a.ID < b.ID
			}
			return a.Name < b.Name
		})
		search := strings.ToLower(strings.TrimSpace(filter.Search))
		var matched []entity.Medicine
		for _, m := range all {
			if search != "" && !strings.Contains(strings.ToLower(m.Name), search) {
				continue
			}
			if filter.CategoryID != "" && m.CategoryID != filter.CategoryID {
				continue
			}
			if filter.CompanyID != "" && m.CompanyID != filter.CompanyID {
				continue
			}
			matched = append(matched, m)
		}
		for _, m := range paginate(matched, filter.Limit, filter.Offset) {
			out = append(out, withMedicineNames(st, m))
		}
		return nil
	})
	return out, err
}

// BatchRepo lotes en memoria. Mantiene quantity >= 0 como el CHECK de la tabla.
type BatchRepo struct{ v view }

var _ repository.BatchRepository = (*BatchRepo)(nil)

func withMedicineName(st *state, b entity.Batch) *entity.Batch {
	b.MedicineName = st.medicines[b.MedicineID].Name
	return &b
}

func (r *BatchRepo) Create(_ context.Context, b *entity.Batch) error {
	return r.v.do("batches.Create", func(st *state) error {
		if _, ok := st.medicines[b.MedicineID]; !ok {
			return fmt.Errorf("%w: medicamento inexistente", domain.ErrInvalidReference)
		}
		if b.Quantity < 0 || b.PurchasePrice.IsNegative() || b.SellingPrice.IsNegative() {
			return fmt.Errorf("%w: cantidad o precios negativos", domain.ErrInvalidInput)
		}
		for _, x := range st.batches {
			if x.MedicineID == b.MedicineID && x.BatchNumber == b.BatchNumber {
				return fmt.Errorf("%w: el lote %s ya existe para el medicamento", domain.ErrDuplicate, b.BatchNumber)
			}
		}
		st.batches[b.ID] = *b
		return nil
	})
}

func (r *BatchRepo) get(op, id string) (*entity.Batch, error) {
	var out *entity.Batch
	err := r.v.do(op, func(st *state) error {
		if b, ok := st.batches[id]; ok {
			out = withMedicineName(st, b)
		}
		return nil
	})
	return out, err
}

func (r *BatchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	return r.get("batches.GetByID", id)
}

func (r *BatchRepo) GetForUpdate(_ context.Context, id string) (*entity.Batch, error) {
	return r.get("batches.GetForUpdate", id)
}

func (r *BatchRepo) AdjustQuantity(_ context.Context, id string, delta int) (int, error) {
	var qty int
	err := r.v.do("batches.AdjustQuantity", func(st *state) error {
		b, ok := st.batches[id]
		if !ok {
			return domain.ErrBatchNotFound
		}
		if b.Quantity+delta < 0 {
			return domain.ErrInsufficientStock
		}
		b.Quantity += delta
		st.batches[id] = b
		qty = b.Quantity
		return nil
	})
	return qty, err
}

func (r *BatchRepo) filter(op string, keep func(b *entity.Batch) bool, less func(a, b *entity.Batch) bool, limit, offset int) ([]*entity.Batch, error) {
	var out []*entity.Batch
	err := r.v.do(op, func(st *state) error {
		all := sortedValues(st.batches, less)
		var matched []entity.Batch
		for i := range all {
			if keep(&all[i]) {
				matched = append(matched, all[i])
			}
		}
		for _, b := range paginate(matched, limit, offset) {
			out = append(out, withMedicineName(st, b))
		}
		return nil
	})
	return out, err
}

func byExpiry(a, b *entity.Batch) bool {
	if a.ExpiryDate.Equal(b.ExpiryDate) {
		return a.ID < b.ID
	}
	return a.ExpiryDate.Before(b.ExpiryDate)
}

func (r *BatchRepo) List(_ context.Context, filter repository.BatchFilter) ([]*entity.Batch, error) {
	return r.filter("batches.List", func(b *entity.Batch) bool {
		if filter.MedicineID != "" && b.MedicineID != filter.MedicineID {
			return false
		}
		return filter.LowStockThreshold <= 0 || b.Quantity < filter.LowStockThreshold
	}, byExpiry, filter.Limit, filter.Offset)
}

func (r *BatchRepo) ListLowStock(_ context.Context, threshold int) ([]*entity.Batch, error) {
	return r.filter("batches.ListLowStock", func(b *entity.Batch) bool {
		return b.Quantity < threshold
	}, func(a, b *entity.Batch) bool {
		if a.Quantity == b.Quantity {
			return a.ID < b.ID
		}
		return a.Quantity < b.Quantity
	}, 0, 0)
}

func (r *BatchRepo) ListExpiringBy(_ context.Context, cutoff time.Time) ([]*entity.Batch, error) {
	return r.filter("batches.ListExpiringBy", func(b *entity.Batch) bool {
		return pharmacy.IsExpiringSoon(b, cutoff)
	}, byExpiry, 0, 0)
}

// MovementRepo libro de movimientos en memoria (append-only).
type MovementRepo struct{ v view }

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.v.do("movements.Create", func(st *state) error {
		if _, ok := st.batches[m.BatchID]; !ok {
			return fmt.Errorf("%w: lote o usuario inexistente", domain.ErrInvalidReference)
		}
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *MovementRepo) ListByBatch(_ context.Context, batchID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.v.do("movements.ListByBatch", func(st *state) error {
		// Recorrido inverso + orden estable: a igual instante, el último insertado va primero.
		var matched []entity.StockMovement
		for i := len(st.movements) - 1; i >= 0; i-- {
			if st.movements[i].BatchID == batchID {
				matched = append(matched, st.movements[i])
			}
		}
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
		for _, m := range paginate(matched, limit, offset) {
			out = append(out, ptr(m))
		}
		return nil
	})
	return out, err
}

// AllMovements copia del libro completo en orden de inserción.
func (s *Store) AllMovements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockMovement(nil), s.st.movements...)
}
