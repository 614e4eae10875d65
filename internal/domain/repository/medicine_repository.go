package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// MedicineRepository persistencia del catálogo de medicamentos.
type MedicineRepository interface {
	Create(ctx context.Context, m *entity.Medicine) error
	GetByID(ctx context.Context, id string) (*entity.Medicine, error)
	Update(ctx context.Context, m *entity.Medicine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter MedicineFilter) ([]*entity.Medicine, error)
}

// MedicineFilter filtros opcionales del listado (cadena vacía = sin filtro).
type MedicineFilter struct {
	Search     string // coincidencia parcial por nombre
	CategoryID string
	CompanyID  string
	Limit      int
	Offset     int
}
