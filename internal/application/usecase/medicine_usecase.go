package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// MedicineUseCase aplica reglas de negocio para el catálogo de medicamentos.
type MedicineUseCase struct {
	repo repository.MedicineRepository
}

// NewMedicineUseCase construye el caso de uso con el puerto de persistencia.
func NewMedicineUseCase(repo repository.MedicineRepository) *MedicineUseCase {
	return &MedicineUseCase{repo: repo}
}

// Create crea un medicamento. Categoría o laboratorio inexistentes devuelven domain.ErrInvalidReference.
func (uc *MedicineUseCase) Create(ctx context.Context, in dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	m := &entity.Medicine{
		ID:                   uuid.New().String(),
		Name:                 in.Name,
		DosageForm:           in.DosageForm,
		Strength:             in.Strength,
		CategoryID:           in.CategoryID,
		CompanyID:            in.CompanyID,
		RequiresPrescription: in.RequiresPrescription,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	// Releer para devolver nombres de categoría y laboratorio.
	return uc.GetByID(ctx, m.ID)
}

// GetByID obtiene un medicamento por ID. Retorna (nil, nil) si no existe.
func (uc *MedicineUseCase) GetByID(ctx context.Context, id string) (*dto.MedicineResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	out := dto.NewMedicineResponse(m)
	return &out, nil
}

// List medicamentos con búsqueda por nombre y filtros por categoría/laboratorio.
func (uc *MedicineUseCase) List(ctx context.Context, filter repository.MedicineFilter) (*dto.MedicineListResponse, error) {
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.MedicineListResponse{
		Items: make([]dto.MedicineResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, dto.NewMedicineResponse(m))
	}
	return out, nil
}

// Update actualización parcial. Retorna (nil, nil) si no existe.
func (uc *MedicineUseCase) Update(ctx context.Context, id string, in dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		m.Name = *in.Name
	}
	if in.DosageForm != nil {
		m.DosageForm = *in.DosageForm
	}
	if in.Strength != nil {
		m.Strength = *in.Strength
	}
	if in.CategoryID != nil {
		m.CategoryID = *in.CategoryID
	}
	if in.CompanyID != nil {
		m.CompanyID = *in.CompanyID
	}
	if in.RequiresPrescription != nil {
		m.RequiresPrescription = *in.RequiresPrescription
	}
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina un medicamento. Con lotes asociados devuelve domain.ErrConflict.
func (uc *MedicineUseCase) Delete(ctx context.Context, id string) error {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}
