package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// CatalogUseCase mantenimiento de categorías y laboratorios.
type CatalogUseCase struct {
	categoryRepo repository.CategoryRepository
	companyRepo  repository.CompanyRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(categoryRepo repository.CategoryRepository, companyRepo repository.CompanyRepository) *CatalogUseCase {
	return &CatalogUseCase{categoryRepo: categoryRepo, companyRepo: companyRepo}
}

// ListCategories todas las categorías por nombre.
func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// CreateCategory crea una categoría. Devuelve domain.ErrDuplicate si el nombre ya existe.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	if err := uc.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// UpdateCategory renombra una categoría. Retorna (nil, nil) si no existe.
func (uc *CatalogUseCase) UpdateCategory(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	c.Name = name
	if err := uc.categoryRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// DeleteCategory elimina una categoría.
func (uc *CatalogUseCase) DeleteCategory(ctx context.Context, id string) error {
	c, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return uc.categoryRepo.Delete(ctx, id)
}

// ListCompanies todos los laboratorios por nombre.
func (uc *CatalogUseCase) ListCompanies(ctx context.Context) ([]dto.CompanyResponse, error) {
	list, err := uc.companyRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCompanyResponse(c))
	}
	return out, nil
}

// CreateCompany crea un laboratorio. Devuelve domain.ErrDuplicate si el nombre ya existe.
func (uc *CatalogUseCase) CreateCompany(ctx context.Context, in dto.CompanyRequest) (*dto.CompanyResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	c := &entity.Company{ID: uuid.New().String(), Name: name, ContactInfo: in.ContactInfo, CreatedAt: time.Now()}
	if err := uc.companyRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := toCompanyResponse(c)
	return &out, nil
}

// UpdateCompany actualiza un laboratorio. Retorna (nil, nil) si no existe.
func (uc *CatalogUseCase) UpdateCompany(ctx context.Context, id string, in dto.CompanyRequest) (*dto.CompanyResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.companyRepo.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	c.Name = name
	c.ContactInfo = in.ContactInfo
	if err := uc.companyRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	out := toCompanyResponse(c)
	return &out, nil
}

// DeleteCompany elimina un laboratorio.
func (uc *CatalogUseCase) DeleteCompany(ctx context.Context, id string) error {
	c, err := uc.companyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return uc.companyRepo.Delete(ctx, id)
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func toCompanyResponse(c *entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{ID: c.ID, Name: c.Name, ContactInfo: c.ContactInfo, CreatedAt: c.CreatedAt}
}
