package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/testing/memstore"
)

func TestCatalog_CategoriasUnicas(t *testing.T) {
	s := memstore.New()
	uc := usecase.NewCatalogUseCase(s.Categories(), s.Companies())
	ctx := context.Background()

	c, err := uc.CreateCategory(ctx, dto.CategoryRequest{Name: "  Analgésicos "})
	require.NoError(t, err)
	assert.Equal(t, "Analgésicos", c.Name)

	_, err = uc.CreateCategory(ctx, dto.CategoryRequest{Name: "Analgésicos"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.CreateCategory(ctx, dto.CategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateCategory(ctx, dto.CategoryRequest{Name: "Antibióticos"})
	require.NoError(t, err)
	list, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Analgésicos", list[0].Name)
}

// TestCatalog_BorrarCategoriaDesvinculaMedicamentos: el medicamento sobrevive sin categoría.
func TestCatalog_BorrarCategoriaDesvinculaMedicamentos(t *testing.T) {
	s := memstore.New()
	catalog := usecase.NewCatalogUseCase(s.Categories(), s.Companies())
	medicines := usecase.NewMedicineUseCase(s.Medicines())
	ctx := context.Background()

	cat, err := catalog.CreateCategory(ctx, dto.CategoryRequest{Name: "Antigripales"})
	require.NoError(t, err)
	lab, err := catalog.CreateCompany(ctx, dto.CompanyRequest{Name: "Genfar", ContactInfo: "ventas@genfar.test"})
	require.NoError(t, err)
	med, err := medicines.Create(ctx, dto.CreateMedicineRequest{Name: "Noxpirin", CategoryID: cat.ID, CompanyID: lab.ID})
	require.NoError(t, err)
	assert.Equal(t, "Antigripales", med.CategoryName)
	assert.Equal(t, "Genfar", med.CompanyName)

	require.NoError(t, catalog.DeleteCategory(ctx, cat.ID))
	got, err := medicines.GetByID(ctx, med.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.CategoryID)
	assert.Equal(t, lab.ID, got.CompanyID)

	assert.ErrorIs(t, catalog.DeleteCategory(ctx, cat.ID), domain.ErrNotFound)
}

func TestMedicine_ReferenciasYConflictos(t *testing.T) {
	s := memstore.New()
	uc := usecase.NewMedicineUseCase(s.Medicines())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateMedicineRequest{Name: "Sin categoría", CategoryID: "00000000-0000-0000-0000-000000000000"})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	m, err := uc.Create(ctx, dto.CreateMedicineRequest{Name: "Acetaminofén", DosageForm: "Tableta", Strength: "500 mg"})
	require.NoError(t, err)

	name := "Acetaminofén Forte"
	rx := true
	out, err := uc.Update(ctx, m.ID, dto.UpdateMedicineRequest{Name: &name, RequiresPrescription: &rx})
	require.NoError(t, err)
	assert.Equal(t, name, out.Name)
	assert.True(t, out.RequiresPrescription)
	assert.Equal(t, "500 mg", out.Strength)

	list, err := uc.List(ctx, repository.MedicineFilter{Search: "forte"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	s.SeedBatch(m.ID, "AF-1", 1, time.Now().AddDate(1, 0, 0), decimal.NewFromInt(2))
	assert.ErrorIs(t, uc.Delete(ctx, m.ID), domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(ctx, "00000000-0000-0000-0000-000000000000"), domain.ErrNotFound)
}
