package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/testing/memstore"
)

func newUserRequest(email, role string) dto.CreateUserRequest {
	return dto.CreateUserRequest{
		RegisterRequest: dto.RegisterRequest{FullName: "Marta Gómez", Email: email, Password: "secreta123", DOB: "1990-04-12"},
		Role:            role,
	}
}

func TestUserUseCase_CreateYEmailDuplicado(t *testing.T) {
	s := memstore.New()
	uc := usecase.NewUserUseCase(s.Users())
	ctx := context.Background()

	u, err := uc.Create(ctx, newUserRequest("  Marta@Farmacia.test ", entity.RoleTechnician))
	require.NoError(t, err)
	assert.Equal(t, "marta@farmacia.test", u.Email)
	assert.Equal(t, entity.RoleTechnician, u.Role)
	assert.Equal(t, "1990-04-12", u.DOB)

	_, err = uc.Create(ctx, newUserRequest("marta@farmacia.test", entity.RoleCashier))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Create(ctx, newUserRequest("otra@farmacia.test", "Boss"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUseCase_UpdateParcial(t *testing.T) {
	s := memstore.New()
	uc := usecase.NewUserUseCase(s.Users())
	ctx := context.Background()
	u, err := uc.Create(ctx, newUserRequest("marta@farmacia.test", entity.RoleCashier))
	require.NoError(t, err)

	phone := "3001234567"
	role := entity.RoleManager
	out, err := uc.Update(ctx, u.ID, dto.UpdateUserRequest{Phone: &phone, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, phone, out.Phone)
	assert.Equal(t, entity.RoleManager, out.Role)
	assert.Equal(t, "Marta Gómez", out.FullName)

	empty := ""
	out, err = uc.Update(ctx, u.ID, dto.UpdateUserRequest{DOB: &empty})
	require.NoError(t, err)
	assert.Empty(t, out.DOB)

	missing, err := uc.Update(ctx, "00000000-0000-0000-0000-000000000000", dto.UpdateUserRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserUseCase_ChangePassword(t *testing.T) {
	s := memstore.New()
	uc := usecase.NewUserUseCase(s.Users())
	ctx := context.Background()
	u, err := uc.Create(ctx, newUserRequest("marta@farmacia.test", entity.RoleCashier))
	require.NoError(t, err)

	err = uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "equivocada", NewPassword: "nuevaClave1"}, true)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "secreta123", NewPassword: "nuevaClave1"}, true))
	require.NoError(t, uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{NewPassword: "otraClave22"}, false), "un Admin no necesita la actual")

	err = uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{NewPassword: "corta"}, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUseCase_DeleteConPedidosEsConflicto(t *testing.T) {
	s := memstore.New()
	uc := usecase.NewUserUseCase(s.Users())
	ctx := context.Background()
	staff := s.SeedUser(entity.RoleManager, "Gerente")
	customer := s.SeedUser(entity.RoleCustomer, "Cliente")
	s.SeedOrder(customer, staff, decimal.NewFromInt(1))

	assert.ErrorIs(t, uc.Delete(ctx, customer), domain.ErrConflict)

	lonely := s.SeedUser(entity.RoleCustomer, "Sin pedidos")
	require.NoError(t, uc.Delete(ctx, lonely))
	assert.ErrorIs(t, uc.Delete(ctx, lonely), domain.ErrUserNotFound)
}

func TestUserUseCase_ListPorRol(t *testing.T) {
	s := memstore.New()
	s.SeedUser(entity.RoleManager, "Gerente")
	s.SeedUser(entity.RoleCustomer, "Cliente Uno")
	s.SeedUser(entity.RoleCustomer, "Cliente Dos")

	out, err := usecase.NewUserUseCase(s.Users()).List(context.Background(), repository.UserFilter{Role: entity.RoleCustomer})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
}
