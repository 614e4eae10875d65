package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/testing/memstore"
	"github.com/jhoicas/Farmacia-api/pkg/jwt"
)

const testSecret = "secreto-de-pruebas"

func newAuth(s *memstore.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 15, Issuer: "farmacia-api"})
}

// TestRegister_CreaClienteYEmiteToken: el registro público siempre crea rol Customer.
func TestRegister_CreaClienteYEmiteToken(t *testing.T) {
	s := memstore.New()
	out, err := newAuth(s).Register(context.Background(), dto.RegisterRequest{
		FullName: "Luis Pérez", Email: "Luis@Correo.test", Password: "clave-segura",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, out.User.Role)
	assert.Equal(t, "luis@correo.test", out.User.Email)

	userID, role, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, entity.RoleCustomer, role)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	s := memstore.New()
	uc := newAuth(s)
	in := dto.RegisterRequest{FullName: "Luis", Email: "luis@correo.test", Password: "clave-segura"}
	_, err := uc.Register(context.Background(), in)
	require.NoError(t, err)

	in.Email = " LUIS@correo.test"
	_, err = uc.Register(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	s := memstore.New()
	uc := newAuth(s)
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{FullName: "Luis", Email: "luis@correo.test", Password: "clave-segura"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "LUIS@correo.test", Password: "clave-segura"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "luis@correo.test", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@correo.test", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestNewUser_Validaciones(t *testing.T) {
	valid := dto.RegisterRequest{FullName: "Ana", Email: "ana@correo.test", Password: "12345678"}

	_, err := auth.NewUser(valid, "Boss")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	short := valid
	short.Password = "1234567"
	_, err = auth.NewUser(short, entity.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	badDOB := valid
	badDOB.DOB = "12/04/1990"
	_, err = auth.NewUser(badDOB, entity.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	u, err := auth.NewUser(valid, entity.RoleDelivery)
	require.NoError(t, err)
	assert.NotEqual(t, valid.Password, u.PasswordHash)
	assert.Equal(t, entity.RoleDelivery, u.Role)
}
