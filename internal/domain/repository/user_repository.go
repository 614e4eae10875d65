package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las lecturas devuelven (nil, nil) cuando el registro no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context, filter UserFilter) ([]*entity.User, error)
	ListByRoles(ctx context.Context, roles ...string) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
}

// UserFilter filtros del listado de usuarios.
type UserFilter struct {
	Role   string
	Limit  int
	Offset int
}
