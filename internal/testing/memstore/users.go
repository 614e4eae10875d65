package memstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// UserRepo usuarios en memoria (email único).
type UserRepo struct{ v view }

var _ repository.UserRepository = (*UserRepo)(nil)

func emailTaken(st *state, email, exceptID string) bool {
	for _, u := range st.users {
		if u.ID != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.do("users.Create", func(st *state) error {
		if emailTaken(st, u.Email, "") {
			return domain.ErrEmailAlreadyExists
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.do("users.GetByID", func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = ptr(u)
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.v.do("users.GetByEmail", func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				out = ptr(u)
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	return r.v.do("users.Update", func(st *state) error {
		cur, ok := st.users[u.ID]
		if !ok {
			return domain.ErrUserNotFound
		}
		if emailTaken(st, u.Email, u.ID) {
			return domain.ErrEmailAlreadyExists
		}
		cur.FullName, cur.Email, cur.Phone = u.FullName, u.Email, u.Phone
		cur.DOB, cur.Address, cur.Role, cur.UpdatedAt = u.DOB, u.Address, u.Role, u.UpdatedAt
		st.users[u.ID] = cur
		return nil
	})
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return r.v.do("users.UpdatePassword", func(st *state) error {
		cur, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		cur.PasswordHash = passwordHash
		st.users[id] = cur
		return nil
	})
}

func (r *UserRepo) List(_ context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	var out []*entity.User
	err := r.v.do("users.List", func(st *state) error {
		all := sortedValues(st.users, func(a, b *entity.User) bool { return a.CreatedAt.After(b.CreatedAt) })
		var matched []entity.User
		for _, u := range all {
			if filter.Role == "" || u.Role == filter.Role {
				matched = append(matched, u)
			}
		}
		for _, u := range paginate(matched, filter.Limit, filter.Offset) {
			out = append(out, ptr(u))
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) ListByRoles(_ context.Context, roles ...string) ([]*entity.User, error) {
	var out []*entity.User
	err := r.v.do("users.ListByRoles", func(st *state) error {
		all := sortedValues(st.users, func(a, b *entity.User) bool {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.Before(b.CreatedAt)
		})
		for _, u := range all {
			for _, role := range roles {
				if u.Role == role {
					out = append(out, ptr(u))
					break
				}
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	return r.v.do("users.Delete", func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrUserNotFound
		}
		for _, o := range st.orders {
			if o.CustomerID == id || o.OrderedBy == id {
				return fmt.Errorf("%w: el usuario tiene pedidos o pagos asociados", domain.ErrConflict)
			}
		}
		for _, p := range st.payments {
			if p.PaidBy == id {
				return fmt.Errorf("%w: el usuario tiene pedidos o pagos asociados", domain.ErrConflict)
			}
		}
		delete(st.users, id)
		return nil
	})
}

func userName(st *state, id string) string {
	return st.users[id].FullName
}
