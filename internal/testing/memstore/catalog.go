package memstore

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// CategoryRepo categorías en memoria (nombre único).
type CategoryRepo struct{ v view }

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.v.do("categories.Create", func(st *state) error {
		for _, x := range st.categories {
			if x.Name == c.Name {
				return domain.ErrDuplicate
			}
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.do("categories.GetByID", func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = ptr(c)
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.v.do("categories.Update", func(st *state) error {
		cur, ok := st.categories[c.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for _, x := range st.categories {
			if x.ID != c.ID && x.Name == c.Name {
				return domain.ErrDuplicate
			}
		}
		cur.Name = c.Name
		st.categories[c.ID] = cur
		return nil
	})
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	return r.v.do("categories.Delete", func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.categories, id)
		for k, m := range st.medicines {
			if m.CategoryID == id {
				m.CategoryID = ""
				st.medicines[k] = m
			}
		}
		return nil
	})
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.do("categories.List", func(st *state) error {
		for _, c := range sortedValues(st.categories, func(a, b *entity.Category) bool { return a.Name < b.Name }) {
			out = append(out, ptr(c))
		}
		return nil
	})
	return out, err
}

// CompanyRepo laboratorios en memoria (nombre único).
type CompanyRepo struct{ v view }

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.v.do("companies.Create", func(st *state) error {
		for _, x := range st.companies {
			if x.Name == c.Name {
				return domain.ErrDuplicate
			}
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.v.do("companies.GetByID", func(st *state) error {
		if c, ok := st.companies[id]; ok {
			out = ptr(c)
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	return r.v.do("companies.Update", func(st *state) error {
		cur, ok := st.companies[c.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for _, x := range st.companies {
			if x.ID != c.ID && x.Name == c.Name {
				return domain.ErrDuplicate
			}
		}
		cur.Name, cur.ContactInfo = c.Name, c.ContactInfo
		st.companies[c.ID] = cur
		return nil
	})
}

func (r *CompanyRepo) Delete(_ context.Context, id string) error {
	return r.v.do("companies.Delete", func(st *state) error {
		if _, ok := st.companies[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.companies, id)
		for k, m := range st.medicines {
			if m.CompanyID == id {
				m.CompanyID = ""
				st.medicines[k] = m
			}
		}
		return nil
	})
}

func (r *CompanyRepo) List(_ context.Context) ([]*entity.Company, error) {
	var out []*entity.Company
	err := r.v.do("companies.List", func(st *state) error {
		for _, c := range sortedValues(st.companies, func(a, b *entity.Company) bool { return a.Name < b.Name }) {
			out = append(out, ptr(c))
		}
		return nil
	})
	return out, err
}
