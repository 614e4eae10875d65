package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.CompanyRepository  = (*CompanyRepo)(nil)
)

// CategoryRepo categorías de medicamentos sobre la tabla medicine_categories.
type CategoryRepo struct {
	db Querier
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(db Querier) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create persiste una categoría; nombre repetido devuelve domain.ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO medicine_categories (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return dbError("insert category", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM medicine_categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get category", err)
	}
	return &c, nil
}

// Update renombra una categoría.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	tag, err := r.db.Exec(ctx, `UPDATE medicine_categories SET name = $2 WHERE id = $1`, c.ID, c.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return dbError("update category", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una categoría; los medicamentos quedan sin categoría (ON DELETE SET NULL).
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM medicine_categories WHERE id = $1`, id)
	if err != nil {
		return dbError("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type categoryRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// List todas las categorías por nombre.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	var rows []categoryRow
	if err := pgxscan.Select(ctx, r.db, &rows,
		`SELECT id, name, created_at FROM medicine_categories ORDER BY name`); err != nil {
		return nil, dbError("list categories", err)
	}
	out := make([]*entity.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Category{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt})
	}
	return out, nil
}

// CompanyRepo laboratorios fabricantes o distribuidores.
type CompanyRepo struct {
	db Querier
}

// NewCompanyRepository construye el adaptador de laboratorios.
func NewCompanyRepository(db Querier) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// Create persiste un laboratorio; nombre repetido devuelve domain.ErrDuplicate.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO companies (id, name, contact_info, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.ContactInfo, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return dbError("insert company", err)
	}
	return nil
}

// GetByID obtiene un laboratorio por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	var c entity.Company
	err := r.db.QueryRow(ctx, `SELECT id, name, contact_info, created_at FROM companies WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.ContactInfo, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get company", err)
	}
	return &c, nil
}

// Update actualiza nombre y contacto.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	tag, err := r.db.Exec(ctx, `UPDATE companies SET name = $2, contact_info = $3 WHERE id = $1`,
		c.ID, c.Name, c.ContactInfo)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return dbError("update company", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un laboratorio.
func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return dbError("delete company", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type companyRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	ContactInfo string    `db:"contact_info"`
	CreatedAt   time.Time `db:"created_at"`
}

// List todos los laboratorios por nombre.
func (r *CompanyRepo) List(ctx context.Context) ([]*entity.Company, error) {
	var rows []companyRow
	if err := pgxscan.Select(ctx, r.db, &rows,
		`SELECT id, name, contact_info, created_at FROM companies ORDER BY name`); err != nil {
		return nil, dbError("list companies", err)
	}
	out := make([]*entity.Company, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Company{ID: row.ID, Name: row.Name, ContactInfo: row.ContactInfo, CreatedAt: row.CreatedAt})
	}
	return out, nil
}
