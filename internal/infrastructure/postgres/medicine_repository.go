package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

// MedicineRepo catálogo de medicamentos sobre PostgreSQL.
type MedicineRepo struct {
	db Querier
}

// NewMedicineRepository construye el adaptador de medicamentos.
func NewMedicineRepository(db Querier) *MedicineRepo {
	return &MedicineRepo{db: db}
}

type medicineRow struct {
	ID                   string    `db:"id"`
	Name                 string    `db:"name"`
	DosageForm           string    `db:"dosage_form"`
	Strength             string    `db:"strength"`
	CategoryID           *string   `db:"category_id"`
	CompanyID            *string   `db:"company_id"`
	RequiresPrescription bool      `db:"requires_prescription"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
	CategoryName         *string   `db:"category_name"`
	CompanyName          *string   `db:"company_name"`
}

func (r medicineRow) toEntity() *entity.Medicine {
	return &entity.Medicine{
		ID:                   r.ID,
		Name:                 r.Name,
		DosageForm:           r.DosageForm,
		Strength:             r.Strength,
		CategoryID:           deref(r.CategoryID),
		CompanyID:            deref(r.CompanyID),
		RequiresPrescription: r.RequiresPrescription,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
		CategoryName:         deref(r.CategoryName),
		CompanyName:          deref(r.CompanyName),
	}
}

func medicineSelect() squirrel.SelectBuilder {
	return psql.Select(
		"m.id", "m.name", "m.dosage_form", "m.strength", "m.category_id", "m.company_id",
		"m.requires_prescription", "m.created_at", "m.updated_at",
		"c.name AS category_name", "co.name AS company_name",
	).
		From("medicines m").
		LeftJoin("medicine_categories c ON c.id = m.category_id").
		LeftJoin("companies co ON co.id = m.company_id")
}

// Create persiste un medicamento. Categoría o laboratorio inexistentes devuelven domain.ErrInvalidReference.
func (r *MedicineRepo) Create(ctx context.Context, m *entity.Medicine) error {
	query := `
		INSERT INTO medicines (id, name, dosage_form, strength, category_id, company_id, requires_prescription, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.Name, m.DosageForm, m.Strength, nullIfEmpty(m.CategoryID), nullIfEmpty(m.CompanyID),
		m.RequiresPrescription, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría o laboratorio inexistente", domain.ErrInvalidReference)
		}
		return dbError("insert medicine", err)
	}
	return nil
}

// GetByID obtiene un medicamento con los nombres de categoría y laboratorio.
func (r *MedicineRepo) GetByID(ctx context.Context, id string) (*entity.Medicine, error) {
	query, args, err := medicineSelect().Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, dbError("build get medicine", err)
	}
	var rows []medicineRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, dbError("get medicine", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}

// Update actualiza los datos del medicamento.
func (r *MedicineRepo) Update(ctx context.Context, m *entity.Medicine) error {
	query := `
		UPDATE medicines
		SET name = $2, dosage_form = $3, strength = $4, category_id = $5, company_id = $6,
		    requires_prescription = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		m.ID, m.Name, m.DosageForm, m.Strength, nullIfEmpty(m.CategoryID), nullIfEmpty(m.CompanyID),
		m.RequiresPrescription, m.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría o laboratorio inexistente", domain.ErrInvalidReference)
		}
		return dbError("update medicine", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un medicamento sin lotes.
func (r *MedicineRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el medicamento tiene lotes registrados", domain.ErrConflict)
		}
		return dbError("delete medicine", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista medicamentos aplicando los filtros opcionales.
func (r *MedicineRepo) List(ctx context.Context, filter repository.MedicineFilter) ([]*entity.Medicine, error) {
	q := medicineSelect().OrderBy("m.name", "m.id")
	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where(squirrel.ILike{"m.name": "%" + s + "%"})
	}
	if filter.CategoryID != "" {
		q = q.Where(squirrel.Eq{"m.category_id": filter.CategoryID})
	}
	if filter.CompanyID != "" {
		q = q.Where(squirrel.Eq{"m.company_id": filter.CompanyID})
	}
	query, args, err := page(q, filter.Limit, filter.Offset).ToSql()
	if err != nil {
		return nil, dbError("build list medicines", err)
	}
	var rows []medicineRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, dbError("list medicines", err)
	}
	out := make([]*entity.Medicine, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
