package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation           = "23505"
	codeForeignKeyViolation       = "23503"
	codeCheckViolation            = "23514"
	codeInvalidTextRepresentation = "22P02"
	codeStringDataRightTruncation = "22001"
	codeNumericValueOutOfRange    = "22003"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == codeForeignKeyViolation
}

// isCheckViolation verifica si un error es una violación de CHECK (23514).
func isCheckViolation(err error) bool {
	return pgErrorCode(err) == codeCheckViolation
}

// isRejectedValue indica que PostgreSQL rechazó un valor por su tipo o tamaño, o por un CHECK.
func isRejectedValue(err error) bool {
	switch pgErrorCode(err) {
	case codeInvalidTextRepresentation, codeStringDataRightTruncation,
		codeNumericValueOutOfRange, codeCheckViolation:
		return true
	}
	return false
}

// dbError envuelve un error de consulta con la operación. Los valores rechazados se
// traducen a domain.ErrInvalidInput sin exponer el detalle de PostgreSQL.
func dbError(op string, err error) error {
	if isRejectedValue(err) {
		return fmt.Errorf("%w: %s: valor rechazado por la base de datos", domain.ErrInvalidInput, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullIfEmpty convierte "" en NULL para columnas opcionales (UUID, texto).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
