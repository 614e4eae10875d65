package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrCustomerNotFound    = errors.New("cliente no encontrado")
	ErrBatchNotFound       = errors.New("lote no encontrado")
	ErrOrderNotFound       = errors.New("pedido no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidReference    = errors.New("referencia a un recurso inexistente")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrIdempotencyConflict = errors.New("la clave de idempotencia pertenece a otro pedido")
)
