package entity

import "time"

// Roles válidos para User (enumeración cerrada).
const (
	RoleAdmin      = "Admin"
	RoleManager    = "Manager"
	RoleTechnician = "Technician"
	RoleCashier    = "Cashier"
	RoleDelivery   = "Delivery"
	RoleCustomer   = "Customer"
)

// Roles lista ordenada de todos los roles.
var Roles = []string{RoleAdmin, RoleManager, RoleTechnician, RoleCashier, RoleDelivery, RoleCustomer}

// IsValidRole indica si r pertenece a la enumeración de roles.
func IsValidRole(r string) bool {
	for _, role := range Roles {
		if role == r {
			return true
		}
	}
	return false
}

// IsStaffRole indica si el rol corresponde a personal de la farmacia.
func IsStaffRole(r string) bool {
	return IsValidRole(r) && r != RoleCustomer
}

// User representa un usuario del sistema: personal de la farmacia o cliente.
type User struct {
	ID           string
	FullName     string
	Email        string
	Phone        string
	DOB          *time.Time // fecha de nacimiento, opcional
	Address      string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
