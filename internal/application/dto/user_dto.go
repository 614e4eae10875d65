package dto

import "time"

// RegisterRequest registro público: siempre crea un cliente (Customer).
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	DOB      string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Address  string `json:"address" validate:"omitempty,max=500"`
}

// CreateUserRequest alta de usuarios por un Admin (cualquier rol).
type CreateUserRequest struct {
	RegisterRequest
	Role string `json:"role" validate:"required,oneof=Admin Manager Technician Cashier Delivery Customer"`
}

// UpdateUserRequest actualización parcial de un usuario.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	DOB      *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	Role     *string `json:"role" validate:"omitempty,oneof=Admin Manager Technician Cashier Delivery Customer"`
}

// ChangePasswordRequest cambio de contraseña. CurrentPassword es obligatorio salvo para Admin.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	DOB       string    `json:"dob,omitempty"`
	Address   string    `json:"address,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y datos del usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
