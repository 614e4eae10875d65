package dto

import "time"

// CategoryRequest alta/edición de categoría.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyRequest alta/edición de laboratorio.
type CompanyRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	ContactInfo string `json:"contact_info" validate:"omitempty,max=500"`
}

// CompanyResponse salida de un laboratorio.
type CompanyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactInfo string    `json:"contact_info"`
	CreatedAt   time.Time `json:"created_at"`
}
