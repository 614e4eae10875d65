package entity

import "time"

// Category clasificación terapéutica o comercial de un medicamento (tabla medicine_categories).
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
