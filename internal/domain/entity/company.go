package entity

import "time"

// Company laboratorio fabricante o distribuidor de medicamentos.
type Company struct {
	ID          string
	Name        string
	ContactInfo string
	CreatedAt   time.Time
}
