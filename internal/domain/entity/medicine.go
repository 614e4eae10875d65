package entity

import "time"

// Medicine producto del catálogo de la farmacia.
type Medicine struct {
	ID                   string
	Name                 string
	DosageForm           string // tableta, jarabe, cápsula...
	Strength             string // ej. "500mg"
	CategoryID           string // vacío si no tiene categoría
	CompanyID            string // vacío si no tiene laboratorio
	RequiresPrescription bool
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Solo lectura (JOIN).
	CategoryName string
	CompanyName  string
}
