package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMedicineRequest entrada para crear un medicamento.
type CreateMedicineRequest struct {
	Name                 string `json:"name" validate:"required,min=1,max=200"`
	DosageForm           string `json:"dosage_form" validate:"omitempty,max=100"`
	Strength             string `json:"strength" validate:"omitempty,max=100"`
	CategoryID           string `json:"category_id" validate:"omitempty,uuid"`
	CompanyID            string `json:"company_id" validate:"omitempty,uuid"`
	RequiresPrescription bool   `json:"requires_prescription"`
}

// UpdateMedicineRequest actualización parcial de un medicamento.
type UpdateMedicineRequest struct {
	Name                 *string `json:"name" validate:"omitempty,min=1,max=200"`
	DosageForm           *string `json:"dosage_form" validate:"omitempty,max=100"`
	Strength             *string `json:"strength" validate:"omitempty,max=100"`
	CategoryID           *string `json:"category_id" validate:"omitempty,uuid"`
	CompanyID            *string `json:"company_id" validate:"omitempty,uuid"`
	RequiresPrescription *bool   `json:"requires_prescription"`
}

// MedicineResponse salida de un medicamento.
type MedicineResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	DosageForm           string    `json:"dosage_form"`
	Strength             string    `json:"strength"`
	CategoryID           string    `json:"category_id,omitempty"`
	CategoryName         string    `json:"category_name,omitempty"`
	CompanyID            string    `json:"company_id,omitempty"`
	CompanyName          string    `json:"company_name,omitempty"`
	RequiresPrescription bool      `json:"requires_prescription"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// MedicineListResponse lista paginada de medicamentos.
type MedicineListResponse struct {
	Items []MedicineResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateBatchRequest recepción de un lote nuevo.
type CreateBatchRequest struct {
	MedicineID    string          `json:"medicine_id" validate:"required,uuid"`
	BatchNumber   string          `json:"batch_number" validate:"required,min=1,max=100"`
	Quantity      int             `json:"quantity" validate:"gte=0"`
	ExpiryDate    string          `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
}

// StockAdjustmentRequest reabastecimiento o baja por daño de un lote.
type StockAdjustmentRequest struct {
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Reason   string `json:"reason" validate:"omitempty,max=255"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID            string          `json:"id"`
	MedicineID    string          `json:"medicine_id"`
	MedicineName  string          `json:"medicine_name,omitempty"`
	BatchNumber   string          `json:"batch_number"`
	Quantity      int             `json:"quantity"`
	ExpiryDate    string          `json:"expiry_date"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BatchListResponse lista paginada de lotes.
type BatchListResponse struct {
	Items []BatchResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// StockMovementResponse asiento del libro de stock.
type StockMovementResponse struct {
	ID        string    `json:"id"`
	BatchID   string    `json:"batch_id"`
	Quantity  int       `json:"quantity"`
	Type      string    `json:"movement_type"`
	Reason    string    `json:"reason"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
