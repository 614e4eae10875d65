package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// DeliveryRepository persistencia de entregas y valoraciones.
type DeliveryRepository interface {
	Create(ctx context.Context, d *entity.Delivery) error
	GetByID(ctx context.Context, id string) (*entity.Delivery, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error)
	List(ctx context.Context, filter DeliveryFilter) ([]*entity.Delivery, error)
	UpdateStatus(ctx context.Context, id, status string, deliveredAt *time.Time) error

	CreateFeedback(ctx context.Context, f *entity.Feedback) error
	ListFeedback(ctx context.Context, limit, offset int) ([]*entity.Feedback, error)
}

// DeliveryFilter filtros del listado de entregas.
type DeliveryFilter struct {
	DeliveryPersonID string
	Status           string
	Limit            int
	Offset           int
}
