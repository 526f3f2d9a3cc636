package repository

import (
	"context"

	"agrotrust/internal/domain/entity"
)

type FarmerRepository interface {
	Create(ctx context.Context, farmer *entity.FarmerProfile) error
	GetByID(ctx context.Context, id string) (*entity.FarmerProfile, error)
	// List returns the whole collection in registration order.
	List(ctx context.Context) ([]*entity.FarmerProfile, error)
	Update(ctx context.Context, farmer *entity.FarmerProfile) error
	Delete(ctx context.Context, id string) error
}

type RejectionRepository interface {
	Create(ctx context.Context, record *entity.RejectionRecord) error
	List(ctx context.Context, limit, offset int) ([]*entity.RejectionRecord, int64, error)
}
