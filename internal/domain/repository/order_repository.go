package repository

import (
	"context"
	"time"

	"agrotrust/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, filter entity.OrderFilter, limit, offset int) ([]*entity.Order, int64, error)
	// ListDueForRelease returns DELIVERED orders whose hold expired at or before now.
	ListDueForRelease(ctx context.Context, now time.Time) ([]*entity.Order, error)

	CreateLog(ctx context.Context, log *entity.OrderLog) error
	ListLogs(ctx context.Context, orderID string) ([]*entity.OrderLog, error)
}
