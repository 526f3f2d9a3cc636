package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"agrotrust/internal/domain/entity"
	"agrotrust/internal/domain/lifecycle"
	"agrotrust/internal/domain/repository"
	"agrotrust/pkg/errors"
	"agrotrust/pkg/utils"
)

type memoryOrderRepository struct {
	mu     sync.RWMutex
	orders []*entity.Order
	logs   map[string][]entity.OrderLog
}

func NewMemoryOrderRepository(seed []entity.Order) repository.OrderRepository {
	r := &memoryOrderRepository{logs: make(map[string][]entity.OrderLog)}
	for i := range seed {
		r.orders = append(r.orders, cloneOrder(&seed[i]))
	}
	return r
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Products = slices.Clone(o.Products)
	return &c
}

func (r *memoryOrderRepository) indexOf(id string) int {
	return slices.IndexFunc(r.orders, func(o *entity.Order) bool { return o.ID == id })
}

func (r *memoryOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(order.ID) >= 0 {
		return errors.Conflict("Order already exists", nil)
	}
	r.orders = slices.Insert(r.orders, 0, cloneOrder(order))
	return nil
}

func (r *memoryOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, errors.NotFound("Order", nil)
	}
	return cloneOrder(r.orders[i]), nil
}

func (r *memoryOrderRepository) Update(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(order.ID)
	if i < 0 {
		return errors.NotFound("Order", nil)
	}
	r.orders[i] = cloneOrder(order)
	return nil
}

func (r *memoryOrderRepository) List(ctx context.Context, filter entity.OrderFilter, limit, offset int) ([]*entity.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*entity.Order
	for _, o := range r.orders {
		if filter.Matches(o) {
			matched = append(matched, cloneOrder(o))
		}
	}

	start, end := utils.Window(len(matched), limit, offset)
	return matched[start:end], int64(len(matched)), nil
}

func (r *memoryOrderRepository) ListDueForRelease(ctx context.Context, now time.Time) ([]*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []*entity.Order
	for _, o := range r.orders {
		if lifecycle.DueForRelease(o, now) {
			due = append(due, cloneOrder(o))
		}
	}
	return due, nil
}

func (r *memoryOrderRepository) CreateLog(ctx context.Context, log *entity.OrderLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs[log.OrderID] = append(r.logs[log.OrderID], *log)
	return nil
}

// ListLogs returns the audit trail oldest first.
func (r *memoryOrderRepository) ListLogs(ctx context.Context, orderID string) ([]*entity.OrderLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := r.logs[orderID]
	out := make([]*entity.OrderLog, len(logs))
	for i := range logs {
		l := logs[i]
		out[i] = &l
	}
	return out, nil
}
