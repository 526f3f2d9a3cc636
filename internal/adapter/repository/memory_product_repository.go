package repository

import (
	"context"
	"slices"
	"sync"

	"agrotrust/internal/domain/entity"
	"agrotrust/internal/domain/repository"
	"agrotrust/pkg/errors"
	"agrotrust/pkg/utils"
)

type memoryProductRepository struct {
	mu       sync.RWMutex
	products []entity.Product
}

// NewMemoryProductRepository lists products newest first, matching the
// marketplace feed.
func NewMemoryProductRepository(seed []entity.Product) repository.ProductRepository {
	return &memoryProductRepository{products: slices.Clone(seed)}
}

func (r *memoryProductRepository) indexOf(id string) int {
	return slices.IndexFunc(r.products, func(p entity.Product) bool { return p.ID == id })
}

func (r *memoryProductRepository) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(product.ID) >= 0 {
		return errors.Conflict("Product already exists", nil)
	}
	// New listings go to the top of the feed.
	r.products = slices.Insert(r.products, 0, *product)
	return nil
}

func (r *memoryProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, errors.NotFound("Product", nil)
	}
	p := r.products[i]
	return &p, nil
}

func (r *memoryProductRepository) List(ctx context.Context, filter entity.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*entity.Product
	for i := range r.products {
		if filter.Matches(&r.products[i]) {
			p := r.products[i]
			matched = append(matched, &p)
		}
	}

	start, end := utils.Window(len(matched), limit, offset)
	return matched[start:end], int64(len(matched)), nil
}

func (r *memoryProductRepository) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(product.ID)
	if i < 0 {
		return errors.NotFound("Product", nil)
	}
	r.products[i] = *product
	return nil
}
