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

type memoryFarmerRepository struct {
	mu      sync.RWMutex
	farmers []*entity.FarmerProfile
}

// NewMemoryFarmerRepository keeps farmers in registration order. The seed
// profiles are copied.
func NewMemoryFarmerRepository(seed []entity.FarmerProfile) repository.FarmerRepository {
	r := &memoryFarmerRepository{}
	for i := range seed {
		f := cloneFarmer(&seed[i])
		r.farmers = append(r.farmers, f)
	}
	return r
}

func cloneFarmer(f *entity.FarmerProfile) *entity.FarmerProfile {
	c := *f
	c.MainCrops = slices.Clone(f.MainCrops)
	return &c
}

func (r *memoryFarmerRepository) indexOf(id string) int {
	return slices.IndexFunc(r.farmers, func(f *entity.FarmerProfile) bool { return f.ID == id })
}

func (r *memoryFarmerRepository) Create(ctx context.Context, farmer *entity.FarmerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(farmer.ID) >= 0 {
		return errors.Conflict("Farmer already exists", nil)
	}
	r.farmers = append(r.farmers, cloneFarmer(farmer))
	return nil
}

func (r *memoryFarmerRepository) GetByID(ctx context.Context, id string) (*entity.FarmerProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, errors.NotFound("Farmer", nil)
	}
	return cloneFarmer(r.farmers[i]), nil
}

func (r *memoryFarmerRepository) List(ctx context.Context) ([]*entity.FarmerProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.FarmerProfile, len(r.farmers))
	for i, f := range r.farmers {
		out[i] = cloneFarmer(f)
	}
	return out, nil
}

func (r *memoryFarmerRepository) Update(ctx context.Context, farmer *entity.FarmerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(farmer.ID)
	if i < 0 {
		return errors.NotFound("Farmer", nil)
	}
	r.farmers[i] = cloneFarmer(farmer)
	return nil
}

func (r *memoryFarmerRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return errors.NotFound("Farmer", nil)
	}
	r.farmers = slices.Delete(r.farmers, i, i+1)
	return nil
}

type memoryRejectionRepository struct {
	mu      sync.RWMutex
	records []entity.RejectionRecord
}

func NewMemoryRejectionRepository() repository.RejectionRepository {
	return &memoryRejectionRepository{}
}

func (r *memoryRejectionRepository) Create(ctx context.Context, record *entity.RejectionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, *record)
	return nil
}

// List returns the newest rejections first.
func (r *memoryRejectionRepository) List(ctx context.Context, limit, offset int) ([]*entity.RejectionRecord, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.records)
	start, end := utils.Window(total, limit, offset)
	out := make([]*entity.RejectionRecord, 0, end-start)
	for i := start; i < end; i++ {
		rec := r.records[total-1-i]
		out = append(out, &rec)
	}
	return out, int64(total), nil
}
