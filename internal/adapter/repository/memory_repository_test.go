package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrotrust/internal/domain/entity"
	"agrotrust/pkg/errors"
)

func TestMemoryFarmerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryFarmerRepository([]entity.FarmerProfile{
		{ID: "f1", Name: "Musa Ibrahim", Verified: true, MainCrops: []string{"Tomatoes"}},
	})

	require.NoError(t, repo.Create(ctx, &entity.FarmerProfile{ID: "f2", Name: "Chioma Okeke"}))
	assert.True(t, errors.Is(repo.Create(ctx, &entity.FarmerProfile{ID: "f2"}), "CONFLICT"))

	got, err := repo.GetByID(ctx, "f1")
	require.NoError(t, err)
	got.MainCrops[0] = "changed"
	again, _ := repo.GetByID(ctx, "f1")
	assert.Equal(t, "Tomatoes", again.MainCrops[0], "returned profiles are copies")

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "f1", all[0].ID)
	assert.Equal(t, "f2", all[1].ID)

	require.NoError(t, repo.Delete(ctx, "f1"))
	_, err = repo.GetByID(ctx, "f1")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	assert.True(t, errors.Is(repo.Update(ctx, &entity.FarmerProfile{ID: "f1"}), "NOT_FOUND"))
}

func TestMemoryRejectionRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRejectionRepository()

	for _, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, repo.Create(ctx, &entity.RejectionRecord{ID: id}))
	}

	page, total, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, "r3", page[0].ID)
	assert.Equal(t, "r2", page[1].ID)

	page, _, _ = repo.List(ctx, 2, 2)
	require.Len(t, page, 1)
	assert.Equal(t, "r1", page[0].ID)
}

func TestMemoryProductRepository_Filter(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository([]entity.Product{
		{ID: "p1", State: "Plateau", Category: "Vegetables", FarmerID: "f1"},
		{ID: "p2", State: "Kano", Category: "Grains", FarmerID: "f2"},
	})
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "p3", State: "Kano", Category: "Vegetables", FarmerID: "f1"}))

	all, total, err := repo.List(ctx, entity.ProductFilter{State: entity.AllRegions}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "p3", all[0].ID, "new listings lead the feed")

	kano, total, _ := repo.List(ctx, entity.ProductFilter{State: "Kano"}, 0, 0)
	assert.Equal(t, int64(2), total)
	assert.Len(t, kano, 2)

	veg, _, _ := repo.List(ctx, entity.ProductFilter{Category: "Vegetables", FarmerID: "f1"}, 1, 1)
	require.Len(t, veg, 1)
	assert.Equal(t, "p1", veg[0].ID)

	none, total, _ := repo.List(ctx, entity.ProductFilter{State: "Lagos"}, 10, 0)
	assert.Empty(t, none)
	assert.Zero(t, total)
}

func TestMemoryOrderRepository_DueForReleaseAndLogs(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	repo := NewMemoryOrderRepository([]entity.Order{
		{ID: "o1", Status: entity.OrderDelivered, AutoReleaseAt: &past},
		{ID: "o2", Status: entity.OrderDelivered, AutoReleaseAt: &future},
		{ID: "o3", Status: entity.OrderShipped},
	})

	due, err := repo.ListDueForRelease(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "o1", due[0].ID)

	require.NoError(t, repo.CreateLog(ctx, &entity.OrderLog{OrderID: "o1", From: entity.OrderShipped, To: entity.OrderDelivered}))
	require.NoError(t, repo.CreateLog(ctx, &entity.OrderLog{OrderID: "o1", From: entity.OrderDelivered, To: entity.OrderReleased}))

	logs, err := repo.ListLogs(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, entity.OrderReleased, logs[1].To)

	logs, _ = repo.ListLogs(ctx, "missing")
	assert.Empty(t, logs)
}
