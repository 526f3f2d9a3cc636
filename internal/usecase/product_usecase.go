package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrotrust/internal/domain/entity"
	"agrotrust/internal/domain/repository"
	"agrotrust/pkg/errors"
	"agrotrust/pkg/logger"
)

type ProductUseCase struct {
	productRepo repository.ProductRepository
	farmerRepo  repository.FarmerRepository
	advisor     Advisor
	events      EventPublisher
	now         func() time.Time
}

func NewProductUseCase(
	productRepo repository.ProductRepository,
	farmerRepo repository.FarmerRepository,
	advisor Advisor,
	events EventPublisher,
) *ProductUseCase {
	if events == nil {
		events = noopPublisher{}
	}
	return &ProductUseCase{
		productRepo: productRepo,
		farmerRepo:  farmerRepo,
		advisor:     advisor,
		events:      events,
		now:         time.Now,
	}
}

type CreateListingInput struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	Quantity    int     `json:"quantity"`
	State       string  `json:"state"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
}

// CreateListing lists produce for a registered farmer. The listing keeps the
// farmer's verification status as it is now; later approval does not
// change it.
func (uc *ProductUseCase) CreateListing(ctx context.Context, farmerID string, input CreateListingInput) (*entity.Product, error) {
	farmer, err := uc.farmerRepo.GetByID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Forbidden("Only registered farmers can list produce", err)
		}
		return nil, err
	}

	if !entity.IsCategory(input.Category) {
		return nil, errors.BadRequest("Invalid category", nil)
	}
	state := input.State
	if state == "" {
		region, ok := entity.RegionForState(farmer.Location)
		if !ok {
			return nil, errors.BadRequest(fmt.Sprintf("%s is not a marketplace region yet; set state to one of: %s",
				farmer.Location, strings.Join(entity.Regions, ", ")), nil)
		}
		state = region
	}
	if !entity.IsRegion(state) {
		return nil, errors.BadRequest("Listings must be in a marketplace region: "+strings.Join(entity.Regions, ", "), nil)
	}
	if input.Price <= 0 {
		return nil, errors.BadRequest("Price must be greater than zero", nil)
	}

	product := &entity.Product{
		ID:          "p-" + uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Category:    input.Category,
		Price:       input.Price,
		Unit:        strings.TrimSpace(input.Unit),
		Quantity:    input.Quantity,
		FarmerID:    farmer.ID,
		FarmerName:  farmer.DisplayName(),
		State:       state,
		ImageURL:    input.ImageURL,
		Description: strings.TrimSpace(input.Description),
		Verified:    farmer.Verified,
		CreatedAt:   uc.now(),
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	logger.Info("Listing %s created by farmer %s (verified=%t)", product.ID, farmer.ID, product.Verified)
	uc.events.Publish(entity.Event{
		Type:       entity.EventListingCreated,
		EntityID:   product.ID,
		Data:       map[string]interface{}{"farmer_id": farmer.ID, "name": product.Name, "state": product.State},
		OccurredAt: uc.now(),
	})

	return product, nil
}

func (uc *ProductUseCase) GetListing(ctx context.Context, id string) (*entity.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

// ListListings pages through listings matching the filter, newest first.
func (uc *ProductUseCase) ListListings(ctx context.Context, filter entity.ProductFilter, page, limit int) ([]*entity.Product, int64, error) {
	if filter.State != "" && filter.State != entity.AllRegions && !entity.IsRegion(filter.State) {
		return nil, 0, errors.BadRequest("Unknown region", nil)
	}
	return uc.productRepo.List(ctx, filter, limit, (page-1)*limit)
}

// Describe returns the listing blurb, generating one when the farmer did not
// write it.
func (uc *ProductUseCase) Describe(ctx context.Context, id string) (string, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return uc.advisor.DescribeProduct(ctx, product), nil
}
