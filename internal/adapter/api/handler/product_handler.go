package handler

import (
	"github.com/labstack/echo/v4"

	"agrotrust/internal/adapter/api/middleware"
	"agrotrust/internal/domain/entity"
	"agrotrust/internal/usecase"
	"agrotrust/pkg/response"
	"agrotrust/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type createListingRequest struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Unit        string  `json:"unit" validate:"required"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	State       string  `json:"state"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	Description string  `json:"description" validate:"max=500"`
}

// ListProducts is the public marketplace listing. Filters: state, category,
// farmer_id.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	filter := entity.ProductFilter{
		State:    c.QueryParam("state"),
		Category: c.QueryParam("category"),
		FarmerID: c.QueryParam("farmer_id"),
	}

	products, total, err := h.productUseCase.ListListings(c.Request().Context(), filter, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productUseCase.GetListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

// Describe never fails for an existing listing; a fallback line is returned
// when text generation is unavailable.
func (h *ProductHandler) Describe(c echo.Context) error {
	id := c.Param("id")
	description, err := h.productUseCase.Describe(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"product_id":  id,
		"description": description,
	})
}

func (h *ProductHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	actor := middleware.ActorFrom(c)
	product, err := h.productUseCase.CreateListing(c.Request().Context(), actor.ID, usecase.CreateListingInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		State:       req.State,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) ListMyProducts(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	actor := middleware.ActorFrom(c)

	filter := entity.ProductFilter{FarmerID: actor.ID, State: entity.AllRegions}
	products, total, err := h.productUseCase.ListListings(c.Request().Context(), filter, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}
