package handler

import (
	"github.com/labstack/echo/v4"

	"agrotrust/internal/adapter/api/middleware"
	"agrotrust/internal/domain/entity"
	"agrotrust/internal/usecase"
	"agrotrust/pkg/response"
)

type FarmerHandler struct {
	farmerUseCase *usecase.FarmerUseCase
}

func NewFarmerHandler(farmerUseCase *usecase.FarmerUseCase) *FarmerHandler {
	return &FarmerHandler{
		farmerUseCase: farmerUseCase,
	}
}

// Register is the one-shot registration: the whole application in one body.
// The profile is stored under the caller's account id. Missing fields are
// reported together.
func (h *FarmerHandler) Register(c echo.Context) error {
	var req entity.FarmerApplication
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.farmerUseCase.Register(c.Request().Context(), middleware.ActorFrom(c).ID, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, profile)
}

// GetFarmer returns the full profile to admins and to the farmer it belongs
// to. Everyone else gets the public summary.
func (h *FarmerHandler) GetFarmer(c echo.Context) error {
	profile, err := h.farmerUseCase.GetFarmer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	actor := middleware.ActorFrom(c)
	if actor.Role == entity.RoleAdmin || (actor.ID != "" && actor.ID == profile.ID) {
		return response.Success(c, profile)
	}
	return response.Success(c, profile.Public())
}

// ListVerified is the public directory of verified farmers.
func (h *FarmerHandler) ListVerified(c echo.Context) error {
	farmers, err := h.farmerUseCase.ListVerified(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	summaries := make([]entity.FarmerSummary, 0, len(farmers))
	for i := range farmers {
		summaries = append(summaries, farmers[i].Public())
	}
	return response.Success(c, summaries)
}
