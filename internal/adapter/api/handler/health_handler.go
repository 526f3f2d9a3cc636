package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"agrotrust/internal/domain/entity"
	"agrotrust/pkg/response"
)

type HealthHandler struct {
	storage  string
	advisory interface{ Configured() bool }
}

func NewHealthHandler(storage string, advisory interface{ Configured() bool }) *HealthHandler {
	return &HealthHandler{
		storage:  storage,
		advisory: advisory,
	}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "Server is running",
		"time":     time.Now().Format(time.RFC3339),
		"storage":  h.storage,
		"advisory": h.advisory != nil && h.advisory.Configured(),
	})
}

// Catalog returns the fixed vocabularies the client forms are built from.
func (h *HealthHandler) Catalog(c echo.Context) error {
	return response.Success(c, map[string]interface{}{
		"regions":         append([]string{entity.AllRegions}, entity.Regions...),
		"states":          entity.NigerianStates,
		"categories":      entity.Categories,
		"farming_methods": entity.FarmingMethods,
		"order_statuses":  entity.OrderStatuses,
	})
}
