package handler

import (
	"github.com/labstack/echo/v4"

	"agrotrust/internal/adapter/api/middleware"
	"agrotrust/internal/domain/entity"
	"agrotrust/internal/usecase"
	"agrotrust/pkg/response"
	"agrotrust/pkg/utils"
)

type AdminHandler struct {
	farmerUseCase *usecase.FarmerUseCase
	orderUseCase  *usecase.OrderUseCase
}

func NewAdminHandler(farmerUseCase *usecase.FarmerUseCase, orderUseCase *usecase.OrderUseCase) *AdminHandler {
	return &AdminHandler{
		farmerUseCase: farmerUseCase,
		orderUseCase:  orderUseCase,
	}
}

type rejectFarmerRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type releaseOrderRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

type auditOrderRequest struct {
	Issue string `json:"issue" validate:"max=1000"`
}

func (h *AdminHandler) ListPendingFarmers(c echo.Context) error {
	farmers, err := h.farmerUseCase.ListPending(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, farmers)
}

func (h *AdminHandler) ApproveFarmer(c echo.Context) error {
	admin := middleware.ActorFrom(c)

	farmer, err := h.farmerUseCase.Approve(c.Request().Context(), admin.ID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, farmer)
}

func (h *AdminHandler) RejectFarmer(c echo.Context) error {
	var req rejectFarmerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	admin := middleware.ActorFrom(c)
	record, err := h.farmerUseCase.Reject(c.Request().Context(), admin.ID, c.Param("id"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, record)
}

func (h *AdminHandler) ListRejections(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	records, total, err := h.farmerUseCase.ListRejections(c.Request().Context(), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, records, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	filter := entity.OrderFilter{
		Status:     entity.OrderStatus(c.QueryParam("status")),
		FarmerID:   c.QueryParam("farmer_id"),
		ConsumerID: c.QueryParam("consumer_id"),
	}

	orders, total, err := h.orderUseCase.ListOrders(c.Request().Context(), filter, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, toOrderViews(orders), total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) ReleaseOrder(c echo.Context) error {
	var req releaseOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.Release(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), req.Notes)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, toOrderView(order))
}

// AuditOrder returns a preliminary, non-binding recommendation. An empty
// issue is audited as a standard quality check.
func (h *AdminHandler) AuditOrder(c echo.Context) error {
	var req auditOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	id := c.Param("id")
	recommendation, err := h.orderUseCase.Audit(c.Request().Context(), id, req.Issue)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"order_id":       id,
		"recommendation": recommendation,
	})
}
