package handler

import (
	"github.com/labstack/echo/v4"

	"agrotrust/internal/adapter/api/middleware"
	"agrotrust/internal/domain/entity"
	"agrotrust/internal/domain/lifecycle"
	"agrotrust/internal/usecase"
	"agrotrust/pkg/response"
	"agrotrust/pkg/utils"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type placeOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type shipOrderRequest struct {
	TrackingNumber string `json:"tracking_number" validate:"required"`
	Carrier        string `json:"carrier"`
}

// orderView adds the display label dashboards show next to the status, and
// which step comes next and who may take it.
type orderView struct {
	*entity.Order
	StatusLabel string             `json:"status_label"`
	NextStatus  entity.OrderStatus `json:"next_status,omitempty"`
	NextActors  []entity.Role      `json:"next_actors,omitempty"`
}

func toOrderView(o *entity.Order) orderView {
	view := orderView{Order: o, StatusLabel: o.StatusLabel()}
	if next, ok := lifecycle.NextStatus(o.Status); ok {
		view.NextStatus = next
		view.NextActors = lifecycle.AllowedRoles(o.Status)
	}
	return view
}

func toOrderViews(orders []*entity.Order) []orderView {
	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = toOrderView(o)
	}
	return views
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	items := make([]usecase.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = usecase.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	actor := middleware.ActorFrom(c)
	order, err := h.orderUseCase.PlaceOrder(c.Request().Context(), actor.ID, items)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, toOrderView(order))
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.orderUseCase.GetOrder(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, toOrderView(order))
}

// ListMyOrders shows a farmer their sales and a consumer their purchases.
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	actor := middleware.ActorFrom(c)

	filter := entity.OrderFilter{Status: entity.OrderStatus(c.QueryParam("status"))}
	if actor.Role == entity.RoleFarmer {
		filter.FarmerID = actor.ID
	} else {
		filter.ConsumerID = actor.ID
	}

	orders, total, err := h.orderUseCase.ListOrders(c.Request().Context(), filter, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, toOrderViews(orders), total, pagination.Page, pagination.PageSize)
}

func (h *OrderHandler) Pay(c echo.Context) error {
	order, err := h.orderUseCase.Pay(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, toOrderView(order))
}

func (h *OrderHandler) Ship(c echo.Context) error {
	var req shipOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.Ship(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), req.TrackingNumber, req.Carrier)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, toOrderView(order))
}

func (h *OrderHandler) ConfirmDelivery(c echo.Context) error {
	order, err := h.orderUseCase.ConfirmDelivery(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, toOrderView(order))
}

func (h *OrderHandler) History(c echo.Context) error {
	logs, err := h.orderUseCase.History(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, logs)
}

func (h *OrderHandler) MyBalance(c echo.Context) error {
	balance, err := h.orderUseCase.Balance(c.Request().Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, balance)
}
