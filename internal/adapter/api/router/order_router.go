package router

import (
	"github.com/labstack/echo/v4"

	"agrotrust/internal/adapter/api/handler"
	"agrotrust/internal/adapter/api/middleware"
	"agrotrust/internal/domain/entity"
)

func SetupOrderRouter(e *echo.Echo, orderHandler *handler.OrderHandler, authMiddleware *middleware.AuthMiddleware) {
	consumerOnly := middleware.RequireRole(entity.RoleConsumer)
	farmerOnly := middleware.RequireRole(entity.RoleFarmer)

	orders := e.Group("/v1/orders")
	orders.Use(authMiddleware.Authenticate)
	orders.POST("", orderHandler.PlaceOrder, consumerOnly)
	orders.GET("/:id", orderHandler.GetOrder)
	orders.GET("/:id/history", orderHandler.History)
	orders.POST("/:id/pay", orderHandler.Pay, consumerOnly)
	orders.POST("/:id/ship", orderHandler.Ship, farmerOnly)
	orders.POST("/:id/confirm-delivery", orderHandler.ConfirmDelivery, consumerOnly)

	my := e.Group("/v1")
	my.Use(authMiddleware.Authenticate)
	my.GET("/my-orders", orderHandler.ListMyOrders, middleware.RequireRole(entity.RoleFarmer, entity.RoleConsumer))
	my.GET("/my-balance", orderHandler.MyBalance, farmerOnly)
}
