package router

import (
	"github.com/labstack/echo/v4"

	"agrotrust/internal/adapter/api/handler"
	"agrotrust/internal/adapter/api/middleware"
	"agrotrust/internal/infrastructure/ratelimit"
)

func SetupAdminRouter(
	e *echo.Echo,
	adminHandler *handler.AdminHandler,
	farmerHandler *handler.FarmerHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiter *ratelimit.RateLimiter,
) {
	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(middleware.AdminOnly)

	// Farmer verification
	admin.GET("/farmers/pending", adminHandler.ListPendingFarmers)
	admin.GET("/rejections", adminHandler.ListRejections)
	admin.GET("/farmers/:id", farmerHandler.GetFarmer)
	admin.POST("/farmers/:id/approve", adminHandler.ApproveFarmer)
	admin.POST("/farmers/:id/reject", adminHandler.RejectFarmer)

	// Escrow oversight
	admin.GET("/orders", adminHandler.ListOrders)
	admin.POST("/orders/:id/release", adminHandler.ReleaseOrder)
	admin.POST("/orders/:id/audit", adminHandler.AuditOrder, middleware.RateLimit(limiter, ratelimit.ActionRunAudit))
}
