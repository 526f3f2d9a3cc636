package router

import (
	"github.com/labstack/echo/v4"

	"agrotrust/internal/adapter/api/handler"
	"agrotrust/internal/adapter/api/middleware"
	"agrotrust/internal/domain/entity"
	"agrotrust/internal/infrastructure/ratelimit"
)

func SetupProductRouter(e *echo.Echo, productHandler *handler.ProductHandler, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	// Public marketplace
	products := e.Group("/v1/products")
	products.Use(authMiddleware.Identify)
	products.GET("", productHandler.ListProducts)
	products.GET("/:id", productHandler.GetProduct)
	products.GET("/:id/description", productHandler.Describe, middleware.RateLimit(limiter, ratelimit.ActionDescribeProduct))

	// Farmer inventory
	myProducts := e.Group("/v1/my-products")
	myProducts.Use(authMiddleware.Authenticate)
	myProducts.Use(middleware.RequireRole(entity.RoleFarmer))
	myProducts.GET("", productHandler.ListMyProducts)
	myProducts.POST("", productHandler.CreateListing)
}
