package router

import (
	"github.com/labstack/echo/v4"

	"agrotrust/internal/adapter/api/handler"
	"agrotrust/internal/adapter/api/middleware"
	"agrotrust/internal/domain/entity"
	"agrotrust/internal/infrastructure/ratelimit"
)

func SetupFarmerRouter(
	e *echo.Echo,
	farmerHandler *handler.FarmerHandler,
	registrationHandler *handler.RegistrationHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiter *ratelimit.RateLimiter,
) {
	registerLimit := middleware.RateLimit(limiter, ratelimit.ActionRegister)
	farmerOnly := middleware.RequireRole(entity.RoleFarmer)

	farmers := e.Group("/v1/farmers")
	farmers.GET("", farmerHandler.ListVerified, authMiddleware.Identify)
	farmers.GET("/:id", farmerHandler.GetFarmer, authMiddleware.Identify)
	farmers.POST("", farmerHandler.Register, authMiddleware.Authenticate, farmerOnly, registerLimit)

	// Wizard sessions can be filled in before signing in; submitting binds the
	// profile to the farmer account.
	registrations := e.Group("/v1/registrations")
	registrations.Use(authMiddleware.Identify)
	registrations.POST("", registrationHandler.Start, registerLimit)
	registrations.GET("/:id", registrationHandler.Get)
	registrations.PATCH("/:id", registrationHandler.Update)
	registrations.POST("/:id/next", registrationHandler.Next)
	registrations.POST("/:id/back", registrationHandler.Back)
	registrations.POST("/:id/submit", registrationHandler.Submit, authMiddleware.Authenticate, farmerOnly, registerLimit)
	registrations.DELETE("/:id", registrationHandler.Abandon)
}
