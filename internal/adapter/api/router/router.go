package router

import (
	"github.com/labstack/echo/v4"

	"agrotrust/internal/adapter/api/handler"
	"agrotrust/internal/adapter/api/middleware"
	"agrotrust/internal/infrastructure/ratelimit"
)

// Handlers groups everything the routes dispatch to. DevToken is nil when
// Firebase is not configured.
type Handlers struct {
	Health       *handler.HealthHandler
	Farmer       *handler.FarmerHandler
	Registration *handler.RegistrationHandler
	Product      *handler.ProductHandler
	Order        *handler.OrderHandler
	Admin        *handler.AdminHandler
	WebSocket    *handler.WebSocketHandler
	DevToken     *handler.DevTokenHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter, environment string) {
	SetupHealthRouter(e, h.Health)
	SetupFarmerRouter(e, h.Farmer, h.Registration, authMiddleware, limiter)
	SetupProductRouter(e, h.Product, authMiddleware, limiter)
	SetupOrderRouter(e, h.Order, authMiddleware)
	SetupAdminRouter(e, h.Admin, h.Farmer, authMiddleware, limiter)
	SetupWebSocketRouter(e, h.WebSocket, authMiddleware)
	SetupDevRouter(e, h.DevToken, environment)
}
