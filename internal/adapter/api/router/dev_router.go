package router

import (
	"github.com/labstack/echo/v4"

	"agrotrust/internal/adapter/api/handler"
)

func SetupDevRouter(e *echo.Echo, devTokenHandler *handler.DevTokenHandler, environment string) {
	if environment != "development" || devTokenHandler == nil {
		return
	}

	dev := e.Group("/v1/dev")
	dev.POST("/token", devTokenHandler.GenerateToken)
}
