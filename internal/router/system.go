package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dytool-backend/internal/handler"
)

func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.Health.Root)
	r.GET("/health", h.Health.Liveness)
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/docs/openapi.json", h.OpenAPI.ServeOpenAPIDocument)
}
