package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dytool-backend/internal/dto"
	"github.com/deppfellow/dytool-backend/internal/handler"
)

func registerUserRoutes(g *echo.Group, h *handler.Handlers) {
	g.POST("/parse", handler.Handle(h.User.Handler, h.User.ParseUser, http.StatusOK, &dto.ParseUserRequest{}))
	g.GET("/extract-id", handler.Handle(h.User.Handler, h.User.ExtractID, http.StatusOK, &dto.ExtractIDRequest{}))
}
