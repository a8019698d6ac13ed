package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dytool-backend/internal/dto"
	"github.com/deppfellow/dytool-backend/internal/server"
)

// UserService is the part of service.UserService the handlers call.
type UserService interface {
	ParseUser(ctx context.Context, link, cookie string) dto.ParseUserResponse
	ExtractSecUserID(ctx context.Context, link string) dto.ExtractIDResponse
}

type UserHandler struct {
	Handler
	users UserService
}

func NewUserHandler(s *server.Server, users UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

// ParseUser never fails: workflow outcomes are carried by the response.
func (h *UserHandler) ParseUser(c echo.Context, req *dto.ParseUserRequest) (dto.ParseUserResponse, error) {
	return h.users.ParseUser(c.Request().Context(), req.Link(), req.CookieValue()), nil
}

func (h *UserHandler) ExtractID(c echo.Context, req *dto.ExtractIDRequest) (dto.ExtractIDResponse, error) {
	return h.users.ExtractSecUserID(c.Request().Context(), req.URL), nil
}
