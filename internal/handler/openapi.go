package handler

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dytool-backend/internal/server"
)

//go:embed openapi.json
var openAPIDocument []byte

type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIDocument serves the embedded OpenAPI document, uncached.
func (h *OpenAPIHandler) ServeOpenAPIDocument(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, openAPIDocument)
}
