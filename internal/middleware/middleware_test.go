package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/dytool-backend/internal/config"
	"github.com/deppfellow/dytool-backend/internal/errs"
	"github.com/deppfellow/dytool-backend/internal/server"
)

func testServer(ratePerSecond float64, burst int) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{
				CORSAllowedOrigins: []string{"*"},
				RateLimitPerSecond: ratePerSecond,
				RateLimitBurst:     burst,
			},
		},
		Logger: &logger,
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", rec.Header().Get(RequestIDHeader))
}

func TestGetLoggerWithoutEnhancer(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
}

func serveWithErrorHandler(t *testing.T, handlerErr error) (*httptest.ResponseRecorder, errs.HTTPError) {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(testServer(0, 0)).GlobalErrorHandler
	e.GET("/fail", func(c echo.Context) error { return handlerErr })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestGlobalErrorHandler(t *testing.T) {
	t.Run("http error keeps its shape", func(t *testing.T) {
		rec, body := serveWithErrorHandler(t, errs.NewBadRequestError("bad", true, nil, []errs.FieldError{{Field: "url", Error: "is required"}}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "BAD_REQUEST", body.Code)
		assert.True(t, body.Override)
		assert.Len(t, body.Errors, 1)
	})

	t.Run("unknown error is hidden", func(t *testing.T) {
		rec, body := serveWithErrorHandler(t, errors.New("secret internals"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Code)
		assert.NotContains(t, rec.Body.String(), "secret internals")
	})

	t.Run("echo error", func(t *testing.T) {
		rec, body := serveWithErrorHandler(t, echo.NewHTTPError(http.StatusMethodNotAllowed))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "METHOD_NOT_ALLOWED", body.Code)
	})
}

func TestGlobalErrorHandler_RouteNotFound(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(testServer(0, 0)).GlobalErrorHandler

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Route not found")
}

func TestRateLimit(t *testing.T) {
	s := testServer(1, 2)

	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitDisabled(t *testing.T) {
	s := testServer(0, 0)

	e := echo.New()
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
