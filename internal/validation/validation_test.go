package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/dytool-backend/internal/dto"
	"github.com/deppfellow/dytool-backend/internal/errs"
)

func newContext(method, target, body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate_MissingURL(t *testing.T) {
	c := newContext(http.MethodPost, "/api/users/parse", `{"cookie": "x"}`)

	err := BindAndValidate(c, &dto.ParseUserRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "url", httpErr.Errors[0].Field)
	assert.Equal(t, "is required", httpErr.Errors[0].Error)
}

func TestBindAndValidate_EmptyURLIsAccepted(t *testing.T) {
	c := newContext(http.MethodPost, "/api/users/parse", `{"url": ""}`)

	req := &dto.ParseUserRequest{}
	require.NoError(t, BindAndValidate(c, req))
	assert.Equal(t, "", req.Link())
	assert.Nil(t, req.Cookie)
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	c := newContext(http.MethodPost, "/api/users/parse", `{"url": `)

	err := BindAndValidate(c, &dto.ParseUserRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.NotEmpty(t, httpErr.Message)
}

func TestBindAndValidate_Query(t *testing.T) {
	c := newContext(http.MethodGet, "/api/users/extract-id?url=https%3A%2F%2Fv.douyin.com%2Fabc", "")

	req := &dto.ExtractIDRequest{}
	require.NoError(t, BindAndValidate(c, req))
	assert.Equal(t, "https://v.douyin.com/abc", req.URL)
}

func TestExtractValidationError_PlainError(t *testing.T) {
	msg, fields := extractValidationError(errors.New("cookie is malformed"))

	assert.Equal(t, "Validation failed", msg)
	assert.Equal(t, []errs.FieldError{{Field: "request", Error: "cookie is malformed"}}, fields)
}
