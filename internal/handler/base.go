package handler

import (
	"reflect"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/dytool-backend/internal/middleware"
	"github.com/deppfellow/dytool-backend/internal/server"
	"github.com/deppfellow/dytool-backend/internal/validation"
)

// Handler gives concrete handlers access to the Server.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint. Req is a pointer to a request struct.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// newRequest allocates a zero value of the type req points to, so concurrent
// requests never share a payload.
func newRequest[Req validation.Validatable](req Req) Req {
	t := reflect.TypeOf(req)
	if t == nil || t.Kind() != reflect.Pointer {
		return req
	}
	return reflect.New(t.Elem()).Interface().(Req)
}

// Handle wraps a typed endpoint with binding, validation, logging and tracing,
// writing the result as JSON with status.
//
//	e.POST("/api/users/parse", Handle(h.Handler, h.ParseUser, http.StatusOK, &dto.ParseUserRequest{}))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		payload := newRequest(req)

		txn := newrelic.FromContext(c.Request().Context())
		if txn != nil {
			txn.AddAttribute("handler.name", c.Path())
		}

		logger := middleware.GetLogger(c).With().
			Str("operation", "handler").
			Str("route", c.Path()).
			Logger()

		logger.Debug().Msg("handling request")

		validationStart := time.Now()
		if err := validation.BindAndValidate(c, payload); err != nil {
			validationDuration := time.Since(validationStart)

			logger.Warn().
				Err(err).
				Dur("validation_duration", validationDuration).
				Msg("request validation failed")

			if txn != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
				txn.AddAttribute("validation.status", "failed")
				txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
			}
			return err
		}
		validationDuration := time.Since(validationStart)

		if txn != nil {
			txn.AddAttribute("validation.status", "success")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		handlerStart := time.Now()
		result, err := handler(c, payload)
		handlerDuration := time.Since(handlerStart)

		if err != nil {
			logger.Error().
				Err(err).
				Dur("handler_duration", handlerDuration).
				Dur("total_duration", time.Since(start)).
				Msg("handler execution failed")

			if txn != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
				txn.AddAttribute("handler.status", "error")
				txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			}
			return err
		}

		if txn != nil {
			txn.AddAttribute("handler.status", "success")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
		}

		logger.Info().
			Dur("handler_duration", handlerDuration).
			Dur("validation_duration", validationDuration).
			Dur("total_duration", time.Since(start)).
			Msg("request completed successfully")

		return c.JSON(status, result)
	}
}
