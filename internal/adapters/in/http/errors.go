package http

import (
	"errors"
	"net/http"

	"marketplace/internal/generated/servers"
	"marketplace/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// StatusFor maps the error taxonomy of the core onto HTTP status codes.
func StatusFor(err error) int {
	switch errs.Classify(err) {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindBadRequest:
		return http.StatusBadRequest
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(ctx echo.Context, err error) error {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err)
		message = http.StatusText(status)
	}
	return ctx.JSON(status, servers.Error{Code: status, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{Code: http.StatusBadRequest, Message: message})
}

// bindAndValidate decodes the JSON body and runs the struct tags through the validator.
func (s *Server) bindAndValidate(ctx echo.Context, body any) error {
	if err := ctx.Bind(body); err != nil {
		return errors.New("invalid request body")
	}
	if err := s.validate.Struct(body); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return errors.New("invalid field " + fieldErrs[0].Namespace() + ": failed on " + fieldErrs[0].Tag())
		}
		return err
	}
	return nil
}
