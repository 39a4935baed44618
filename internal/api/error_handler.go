package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devmatch/account-service/internal/api/handler"
	"github.com/devmatch/account-service/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders the {"message": ..., "error": ...} envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.ErrorResponse{
			Message: fmt.Sprintf("%v", he.Message),
			Error:   http.StatusText(he.Code),
		}
	}

	switch {
	case errors.Is(err, domain.ErrFieldNotAllowed):
		return http.StatusBadRequest, handler.ErrorResponse{Message: "Bad Request! Update is not valid.", Error: err.Error()}
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, handler.ErrorResponse{Message: "Bad Request! Input is not valid.", Error: err.Error()}
	case errors.Is(err, domain.ErrDuplicateKey):
		return http.StatusConflict, handler.ErrorResponse{Message: "Account already exists", Error: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, handler.ErrorResponse{Message: "User not found", Error: domain.ErrNotFound.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, handler.ErrorResponse{Message: "Invalid email or password", Error: domain.ErrInvalidCredentials.Error()}
	case errors.Is(err, domain.ErrExpiredToken),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, handler.ErrorResponse{Message: "Unauthorized! Please log in to access this resource.", Error: domain.ErrUnauthorized.Error()}
	}

	// Unexpected error (corrupt credential, storage failure): log the real cause.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.ErrorResponse{
		Message: "An error occurred. Please try again later.",
		Error:   "internal server error",
	}
}
