package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/moodmeter/internal/models"
)

// apiError is rendered as {"error": Message} with the given status.
type apiError struct {
	Status  int
	Message string
	Cause   error
}

func (e *apiError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *apiError) Unwrap() error { return e.Cause }

func badRequest(message string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Message: message}
}

func internalError(message string, cause error) *apiError {
	return &apiError{Status: http.StatusInternalServerError, Message: message, Cause: cause}
}

// ErrorHandlingMiddleware turns handler errors into JSON error payloads.
func ErrorHandlingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil || c.Response().Committed {
				return err
			}

			apiErr := asAPIError(err)
			logError(c, apiErr)

			if err := c.JSON(apiErr.Status, models.ErrorResponse{Error: apiErr.Message}); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

func asAPIError(err error) *apiError {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			message = msg
		}
		return &apiError{Status: httpErr.Code, Message: message, Cause: httpErr.Internal}
	}

	return internalError("internal server error", err)
}

func logError(c echo.Context, err *apiError) {
	attrs := []any{
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.Status,
	}
	if err.Cause != nil {
		attrs = append(attrs, "cause", err.Cause.Error())
	}

	if err.Status >= http.StatusInternalServerError {
		slog.Error("[Server] Request failed", attrs...)
		return
	}
	slog.Info("[Server] Request rejected", attrs...)
}
