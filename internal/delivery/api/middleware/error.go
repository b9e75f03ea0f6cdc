package middleware

import (
	"log/slog"

	"reviewdesk/internal/delivery/api/response"
	deliverycontext "reviewdesk/internal/delivery/context"
	domainerrors "reviewdesk/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Attempt to parse as AppError
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		m.logProviderFailure(c, err)
		if appErr.HTTPCode() >= 500 {
			m.log(c).Error("Request failed",
				slog.String("kind", domainerrors.KindOf(err).String()),
				slog.Any("error", err),
				slog.String("path", c.Request().URL.Path),
			)
		}

		// Use AppError information, but do not expose internal details for 5xx errors
		_ = response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), nil)

		return
	}

	// Check if it is an Echo HTTPError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := "An error occurred"
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message, nil)

		return
	}

	// Default to internal error, log the error but return a generic message (do not expose internal details)
	m.log(c).Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	// For 500 errors, do not expose internal error details to the client
	_ = response.InternalServerError(c, "INTERNAL_ERROR", "Internal server error, please try again later")
}

// logProviderFailure records raw Google response bodies, which never reach the client.
func (m *ErrorMiddleware) logProviderFailure(c echo.Context, err error) {
	var upstreamErr *domainerrors.UpstreamError
	if errors.As(err, &upstreamErr) {
		m.log(c).Warn("Google request failed",
			slog.String("surface", upstreamErr.Surface),
			slog.Int("status", upstreamErr.Status),
			slog.String("body", upstreamErr.Body),
		)

		return
	}

	var exchangeErr *domainerrors.ExchangeFailedError
	if errors.As(err, &exchangeErr) {
		m.log(c).Warn("Google code exchange failed",
			slog.Int("status", exchangeErr.Status),
			slog.String("body", exchangeErr.Body),
		)
	}
}

func (m *ErrorMiddleware) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
}
