package handler

import (
	"context"
	"errors"
	"log/slog"
	"marketplace-api/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

func statusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPaymentFailed):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides the cause of server-side failures.
func publicMessage(err error, code int) string {
	if code >= http.StatusInternalServerError {
		if errors.Is(err, service.ErrOrderCreationFailed) {
			return service.ErrOrderCreationFailed.Error()
		}
		return http.StatusText(code)
	}
	if errors.Is(err, service.ErrPaymentFailed) {
		return service.ErrPaymentFailed.Error()
	}
	return err.Error()
}

func httpError(ctx context.Context, logger *slog.Logger, err error) *echo.HTTPError {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", slog.Any("err", err))
	}
	return echo.NewHTTPError(code, map[string]string{
		"error": publicMessage(err, code),
	})
}

func checkoutError(ctx context.Context, logger *slog.Logger, cartID string, err error) *echo.HTTPError {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "checkout failed", slog.String("cart_id", cartID), slog.Any("err", err))
	}
	return echo.NewHTTPError(code, map[string]string{
		"status":  service.Outcome(err),
		"error":   publicMessage(err, code),
		"cart_id": cartID,
	})
}

func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, map[string]string{
		"error": message,
	})
}
