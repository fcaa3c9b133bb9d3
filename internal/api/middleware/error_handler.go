package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/frbox-labs/frbox/internal/domain"
)

// ErrorResponse is the error body wire contract.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// ErrorHandler maps domain errors to HTTP responses. Client-caused errors
// surface their detail verbatim; anything unexpected is logged server-side
// and answered with a generic message.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			if appErr.StatusCode >= 500 {
				logger.Error("internal error",
					slog.String("error", appErr.Code),
					slog.String("detail", appErr.Detail),
					slog.Any("cause", appErr.Err),
					slog.String("path", c.Path()),
				)
				// Never leak internals to the caller.
				return c.Status(appErr.StatusCode).JSON(ErrorResponse{
					Error:  domain.ErrInternal.Code,
					Detail: domain.ErrInternal.Detail,
				})
			}

			return c.Status(appErr.StatusCode).JSON(ErrorResponse{
				Error:  appErr.Code,
				Detail: appErr.Detail,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Error:  "Request failed",
				Detail: fiberErr.Message,
			})
		}

		logger.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Path()),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:  domain.ErrInternal.Code,
			Detail: domain.ErrInternal.Detail,
		})
	}
}
