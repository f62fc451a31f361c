package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/demandcast/demandcast/internal/logging"
	"github.com/demandcast/demandcast/internal/models"
	"github.com/demandcast/demandcast/internal/services"
)

// ErrorHandler returns the application error handler. Service errors keep
// their code and details; everything else is reported as a generic error.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		detail := models.ErrorDetail{
			Code:    "ERROR",
			Message: "Internal Server Error",
		}

		var svcErr *services.ServiceError
		var fiberErr *fiber.Error

		switch {
		case errors.As(err, &svcErr):
			code = statusForServiceError(svcErr.Code)
			detail.Code = svcErr.Code
			detail.Message = svcErr.Message
			detail.Details = svcErr.Details
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			detail.Message = fiberErr.Message
		}

		logger.Error("Request error",
			"path", c.Path(),
			"method", c.Method(),
			"status", code,
			"error", err,
		)

		detail.Path = c.Path()
		return c.Status(code).JSON(models.ErrorResponse{Error: detail})
	}
}

// statusForServiceError maps service error codes to HTTP status codes.
func statusForServiceError(code string) int {
	switch code {
	case "EMPTY_HISTORY", "INVALID_REQUEST":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}
