package handlers

import (
	"math"

	"github.com/gofiber/fiber/v2"

	"github.com/demandcast/demandcast/internal/models"
	"github.com/demandcast/demandcast/internal/services"
)

// WeeklyForecast handles weekly forecast requests
// POST /v1/forecast/weekly
func (h *Handler) WeeklyForecast(c *fiber.Ctx) error {
	var req models.WeeklyForecastRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c, err)
	}

	result, err := h.forecastService.Weekly(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(result)
}

// MonthlyForecast handles monthly forecast requests
// POST /v1/forecast/monthly
func (h *Handler) MonthlyForecast(c *fiber.Ctx) error {
	var req models.MonthlyForecastRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c, err)
	}

	result, err := h.forecastService.Monthly(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(result)
}

// StockoutEstimate handles stockout estimate requests
// POST /v1/forecast/stockout
func (h *Handler) StockoutEstimate(c *fiber.Ctx) error {
	var req models.StockoutRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c, err)
	}

	if math.IsNaN(req.AvailableStock) || math.IsInf(req.AvailableStock, 0) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "available_stock must be a finite number",
			},
		})
	}

	result, err := h.forecastService.Stockout(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(result)
}

// invalidJSON writes the standard malformed-body error response.
func invalidJSON(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_JSON",
			Message: "Failed to parse JSON body",
			Details: map[string]interface{}{"error": err.Error()},
		},
	})
}

// serviceError maps a service layer error onto an HTTP response.
func serviceError(c *fiber.Ctx, err error) error {
	if svcErr, ok := err.(*services.ServiceError); ok {
		status := fiber.StatusInternalServerError
		switch svcErr.Code {
		case "EMPTY_HISTORY", "INVALID_REQUEST":
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    svcErr.Code,
				Message: svcErr.Message,
				Details: svcErr.Details,
			},
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "FORECAST_FAILED",
			Message: err.Error(),
		},
	})
}
