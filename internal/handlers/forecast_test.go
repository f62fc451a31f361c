package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/demandcast/demandcast/internal/config"
	"github.com/demandcast/demandcast/internal/forecast"
	"github.com/demandcast/demandcast/internal/logging"
	"github.com/demandcast/demandcast/internal/models"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	handler := New(logging.NewDevelopment(), nil, config.DefaultConfig().Forecast)

	app := fiber.New()
	app.Post("/v1/forecast/weekly", handler.WeeklyForecast)
	app.Post("/v1/forecast/monthly", handler.MonthlyForecast)
	app.Post("/v1/forecast/stockout", handler.StockoutEstimate)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (int, []byte) {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return resp.StatusCode, respBody
}

func observations(start time.Time, stepMonths, stepDays, n int, qty float64) []forecast.Observation {
	obs := make([]forecast.Observation, n)
	for i := range obs {
		obs[i] = forecast.Observation{
			Date:     start.AddDate(0, i*stepMonths, i*stepDays).Format(forecast.DateLayout),
			Quantity: qty,
		}
	}
	return obs
}

func TestWeeklyForecastHandler(t *testing.T) {
	app := newTestApp(t)

	history := observations(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), 0, 7, 12, 100)
	status, body := postJSON(t, app, "/v1/forecast/weekly", models.WeeklyForecastRequest{History: history})

	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", status, body)
	}

	var resp models.WeeklyForecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(resp.Timeline) != 12+8 {
		t.Errorf("Expected 20 timeline points, got %d", len(resp.Timeline))
	}
	if resp.RequestID == "" {
		t.Error("Expected non-empty request_id")
	}
}

func TestWeeklyForecastHandler_EmptyHistory(t *testing.T) {
	app := newTestApp(t)

	// Empty weekly history is padded, not rejected
	status, body := postJSON(t, app, "/v1/forecast/weekly", models.WeeklyForecastRequest{})

	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", status, body)
	}
}

func TestWeeklyForecastHandler_InvalidJSON(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/v1/forecast/weekly", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("Failed to unmarshal error: %v", err)
	}
	if errResp.Error.Code != "INVALID_JSON" {
		t.Errorf("Expected INVALID_JSON, got %s", errResp.Error.Code)
	}
}

func TestMonthlyForecastHandler(t *testing.T) {
	app := newTestApp(t)

	history := observations(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1, 0, 24, 100)
	status, body := postJSON(t, app, "/v1/forecast/monthly", models.MonthlyForecastRequest{History: history})

	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", status, body)
	}

	var resp models.MonthlyForecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(resp.Timeline) != 24+6 {
		t.Errorf("Expected 30 timeline points, got %d", len(resp.Timeline))
	}
	if resp.StockoutDate != nil {
		t.Error("Expected no stockout date without available_stock")
	}
}

func TestMonthlyForecastHandler_EmptyHistory(t *testing.T) {
	app := newTestApp(t)

	status, body := postJSON(t, app, "/v1/forecast/monthly", models.MonthlyForecastRequest{})

	if status != fiber.StatusBadRequest {
		t.Fatalf("Expected 400 for empty history, got %d", status)
	}

	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("Failed to unmarshal error: %v", err)
	}
	if errResp.Error.Code != "EMPTY_HISTORY" {
		t.Errorf("Expected EMPTY_HISTORY, got %s", errResp.Error.Code)
	}
}

func TestMonthlyForecastHandler_WithStock(t *testing.T) {
	app := newTestApp(t)

	stock := 50.0
	history := observations(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1, 0, 24, 100)
	status, body := postJSON(t, app, "/v1/forecast/monthly", models.MonthlyForecastRequest{
		History:        history,
		AvailableStock: &stock,
	})

	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", status, body)
	}

	var resp models.MonthlyForecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if resp.StockoutDate == nil {
		t.Error("Expected stockout date with low stock")
	}
}

func TestStockoutHandler(t *testing.T) {
	app := newTestApp(t)

	status, body := postJSON(t, app, "/v1/forecast/stockout", models.StockoutRequest{
		AvailableStock: 50,
		Timeline: []forecast.Point{
			{Date: "2025-07-01", Forecast: 100, Phase: forecast.PhaseForecast},
		},
	})

	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", status, body)
	}

	var resp models.StockoutResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if !resp.Exhausted || resp.StockoutDate == nil {
		t.Fatal("Expected stockout within first month")
	}
	if *resp.StockoutDate != "2025-07-15" {
		t.Errorf("Expected 2025-07-15, got %s", *resp.StockoutDate)
	}
}

func TestStockoutHandler_ZeroStock(t *testing.T) {
	app := newTestApp(t)

	status, body := postJSON(t, app, "/v1/forecast/stockout", models.StockoutRequest{
		AvailableStock: 0,
		Timeline: []forecast.Point{
			{Date: "2025-07-01", Forecast: 100, Phase: forecast.PhaseForecast},
		},
	})

	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}

	var resp models.StockoutResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if resp.Exhausted || resp.StockoutDate != nil {
		t.Error("Zero stock should not report a stockout date")
	}
}
