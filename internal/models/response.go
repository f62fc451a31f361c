package models

import "github.com/demandcast/demandcast/internal/forecast"

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// WeeklyForecastResponse represents weekly forecast response
type WeeklyForecastResponse struct {
	forecast.WeeklyResult
	RequestID string `json:"request_id"`
}

// MonthlyForecastResponse represents monthly forecast response. StockoutDate
// is present only when the request carried available stock and the projected
// demand exhausts it within the horizon.
type MonthlyForecastResponse struct {
	forecast.MonthlyResult
	StockoutDate *string `json:"stockout_date,omitempty"`
	RequestID    string  `json:"request_id"`
}

// StockoutResponse represents stockout estimate response
type StockoutResponse struct {
	StockoutDate *string `json:"stockout_date"`
	Exhausted    bool    `json:"exhausted"`
	RequestID    string  `json:"request_id"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
