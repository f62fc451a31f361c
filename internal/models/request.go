package models

import "github.com/demandcast/demandcast/internal/forecast"

// WeeklyForecastRequest represents a weekly forecast request. History may be
// empty; the engine pads short histories with synthetic weeks. Tuning fields
// are optional and fall back to the configured defaults when omitted.
type WeeklyForecastRequest struct {
	History          []forecast.Observation `json:"history"`
	Horizon          int                    `json:"horizon,omitempty"`
	SeasonalPeriod   int                    `json:"seasonal_period,omitempty"`
	MinHistoryLength int                    `json:"min_history_length,omitempty"`
	Alpha            *float64               `json:"alpha,omitempty"`
	Beta             *float64               `json:"beta,omitempty"`
	Gamma            *float64               `json:"gamma,omitempty"`
}

// MonthlyForecastRequest represents a monthly forecast request. Promotion
// months are keyed by first-of-month date (YYYY-MM-01). AvailableStock, when
// present, adds a stockout estimate to the response.
type MonthlyForecastRequest struct {
	History            []forecast.Observation `json:"history"`
	Horizon            int                    `json:"horizon,omitempty"`
	UpcomingPromotions map[string]string      `json:"upcoming_promotions,omitempty"`
	AvailableStock     *float64               `json:"available_stock,omitempty"`
}

// StockoutRequest represents a standalone stockout estimate request against a
// previously computed forecast timeline.
type StockoutRequest struct {
	AvailableStock float64          `json:"available_stock"`
	Timeline       []forecast.Point `json:"timeline"`
}
