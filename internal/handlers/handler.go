// Package handlers contains the HTTP handlers for the forecasting API.
package handlers

import (
	"github.com/demandcast/demandcast/internal/config"
	"github.com/demandcast/demandcast/internal/logging"
	"github.com/demandcast/demandcast/internal/queue"
	"github.com/demandcast/demandcast/internal/services"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger          *logging.Logger
	forecastService *services.ForecastService
}

// New creates a new handler instance
func New(logger *logging.Logger, publisher queue.Publisher, forecastCfg config.ForecastConfig) *Handler {
	return &Handler{
		logger:          logger,
		forecastService: services.NewForecastService(logger, publisher, forecastCfg),
	}
}
