package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/demandcast/demandcast/internal/config"
	"github.com/demandcast/demandcast/internal/forecast"
	"github.com/demandcast/demandcast/internal/logging"
	"github.com/demandcast/demandcast/internal/models"
	"github.com/demandcast/demandcast/internal/queue"
	"github.com/demandcast/demandcast/internal/utils"
)

// ForecastService handles forecasting business logic
type ForecastService struct {
	logger    *logging.Logger
	publisher queue.Publisher
	defaults  config.ForecastConfig
}

// NewForecastService creates a new ForecastService
func NewForecastService(
	logger *logging.Logger,
	publisher queue.Publisher,
	defaults config.ForecastConfig,
) *ForecastService {
	return &ForecastService{
		logger:    logger,
		publisher: publisher,
		defaults:  defaults,
	}
}

// ForecastEvent is published to the queue after every successful forecast.
type ForecastEvent struct {
	ForecastID  string `json:"forecast_id"`
	Kind        string `json:"kind"` // weekly, monthly, stockout
	Points      int    `json:"points"`
	GeneratedAt string `json:"generated_at"`
}

// Weekly runs the triple exponential smoothing model over a weekly history.
func (s *ForecastService) Weekly(ctx context.Context, req *models.WeeklyForecastRequest) (*models.WeeklyForecastResponse, error) {
	startExec := time.Now()

	cfg := forecast.WeeklyConfig{
		Alpha:            s.defaults.Alpha,
		Beta:             s.defaults.Beta,
		Gamma:            s.defaults.Gamma,
		SeasonalPeriod:   s.defaults.SeasonalPeriod,
		Horizon:          s.defaults.WeeklyHorizon,
		MinHistoryLength: req.MinHistoryLength,
	}
	if req.Alpha != nil {
		cfg.Alpha = *req.Alpha
	}
	if req.Beta != nil {
		cfg.Beta = *req.Beta
	}
	if req.Gamma != nil {
		cfg.Gamma = *req.Gamma
	}
	if req.SeasonalPeriod != 0 {
		cfg.SeasonalPeriod = req.SeasonalPeriod
	}
	if req.Horizon != 0 {
		cfg.Horizon = req.Horizon
	}

	result := forecast.ForecastWeekly(req.History, cfg)
	requestID := s.publishEvent(ctx, "weekly", len(result.Timeline))

	s.logger.Info("Weekly forecast completed",
		"request_id", requestID,
		"history_points", len(req.History),
		"horizon", cfg.Horizon,
		"seasonal_period", result.SeasonalPeriod,
		"latency_ms", time.Since(startExec).Milliseconds())

	return &models.WeeklyForecastResponse{
		WeeklyResult: *result,
		RequestID:    requestID,
	}, nil
}

// Monthly runs the regression model over a monthly history. When the request
// carries available stock, the response includes a stockout estimate computed
// against the projected months.
func (s *ForecastService) Monthly(ctx context.Context, req *models.MonthlyForecastRequest) (*models.MonthlyForecastResponse, error) {
	startExec := time.Now()

	cfg := forecast.MonthlyConfig{
		Horizon:            s.defaults.MonthlyHorizon,
		UpcomingPromotions: req.UpcomingPromotions,
	}
	if req.Horizon != 0 {
		cfg.Horizon = req.Horizon
	}

	result, err := forecast.ForecastMonthly(req.History, cfg)
	if err != nil {
		if err == forecast.ErrEmptyHistory {
			return nil, NewServiceError("EMPTY_HISTORY", "monthly forecast requires at least one observation")
		}
		return nil, NewServiceErrorWithDetails("FORECAST_FAILED", "monthly forecast failed",
			map[string]interface{}{"error": err.Error()})
	}

	resp := &models.MonthlyForecastResponse{
		MonthlyResult: *result,
		RequestID:     s.publishEvent(ctx, "monthly", len(result.Timeline)),
	}

	if req.AvailableStock != nil {
		if date, ok := forecast.EstimateStockout(*req.AvailableStock, futurePoints(result.Timeline)); ok {
			resp.StockoutDate = &date
		}
	}

	s.logger.Info("Monthly forecast completed",
		"request_id", resp.RequestID,
		"history_points", len(req.History),
		"horizon", cfg.Horizon,
		"latency_ms", time.Since(startExec).Milliseconds())

	return resp, nil
}

// Stockout estimates the exhaustion date for a stock level against an
// existing forecast timeline.
func (s *ForecastService) Stockout(ctx context.Context, req *models.StockoutRequest) (*models.StockoutResponse, error) {
	resp := &models.StockoutResponse{
		RequestID: s.publishEvent(ctx, "stockout", len(req.Timeline)),
	}

	if date, ok := forecast.EstimateStockout(req.AvailableStock, futurePoints(req.Timeline)); ok {
		resp.StockoutDate = &date
		resp.Exhausted = true
	}

	return resp, nil
}

// futurePoints returns only the projected portion of a timeline.
func futurePoints(timeline []forecast.Point) []forecast.Point {
	future := make([]forecast.Point, 0, len(timeline))
	for _, p := range timeline {
		if p.Phase == forecast.PhaseForecast {
			future = append(future, p)
		}
	}
	return future
}

// publishEvent publishes a forecast.completed event and returns the generated
// request ID. Publish failures are logged, never surfaced to the caller.
func (s *ForecastService) publishEvent(ctx context.Context, kind string, points int) string {
	requestID := uuid.New().String()

	if s.publisher == nil {
		return requestID
	}

	event := ForecastEvent{
		ForecastID:  requestID,
		Kind:        kind,
		Points:      points,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("Failed to marshal forecast event", "error", err)
		return requestID
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), utils.EventPublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(publishCtx, utils.SubjectForecastCompleted, data); err != nil {
		s.logger.Warn("Failed to publish forecast event",
			"subject", utils.SubjectForecastCompleted,
			"kind", kind,
			"error", err)
	}

	return requestID
}
