// Package forecast implements the demand forecasting engine: a weekly
// Holt-Winters model over normalized week buckets, a monthly linear-trend
// model with a calendar-month seasonal index, and a stockout date estimator
// derived from the monthly timeline.
//
// All entry points are pure functions over their inputs. They hold no state,
// perform no I/O, and are safe for concurrent use.
package forecast

import (
	"errors"
	"math"
	"time"
)

// DateLayout is the canonical calendar marker format used on all timelines.
const DateLayout = "2006-01-02"

// Phase tags for timeline points.
const (
	PhaseHistory  = "history"
	PhaseForecast = "forecast"
)

// ErrEmptyHistory is returned by the monthly model when no observations are
// provided. The weekly model never fails; it pads short histories instead.
var ErrEmptyHistory = errors.New("forecast: empty demand history")

// Observation is a single raw demand record. Date is a date-like string
// (week marker for the weekly model, calendar date for the monthly model).
type Observation struct {
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
	Promo    bool    `json:"promo,omitempty"`
}

// NormalizedWeek is one deduplicated week bucket: quantities summed, promo
// flags OR-ed. Week is the Monday of the bucket in DateLayout form.
type NormalizedWeek struct {
	Week     string  `json:"week"`
	Quantity float64 `json:"quantity"`
	Promo    bool    `json:"promo,omitempty"`
}

// Point is a single timeline entry. Actual is set only on history points.
// Lower/Upper are set only by the monthly model.
type Point struct {
	Date     string   `json:"date"`
	Actual   *float64 `json:"actual"`
	Forecast float64  `json:"forecast"`
	Phase    string   `json:"phase"`
	Lower    *float64 `json:"lower,omitempty"`
	Upper    *float64 `json:"upper,omitempty"`
	Promo    bool     `json:"promo,omitempty"`
}

// Smoothing holds the Holt-Winters smoothing constants actually used.
type Smoothing struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// WeeklyResult is the full output of the weekly model.
type WeeklyResult struct {
	Timeline        []Point   `json:"timeline"`
	SeasonalFactors []float64 `json:"seasonal_factors"`
	SeasonalPeriod  int       `json:"seasonal_period"`
	Smoothing       Smoothing `json:"smoothing"`
	Level           float64   `json:"level"`
	Trend           float64   `json:"trend"`
	MAPE            *float64  `json:"mape"`
}

// MonthlyResult is the full output of the monthly model.
type MonthlyResult struct {
	Timeline        []Point   `json:"timeline"`
	MAPE            *float64  `json:"mape"`
	Sigma           float64   `json:"sigma"`
	Slope           float64   `json:"slope"`
	Intercept       float64   `json:"intercept"`
	SeasonalPeriod  int       `json:"seasonal_period"`
	SeasonalFactors []float64 `json:"seasonal_factors"`
	TrainingStart   string    `json:"training_start"`
	TrainingEnd     string    `json:"training_end"`
}

// isFinite reports whether v is neither NaN nor infinite.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// clampQuantity maps negative or non-finite quantities to zero.
func clampQuantity(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	return v
}

// clampNonNeg floors a value at zero, treating non-finite values as zero.
func clampNonNeg(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	return v
}

// clampUnit clamps a smoothing constant to [0, 1]; non-finite resets to 0.
func clampUnit(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampRange clamps v to [lo, hi].
func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// timelineMAPE computes the mean absolute percentage error across history
// points with a strictly positive actual, as a percentage rounded to one
// decimal place. Returns nil when no such point exists.
func timelineMAPE(timeline []Point) *float64 {
	sum := 0.0
	count := 0
	for _, p := range timeline {
		if p.Phase != PhaseHistory || p.Actual == nil || *p.Actual <= 0 {
			continue
		}
		sum += math.Abs(*p.Actual-p.Forecast) / *p.Actual
		count++
	}
	if count == 0 {
		return nil
	}
	mape := math.Round(sum/float64(count)*100*10) / 10
	return &mape
}

// parseDate parses a date-like marker. Accepted layouts: YYYY-MM-DD and
// RFC3339. Anything else is an error and the caller applies its fallback.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New("forecast: unrecognized date marker: " + s)
}

func floatPtr(v float64) *float64 {
	return &v
}
