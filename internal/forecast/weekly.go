package forecast

import (
	"math"
	"time"
)

// Weekly model limits and defaults.
const (
	DefaultAlpha          = 0.3
	DefaultBeta           = 0.1
	DefaultGamma          = 0.1
	DefaultSeasonalPeriod = 4
	DefaultWeeklyHorizon  = 8

	MinSeasonalPeriod = 2
	MaxSeasonalPeriod = 12

	// Seasonal indices are clamped to this range at every update step to
	// prevent runaway multiplicative feedback.
	minSeasonalIndex = 0.01
	maxSeasonalIndex = 10
)

// WeeklyConfig tunes the weekly smoothing model. Zero values select the
// defaults; out-of-range values are clamped, never rejected.
type WeeklyConfig struct {
	Alpha            float64 `json:"alpha"`
	Beta             float64 `json:"beta"`
	Gamma            float64 `json:"gamma"`
	SeasonalPeriod   int     `json:"seasonal_period"`
	Horizon          int     `json:"horizon"`
	MinHistoryLength int     `json:"min_history_length"`
}

// DefaultWeeklyConfig returns the default weekly model configuration.
func DefaultWeeklyConfig() WeeklyConfig {
	return WeeklyConfig{
		Alpha:          DefaultAlpha,
		Beta:           DefaultBeta,
		Gamma:          DefaultGamma,
		SeasonalPeriod: DefaultSeasonalPeriod,
		Horizon:        DefaultWeeklyHorizon,
	}
}

// sanitize clamps every field into its valid range. MinHistoryLength
// defaults to three seasonal cycles and is floored at two, so the seasonal
// initialization always sees at least two full periods.
func (c WeeklyConfig) sanitize() WeeklyConfig {
	c.Alpha = clampUnit(c.Alpha)
	c.Beta = clampUnit(c.Beta)
	c.Gamma = clampUnit(c.Gamma)

	if c.SeasonalPeriod == 0 {
		c.SeasonalPeriod = DefaultSeasonalPeriod
	}
	if c.SeasonalPeriod < MinSeasonalPeriod {
		c.SeasonalPeriod = MinSeasonalPeriod
	}
	if c.SeasonalPeriod > MaxSeasonalPeriod {
		c.SeasonalPeriod = MaxSeasonalPeriod
	}

	if c.Horizon == 0 {
		c.Horizon = DefaultWeeklyHorizon
	}
	if c.Horizon < 1 {
		c.Horizon = 1
	}

	if c.MinHistoryLength <= 0 {
		c.MinHistoryLength = c.SeasonalPeriod * 3
	}
	if c.MinHistoryLength < c.SeasonalPeriod*2 {
		c.MinHistoryLength = c.SeasonalPeriod * 2
	}

	return c
}

// smoothingState is the rolling Holt-Winters state, threaded explicitly
// through the recurrence so concurrent calls never share anything.
type smoothingState struct {
	level    float64
	trend    float64
	seasonal []float64
}

// ForecastWeekly runs triple exponential smoothing over the normalized
// weekly history and projects cfg.Horizon future weeks. It never fails:
// malformed input is normalized and short histories are padded.
func ForecastWeekly(obs []Observation, cfg WeeklyConfig) *WeeklyResult {
	return ForecastWeeklyAt(obs, cfg, time.Now().UTC())
}

// ForecastWeeklyAt is ForecastWeekly with an explicit clock.
func ForecastWeeklyAt(obs []Observation, cfg WeeklyConfig, now time.Time) *WeeklyResult {
	cfg = cfg.sanitize()
	weeks := NormalizeWeeksAt(obs, cfg.MinHistoryLength, now)

	values := make([]float64, len(weeks))
	allZero := true
	for i, w := range weeks {
		values[i] = w.Quantity
		if w.Quantity != 0 {
			allZero = false
		}
	}

	if allZero {
		// Smoothing a flat zero series would divide by zero in the
		// seasonal index computation; short-circuit to a zero forecast.
		return zeroWeeklyResult(weeks, cfg)
	}

	state := initSmoothingState(values, cfg.SeasonalPeriod)
	timeline := make([]Point, 0, len(weeks)+cfg.Horizon)

	for i, w := range weeks {
		season := i % cfg.SeasonalPeriod

		// One-step-ahead fit from the previous state, recorded before
		// the update.
		fitted := clampNonNeg((state.level + state.trend) * state.seasonal[season])
		timeline = append(timeline, Point{
			Date:     w.Week,
			Actual:   floatPtr(values[i]),
			Forecast: math.Round(fitted),
			Phase:    PhaseHistory,
			Promo:    w.Promo,
		})

		state = stepSmoothing(state, values[i], season, cfg)
	}

	lastWeek, err := parseDate(weeks[len(weeks)-1].Week)
	if err != nil {
		lastWeek = weekStart(now)
	}
	n := len(weeks)
	for step := 1; step <= cfg.Horizon; step++ {
		season := (n + step - 1) % cfg.SeasonalPeriod
		projected := clampNonNeg((state.level + state.trend*float64(step)) * state.seasonal[season])
		timeline = append(timeline, Point{
			Date:     lastWeek.AddDate(0, 0, 7*step).Format(DateLayout),
			Forecast: math.Round(projected),
			Phase:    PhaseForecast,
		})
	}

	return &WeeklyResult{
		Timeline:        timeline,
		SeasonalFactors: renormalizeSeasonal(state.seasonal),
		SeasonalPeriod:  cfg.SeasonalPeriod,
		Smoothing:       Smoothing{Alpha: cfg.Alpha, Beta: cfg.Beta, Gamma: cfg.Gamma},
		Level:           state.level,
		Trend:           state.trend,
		MAPE:            timelineMAPE(timeline),
	}
}

// initSmoothingState builds the initial level, trend and seasonal indices.
func initSmoothingState(values []float64, period int) smoothingState {
	n := len(values)

	levelSpan := period
	if n < levelSpan {
		levelSpan = n
	}
	level := mean(values[:levelSpan])

	var trend float64
	switch {
	case n >= 2*period:
		// Average period-over-period change, expressed per week.
		sum := 0.0
		for i := 0; i < period; i++ {
			sum += values[i+period] - values[i]
		}
		trend = sum / float64(period) / float64(period)
	case n >= 2:
		trend = (values[n-1] - values[0]) / float64(n-1)
	}

	seasonal := make([]float64, period)
	seasons := n / period
	if seasons < 2 {
		for i := range seasonal {
			seasonal[i] = 1
		}
		return smoothingState{level: level, trend: trend, seasonal: seasonal}
	}

	seasonAvg := make([]float64, seasons)
	for s := 0; s < seasons; s++ {
		seasonAvg[s] = mean(values[s*period : (s+1)*period])
	}
	for i := 0; i < period; i++ {
		sum := 0.0
		count := 0
		for s := 0; s < seasons; s++ {
			if seasonAvg[s] > 0 {
				sum += values[s*period+i] / seasonAvg[s]
				count++
			}
		}
		if count > 0 {
			seasonal[i] = sum / float64(count)
		} else {
			seasonal[i] = 1
		}
	}

	// Rescale so the indices sum to the period (mean 1): seasonality
	// redistributes the level, it must not inflate or deflate it.
	total := 0.0
	for _, v := range seasonal {
		total += v
	}
	if total > 0 {
		scale := float64(period) / total
		for i := range seasonal {
			seasonal[i] *= scale
		}
	}

	return smoothingState{level: level, trend: trend, seasonal: seasonal}
}

// stepSmoothing applies one Holt-Winters update and returns the new state.
// The seasonal slice is copied so the previous state is never aliased.
func stepSmoothing(prev smoothingState, actual float64, season int, cfg WeeklyConfig) smoothingState {
	seasonal := make([]float64, len(prev.seasonal))
	copy(seasonal, prev.seasonal)

	deseasonalized := actual
	if seasonal[season] > 0 {
		deseasonalized = actual / seasonal[season]
	}

	level := cfg.Alpha*deseasonalized + (1-cfg.Alpha)*(prev.level+prev.trend)
	trend := cfg.Beta*(level-prev.level) + (1-cfg.Beta)*prev.trend

	if level > 0 {
		raw := cfg.Gamma*(actual/level) + (1-cfg.Gamma)*seasonal[season]
		if isFinite(raw) && raw > 0 {
			seasonal[season] = clampRange(raw, minSeasonalIndex, maxSeasonalIndex)
		}
	}

	return smoothingState{level: level, trend: trend, seasonal: seasonal}
}

// renormalizeSeasonal scales the indices so their mean is exactly 1.
func renormalizeSeasonal(seasonal []float64) []float64 {
	out := make([]float64, len(seasonal))
	avg := mean(seasonal)
	if avg <= 0 || !isFinite(avg) {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	for i, v := range seasonal {
		out[i] = v / avg
	}
	return out
}

// zeroWeeklyResult is the degenerate all-zero timeline: zero history fits,
// zero future forecasts, flat seasonal factors, no MAPE.
func zeroWeeklyResult(weeks []NormalizedWeek, cfg WeeklyConfig) *WeeklyResult {
	timeline := make([]Point, 0, len(weeks)+cfg.Horizon)
	for _, w := range weeks {
		timeline = append(timeline, Point{
			Date:   w.Week,
			Actual: floatPtr(0),
			Phase:  PhaseHistory,
			Promo:  w.Promo,
		})
	}

	lastWeek, err := parseDate(weeks[len(weeks)-1].Week)
	if err != nil {
		lastWeek = weekStart(time.Now())
	}
	for step := 1; step <= cfg.Horizon; step++ {
		timeline = append(timeline, Point{
			Date:  lastWeek.AddDate(0, 0, 7*step).Format(DateLayout),
			Phase: PhaseForecast,
		})
	}

	seasonal := make([]float64, cfg.SeasonalPeriod)
	for i := range seasonal {
		seasonal[i] = 1
	}

	return &WeeklyResult{
		Timeline:        timeline,
		SeasonalFactors: seasonal,
		SeasonalPeriod:  cfg.SeasonalPeriod,
		Smoothing:       Smoothing{Alpha: cfg.Alpha, Beta: cfg.Beta, Gamma: cfg.Gamma},
	}
}
