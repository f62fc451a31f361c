package forecast

import (
	"math"
	"sort"
	"time"
)

// Monthly model constants.
const (
	// MonthlySeasonalPeriod is fixed: one seasonal index per calendar month.
	MonthlySeasonalPeriod = 12

	DefaultMonthlyHorizon = 6

	// bandMultiplier is the fixed one-sided 90%-style band around the
	// residual dispersion. Empirical constant, not a derived interval.
	bandMultiplier = 1.64
)

// MonthlyConfig tunes the monthly regression model. UpcomingPromotions maps
// month-start dates (YYYY-MM-01) to a label; future points falling on a
// mapped month are flagged promotional.
type MonthlyConfig struct {
	Horizon            int               `json:"horizon"`
	UpcomingPromotions map[string]string `json:"upcoming_promotions,omitempty"`
}

func (c MonthlyConfig) sanitize() MonthlyConfig {
	if c.Horizon == 0 {
		c.Horizon = DefaultMonthlyHorizon
	}
	if c.Horizon < 1 {
		c.Horizon = 1
	}
	return c
}

// monthObservation is a parsed history point anchored to its month start.
type monthObservation struct {
	month    time.Time
	quantity float64
	promo    bool
}

// ForecastMonthly fits a least-squares trend plus a calendar-month seasonal
// index over the history and projects cfg.Horizon future months with
// uncertainty bounds. Returns ErrEmptyHistory when obs is empty: annual
// seasonality cannot be fabricated from nothing.
func ForecastMonthly(obs []Observation, cfg MonthlyConfig) (*MonthlyResult, error) {
	return ForecastMonthlyAt(obs, cfg, time.Now().UTC())
}

// ForecastMonthlyAt is ForecastMonthly with an explicit clock, used as the
// fallback month for unparseable date markers.
func ForecastMonthlyAt(obs []Observation, cfg MonthlyConfig, now time.Time) (*MonthlyResult, error) {
	if len(obs) == 0 {
		return nil, ErrEmptyHistory
	}
	cfg = cfg.sanitize()

	points := make([]monthObservation, len(obs))
	for i, o := range obs {
		t, err := parseDate(o.Date)
		if err != nil {
			t = now
		}
		points[i] = monthObservation{
			month:    monthStart(t),
			quantity: clampQuantity(o.Quantity),
			promo:    o.Promo,
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].month.Before(points[j].month) })

	n := len(points)
	slope, intercept := fitTrend(points)
	baseline := func(i int) float64 { return intercept + slope*float64(i) }

	seasonal := monthlySeasonalIndex(points, baseline)

	fitted := make([]float64, n)
	sumSquaredError := 0.0
	for i, p := range points {
		fitted[i] = clampNonNeg(baseline(i) * seasonal[p.month.Month()-1])
		residual := p.quantity - fitted[i]
		sumSquaredError += residual * residual
	}
	denom := n - 1
	if denom < 1 {
		denom = 1
	}
	sigma := math.Sqrt(sumSquaredError / float64(denom))

	timeline := make([]Point, 0, n+cfg.Horizon)
	for i, p := range points {
		lower, upper := band(fitted[i], sigma)
		timeline = append(timeline, Point{
			Date:     p.month.Format(DateLayout),
			Actual:   floatPtr(p.quantity),
			Forecast: fitted[i],
			Phase:    PhaseHistory,
			Lower:    floatPtr(lower),
			Upper:    floatPtr(upper),
			Promo:    p.promo,
		})
	}

	lastMonth := points[n-1].month
	for step := 1; step <= cfg.Horizon; step++ {
		month := lastMonth.AddDate(0, step, 0)
		key := month.Format(DateLayout)
		value := clampNonNeg(baseline(n-1+step) * seasonal[month.Month()-1])
		lower, upper := band(value, sigma)
		_, promo := cfg.UpcomingPromotions[key]
		timeline = append(timeline, Point{
			Date:     key,
			Forecast: value,
			Phase:    PhaseForecast,
			Lower:    floatPtr(lower),
			Upper:    floatPtr(upper),
			Promo:    promo,
		})
	}

	return &MonthlyResult{
		Timeline:        timeline,
		MAPE:            timelineMAPE(timeline),
		Sigma:           sigma,
		Slope:           slope,
		Intercept:       intercept,
		SeasonalPeriod:  MonthlySeasonalPeriod,
		SeasonalFactors: seasonal,
		TrainingStart:   points[0].month.Format(DateLayout),
		TrainingEnd:     lastMonth.Format(DateLayout),
	}, nil
}

// fitTrend runs ordinary least squares over the zero-based sequence index,
// not calendar time, so irregular gaps in the series do not skew the fit.
// A degenerate system (single point) yields a flat line at the mean.
func fitTrend(points []monthObservation) (slope, intercept float64) {
	n := float64(len(points))
	sumX, sumY, sumXY, sumX2 := 0.0, 0.0, 0.0, 0.0
	for i, p := range points {
		x := float64(i)
		sumX += x
		sumY += p.quantity
		sumXY += x * p.quantity
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denominator
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// monthlySeasonalIndex averages actual/baseline ratios per calendar month,
// then rescales the 12-element vector to mean 1. Months with no history
// default to 1; a zero or non-finite baseline contributes a ratio of 1.
func monthlySeasonalIndex(points []monthObservation, baseline func(int) float64) []float64 {
	sums := make([]float64, MonthlySeasonalPeriod)
	counts := make([]int, MonthlySeasonalPeriod)
	for i, p := range points {
		ratio := 1.0
		if b := baseline(i); b != 0 && isFinite(b) {
			if r := p.quantity / b; isFinite(r) {
				ratio = r
			}
		}
		m := int(p.month.Month()) - 1
		sums[m] += ratio
		counts[m]++
	}

	seasonal := make([]float64, MonthlySeasonalPeriod)
	total := 0.0
	for m := range seasonal {
		if counts[m] > 0 {
			seasonal[m] = sums[m] / float64(counts[m])
		} else {
			seasonal[m] = 1
		}
		total += seasonal[m]
	}

	avg := total / MonthlySeasonalPeriod
	if avg <= 0 || !isFinite(avg) {
		for m := range seasonal {
			seasonal[m] = 1
		}
		return seasonal
	}
	for m := range seasonal {
		seasonal[m] /= avg
	}
	return seasonal
}

// band derives the fixed-multiplier uncertainty bounds around a fitted value.
func band(value, sigma float64) (lower, upper float64) {
	lower = value - bandMultiplier*sigma
	if lower < 0 {
		lower = 0
	}
	upper = value + bandMultiplier*sigma
	if upper < value {
		upper = value
	}
	return lower, upper
}

// monthStart returns the first day of t's month at midnight UTC.
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
