package forecast

import (
	"math"
	"testing"
)

func futureTimeline(forecasts ...float64) []Point {
	points := make([]Point, len(forecasts))
	for i, f := range forecasts {
		points[i] = Point{
			Date:     testMonth.AddDate(0, i, 0).Format(DateLayout),
			Forecast: f,
			Phase:    PhaseForecast,
		}
	}
	return points
}

func TestEstimateStockout_NonPositiveStock(t *testing.T) {
	future := futureTimeline(100, 100)

	for _, stock := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		if _, ok := EstimateStockout(stock, future); ok {
			t.Errorf("stock %v: expected no stockout date", stock)
		}
	}
}

func TestEstimateStockout_ExactFirstMonth(t *testing.T) {
	// Stock consumed exactly within the first month: 30 days at the
	// uniform rate, so the date is 29 days after the month start.
	future := futureTimeline(100)

	date, ok := EstimateStockout(100, future)
	if !ok {
		t.Fatal("expected a stockout date")
	}
	if date != "2025-01-30" {
		t.Errorf("stockout date = %s, want 2025-01-30", date)
	}
}

func TestEstimateStockout_MidMonth(t *testing.T) {
	// 50 units against 100/month: daily rate 100/30, ceil(50/rate) = 15
	// days, so day offset 14.
	future := futureTimeline(100)

	date, ok := EstimateStockout(50, future)
	if !ok {
		t.Fatal("expected a stockout date")
	}
	if date != "2025-01-15" {
		t.Errorf("stockout date = %s, want 2025-01-15", date)
	}
}

func TestEstimateStockout_SpansMultipleMonths(t *testing.T) {
	// 250 units: 100 consumed in January, 100 in February, the remaining
	// 50 halfway through March.
	future := futureTimeline(100, 100, 100)

	date, ok := EstimateStockout(250, future)
	if !ok {
		t.Fatal("expected a stockout date")
	}
	if date != "2025-03-15" {
		t.Errorf("stockout date = %s, want 2025-03-15", date)
	}
}

func TestEstimateStockout_SkipsZeroForecastMonths(t *testing.T) {
	// No consumption projected in January; stock carries into February.
	future := futureTimeline(0, 60)

	date, ok := EstimateStockout(30, future)
	if !ok {
		t.Fatal("expected a stockout date")
	}
	if date != "2025-02-15" {
		t.Errorf("stockout date = %s, want 2025-02-15", date)
	}
}

func TestEstimateStockout_HorizonNeverExhausts(t *testing.T) {
	future := futureTimeline(10, 10, 10)

	if date, ok := EstimateStockout(1000, future); ok {
		t.Errorf("expected no stockout within horizon, got %s", date)
	}
}

func TestEstimateStockout_EmptyTimeline(t *testing.T) {
	if _, ok := EstimateStockout(500, nil); ok {
		t.Error("expected no stockout date for empty timeline")
	}
}
