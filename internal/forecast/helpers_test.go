package forecast

import (
	"testing"
	"time"
)

// Shared fixtures for the forecast engine tests. All dates are fixed so
// every test is deterministic regardless of wall clock.

var (
	// A Monday, so generated week markers are already week starts.
	testWeekStart = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	testMonth     = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	testNow       = time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC) // a Wednesday
)

// generateWeeklyObservations creates n weekly observations starting at
// testWeekStart with quantities from the value function.
func generateWeeklyObservations(n int, value func(i int) float64) []Observation {
	obs := make([]Observation, n)
	for i := 0; i < n; i++ {
		obs[i] = Observation{
			Date:     testWeekStart.AddDate(0, 0, 7*i).Format(DateLayout),
			Quantity: value(i),
		}
	}
	return obs
}

// generateMonthlyObservations creates n monthly observations starting at
// testMonth with quantities from the value function.
func generateMonthlyObservations(n int, value func(i int) float64) []Observation {
	obs := make([]Observation, n)
	for i := 0; i < n; i++ {
		obs[i] = Observation{
			Date:     testMonth.AddDate(0, i, 0).Format(DateLayout),
			Quantity: value(i),
		}
	}
	return obs
}

func constant(v float64) func(int) float64 {
	return func(int) float64 { return v }
}

// assertChronological fails if the timeline is not strictly ordered with all
// history points before all forecast points, or if actuals are present on
// the wrong phase.
func assertChronological(t *testing.T, timeline []Point) {
	t.Helper()
	seenForecast := false
	for i, p := range timeline {
		if i > 0 && timeline[i-1].Date >= p.Date {
			t.Errorf("timeline not strictly increasing at %d: %s >= %s", i, timeline[i-1].Date, p.Date)
		}
		switch p.Phase {
		case PhaseHistory:
			if seenForecast {
				t.Errorf("history point at %d after forecast phase began", i)
			}
			if p.Actual == nil {
				t.Errorf("history point at %d has nil actual", i)
			}
		case PhaseForecast:
			seenForecast = true
			if p.Actual != nil {
				t.Errorf("forecast point at %d has non-nil actual", i)
			}
		default:
			t.Errorf("unknown phase %q at %d", p.Phase, i)
		}
	}
}
