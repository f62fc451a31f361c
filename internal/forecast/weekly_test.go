package forecast

import (
	"math"
	"reflect"
	"testing"
)

func TestForecastWeekly_ConstantSeries(t *testing.T) {
	// A constant series has zero trend and flat seasonality, so every
	// fitted and projected value should stay at the constant (give or
	// take integer rounding).
	obs := generateWeeklyObservations(12, constant(100))

	result := ForecastWeeklyAt(obs, WeeklyConfig{}, testNow)
	if len(result.Timeline) != 12+DefaultWeeklyHorizon {
		t.Fatalf("expected %d timeline points, got %d", 12+DefaultWeeklyHorizon, len(result.Timeline))
	}
	assertChronological(t, result.Timeline)

	for i, p := range result.Timeline {
		if math.Abs(p.Forecast-100) > 1 {
			t.Errorf("point %d (%s): forecast %v, want 100±1", i, p.Date, p.Forecast)
		}
	}
	if result.MAPE == nil {
		t.Fatal("expected non-nil MAPE for positive history")
	}
	if *result.MAPE > 1 {
		t.Errorf("expected near-zero MAPE for constant series, got %v", *result.MAPE)
	}
}

func TestForecastWeekly_Deterministic(t *testing.T) {
	obs := generateWeeklyObservations(16, func(i int) float64 {
		return 50 + 10*math.Sin(2*math.Pi*float64(i%4)/4) + float64(i)
	})
	cfg := WeeklyConfig{Alpha: 0.4, Beta: 0.2, Gamma: 0.3, SeasonalPeriod: 4, Horizon: 6}

	first := ForecastWeeklyAt(obs, cfg, testNow)
	second := ForecastWeeklyAt(obs, cfg, testNow)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must produce identical results")
	}
}

func TestForecastWeekly_AllZeroHistory(t *testing.T) {
	obs := generateWeeklyObservations(12, constant(0))

	result := ForecastWeeklyAt(obs, WeeklyConfig{}, testNow)
	for i, p := range result.Timeline {
		if p.Forecast != 0 {
			t.Errorf("point %d: expected zero forecast, got %v", i, p.Forecast)
		}
		if p.Phase == PhaseHistory && (p.Actual == nil || *p.Actual != 0) {
			t.Errorf("point %d: expected zero actual", i)
		}
	}
	if result.MAPE != nil {
		t.Errorf("expected nil MAPE for all-zero history, got %v", *result.MAPE)
	}
	for i, f := range result.SeasonalFactors {
		if f != 1 {
			t.Errorf("seasonal factor %d = %v, want 1", i, f)
		}
	}
	assertChronological(t, result.Timeline)
}

func TestForecastWeekly_SeasonalFactorInvariants(t *testing.T) {
	obs := generateWeeklyObservations(20, func(i int) float64 {
		return 80 + 40*math.Sin(2*math.Pi*float64(i%4)/4)
	})

	result := ForecastWeeklyAt(obs, WeeklyConfig{Gamma: 0.5}, testNow)
	if len(result.SeasonalFactors) != DefaultSeasonalPeriod {
		t.Fatalf("expected %d seasonal factors, got %d", DefaultSeasonalPeriod, len(result.SeasonalFactors))
	}

	sum := 0.0
	for i, f := range result.SeasonalFactors {
		if f < minSeasonalIndex || f > maxSeasonalIndex {
			t.Errorf("seasonal factor %d = %v outside [%v, %v]", i, f, minSeasonalIndex, maxSeasonalIndex)
		}
		sum += f
	}
	meanFactor := sum / float64(len(result.SeasonalFactors))
	if math.Abs(meanFactor-1) > 1e-9 {
		t.Errorf("seasonal factor mean = %v, want 1", meanFactor)
	}
}

func TestForecastWeekly_PadsShortHistory(t *testing.T) {
	// Three observations with default period 4 require padding up to the
	// 12-week minimum; the model must still produce a full timeline.
	obs := generateWeeklyObservations(3, constant(30))

	result := ForecastWeeklyAt(obs, WeeklyConfig{}, testNow)
	history := 0
	for _, p := range result.Timeline {
		if p.Phase == PhaseHistory {
			history++
		}
	}
	if history != 12 {
		t.Errorf("expected 12 history points after padding, got %d", history)
	}
	assertChronological(t, result.Timeline)
}

func TestForecastWeekly_RisingTrend(t *testing.T) {
	obs := generateWeeklyObservations(16, func(i int) float64 { return 100 + 5*float64(i) })

	result := ForecastWeeklyAt(obs, WeeklyConfig{Alpha: 0.5, Beta: 0.3}, testNow)

	var future []Point
	for _, p := range result.Timeline {
		if p.Phase == PhaseForecast {
			future = append(future, p)
		}
	}
	if len(future) != DefaultWeeklyHorizon {
		t.Fatalf("expected %d future points, got %d", DefaultWeeklyHorizon, len(future))
	}

	last := 100.0 + 5*15
	if future[len(future)-1].Forecast <= last {
		t.Errorf("expected rising projection beyond %v, got %v", last, future[len(future)-1].Forecast)
	}
	if result.Trend <= 0 {
		t.Errorf("expected positive final trend, got %v", result.Trend)
	}
}

func TestWeeklyConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name string
		in   WeeklyConfig
		want WeeklyConfig
	}{
		{
			name: "zero config gets defaults",
			in:   WeeklyConfig{},
			want: WeeklyConfig{SeasonalPeriod: 4, Horizon: 8, MinHistoryLength: 12},
		},
		{
			name: "non-finite smoothing resets to zero",
			in:   WeeklyConfig{Alpha: math.NaN(), Beta: math.Inf(1), Gamma: math.Inf(-1)},
			want: WeeklyConfig{Alpha: 0, Beta: 0, Gamma: 0, SeasonalPeriod: 4, Horizon: 8, MinHistoryLength: 12},
		},
		{
			name: "out of range values clamp",
			in:   WeeklyConfig{Alpha: 2, Beta: -1, Gamma: 0.5, SeasonalPeriod: 50, Horizon: -3, MinHistoryLength: 1},
			want: WeeklyConfig{Alpha: 1, Beta: 0, Gamma: 0.5, SeasonalPeriod: 12, Horizon: 1, MinHistoryLength: 24},
		},
		{
			name: "period below minimum clamps to two",
			in:   WeeklyConfig{SeasonalPeriod: 1, Horizon: 4},
			want: WeeklyConfig{SeasonalPeriod: 2, Horizon: 4, MinHistoryLength: 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.sanitize()
			if got != tt.want {
				t.Errorf("sanitize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestForecastWeekly_MAPEMatchesTimeline(t *testing.T) {
	obs := generateWeeklyObservations(12, func(i int) float64 { return 60 + float64(i%3)*20 })

	result := ForecastWeeklyAt(obs, WeeklyConfig{Alpha: 0.3, Beta: 0.1, Gamma: 0.1}, testNow)
	if result.MAPE == nil {
		t.Fatal("expected non-nil MAPE")
	}

	sum := 0.0
	count := 0
	for _, p := range result.Timeline {
		if p.Phase != PhaseHistory || p.Actual == nil || *p.Actual <= 0 {
			continue
		}
		sum += math.Abs(*p.Actual-p.Forecast) / *p.Actual
		count++
	}
	want := math.Round(sum/float64(count)*100*10) / 10
	if *result.MAPE != want {
		t.Errorf("MAPE = %v, recomputed from timeline = %v", *result.MAPE, want)
	}
}

func BenchmarkForecastWeekly(b *testing.B) {
	obs := generateWeeklyObservations(104, func(i int) float64 {
		return 100 + 20*math.Sin(2*math.Pi*float64(i%4)/4) + float64(i)/2
	})
	cfg := WeeklyConfig{Horizon: 12}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ForecastWeeklyAt(obs, cfg, testNow)
	}
}
