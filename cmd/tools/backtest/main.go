// Command backtest runs the forecasting models over a CSV history file and
// prints the resulting timelines as JSON. It is meant for offline evaluation
// of model parameters against historical sales exports.
//
// The CSV must have a header and columns: date (YYYY-MM-DD), quantity, and an
// optional promo column (true/1 marks promotional periods).
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/demandcast/demandcast/internal/forecast"
)

func main() {
	input := flag.String("input", "", "Path to CSV history file (required)")
	model := flag.String("model", "weekly", "Model to run (weekly, monthly, both)")
	horizon := flag.Int("horizon", 0, "Projection length (0 selects the model default)")
	seasonalPeriod := flag.Int("seasonal-period", 0, "Weekly seasonal cycle length (0 selects the default)")
	alpha := flag.Float64("alpha", forecast.DefaultAlpha, "Level smoothing constant")
	beta := flag.Float64("beta", forecast.DefaultBeta, "Trend smoothing constant")
	gamma := flag.Float64("gamma", forecast.DefaultGamma, "Seasonal smoothing constant")
	stock := flag.Float64("stock", 0, "Available stock for stockout estimation (0 disables)")

	flag.Parse()

	if *input == "" {
		log.Fatal("Error: -input parameter is required")
	}

	history, err := readHistory(*input)
	if err != nil {
		log.Fatalf("Error reading history: %v\n", err)
	}
	if len(history) == 0 {
		log.Fatal("Error: history file contains no observations")
	}

	if *model != "weekly" && *model != "monthly" && *model != "both" {
		log.Fatalf("Error: unknown model %q (expected weekly, monthly or both)\n", *model)
	}

	output := make(map[string]interface{})

	if *model == "weekly" || *model == "both" {
		output["weekly"] = forecast.ForecastWeekly(history, forecast.WeeklyConfig{
			Alpha:          *alpha,
			Beta:           *beta,
			Gamma:          *gamma,
			SeasonalPeriod: *seasonalPeriod,
			Horizon:        *horizon,
		})
	}

	if *model == "monthly" || *model == "both" {
		result, err := forecast.ForecastMonthly(history, forecast.MonthlyConfig{Horizon: *horizon})
		if err != nil {
			log.Fatalf("Error running monthly model: %v\n", err)
		}
		output["monthly"] = result

		if *stock > 0 {
			if date, ok := stockoutDate(*stock, result.Timeline); ok {
				output["stockout_date"] = date
			}
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		log.Fatalf("Error encoding output: %v\n", err)
	}
}

// readHistory parses a CSV export into observations. Rows that cannot be
// parsed are skipped with a warning rather than aborting the run.
func readHistory(path string) ([]forecast.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	dateCol, qtyCol, promoCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "week", "month":
			dateCol = i
		case "quantity", "qty", "sales":
			qtyCol = i
		case "promo", "promotion":
			promoCol = i
		}
	}
	if dateCol < 0 || qtyCol < 0 {
		return nil, fmt.Errorf("header must contain date and quantity columns, got %v", header)
	}

	var obs []forecast.Observation
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Printf("Warning: skipping line %d: %v\n", line, err)
			continue
		}
		if len(record) <= dateCol || len(record) <= qtyCol {
			log.Printf("Warning: skipping short line %d\n", line)
			continue
		}

		qty, err := strconv.ParseFloat(strings.TrimSpace(record[qtyCol]), 64)
		if err != nil {
			log.Printf("Warning: skipping line %d: bad quantity %q\n", line, record[qtyCol])
			continue
		}

		o := forecast.Observation{
			Date:     strings.TrimSpace(record[dateCol]),
			Quantity: qty,
		}
		if promoCol >= 0 && len(record) > promoCol {
			v := strings.ToLower(strings.TrimSpace(record[promoCol]))
			o.Promo = v == "true" || v == "1" || v == "yes"
		}
		obs = append(obs, o)
	}

	return obs, nil
}

// stockoutDate estimates exhaustion against the projected months only.
func stockoutDate(stock float64, timeline []forecast.Point) (string, bool) {
	var future []forecast.Point
	for _, p := range timeline {
		if p.Phase == forecast.PhaseForecast {
			future = append(future, p)
		}
	}
	return forecast.EstimateStockout(stock, future)
}
