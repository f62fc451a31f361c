package forecast

import "math"

// daysPerMonth converts a monthly forecast into a uniform daily rate.
const daysPerMonth = 30

// EstimateStockout walks the future portion of a monthly timeline and
// returns the projected date on which availableStock reaches zero, in
// DateLayout form. The second return value is false when stock is already
// non-positive or invalid, or when the horizon ends before exhaustion.
//
// Months with a non-positive forecast consume nothing; remaining stock is
// carried forward unchanged.
func EstimateStockout(availableStock float64, future []Point) (string, bool) {
	if !isFinite(availableStock) || availableStock <= 0 {
		return "", false
	}

	remaining := availableStock
	for _, p := range future {
		demand := p.Forecast
		if !isFinite(demand) || demand <= 0 {
			continue
		}
		start, err := parseDate(p.Date)
		if err != nil {
			continue
		}

		dailyRate := demand / daysPerMonth
		days := math.Ceil(remaining / dailyRate)
		if days <= daysPerMonth {
			offset := int(days) - 1
			if offset < 0 {
				offset = 0
			}
			return start.AddDate(0, 0, offset).Format(DateLayout), true
		}

		remaining -= demand
		if remaining <= 0 {
			// Exhausted exactly on the month boundary.
			return start.AddDate(0, 0, daysPerMonth-1).Format(DateLayout), true
		}
	}

	return "", false
}
