package forecast

import (
	"sort"
	"time"
)

// NormalizeWeeks aggregates raw observations into a unique, chronologically
// ordered weekly series of at least minLength weeks, using the current time
// as the fallback week for invalid markers.
func NormalizeWeeks(obs []Observation, minLength int) []NormalizedWeek {
	return NormalizeWeeksAt(obs, minLength, time.Now().UTC())
}

// NormalizeWeeksAt is NormalizeWeeks with an explicit clock, so callers and
// tests get deterministic output for identical inputs.
//
// Observations sharing a week are summed; a merged week is promotional if
// any contributor was. Invalid week markers are not dropped: they fall back
// to the current week and merge there. Negative and non-finite quantities
// are clamped to zero before summing.
//
// When the result is empty, exactly minLength zero-quantity weeks ending at
// the current week are synthesized. When it is non-empty but short, weeks
// carrying the series mean are prepended so the most recent observations
// remain the true tail of history.
func NormalizeWeeksAt(obs []Observation, minLength int, now time.Time) []NormalizedWeek {
	if minLength < 0 {
		minLength = 0
	}
	currentWeek := weekStart(now)

	byWeek := make(map[string]*NormalizedWeek)
	for _, o := range obs {
		key := currentWeek.Format(DateLayout)
		if t, err := parseDate(o.Date); err == nil {
			key = weekStart(t).Format(DateLayout)
		}
		w, ok := byWeek[key]
		if !ok {
			w = &NormalizedWeek{Week: key}
			byWeek[key] = w
		}
		w.Quantity += clampQuantity(o.Quantity)
		w.Promo = w.Promo || o.Promo
	}

	weeks := make([]NormalizedWeek, 0, len(byWeek))
	for _, w := range byWeek {
		weeks = append(weeks, *w)
	}
	// Weeks all start on Monday, so the lexicographic order of the
	// YYYY-MM-DD keys is the chronological order.
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Week < weeks[j].Week })

	if len(weeks) == 0 {
		weeks = make([]NormalizedWeek, minLength)
		for i := range weeks {
			weeks[i] = NormalizedWeek{
				Week: currentWeek.AddDate(0, 0, -7*(minLength-1-i)).Format(DateLayout),
			}
		}
		return weeks
	}

	if len(weeks) < minLength {
		sum := 0.0
		for _, w := range weeks {
			sum += w.Quantity
		}
		avg := sum / float64(len(weeks))

		earliest, err := parseDate(weeks[0].Week)
		if err != nil {
			earliest = currentWeek
		}
		for len(weeks) < minLength {
			earliest = earliest.AddDate(0, 0, -7)
			synthetic := NormalizedWeek{Week: earliest.Format(DateLayout), Quantity: avg}
			weeks = append([]NormalizedWeek{synthetic}, weeks...)
		}
	}

	return weeks
}

// weekStart returns the Monday of t's week at midnight UTC.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	t = t.AddDate(0, 0, -offset)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
