package models

import "time"

// PricePoint is one daily sample of a price series.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is the daily close/volume history for one ticker, sorted
// ascending by date. Trading gaps (weekends, holidays) are expected; no
// sample exists for those days.
type PriceSeries struct {
	Ticker string       `json:"ticker"`
	Points []PricePoint `json:"points"`
}

// Empty reports whether the series carries no samples.
func (s PriceSeries) Empty() bool { return len(s.Points) == 0 }

// At returns the sample on date, or the nearest trading day on-or-after it
// within maxSlip days. ok is false when no such sample exists.
func (s PriceSeries) At(date time.Time, maxSlip int) (PricePoint, bool) {
	date = Midnight(date)
	limit := date.AddDate(0, 0, maxSlip)
	for _, p := range s.Points {
		d := Midnight(p.Date)
		if d.Before(date) {
			continue
		}
		if d.After(limit) {
			break
		}
		return p, true
	}
	return PricePoint{}, false
}

// Between returns samples with date in (after, until], both exclusive/inclusive
// at day granularity.
func (s PriceSeries) Between(after, until time.Time) []PricePoint {
	after, until = Midnight(after), Midnight(until)
	var out []PricePoint
	for _, p := range s.Points {
		d := Midnight(p.Date)
		if !d.After(after) {
			continue
		}
		if d.After(until) {
			break
		}
		out = append(out, p)
	}
	return out
}

// Before returns up to n samples strictly before date, nearest last.
func (s PriceSeries) Before(date time.Time, n int) []PricePoint {
	date = Midnight(date)
	var out []PricePoint
	for _, p := range s.Points {
		if !Midnight(p.Date).Before(date) {
			break
		}
		out = append(out, p)
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// Midnight truncates a time to its UTC date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
