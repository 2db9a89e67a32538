package util

import (
	"testing"
	"time"
)

func TestParseDateISO(t *testing.T) {
	got, ok := ParseDate("2023-09-15")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Format("2006-01-02") != "2023-09-15" {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDateUS(t *testing.T) {
	got, ok := ParseDate("09/15/2023")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Month() != time.September || got.Day() != 15 {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDateDefault(t *testing.T) {
	def := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := ParseDateDefault("garbage", def); !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2023, 9, 15, 23, 0, 0, 0, time.UTC)
	b := time.Date(2023, 9, 25, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 10 {
		t.Fatalf("expected 10 days, got %d", got)
	}
	if got := DaysBetween(b, a); got != -10 {
		t.Fatalf("expected -10 days, got %d", got)
	}
}
