package util

import (
	"strconv"
	"strings"
)

// ParseAmountRange parses a disclosure amount band such as
// "$1,001 - $15,000" or "$50,000,001+" into min/max dollar values.
// Open-ended bands report max == min. Returns ok=false for unparseable input.
func ParseAmountRange(s string) (min, max float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	open := strings.HasSuffix(s, "+")
	s = strings.TrimSuffix(s, "+")

	parts := strings.Split(s, "-")
	lo, okLo := parseDollars(parts[0])
	if !okLo {
		return 0, 0, false
	}
	if len(parts) == 1 || open {
		return lo, lo, true
	}
	hi, okHi := parseDollars(parts[1])
	if !okHi || hi < lo {
		return 0, 0, false
	}
	return lo, hi, true
}

func parseDollars(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
