package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseLevel parses a raw gauge field as a finite float. Returns nil
// for a nil, blank, non-numeric, or non-finite value; the caller
// collapses nil to the UNKNOWN sentinel rather than raising.
func ParseLevel(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
