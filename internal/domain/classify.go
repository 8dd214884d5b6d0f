package domain

import "math"

// Classify maps a water level and its three thresholds to a severity
// tier. Any missing or non-finite input yields UNKNOWN. Threshold
// ordering (alert ≤ minor ≤ major) is deliberately not validated; the
// comparison chain runs exactly as listed so malformed upstream
// thresholds classify the same way the official dashboard does.
func Classify(waterLevel, alert, minor, major *float64) Status {
	if !finite(waterLevel) || !finite(alert) || !finite(minor) || !finite(major) {
		return StatusUnknown
	}
	switch wl := *waterLevel; {
	case wl < *alert:
		return StatusNormal
	case wl < *minor:
		return StatusAlert
	case wl < *major:
		return StatusMinorFlood
	default:
		return StatusMajorFlood
	}
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
