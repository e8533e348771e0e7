package delivery

import (
	"math"
	"time"
)

const (
	signedScore   = 1.0
	unsignedScore = 0.3

	morningMultiplier = 1.2
	morningStart      = 5 * time.Hour
	morningEnd        = 11 * time.Hour
)

// Score rates a delivery by signature and delivery time.
//
// The base score is 1.0 for signed deliveries and 0.3 otherwise. Deliveries whose
// UTC time of day lies within [05:00, 11:00] (both ends inclusive) get a 1.2
// multiplier. The result is rounded to two decimals, so the only possible values
// are 0.3, 0.36, 1.0 and 1.2.
//
// Example:
//
//	at := time.Date(2024, 1, 1, 7, 30, 0, 0, time.UTC)
//	delivery.Score(at, true)  // 1.2
//	delivery.Score(at, false) // 0.36
func Score(deliveredAt time.Time, signed bool) float64 {
	base := unsignedScore
	if signed {
		base = signedScore
	}

	multiplier := 1.0
	if inMorningWindow(deliveredAt) {
		multiplier = morningMultiplier
	}

	return math.Round(base*multiplier*100) / 100
}

// inMorningWindow reports whether the UTC clock time of t is within the morning window.
func inMorningWindow(t time.Time) bool {
	utc := t.UTC()
	timeOfDay := time.Duration(utc.Hour())*time.Hour +
		time.Duration(utc.Minute())*time.Minute +
		time.Duration(utc.Second())*time.Second +
		time.Duration(utc.Nanosecond())
	return timeOfDay >= morningStart && timeOfDay <= morningEnd
}
