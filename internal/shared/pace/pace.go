package pace

import "math"

// MinutesPerKm converts elapsed seconds over a distance into min/km.
// Returns 0 while the runner has not covered any distance yet.
func MinutesPerKm(elapsedSec float64, distanceKm float64) float64 {
	if distanceKm <= 0 {
		return 0
	}
	return elapsedSec / 60 / distanceKm
}

// RoundedMinutes converts a duration in seconds to whole minutes,
// rounding to nearest.
func RoundedMinutes(seconds int64) int {
	return int(math.Round(float64(seconds) / 60))
}

// ClampBpm bounds a heart-rate value to [lo, hi].
func ClampBpm(bpm, lo, hi int) int {
	if bpm < lo {
		return lo
	}
	if bpm > hi {
		return hi
	}
	return bpm
}
