package engine

import (
	"fmt"
	"math"
)

const paceUnavailable = "--:--"

// FormatPace renders decimal minutes per kilometre as m:ss. Values too large
// to print as whole minutes render as "--:--".
//
// Seconds that round up to 60 carry into the next minute, so 5.9999 renders
// as "6:00" rather than "5:60".
func FormatPace(decimalMinPerKm float64) string {
	if math.IsNaN(decimalMinPerKm) || math.IsInf(decimalMinPerKm, 0) {
		return paceUnavailable
	}
	minutes := math.Floor(decimalMinPerKm)
	seconds := roundHalfUp((decimalMinPerKm - minutes) * 60)
	if seconds >= 60 {
		minutes++
		seconds -= 60
	}
	if math.Abs(minutes) >= math.MaxInt64 {
		return paceUnavailable
	}
	return fmt.Sprintf("%d:%02d", int64(minutes), int64(seconds))
}

// PaceFromRaw returns minutes per kilometre. The second value is false when
// either input is not strictly positive and the pace must not be shown.
func PaceFromRaw(durationMin, distanceKm float64) (float64, bool) {
	if !positive(durationMin) || !positive(distanceKm) {
		return 0, false
	}
	return durationMin / distanceKm, true
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// roundHalfUp matches Math.round on the display side: ties go up.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
