package engine

import (
	"math"
	"strconv"
	"time"
)

const DisplayDateLayout = "02 Jan 2006"

// FormatDate renders a date as "DD Mon YYYY".
func FormatDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// Decimal1 renders v with one decimal place, rounding half up.
func Decimal1(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.0"
	}
	r := roundHalfUp(v*10) / 10
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// Decimal2 is the stored-value precision used for pace and calories.
func Decimal2(v float64) float64 {
	return roundHalfUp(v*100) / 100
}

// Whole renders v rounded half up to an integer.
func Whole(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatInt(int64(roundHalfUp(v)), 10)
}

func displayISODate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return FormatDate(t)
}
