package engine

import (
	"fmt"
	"math"

	"github.com/alexis-sammut/fittrack/internal/model"
)

// WorkoutDraft is the form-level input for a workout that has not been
// logged yet. A zero DistanceKm means no distance was entered; an empty
// Intensity means none was selected.
type WorkoutDraft struct {
	Category    *Category
	DurationMin float64
	DistanceKm  float64
	Intensity   model.Intensity
}

type metModel interface {
	kind() Kind
	estimate(d WorkoutDraft) (float64, error)
}

type speedBracket struct {
	minKmh    float64
	exclusive bool
	fallback  bool
	met       float64
}

func (b speedBracket) matches(speedKmh float64) bool {
	switch {
	case b.fallback:
		return true
	case b.exclusive:
		return speedKmh > b.minKmh
	default:
		return speedKmh >= b.minKmh
	}
}

// speedBrackets is ordered from the fastest bracket down; the first match wins.
type speedBrackets []speedBracket

func (speedBrackets) kind() Kind { return DistanceBased }

func (s speedBrackets) estimate(d WorkoutDraft) (float64, error) {
	if d.Intensity != "" {
		return 0, fmt.Errorf("%w: %s does not take an intensity", ErrInvalidWorkoutSpec, d.Category.name)
	}
	if !positive(d.DurationMin) || !positive(d.DistanceKm) {
		return 0, nil
	}
	speed := d.DistanceKm / (d.DurationMin / 60)
	for _, b := range s {
		if b.matches(speed) {
			return b.met, nil
		}
	}
	return 0, fmt.Errorf("%w: no speed bracket for %s at %.2f km/h", ErrInvalidWorkoutSpec, d.Category.name, speed)
}

// intensityTable holds the Low, Medium and High MET values.
type intensityTable [3]float64

func (intensityTable) kind() Kind { return IntensityBased }

func (t intensityTable) estimate(d WorkoutDraft) (float64, error) {
	if d.DistanceKm != 0 {
		return 0, fmt.Errorf("%w: %s does not take a distance", ErrInvalidWorkoutSpec, d.Category.name)
	}
	if d.Intensity == "" {
		return 0, nil
	}
	level := IntensityLevel(d.Intensity)
	if level == 0 {
		return 0, fmt.Errorf("%w: unknown intensity %q for %s", ErrInvalidWorkoutSpec, d.Intensity, d.Category.name)
	}
	return t[level-1], nil
}

// EstimateMET returns the Metabolic Equivalent of Task for a draft.
// Incomplete drafts yield 0 with no error; only contract violations fail.
func EstimateMET(d WorkoutDraft) (float64, error) {
	if d.Category == nil || d.Category.met == nil {
		return 0, fmt.Errorf("%w: workout category is required", ErrInvalidWorkoutSpec)
	}
	if math.IsNaN(d.DistanceKm) {
		d.DistanceKm = 0
	}
	return d.Category.met.estimate(d)
}
