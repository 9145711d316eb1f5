package engine

import "fmt"

// DerivedView is everything a workout form shows for the current input.
type DerivedView struct {
	ShowDistance  bool
	ShowIntensity bool

	ShowPace    bool
	Pace        float64
	PaceDisplay string
	StoredPace  float64

	ShowCalories    bool
	Calories        float64
	CaloriesDisplay string
	StoredCalories  float64
}

// Complete reports whether the draft carries enough input to be logged.
func (v DerivedView) Complete() bool {
	return v.ShowCalories
}

// Recompute derives the form view from the current draft. The host calls it
// after every input change; nothing is cached between calls.
func Recompute(d WorkoutDraft) (DerivedView, error) {
	var v DerivedView
	if d.Category == nil {
		return v, nil
	}
	calories, err := EstimateCalories(d)
	if err != nil {
		return DerivedView{}, err
	}

	kind := d.Category.Kind()
	v.ShowDistance = kind == DistanceBased
	v.ShowIntensity = kind == IntensityBased

	if kind == DistanceBased {
		if pace, ok := PaceFromRaw(d.DurationMin, d.DistanceKm); ok {
			v.ShowPace = true
			v.Pace = pace
			v.PaceDisplay = FormatPace(pace)
			v.StoredPace = Decimal2(pace)
		}
	}

	if calories > 0 {
		v.ShowCalories = true
		v.Calories = calories
		v.CaloriesDisplay = fmt.Sprintf("%s kcal.", Whole(calories))
		v.StoredCalories = Decimal2(calories)
	}
	return v, nil
}
