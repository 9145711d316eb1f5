package engine

import (
	"github.com/alexis-sammut/fittrack/internal/model"
)

const (
	sentinelZero      = "0"
	sentinelDecimal   = "0.0"
	sentinelPace      = "--"
	sentinelIntensity = "N/A"
)

// CategoryStats summarises every workout of one category. Callers tell "no
// data" apart from a literal zero only through Count.
type CategoryStats struct {
	Category            string          `json:"category"`
	Slug                string          `json:"slug"`
	Kind                string          `json:"kind"`
	Count               int             `json:"count"`
	TotalCalories       float64         `json:"total_calories"`
	TotalMinutes        float64         `json:"total_minutes"`
	AverageCalories     float64         `json:"avg_calories"`
	AverageMinutes      float64         `json:"avg_minutes"`
	HasDistance         bool            `json:"has_distance"`
	AverageDistanceKm   float64         `json:"avg_distance_km,omitempty"`
	AveragePaceMinPerKm float64         `json:"avg_pace_min_per_km,omitempty"`
	HasIntensity        bool            `json:"has_intensity"`
	ModalIntensity      model.Intensity `json:"intensity,omitempty"`
}

type CategoryDisplay struct {
	Category        string `json:"category"`
	Count           string `json:"count"`
	AverageCalories string `json:"avg_calories"`
	AverageMinutes  string `json:"avg_minutes"`
	AverageDistance string `json:"avg_distance_km"`
	AveragePace     string `json:"avg_pace"`
	Intensity       string `json:"intensity"`
}

// Display renders the statistics with the zero-state sentinels.
func (s CategoryStats) Display() CategoryDisplay {
	d := CategoryDisplay{
		Category:        s.Category,
		Count:           sentinelZero,
		AverageCalories: sentinelZero,
		AverageMinutes:  sentinelZero,
		AverageDistance: sentinelDecimal,
		AveragePace:     sentinelPace,
		Intensity:       sentinelIntensity,
	}
	if s.Count == 0 {
		return d
	}
	d.Count = Whole(float64(s.Count))
	d.AverageCalories = Whole(s.AverageCalories)
	d.AverageMinutes = Whole(s.AverageMinutes)
	if s.HasDistance {
		d.AverageDistance = Decimal1(s.AverageDistanceKm)
		d.AveragePace = FormatPace(s.AveragePaceMinPerKm)
	}
	if s.HasIntensity && s.ModalIntensity != "" {
		d.Intensity = string(s.ModalIntensity)
	}
	return d
}

// OverallStats averages over all workouts, not over category means.
type OverallStats struct {
	Count           int     `json:"count"`
	TotalCalories   float64 `json:"total_calories"`
	TotalMinutes    float64 `json:"total_minutes"`
	AverageCalories float64 `json:"avg_calories"`
	AverageMinutes  float64 `json:"avg_minutes"`
}

type OverallDisplay struct {
	Count           string `json:"count"`
	TotalCalories   string `json:"total_calories"`
	TotalMinutes    string `json:"total_minutes"`
	AverageCalories string `json:"avg_calories"`
	AverageMinutes  string `json:"avg_minutes"`
}

func (s OverallStats) Display() OverallDisplay {
	return OverallDisplay{
		Count:           Whole(float64(s.Count)),
		TotalCalories:   Whole(s.TotalCalories),
		TotalMinutes:    Whole(s.TotalMinutes),
		AverageCalories: Whole(s.AverageCalories),
		AverageMinutes:  Whole(s.AverageMinutes),
	}
}

type WorkoutReport struct {
	Overall    OverallStats             `json:"overall"`
	ByCategory map[string]CategoryStats `json:"by_category"`
	// Unknown counts records whose type is not in the catalogue. They are
	// included in Overall only.
	Unknown int `json:"unknown"`
}

// Ordered returns the per-category statistics in catalogue order.
func (r WorkoutReport) Ordered() []CategoryStats {
	out := make([]CategoryStats, 0, len(catalog))
	for _, c := range catalog {
		if s, ok := r.ByCategory[c.name]; ok {
			out = append(out, s)
		} else {
			out = append(out, zeroCategoryStats(c))
		}
	}
	return out
}

type categoryAcc struct {
	count        int
	calories     float64
	minutes      float64
	withDistance int
	distance     float64
	pace         float64
	withLevel    int
	levelSum     int
}

func (a *categoryAcc) add(w model.WorkoutRecord) {
	a.count++
	a.calories += w.CaloriesKcal
	a.minutes += w.DurationMin
	if w.DistanceKm != nil && *w.DistanceKm > 0 {
		a.withDistance++
		a.distance += *w.DistanceKm
		if w.PaceMinPerKm != nil {
			a.pace += *w.PaceMinPerKm
		} else if p, ok := PaceFromRaw(w.DurationMin, *w.DistanceKm); ok {
			a.pace += p
		}
	}
	if level := IntensityLevel(w.Intensity); level > 0 {
		a.withLevel++
		a.levelSum += level
	}
}

func (a categoryAcc) stats(c *Category) CategoryStats {
	s := zeroCategoryStats(c)
	if a.count == 0 {
		return s
	}
	s.Count = a.count
	s.TotalCalories = a.calories
	s.TotalMinutes = a.minutes
	s.AverageCalories = a.calories / float64(a.count)
	s.AverageMinutes = a.minutes / float64(a.count)
	if a.withDistance > 0 {
		s.HasDistance = true
		s.AverageDistanceKm = a.distance / float64(a.withDistance)
		s.AveragePaceMinPerKm = a.pace / float64(a.withDistance)
	}
	if a.withLevel > 0 {
		s.HasIntensity = true
		mean := float64(a.levelSum) / float64(a.withLevel)
		s.ModalIntensity = intensityFromLevel(int(roundHalfUp(mean)))
	}
	return s
}

func zeroCategoryStats(c *Category) CategoryStats {
	return CategoryStats{
		Category: c.name,
		Slug:     c.slug,
		Kind:     c.Kind().String(),
	}
}

// AggregateWorkouts partitions records by category in a single pass. Every
// catalogue category is present in the result, zero-valued when it has no
// records.
func AggregateWorkouts(records []model.WorkoutRecord) WorkoutReport {
	accs := make(map[*Category]*categoryAcc, len(catalog))
	report := WorkoutReport{ByCategory: make(map[string]CategoryStats, len(catalog))}

	for _, w := range records {
		report.Overall.Count++
		report.Overall.TotalCalories += w.CaloriesKcal
		report.Overall.TotalMinutes += w.DurationMin

		c, ok := ParseCategory(w.Type)
		if !ok {
			report.Unknown++
			continue
		}
		acc := accs[c]
		if acc == nil {
			acc = &categoryAcc{}
			accs[c] = acc
		}
		acc.add(w)
	}

	if n := report.Overall.Count; n > 0 {
		report.Overall.AverageCalories = report.Overall.TotalCalories / float64(n)
		report.Overall.AverageMinutes = report.Overall.TotalMinutes / float64(n)
	}
	for _, c := range catalog {
		var acc categoryAcc
		if a := accs[c]; a != nil {
			acc = *a
		}
		report.ByCategory[c.name] = acc.stats(c)
	}
	return report
}
