package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/model"
)

const totalsTolerance = 1e-6

type DoctorReport struct {
	MealTotalMismatches int `json:"meal_total_mismatches"`
	EmptyMeals          int `json:"empty_meals"`
	InvalidWorkouts     int `json:"invalid_workouts"`
	UnknownWorkoutTypes int `json:"unknown_workout_types"`
	InvalidMoods        int `json:"invalid_moods"`
	ExpiredCacheRows    int `json:"expired_cache_rows"`
	FixedMealTotals     int `json:"fixed_meal_totals,omitempty"`
	PurgedCacheRows     int `json:"purged_cache_rows,omitempty"`
}

// Healthy reports whether no check found a problem. Expired cache rows are
// housekeeping and do not count.
func (r DoctorReport) Healthy() bool {
	return r.MealTotalMismatches == 0 && r.EmptyMeals == 0 && r.InvalidWorkouts == 0 &&
		r.UnknownWorkoutTypes == 0 && r.InvalidMoods == 0
}

// RunDoctor checks stored data against the rules the write path enforces.
// With fix set it recomputes drifted meal totals and purges expired cache
// rows; other findings need a manual delete.
func RunDoctor(db *sql.DB, fix bool) (DoctorReport, error) {
	report := DoctorReport{}

	meals, err := ListMeals(db, ListFilter{Limit: NoLimit})
	if err != nil {
		return report, fmt.Errorf("doctor meal query: %w", err)
	}
	drifted := make(map[int64]model.NutrientProfile)
	for _, m := range meals {
		if len(m.Items) == 0 {
			report.EmptyMeals++
			continue
		}
		profiles := make([]model.NutrientProfile, 0, len(m.Items))
		for _, it := range m.Items {
			profiles = append(profiles, it.Nutrients)
		}
		sum := engine.SumNutrients(profiles...)
		if !engine.NutrientsEqual(sum, m.Totals, totalsTolerance) {
			report.MealTotalMismatches++
			drifted[m.ID] = sum
		}
	}

	workouts, err := ListWorkouts(db, ListFilter{Limit: NoLimit})
	if err != nil {
		return report, fmt.Errorf("doctor workout query: %w", err)
	}
	for _, w := range workouts {
		category, ok := engine.ParseCategory(w.Type)
		if !ok {
			report.UnknownWorkoutTypes++
			continue
		}
		if !workoutShapeValid(category, w) {
			report.InvalidWorkouts++
		}
	}

	if err := db.QueryRow(`SELECT COUNT(1) FROM moods WHERE rating < ? OR rating > ?`, engine.MinMoodRating, engine.MaxMoodRating).Scan(&report.InvalidMoods); err != nil {
		return report, fmt.Errorf("doctor mood check: %w", err)
	}
	if err := db.QueryRow(`SELECT COUNT(1) FROM nutrition_cache WHERE expires_at < ?`, time.Now().Format(time.RFC3339)).Scan(&report.ExpiredCacheRows); err != nil {
		return report, fmt.Errorf("doctor cache check: %w", err)
	}

	if !fix {
		return report, nil
	}
	if len(drifted) > 0 {
		tx, err := db.Begin()
		if err != nil {
			return report, fmt.Errorf("doctor fix begin tx: %w", err)
		}
		for id, totals := range drifted {
			if err := updateMealTotals(tx, id, totals); err != nil {
				_ = tx.Rollback()
				return report, fmt.Errorf("doctor fix meal %d: %w", id, err)
			}
			report.FixedMealTotals++
		}
		if err := tx.Commit(); err != nil {
			return report, fmt.Errorf("doctor fix commit: %w", err)
		}
	}
	if report.ExpiredCacheRows > 0 {
		purged, err := PurgeNutritionCache(db, false)
		if err != nil {
			return report, err
		}
		report.PurgedCacheRows = int(purged)
	}
	return report, nil
}

func workoutShapeValid(c *engine.Category, w model.WorkoutRecord) bool {
	switch c.Kind() {
	case engine.DistanceBased:
		return w.DistanceKm != nil && *w.DistanceKm > 0 && w.Intensity == ""
	case engine.IntensityBased:
		return w.DistanceKm == nil && w.PaceMinPerKm == nil && engine.IntensityLevel(w.Intensity) > 0
	default:
		return false
	}
}
