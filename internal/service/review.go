package service

import (
	"database/sql"

	"github.com/alexis-sammut/fittrack/internal/engine"
)

// Review bundles the three summaries over one date window.
type Review struct {
	FromDate string               `json:"from_date,omitempty"`
	ToDate   string               `json:"to_date,omitempty"`
	Workouts engine.WorkoutReport `json:"workouts"`
	Meals    engine.MealReport    `json:"meals"`
	Moods    engine.MoodSummary   `json:"moods"`
}

func WorkoutReview(db *sql.DB, f ListFilter) (engine.WorkoutReport, error) {
	f.Limit = NoLimit
	items, err := ListWorkouts(db, f)
	if err != nil {
		return engine.WorkoutReport{}, err
	}
	return engine.AggregateWorkouts(items), nil
}

func MealReview(db *sql.DB, f ListFilter) (engine.MealReport, error) {
	f.Limit = NoLimit
	meals, err := ListMeals(db, f)
	if err != nil {
		return engine.MealReport{}, err
	}
	return engine.AggregateMeals(meals), nil
}

func MoodReview(db *sql.DB, f ListFilter) (engine.MoodSummary, error) {
	f.Limit = NoLimit
	moods, err := ListMoods(db, f)
	if err != nil {
		return engine.MoodSummary{}, err
	}
	return engine.SummarizeMoods(engine.MoodRecords(moods)), nil
}

// BuildReview ignores f.Type; each section covers every record in range.
func BuildReview(db *sql.DB, f ListFilter) (Review, error) {
	f.Type = ""
	r := Review{FromDate: f.FromDate, ToDate: f.ToDate}
	if f.Date != "" {
		r.FromDate, r.ToDate = f.Date, f.Date
	}
	var err error
	if r.Workouts, err = WorkoutReview(db, f); err != nil {
		return Review{}, err
	}
	if r.Meals, err = MealReview(db, f); err != nil {
		return Review{}, err
	}
	if r.Moods, err = MoodReview(db, f); err != nil {
		return Review{}, err
	}
	return r, nil
}
