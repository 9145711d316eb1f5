package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/model"
	"github.com/alexis-sammut/fittrack/internal/report"
	"github.com/alexis-sammut/fittrack/internal/service"
)

func sampleReview() service.Review {
	five, six := 5.0, 6.0
	workouts := []model.WorkoutRecord{
		{Type: "Running", DurationMin: 30, DistanceKm: &five, PaceMinPerKm: &six, CaloriesKcal: 367.5},
		{Type: "Yoga", DurationMin: 60, Intensity: model.IntensityHigh, CaloriesKcal: 315},
		{Type: "Curling", DurationMin: 30, CaloriesKcal: 100},
	}
	meals := []model.MealRecord{
		{Name: "a | b <script>alert(1)</script>", EatenAt: time.Now(), Totals: model.NutrientProfile{AmountG: 250, CarbohydratesTotalG: 71}},
	}
	moods := engine.MoodList{{Date: "2026-02-01", Mood: 7}, {Date: "2026-02-02", Mood: 8}}
	return service.Review{
		FromDate: "2026-02-01",
		ToDate:   "2026-02-28",
		Workouts: engine.AggregateWorkouts(workouts),
		Meals:    engine.AggregateMeals(meals),
		Moods:    engine.SummarizeMoods(moods),
	}
}

func TestMarkdownSections(t *testing.T) {
	t.Parallel()

	md := report.Markdown(sampleReview())
	for _, want := range []string{
		"# FitTrack review",
		"_Period: 01 Feb 2026 to 28 Feb 2026_",
		"| Running | 1 | 368 | 30 | 5.0 | 6:00 | N/A |",
		"| Yoga | 1 | 315 | 60 | 0.0 | -- | High |",
		"| Walking | 0 | 0 | 0 | 0.0 | -- | N/A |",
		"1 workout(s) of an unknown type",
		"| Carbohydrates (g) | 71.0 | 71.0 |",
		`A \| b`,
		"- Average mood: 7.5 (Great)",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected markdown to contain %q\n%s", want, md)
		}
	}
}

func TestMarkdownZeroState(t *testing.T) {
	t.Parallel()

	md := report.Markdown(service.Review{
		Workouts: engine.AggregateWorkouts(nil),
		Meals:    engine.AggregateMeals(nil),
		Moods:    engine.SummarizeMoods(nil),
	})
	for _, want := range []string{
		"_Period: all time_",
		"| 0 | 0 | 0 | 0 | 0 |",
		"Meals logged: 0",
		"| Amount (g) | 0.0 | 0.0 |",
		"- Average mood: 0\n",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected zero-state markdown to contain %q\n%s", want, md)
		}
	}
}

func TestHTMLIsSanitized(t *testing.T) {
	t.Parallel()

	out, err := report.HTML(sampleReview())
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Fatalf("expected standalone page, got %q", out[:40])
	}
	if !strings.Contains(out, "<h1>FitTrack review</h1>") || !strings.Contains(out, "<table>") {
		t.Fatalf("expected heading and tables in html output")
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("expected user-supplied script to be stripped")
	}
}
