package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

func sampleWorkouts() []model.WorkoutRecord {
	return []model.WorkoutRecord{
		{ID: 1, Type: "Running", DurationMin: 30, DistanceKm: floatPtr(5), PaceMinPerKm: floatPtr(6), CaloriesKcal: 367.5},
		{ID: 2, Type: "Running", DurationMin: 60, DistanceKm: floatPtr(10), PaceMinPerKm: floatPtr(6), CaloriesKcal: 735},
		{ID: 3, Type: "Yoga", DurationMin: 60, Intensity: model.IntensityMedium, CaloriesKcal: 245},
		{ID: 4, Type: "Yoga", DurationMin: 30, Intensity: model.IntensityHigh, CaloriesKcal: 157.5},
	}
}

func TestAggregateWorkoutsEmptyIsZeroState(t *testing.T) {
	t.Parallel()

	report := engine.AggregateWorkouts(nil)
	assert.Zero(t, report.Overall.Count)
	assert.Equal(t, engine.OverallDisplay{Count: "0", TotalCalories: "0", TotalMinutes: "0", AverageCalories: "0", AverageMinutes: "0"}, report.Overall.Display())

	ordered := report.Ordered()
	require.Len(t, ordered, 10)
	for _, s := range ordered {
		assert.Zero(t, s.Count, s.Category)
		assert.Equal(t, engine.CategoryDisplay{
			Category:        s.Category,
			Count:           "0",
			AverageCalories: "0",
			AverageMinutes:  "0",
			AverageDistance: "0.0",
			AveragePace:     "--",
			Intensity:       "N/A",
		}, s.Display())
	}
}

func TestAggregateWorkoutsPerCategory(t *testing.T) {
	t.Parallel()

	report := engine.AggregateWorkouts(sampleWorkouts())

	assert.Equal(t, 4, report.Overall.Count)
	assert.InDelta(t, 1505.0, report.Overall.TotalCalories, 1e-9)
	assert.InDelta(t, 376.25, report.Overall.AverageCalories, 1e-9)
	assert.InDelta(t, 45.0, report.Overall.AverageMinutes, 1e-9)

	running := report.ByCategory["Running"]
	assert.Equal(t, 2, running.Count)
	assert.True(t, running.HasDistance)
	assert.False(t, running.HasIntensity)
	assert.Equal(t, engine.CategoryDisplay{
		Category:        "Running",
		Count:           "2",
		AverageCalories: "551",
		AverageMinutes:  "45",
		AverageDistance: "7.5",
		AveragePace:     "6:00",
		Intensity:       "N/A",
	}, running.Display())

	yoga := report.ByCategory["Yoga"]
	assert.Equal(t, 2, yoga.Count)
	assert.False(t, yoga.HasDistance)
	assert.Equal(t, model.IntensityHigh, yoga.ModalIntensity)
	assert.Equal(t, "0.0", yoga.Display().AverageDistance)
	assert.Equal(t, "--", yoga.Display().AveragePace)

	assert.Zero(t, report.ByCategory["Cycling"].Count)
}

func TestAggregateWorkoutsIntensityRoundsHalfUp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		levels []model.Intensity
		want   model.Intensity
	}{
		{[]model.Intensity{model.IntensityMedium, model.IntensityHigh}, model.IntensityHigh},
		{[]model.Intensity{model.IntensityLow, model.IntensityMedium}, model.IntensityMedium},
		{[]model.Intensity{model.IntensityLow, model.IntensityLow, model.IntensityHigh}, model.IntensityMedium},
		{[]model.Intensity{model.IntensityLow, model.IntensityLow, model.IntensityMedium}, model.IntensityLow},
	}
	for _, tc := range cases {
		records := make([]model.WorkoutRecord, 0, len(tc.levels))
		for _, l := range tc.levels {
			records = append(records, model.WorkoutRecord{Type: "HIIT", DurationMin: 20, Intensity: l, CaloriesKcal: 100})
		}
		got := engine.AggregateWorkouts(records).ByCategory["HIIT"]
		assert.Equal(t, tc.want, got.ModalIntensity, "%v", tc.levels)
		assert.Equal(t, string(tc.want), got.Display().Intensity)
	}
}

func TestAggregateWorkoutsDerivesMissingPace(t *testing.T) {
	t.Parallel()

	report := engine.AggregateWorkouts([]model.WorkoutRecord{
		{Type: "Walking", DurationMin: 50, DistanceKm: floatPtr(5), CaloriesKcal: 200},
	})
	assert.Equal(t, "10:00", report.ByCategory["Walking"].Display().AveragePace)
}

func TestAggregateWorkoutsUnknownTypesCountOverallOnly(t *testing.T) {
	t.Parallel()

	records := append(sampleWorkouts(), model.WorkoutRecord{Type: "Curling", DurationMin: 90, CaloriesKcal: 300})
	report := engine.AggregateWorkouts(records)
	assert.Equal(t, 5, report.Overall.Count)
	assert.Equal(t, 1, report.Unknown)
	total := 0
	for _, s := range report.Ordered() {
		total += s.Count
	}
	assert.Equal(t, 4, total)
}

func TestAggregateWorkoutsDeletingAllReturnsToZeroState(t *testing.T) {
	t.Parallel()

	records := sampleWorkouts()
	before := engine.AggregateWorkouts(records)
	require.Equal(t, "2", before.ByCategory["Running"].Display().Count)

	var remaining []model.WorkoutRecord
	for _, r := range records {
		if r.Type != "Running" {
			remaining = append(remaining, r)
		}
	}
	after := engine.AggregateWorkouts(remaining)
	assert.Equal(t, "0", after.ByCategory["Running"].Display().Count)
	assert.Equal(t, "--", after.ByCategory["Running"].Display().AveragePace)
	assert.Equal(t, "0.0", after.ByCategory["Running"].Display().AverageDistance)
}

func TestAggregateMeals(t *testing.T) {
	t.Parallel()

	empty := engine.AggregateMeals(nil)
	assert.Zero(t, empty.Count)
	assert.Equal(t, "0.0", engine.DisplayNutrients(empty.Averages).FatTotalG)
	assert.Equal(t, "0.0", engine.DisplayNutrients(empty.Totals).AmountG)
	assert.Empty(t, empty.Groups())

	meals := []model.MealRecord{
		{Name: "breakfast", Totals: model.NutrientProfile{AmountG: 300, FatTotalG: 10}},
		{Name: "Breakfast", Totals: model.NutrientProfile{AmountG: 200, FatTotalG: 5}},
		{Name: "", Totals: model.NutrientProfile{AmountG: 100, SodiumMg: 40}},
	}
	report := engine.AggregateMeals(meals)
	assert.Equal(t, 3, report.Count)
	assert.InDelta(t, 600.0, report.Totals.AmountG, 1e-9)
	assert.InDelta(t, 200.0, report.Averages.AmountG, 1e-9)
	assert.InDelta(t, 5.0, report.Averages.FatTotalG, 1e-9)

	groups := report.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Breakfast", groups[0].Name)
	assert.Equal(t, 2, groups[0].Count)
	assert.InDelta(t, 7.5, groups[0].Averages.FatTotalG, 1e-9)
	assert.Equal(t, engine.DefaultMealName, groups[1].Name)
}
