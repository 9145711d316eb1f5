package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/model"
)

func TestEstimateMETSpeedBrackets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		category *engine.Category
		minutes  float64
		km       float64
		want     float64
	}{
		{"running fallback", engine.Running, 60, 4, 5.0},
		{"running boundary 13.0 inclusive", engine.Running, 60, 13, 13.5},
		{"running just under 13", engine.Running, 60, 12.9, 11.65},
		{"running 11.4 inclusive", engine.Running, 60, 11.4, 11.65},
		{"running 10 km/h over 30 min", engine.Running, 30, 5, 10.5},
		{"running 8.1", engine.Running, 60, 8.1, 9.15},
		{"running 6.0", engine.Running, 60, 6, 7.15},
		{"walking above 6.4", engine.Walking, 60, 6.5, 6.75},
		{"walking exactly 6.4 is not above", engine.Walking, 60, 6.4, 5.25},
		{"walking 4.9", engine.Walking, 60, 4.9, 4.4},
		{"walking 4.1", engine.Walking, 60, 4.1, 3.55},
		{"walking 3.2", engine.Walking, 60, 3.2, 2.9},
		{"walking fallback", engine.Walking, 60, 2, 2.25},
		{"cycling above 30", engine.Cycling, 60, 30.5, 14.0},
		{"cycling exactly 30", engine.Cycling, 60, 30, 10.0},
		{"cycling 19", engine.Cycling, 60, 19, 8.0},
		{"cycling 16", engine.Cycling, 60, 16, 6.0},
		{"cycling fallback", engine.Cycling, 60, 15, 4.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			met, err := engine.EstimateMET(engine.WorkoutDraft{Category: tc.category, DurationMin: tc.minutes, DistanceKm: tc.km})
			require.NoError(t, err)
			assert.Equal(t, tc.want, met)
		})
	}
}

func TestEstimateMETIntensityTables(t *testing.T) {
	t.Parallel()

	want := map[*engine.Category][3]float64{
		engine.Rowing:           {4, 6, 8},
		engine.Swimming:         {5, 7, 9},
		engine.Hiking:           {3.5, 5, 6.5},
		engine.Yoga:             {2.5, 3.5, 4.5},
		engine.Pilates:          {2.5, 3.5, 4.5},
		engine.HIIT:             {8, 10, 12},
		engine.StrengthTraining: {3, 5, 6},
	}
	levels := []model.Intensity{model.IntensityLow, model.IntensityMedium, model.IntensityHigh}
	for c, mets := range want {
		for i, level := range levels {
			met, err := engine.EstimateMET(engine.WorkoutDraft{Category: c, DurationMin: 45, Intensity: level})
			require.NoError(t, err)
			assert.Equal(t, mets[i], met, "%s %s", c.Name(), level)
		}
	}
}

func TestEstimateMETIncompleteInputIsZero(t *testing.T) {
	t.Parallel()

	drafts := []engine.WorkoutDraft{
		{Category: engine.Running, DurationMin: 0, DistanceKm: 5},
		{Category: engine.Running, DurationMin: 30, DistanceKm: 0},
		{Category: engine.Cycling, DurationMin: -5, DistanceKm: 10},
		{Category: engine.Yoga, DurationMin: 30},
	}
	for _, d := range drafts {
		met, err := engine.EstimateMET(d)
		require.NoError(t, err)
		assert.Zero(t, met, "%+v", d)

		kcal, err := engine.EstimateCalories(d)
		require.NoError(t, err)
		assert.Zero(t, kcal, "%+v", d)
	}
}

func TestEstimateMETRejectsInvalidSpecs(t *testing.T) {
	t.Parallel()

	drafts := []engine.WorkoutDraft{
		{Category: nil, DurationMin: 30},
		{Category: &engine.Category{}, DurationMin: 30},
		{Category: engine.Running, DurationMin: 30, DistanceKm: 5, Intensity: model.IntensityHigh},
		{Category: engine.Yoga, DurationMin: 30, DistanceKm: 2, Intensity: model.IntensityLow},
		{Category: engine.HIIT, DurationMin: 30, Intensity: "Extreme"},
	}
	for _, d := range drafts {
		_, err := engine.EstimateMET(d)
		require.ErrorIs(t, err, engine.ErrInvalidWorkoutSpec, "%+v", d)
	}
}

func TestEstimateCalories(t *testing.T) {
	t.Parallel()

	kcal, err := engine.EstimateCalories(engine.WorkoutDraft{Category: engine.Running, DurationMin: 60, DistanceKm: 4})
	require.NoError(t, err)
	assert.InDelta(t, 350.0, kcal, 1e-9)

	kcal, err = engine.EstimateCalories(engine.WorkoutDraft{Category: engine.HIIT, DurationMin: 30, Intensity: model.IntensityHigh})
	require.NoError(t, err)
	assert.InDelta(t, 12*70*0.5, kcal, 1e-9)

	kcal, err = engine.EstimateCalories(engine.WorkoutDraft{Category: engine.Swimming, DurationMin: 0, Intensity: model.IntensityLow})
	require.NoError(t, err)
	assert.Zero(t, kcal)
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Strength Training", "strength training", "strength_training", "strength", "STRENGTH-TRAINING"} {
		c, ok := engine.ParseCategory(in)
		require.True(t, ok, in)
		assert.Same(t, engine.StrengthTraining, c, in)
	}
	c, ok := engine.ParseCategory(" hiit ")
	require.True(t, ok)
	assert.Equal(t, engine.IntensityBased, c.Kind())

	_, ok = engine.ParseCategory("curling")
	assert.False(t, ok)
}

func TestCategoriesCatalogue(t *testing.T) {
	t.Parallel()

	cats := engine.Categories()
	require.Len(t, cats, 10)
	distance := 0
	for _, c := range cats {
		if c.Kind() == engine.DistanceBased {
			distance++
		}
		// every category resolves a MET for some complete draft
		d := engine.WorkoutDraft{Category: c, DurationMin: 60}
		if c.Kind() == engine.DistanceBased {
			d.DistanceKm = 10
		} else {
			d.Intensity = model.IntensityMedium
		}
		met, err := engine.EstimateMET(d)
		require.NoError(t, err, c.Name())
		assert.Positive(t, met, c.Name())
	}
	assert.Equal(t, 3, distance)
}
