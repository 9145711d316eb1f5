package engine_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/model"
)

var applePer100g = model.NutrientProfile{
	AmountG:             100,
	FatTotalG:           0.2,
	FatSaturatedG:       0,
	CarbohydratesTotalG: 14,
	FiberG:              2.4,
	SugarG:              10.3,
	SodiumMg:            1,
	PotassiumMg:         11,
	CholesterolMg:       0,
}

var ricePer100g = model.NutrientProfile{
	AmountG:             100,
	FatTotalG:           0.4,
	FatSaturatedG:       0.1,
	CarbohydratesTotalG: 28.4,
	FiberG:              0.4,
	SugarG:              0.1,
	SodiumMg:            1,
	PotassiumMg:         43,
	CholesterolMg:       0,
}

func TestScaleNutrientsIdentityAt100(t *testing.T) {
	t.Parallel()

	assert.Equal(t, applePer100g, engine.ScaleNutrients(applePer100g, 100))
}

func TestScaleNutrientsLinear(t *testing.T) {
	t.Parallel()

	got := engine.ScaleNutrients(ricePer100g, 250)
	assert.Equal(t, 250.0, got.AmountG)
	assert.InDelta(t, 71.0, got.CarbohydratesTotalG, 1e-9)
	assert.InDelta(t, 107.5, got.PotassiumMg, 1e-9)
	assert.InDelta(t, 1.0, got.FatTotalG, 1e-9)
}

func TestScaleNutrientsInvalidQuantityDefaultsTo100(t *testing.T) {
	t.Parallel()

	for _, q := range []float64{0, -20, math.NaN(), math.Inf(1)} {
		got := engine.ScaleNutrients(applePer100g, q)
		assert.Equal(t, applePer100g, got, "quantity %v", q)
	}
}

func TestSumNutrientsEmptyIsZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.NutrientProfile{}, engine.SumNutrients())
}

func TestSumNutrientsAssociative(t *testing.T) {
	t.Parallel()

	a := engine.ScaleNutrients(applePer100g, 182)
	b := engine.ScaleNutrients(ricePer100g, 75)
	c := engine.ScaleNutrients(ricePer100g, 33.3)

	together := engine.SumNutrients(a, b, c)
	separately := engine.SumNutrients(engine.SumNutrients(a, b), engine.SumNutrients(c))
	assert.True(t, engine.NutrientsEqual(together, separately, 1e-9), "%+v != %+v", together, separately)
	assert.InDelta(t, 290.3, together.AmountG, 1e-9)
}

func TestAssembleMealSkipsFailedIngredients(t *testing.T) {
	t.Parallel()

	outcomes := []engine.LookupOutcome{
		{Query: "apple", QuantityG: 150, Result: &engine.LookupResult{Name: "apple", Per100g: applePer100g}},
		{Query: "glorp", QuantityG: 10, Err: errors.New("no match")},
		{Query: "rice", Result: &engine.LookupResult{Name: "rice", Per100g: ricePer100g}},
	}
	meal, err := engine.AssembleMeal("  ", outcomes)
	require.NoError(t, err)

	assert.Equal(t, engine.DefaultMealName, meal.Name)
	require.Len(t, meal.Items, 2)
	assert.Equal(t, "Apple", meal.Items[0].Name)
	assert.Equal(t, "Rice", meal.Items[1].Name)
	assert.Equal(t, 100.0, meal.Items[1].Nutrients.AmountG)
	assert.Equal(t, []string{"glorp"}, meal.Failures)
	assert.True(t, meal.Partial())
	assert.Contains(t, meal.FailureMessage(), `"glorp"`)

	want := engine.SumNutrients(meal.Items[0].Nutrients, meal.Items[1].Nutrients)
	assert.Equal(t, want, meal.Totals)
	assert.InDelta(t, 250.0, meal.Totals.AmountG, 1e-9)
}

func TestAssembleMealOutageIsTerminal(t *testing.T) {
	t.Parallel()

	outcomes := []engine.LookupOutcome{
		{Query: "apple", QuantityG: 150, Result: &engine.LookupResult{Per100g: applePer100g}},
		{Query: "rice", Err: engine.ErrProviderUnavailable},
	}
	_, err := engine.AssembleMeal("Lunch", outcomes)
	require.ErrorIs(t, err, engine.ErrProviderUnavailable)
}

func TestAssembleMealNothingResolved(t *testing.T) {
	t.Parallel()

	_, err := engine.AssembleMeal("Lunch", []engine.LookupOutcome{{Query: "x", Err: errors.New("boom")}})
	require.ErrorIs(t, err, engine.ErrNothingToAggregate)

	_, err = engine.AssembleMeal("Lunch", nil)
	require.ErrorIs(t, err, engine.ErrNothingToAggregate)
}

func TestDisplayNutrientsRoundsAtBoundary(t *testing.T) {
	t.Parallel()

	d := engine.DisplayNutrients(model.NutrientProfile{AmountG: 182, FatTotalG: 0.364, SodiumMg: 1.25})
	assert.Equal(t, "182.0", d.AmountG)
	assert.Equal(t, "0.4", d.FatTotalG)
	assert.Equal(t, "1.3", d.SodiumMg)
	assert.Equal(t, "0.0", d.CholesterolMg)
}
