package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alexis-sammut/fittrack/internal/model"
)

const (
	DefaultQuantityG = 100.0
	DefaultMealName  = "Unnamed Meal"
)

// NormalizeQuantity falls back to the 100 g baseline for anything that is
// not a finite positive number.
func NormalizeQuantity(quantityG float64) float64 {
	if !positive(quantityG) {
		return DefaultQuantityG
	}
	return quantityG
}

// ScaleNutrients scales a per-100g profile to quantityG. AmountG is set to
// the quantity itself, not derived from the multiplier.
func ScaleNutrients(per100g model.NutrientProfile, quantityG float64) model.NutrientProfile {
	q := NormalizeQuantity(quantityG)
	f := q / 100
	return model.NutrientProfile{
		AmountG:             q,
		FatTotalG:           per100g.FatTotalG * f,
		FatSaturatedG:       per100g.FatSaturatedG * f,
		CarbohydratesTotalG: per100g.CarbohydratesTotalG * f,
		FiberG:              per100g.FiberG * f,
		SugarG:              per100g.SugarG * f,
		SodiumMg:            per100g.SodiumMg * f,
		PotassiumMg:         per100g.PotassiumMg * f,
		CholesterolMg:       per100g.CholesterolMg * f,
	}
}

// SumNutrients adds profiles field by field. No profiles sum to zero.
func SumNutrients(profiles ...model.NutrientProfile) model.NutrientProfile {
	var out model.NutrientProfile
	for _, p := range profiles {
		out.AmountG += p.AmountG
		out.FatTotalG += p.FatTotalG
		out.FatSaturatedG += p.FatSaturatedG
		out.CarbohydratesTotalG += p.CarbohydratesTotalG
		out.FiberG += p.FiberG
		out.SugarG += p.SugarG
		out.SodiumMg += p.SodiumMg
		out.PotassiumMg += p.PotassiumMg
		out.CholesterolMg += p.CholesterolMg
	}
	return out
}

func divideNutrients(p model.NutrientProfile, n int) model.NutrientProfile {
	if n <= 0 {
		return model.NutrientProfile{}
	}
	d := float64(n)
	return model.NutrientProfile{
		AmountG:             p.AmountG / d,
		FatTotalG:           p.FatTotalG / d,
		FatSaturatedG:       p.FatSaturatedG / d,
		CarbohydratesTotalG: p.CarbohydratesTotalG / d,
		FiberG:              p.FiberG / d,
		SugarG:              p.SugarG / d,
		SodiumMg:            p.SodiumMg / d,
		PotassiumMg:         p.PotassiumMg / d,
		CholesterolMg:       p.CholesterolMg / d,
	}
}

// NutrientsEqual compares two profiles field by field within tolerance.
func NutrientsEqual(a, b model.NutrientProfile, tolerance float64) bool {
	av, bv := nutrientValues(a), nutrientValues(b)
	for i := range av {
		if math.Abs(av[i]-bv[i]) > tolerance {
			return false
		}
	}
	return true
}

func nutrientValues(p model.NutrientProfile) [9]float64 {
	return [9]float64{
		p.AmountG, p.FatTotalG, p.FatSaturatedG, p.CarbohydratesTotalG,
		p.FiberG, p.SugarG, p.SodiumMg, p.PotassiumMg, p.CholesterolMg,
	}
}

// LookupResult is one per-100g answer from the nutrition provider.
type LookupResult struct {
	Name    string
	Per100g model.NutrientProfile
}

// LookupOutcome pairs an ingredient query with either its result or the
// error the lookup produced.
type LookupOutcome struct {
	Query     string
	QuantityG float64
	Result    *LookupResult
	Err       error
}

type MealDraftItem struct {
	Name      string
	Nutrients model.NutrientProfile
}

// MealDraft is an assembled meal ready to persist. Failures lists every
// ingredient whose lookup failed, in input order.
type MealDraft struct {
	Name     string
	Items    []MealDraftItem
	Totals   model.NutrientProfile
	Failures []string
}

func (m MealDraft) Partial() bool { return len(m.Failures) > 0 }

// FailureMessage lists every failed ingredient, one line each.
func (m MealDraft) FailureMessage() string {
	if len(m.Failures) == 0 {
		return ""
	}
	var b strings.Builder
	for _, name := range m.Failures {
		fmt.Fprintf(&b, "There was an issue getting the nutritional data for %q. Make sure there's no typo or try something else.\n", name)
	}
	return b.String()
}

// AssembleMeal scales every resolved ingredient and sums the meal totals.
// Failed ingredients are skipped. A provider outage on any ingredient is
// terminal, and a meal with no resolved ingredient is an error.
func AssembleMeal(name string, outcomes []LookupOutcome) (MealDraft, error) {
	draft := MealDraft{Name: MealName(name)}
	profiles := make([]model.NutrientProfile, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil && errors.Is(o.Err, ErrProviderUnavailable) {
			return MealDraft{}, fmt.Errorf("lookup %q: %w", o.Query, o.Err)
		}
		if o.Err != nil || o.Result == nil {
			draft.Failures = append(draft.Failures, o.Query)
			continue
		}
		scaled := ScaleNutrients(o.Result.Per100g, o.QuantityG)
		draft.Items = append(draft.Items, MealDraftItem{
			Name:      Capitalize(o.Query),
			Nutrients: scaled,
		})
		profiles = append(profiles, scaled)
	}
	if len(draft.Items) == 0 {
		return MealDraft{}, ErrNothingToAggregate
	}
	draft.Totals = SumNutrients(profiles...)
	return draft, nil
}

// MealName trims a meal name and falls back to DefaultMealName.
func MealName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultMealName
	}
	return name
}

// Capitalize upper-cases the first letter, leaving the rest untouched.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
