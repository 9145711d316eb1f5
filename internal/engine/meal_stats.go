package engine

import (
	"sort"
	"strings"

	"github.com/alexis-sammut/fittrack/internal/model"
)

type NutrientDisplay struct {
	AmountG             string `json:"amount_g"`
	FatTotalG           string `json:"fat_total_g"`
	FatSaturatedG       string `json:"fat_saturated_g"`
	CarbohydratesTotalG string `json:"carbohydrates_total_g"`
	FiberG              string `json:"fiber_g"`
	SugarG              string `json:"sugar_g"`
	SodiumMg            string `json:"sodium_mg"`
	PotassiumMg         string `json:"potassium_mg"`
	CholesterolMg       string `json:"cholesterol_mg"`
}

// DisplayNutrients rounds every field to one decimal place.
func DisplayNutrients(p model.NutrientProfile) NutrientDisplay {
	return NutrientDisplay{
		AmountG:             Decimal1(p.AmountG),
		FatTotalG:           Decimal1(p.FatTotalG),
		FatSaturatedG:       Decimal1(p.FatSaturatedG),
		CarbohydratesTotalG: Decimal1(p.CarbohydratesTotalG),
		FiberG:              Decimal1(p.FiberG),
		SugarG:              Decimal1(p.SugarG),
		SodiumMg:            Decimal1(p.SodiumMg),
		PotassiumMg:         Decimal1(p.PotassiumMg),
		CholesterolMg:       Decimal1(p.CholesterolMg),
	}
}

type MealGroupStats struct {
	Name     string                `json:"name"`
	Count    int                   `json:"count"`
	Totals   model.NutrientProfile `json:"totals"`
	Averages model.NutrientProfile `json:"averages"`
}

type MealReport struct {
	Count    int                       `json:"count"`
	Totals   model.NutrientProfile     `json:"totals"`
	Averages model.NutrientProfile     `json:"averages"`
	ByName   map[string]MealGroupStats `json:"by_name"`
}

// Groups returns the per-name groups sorted by count, then name.
func (r MealReport) Groups() []MealGroupStats {
	out := make([]MealGroupStats, 0, len(r.ByName))
	for _, g := range r.ByName {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// AggregateMeals sums stored meal totals overall and per meal name. Empty
// input yields the all-zero report.
func AggregateMeals(meals []model.MealRecord) MealReport {
	report := MealReport{ByName: map[string]MealGroupStats{}}
	for _, m := range meals {
		report.Count++
		report.Totals = SumNutrients(report.Totals, m.Totals)

		key := strings.ToLower(MealName(m.Name))
		g, ok := report.ByName[key]
		if !ok {
			g.Name = Capitalize(MealName(m.Name))
		}
		g.Count++
		g.Totals = SumNutrients(g.Totals, m.Totals)
		report.ByName[key] = g
	}
	report.Averages = divideNutrients(report.Totals, report.Count)
	for key, g := range report.ByName {
		g.Averages = divideNutrients(g.Totals, g.Count)
		report.ByName[key] = g
	}
	return report
}
