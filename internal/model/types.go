package model

import "time"

type Intensity string

const (
	IntensityLow    Intensity = "Low"
	IntensityMedium Intensity = "Medium"
	IntensityHigh   Intensity = "High"
)

type WorkoutRecord struct {
	ID           int64
	Type         string
	DurationMin  float64
	DistanceKm   *float64
	PaceMinPerKm *float64
	Intensity    Intensity
	CaloriesKcal float64
	PerformedAt  time.Time
	Notes        string
	CreatedAt    time.Time
}

// NutrientProfile is a quantity-scaled snapshot for one ingredient or a meal total.
type NutrientProfile struct {
	AmountG             float64 `json:"amount_g"`
	FatTotalG           float64 `json:"fat_total_g"`
	FatSaturatedG       float64 `json:"fat_saturated_g"`
	CarbohydratesTotalG float64 `json:"carbohydrates_total_g"`
	FiberG              float64 `json:"fiber_g"`
	SugarG              float64 `json:"sugar_g"`
	SodiumMg            float64 `json:"sodium_mg"`
	PotassiumMg         float64 `json:"potassium_mg"`
	CholesterolMg       float64 `json:"cholesterol_mg"`
}

type MealItem struct {
	ID        int64
	MealID    int64
	Position  int
	Name      string
	Nutrients NutrientProfile
}

type MealRecord struct {
	ID        int64
	Name      string
	EatenAt   time.Time
	Items     []MealItem
	Totals    NutrientProfile
	CreatedAt time.Time
}

type MoodRecord struct {
	ID     int64
	Date   string
	Rating int
	Notes  string
}
