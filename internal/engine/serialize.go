package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexis-sammut/fittrack/internal/model"
)

type WorkoutView struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	DurationMin string `json:"duration"`
	DistanceKm  string `json:"distance,omitempty"`
	Pace        string `json:"pace,omitempty"`
	Intensity   string `json:"intensity,omitempty"`
	Calories    string `json:"calories"`
}

// SerializeWorkout renders a stored workout for display or export. Pace is
// taken from the stored value; calories are never recomputed.
func SerializeWorkout(w model.WorkoutRecord) WorkoutView {
	v := WorkoutView{
		ID:          w.ID,
		Type:        w.Type,
		Date:        FormatDate(w.PerformedAt),
		DurationMin: Decimal1(w.DurationMin),
		Intensity:   string(w.Intensity),
		Calories:    Decimal1(w.CaloriesKcal),
	}
	if w.DistanceKm != nil {
		v.DistanceKm = Decimal1(*w.DistanceKm)
		if w.PaceMinPerKm != nil {
			v.Pace = FormatPace(*w.PaceMinPerKm)
		} else if p, ok := PaceFromRaw(w.DurationMin, *w.DistanceKm); ok {
			v.Pace = FormatPace(p)
		}
	}
	return v
}

type MealItemView struct {
	Name string `json:"name"`
	NutrientDisplay
}

type MealView struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Date           string          `json:"date"`
	Items          []MealItemView  `json:"items"`
	TotalNutrients NutrientDisplay `json:"totalNutrients"`
}

func SerializeMeal(m model.MealRecord) MealView {
	v := MealView{
		ID:             m.ID,
		Name:           Capitalize(MealName(m.Name)),
		Date:           FormatDate(m.EatenAt),
		Items:          make([]MealItemView, 0, len(m.Items)),
		TotalNutrients: DisplayNutrients(m.Totals),
	}
	for _, it := range m.Items {
		v.Items = append(v.Items, MealItemView{Name: it.Name, NutrientDisplay: DisplayNutrients(it.Nutrients)})
	}
	return v
}

type MoodView struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Rating int    `json:"mood"`
	Label  string `json:"label"`
	Notes  string `json:"notes,omitempty"`
}

// SerializeMood formats ISO dates as "DD Mon YYYY"; other values pass
// through unchanged.
func SerializeMood(m model.MoodRecord) MoodView {
	return MoodView{
		ID:     m.ID,
		Date:   displayISODate(m.Date),
		Rating: m.Rating,
		Label:  MoodLabel(m.Rating),
		Notes:  m.Notes,
	}
}

const (
	ItemWorkout = "workout"
	ItemMeal    = "meal"
	ItemMood    = "mood"
)

// DeleteRequest is issued to the persistence collaborator.
type DeleteRequest struct {
	ItemType string `json:"item_type"`
	ItemID   int64  `json:"item_id"`
}

type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (r DeleteRequest) Validate() error {
	switch strings.ToLower(strings.TrimSpace(r.ItemType)) {
	case ItemWorkout, ItemMeal, ItemMood:
	default:
		return fmt.Errorf("invalid item_type %q (use workout, meal or mood)", r.ItemType)
	}
	if r.ItemID <= 0 {
		return fmt.Errorf("item_id must be > 0")
	}
	return nil
}

func ParseDeleteRequest(data []byte) (DeleteRequest, error) {
	var req DeleteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return DeleteRequest{}, fmt.Errorf("decode delete request: %w", err)
	}
	req.ItemType = strings.ToLower(strings.TrimSpace(req.ItemType))
	if err := req.Validate(); err != nil {
		return DeleteRequest{}, err
	}
	return req, nil
}
