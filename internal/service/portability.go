package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/model"
)

const exportVersion = 1

type ExportWorkout struct {
	Type         string   `json:"type"`
	DurationMin  float64  `json:"duration_min"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
	PaceMinPerKm *float64 `json:"pace_min_per_km,omitempty"`
	Intensity    string   `json:"intensity,omitempty"`
	CaloriesKcal float64  `json:"calories_kcal"`
	PerformedAt  string   `json:"performed_at"`
	Notes        string   `json:"notes,omitempty"`
}

type ExportMealItem struct {
	Name string `json:"name"`
	model.NutrientProfile
}

type ExportMeal struct {
	Name    string           `json:"name"`
	EatenAt string           `json:"eaten_at"`
	Items   []ExportMealItem `json:"items"`
}

// ExportData is the portable snapshot. Moods use the list shape accepted by
// engine.DecodeMoods.
type ExportData struct {
	Version  int                `json:"version"`
	Workouts []ExportWorkout    `json:"workouts"`
	Meals    []ExportMeal       `json:"meals"`
	Moods    []engine.MoodEntry `json:"moods"`
}

type ImportMode string

const (
	ImportModeFail    ImportMode = "fail"
	ImportModeSkip    ImportMode = "skip"
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
}

type ImportReport struct {
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Conflicts int      `json:"conflicts"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ExportDataSnapshot returns every stored record in chronological order.
// Workout calories are exported as stored.
func ExportDataSnapshot(db *sql.DB) (*ExportData, error) {
	out := &ExportData{Version: exportVersion}

	workouts, err := ListWorkouts(db, ListFilter{Limit: NoLimit})
	if err != nil {
		return nil, fmt.Errorf("export workouts: %w", err)
	}
	out.Workouts = make([]ExportWorkout, 0, len(workouts))
	for i := len(workouts) - 1; i >= 0; i-- {
		w := workouts[i]
		out.Workouts = append(out.Workouts, ExportWorkout{
			Type:         w.Type,
			DurationMin:  w.DurationMin,
			DistanceKm:   w.DistanceKm,
			PaceMinPerKm: w.PaceMinPerKm,
			Intensity:    string(w.Intensity),
			CaloriesKcal: w.CaloriesKcal,
			PerformedAt:  w.PerformedAt.Format(time.RFC3339),
			Notes:        w.Notes,
		})
	}

	meals, err := ListMeals(db, ListFilter{Limit: NoLimit})
	if err != nil {
		return nil, fmt.Errorf("export meals: %w", err)
	}
	out.Meals = make([]ExportMeal, 0, len(meals))
	for i := len(meals) - 1; i >= 0; i-- {
		m := meals[i]
		em := ExportMeal{Name: m.Name, EatenAt: m.EatenAt.Format(time.RFC3339), Items: make([]ExportMealItem, 0, len(m.Items))}
		for _, it := range m.Items {
			em.Items = append(em.Items, ExportMealItem{Name: it.Name, NutrientProfile: it.Nutrients})
		}
		out.Meals = append(out.Meals, em)
	}

	moods, err := ListMoods(db, ListFilter{Limit: NoLimit})
	if err != nil {
		return nil, fmt.Errorf("export moods: %w", err)
	}
	out.Moods = make([]engine.MoodEntry, 0, len(moods))
	for _, m := range moods {
		out.Moods = append(out.Moods, engine.MoodEntry{Date: m.Date, Mood: m.Rating, Notes: m.Notes})
	}
	return out, nil
}

func ImportDataSnapshot(db *sql.DB, data *ExportData) (ImportReport, error) {
	return ImportDataSnapshotWithOptions(db, data, ImportOptions{Mode: ImportModeMerge})
}

// ImportDataSnapshotWithOptions writes a snapshot in one transaction.
// Workouts match on type and time, meals on name and time, moods on date.
// Merge and skip leave matching workouts and meals alone; merge overwrites a
// matching mood. Fail aborts on the first match.
func ImportDataSnapshotWithOptions(db *sql.DB, data *ExportData, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{}
	if data == nil {
		return report, fmt.Errorf("import data is required")
	}
	mode := normalizeImportMode(opts.Mode)

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if mode == ImportModeReplace {
		if err := clearUserData(tx); err != nil {
			return report, err
		}
	}

	// Keys of rows this import has already written or, on a dry run, would
	// have written.
	seen := make(map[string]bool)
	for i, w := range data.Workouts {
		if err := importWorkout(tx, w, mode, opts.DryRun, seen, &report); err != nil {
			return report, fmt.Errorf("import workout %d: %w", i+1, err)
		}
	}
	for i, m := range data.Meals {
		if err := importMeal(tx, m, mode, opts.DryRun, seen, &report); err != nil {
			return report, fmt.Errorf("import meal %d: %w", i+1, err)
		}
	}
	for _, rec := range engine.NormalizeMoods(engine.MoodList(data.Moods)) {
		if err := importMood(tx, rec, mode, opts.DryRun, &report); err != nil {
			return report, fmt.Errorf("import mood %q: %w", rec.Date, err)
		}
	}

	if opts.DryRun {
		return report, nil
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit import: %w", err)
	}
	return report, nil
}

func importWorkout(tx *sql.Tx, w ExportWorkout, mode ImportMode, dryRun bool, seen map[string]bool, report *ImportReport) error {
	category, ok := engine.ParseCategory(w.Type)
	if !ok {
		return fmt.Errorf("%w: unknown workout type %q", engine.ErrInvalidWorkoutSpec, w.Type)
	}
	intensity, ok := engine.ParseIntensity(w.Intensity)
	if !ok {
		return fmt.Errorf("%w: invalid intensity %q", engine.ErrInvalidWorkoutSpec, w.Intensity)
	}
	performedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(w.PerformedAt))
	if err != nil {
		return fmt.Errorf("invalid performed_at %q", w.PerformedAt)
	}
	rec := model.WorkoutRecord{Type: category.Name(), DurationMin: w.DurationMin, DistanceKm: w.DistanceKm, PaceMinPerKm: w.PaceMinPerKm, Intensity: intensity}
	if !(w.DurationMin > 0) || !workoutShapeValid(category, rec) {
		return fmt.Errorf("%w: %s fields do not match its kind", engine.ErrInvalidWorkoutSpec, category.Name())
	}
	if w.CaloriesKcal < 0 {
		return fmt.Errorf("calories must be >= 0")
	}
	if rec.DistanceKm != nil && rec.PaceMinPerKm == nil {
		if pace, ok := engine.PaceFromRaw(rec.DurationMin, *rec.DistanceKm); ok {
			p := engine.Decimal2(pace)
			rec.PaceMinPerKm = &p
		}
	}

	var existing int64
	err = tx.QueryRow(`SELECT id FROM workouts WHERE type = ? AND performed_at = ? LIMIT 1`, rec.Type, performedAt.Format(time.RFC3339)).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("check existing workout: %w", err)
	}
	key := "workout|" + rec.Type + "|" + performedAt.Format(time.RFC3339)
	if existing > 0 || seen[key] {
		report.Conflicts++
		if mode == ImportModeFail {
			if existing == 0 {
				return fmt.Errorf("duplicate workout %s at %s", rec.Type, performedAt.Format(time.RFC3339))
			}
			return fmt.Errorf("conflict with workout %d", existing)
		}
		report.Skipped++
		return nil
	}
	seen[key] = true
	if dryRun {
		report.Inserted++
		return nil
	}
	if _, err := tx.Exec(`
INSERT INTO workouts(type, duration_min, distance_km, pace_min_per_km, intensity, calories_kcal, performed_at, notes)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, rec.Type, rec.DurationMin, nullableFloat(rec.DistanceKm), nullableFloat(rec.PaceMinPerKm), string(rec.Intensity), w.CaloriesKcal, performedAt.Format(time.RFC3339), nullableString(w.Notes)); err != nil {
		return err
	}
	report.Inserted++
	return nil
}

func importMeal(tx *sql.Tx, m ExportMeal, mode ImportMode, dryRun bool, seen map[string]bool, report *ImportReport) error {
	eatenAt, err := time.Parse(time.RFC3339, strings.TrimSpace(m.EatenAt))
	if err != nil {
		return fmt.Errorf("invalid eaten_at %q", m.EatenAt)
	}
	drafts := make([]engine.MealDraftItem, 0, len(m.Items))
	for _, it := range m.Items {
		drafts = append(drafts, engine.MealDraftItem{Name: it.Name, Nutrients: it.NutrientProfile})
	}
	items, err := normalizeMealItems(drafts)
	if err != nil {
		return err
	}
	name := engine.MealName(m.Name)

	var existing int64
	err = tx.QueryRow(`SELECT id FROM meals WHERE name = ? AND eaten_at = ? LIMIT 1`, name, eatenAt.Format(time.RFC3339)).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("check existing meal: %w", err)
	}
	key := "meal|" + name + "|" + eatenAt.Format(time.RFC3339)
	if existing > 0 || seen[key] {
		report.Conflicts++
		if mode == ImportModeFail {
			if existing == 0 {
				return fmt.Errorf("duplicate meal %q at %s", name, eatenAt.Format(time.RFC3339))
			}
			return fmt.Errorf("conflict with meal %d", existing)
		}
		report.Skipped++
		return nil
	}
	seen[key] = true
	if dryRun {
		report.Inserted++
		return nil
	}
	res, err := tx.Exec(`
INSERT INTO meals(name, eaten_at, total_amount_g, total_fat_total_g, total_fat_saturated_g, total_carbohydrates_total_g, total_fiber_g, total_sugar_g, total_sodium_mg, total_potassium_mg, total_cholesterol_mg)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, append([]any{name, eatenAt.Format(time.RFC3339)}, nutrientArgs(mealTotals(items))...)...)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("resolve meal id: %w", err)
	}
	if err := insertMealItems(tx, id, items); err != nil {
		return err
	}
	report.Inserted++
	return nil
}

func importMood(tx *sql.Tx, rec model.MoodRecord, mode ImportMode, dryRun bool, report *ImportReport) error {
	if rec.Date == "" {
		return fmt.Errorf("date is required")
	}
	in, err := normalizeMoodInput(MoodInput{Date: rec.Date, Rating: rec.Rating, Notes: rec.Notes})
	if err != nil {
		return err
	}
	var existing int64
	err = tx.QueryRow(`SELECT id FROM moods WHERE date = ?`, in.Date).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("check existing mood: %w", err)
	}
	if existing > 0 {
		report.Conflicts++
		switch mode {
		case ImportModeFail:
			return fmt.Errorf("conflict with mood %d", existing)
		case ImportModeSkip:
			report.Skipped++
			return nil
		}
	}
	if dryRun {
		if existing > 0 {
			report.Updated++
		} else {
			report.Inserted++
		}
		return nil
	}
	if _, err := upsertMood(tx, in); err != nil {
		return err
	}
	if existing > 0 {
		report.Updated++
	} else {
		report.Inserted++
	}
	return nil
}

func normalizeImportMode(mode ImportMode) ImportMode {
	switch mode {
	case ImportModeFail, ImportModeSkip, ImportModeMerge, ImportModeReplace:
		return mode
	default:
		return ImportModeMerge
	}
}

// ParseImportMode accepts the four mode names in any case.
func ParseImportMode(value string) (ImportMode, error) {
	mode := ImportMode(strings.ToLower(strings.TrimSpace(value)))
	if mode == "" {
		return ImportModeMerge, nil
	}
	if normalizeImportMode(mode) != mode {
		return "", fmt.Errorf("invalid import mode %q (use fail, skip, merge or replace)", value)
	}
	return mode, nil
}

func clearUserData(tx *sql.Tx) error {
	stmts := []string{
		`DELETE FROM meal_items`,
		`DELETE FROM meals`,
		`DELETE FROM workouts`,
		`DELETE FROM moods`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return fmt.Errorf("clear data for replace mode: %w", err)
		}
	}
	return nil
}
