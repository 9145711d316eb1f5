package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/model"
)

type MealInput struct {
	Name    string
	EatenAt time.Time
	Items   []engine.MealDraftItem
}

// CreateMeal stores a meal and its items. Totals are always recomputed from
// the items, never taken from the caller.
func CreateMeal(db *sql.DB, in MealInput) (int64, error) {
	items, err := normalizeMealItems(in.Items)
	if err != nil {
		return 0, err
	}
	eatenAt := in.EatenAt
	if eatenAt.IsZero() {
		eatenAt = time.Now()
	}
	totals := mealTotals(items)

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin meal tx: %w", err)
	}
	res, err := tx.Exec(`
INSERT INTO meals(name, eaten_at, total_amount_g, total_fat_total_g, total_fat_saturated_g, total_carbohydrates_total_g, total_fiber_g, total_sugar_g, total_sodium_mg, total_potassium_mg, total_cholesterol_mg)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, append([]any{engine.MealName(in.Name), eatenAt.Format(time.RFC3339)}, nutrientArgs(totals)...)...)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("add meal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("resolve meal id: %w", err)
	}
	if err := insertMealItems(tx, id, items); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit meal: %w", err)
	}
	return id, nil
}

// MealUpdate changes a stored meal. A nil Name keeps the current name and
// nil Items keep the current items.
type MealUpdate struct {
	Name  *string
	Items []engine.MealDraftItem
}

// UpdateMeal renames a meal and/or swaps its items in one transaction.
// New items always refresh the stored totals.
func UpdateMeal(db *sql.DB, mealID int64, up MealUpdate) error {
	if mealID <= 0 {
		return fmt.Errorf("meal id must be > 0")
	}
	if up.Name == nil && up.Items == nil {
		return fmt.Errorf("nothing to update: name or items required")
	}
	var items []engine.MealDraftItem
	if up.Items != nil {
		var err error
		items, err = normalizeMealItems(up.Items)
		if err != nil {
			return err
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin meal update tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if up.Name != nil {
		if err := renameMeal(tx, mealID, engine.MealName(*up.Name)); err != nil {
			return err
		}
	}
	if up.Items != nil {
		if _, err := tx.Exec(`DELETE FROM meal_items WHERE meal_id = ?`, mealID); err != nil {
			return fmt.Errorf("clear meal items %d: %w", mealID, err)
		}
		if err := updateMealTotals(tx, mealID, mealTotals(items)); err != nil {
			return err
		}
		if err := insertMealItems(tx, mealID, items); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit meal update: %w", err)
	}
	return nil
}

// ReplaceMealItems swaps every item of a meal and refreshes its totals.
func ReplaceMealItems(db *sql.DB, mealID int64, items []engine.MealDraftItem) error {
	if items == nil {
		items = []engine.MealDraftItem{}
	}
	return UpdateMeal(db, mealID, MealUpdate{Items: items})
}

func renameMeal(tx *sql.Tx, mealID int64, name string) error {
	res, err := tx.Exec(`UPDATE meals SET name = ? WHERE id = ?`, name, mealID)
	if err != nil {
		return fmt.Errorf("rename meal %d: %w", mealID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("meal %d: %w", mealID, ErrNotFound)
	}
	return nil
}

func GetMeal(db *sql.DB, id int64) (model.MealRecord, error) {
	if id <= 0 {
		return model.MealRecord{}, fmt.Errorf("meal id must be > 0")
	}
	row := db.QueryRow(mealSelect+` WHERE id = ?`, id)
	m, err := scanMeal(row)
	if err == sql.ErrNoRows {
		return model.MealRecord{}, fmt.Errorf("meal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.MealRecord{}, err
	}
	items, err := listMealItems(db, []int64{id})
	if err != nil {
		return model.MealRecord{}, err
	}
	m.Items = items[id]
	return m, nil
}

// ListMeals returns meals with their items, newest first. Type filters on
// the meal name, case-insensitively.
func ListMeals(db *sql.DB, f ListFilter) ([]model.MealRecord, error) {
	query := mealSelect + ` WHERE 1=1`
	args := make([]any, 0)
	query, args, err := f.timeRange("eaten_at", query, args)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(f.Type); name != "" {
		query += ` AND lower(name) = ?`
		args = append(args, normalizeName(name))
	}
	query += ` ORDER BY eaten_at DESC, id DESC`
	query, args = f.limitClause(query, args)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	meals := make([]model.MealRecord, 0)
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	_ = rows.Close()

	// Items are loaded after the meal cursor is closed: the pool holds a
	// single connection.
	ids := make([]int64, 0, len(meals))
	for _, m := range meals {
		ids = append(ids, m.ID)
	}
	items, err := listMealItems(db, ids)
	if err != nil {
		return nil, err
	}
	for i := range meals {
		meals[i].Items = items[meals[i].ID]
	}
	return meals, nil
}

func DeleteMeal(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("meal id must be > 0")
	}
	res, err := db.Exec(`DELETE FROM meals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete meal %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("meal %d: %w", id, ErrNotFound)
	}
	return nil
}

const mealSelect = `SELECT id, name, eaten_at, total_amount_g, total_fat_total_g, total_fat_saturated_g, total_carbohydrates_total_g, total_fiber_g, total_sugar_g, total_sodium_mg, total_potassium_mg, total_cholesterol_mg, created_at FROM meals`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeal(row rowScanner) (model.MealRecord, error) {
	var m model.MealRecord
	var eatenRaw, createdRaw string
	t := &m.Totals
	if err := row.Scan(&m.ID, &m.Name, &eatenRaw, &t.AmountG, &t.FatTotalG, &t.FatSaturatedG, &t.CarbohydratesTotalG, &t.FiberG, &t.SugarG, &t.SodiumMg, &t.PotassiumMg, &t.CholesterolMg, &createdRaw); err != nil {
		if err == sql.ErrNoRows {
			return m, err
		}
		return m, fmt.Errorf("scan meal: %w", err)
	}
	eatenAt, err := parseStoredTime("eaten_at", eatenRaw)
	if err != nil {
		return m, err
	}
	m.EatenAt = eatenAt
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdRaw)
	m.Items = []model.MealItem{}
	return m, nil
}

func listMealItems(db *sql.DB, mealIDs []int64) (map[int64][]model.MealItem, error) {
	out := make(map[int64][]model.MealItem, len(mealIDs))
	if len(mealIDs) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(mealIDs)), ",")
	args := make([]any, 0, len(mealIDs))
	for _, id := range mealIDs {
		args = append(args, id)
	}
	rows, err := db.Query(`
SELECT id, meal_id, position, name, amount_g, fat_total_g, fat_saturated_g, carbohydrates_total_g, fiber_g, sugar_g, sodium_mg, potassium_mg, cholesterol_mg
FROM meal_items WHERE meal_id IN (`+placeholders+`) ORDER BY meal_id, position`, args...)
	if err != nil {
		return nil, fmt.Errorf("list meal items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it model.MealItem
		n := &it.Nutrients
		if err := rows.Scan(&it.ID, &it.MealID, &it.Position, &it.Name, &n.AmountG, &n.FatTotalG, &n.FatSaturatedG, &n.CarbohydratesTotalG, &n.FiberG, &n.SugarG, &n.SodiumMg, &n.PotassiumMg, &n.CholesterolMg); err != nil {
			return nil, fmt.Errorf("scan meal item: %w", err)
		}
		out[it.MealID] = append(out[it.MealID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal items: %w", err)
	}
	return out, nil
}

func normalizeMealItems(items []engine.MealDraftItem) ([]engine.MealDraftItem, error) {
	if len(items) == 0 {
		return nil, engine.ErrNothingToAggregate
	}
	out := make([]engine.MealDraftItem, 0, len(items))
	for i, it := range items {
		name := engine.Capitalize(it.Name)
		if name == "" {
			return nil, fmt.Errorf("meal item %d: name is required", i+1)
		}
		if !(it.Nutrients.AmountG > 0) {
			return nil, fmt.Errorf("meal item %q: amount must be > 0", name)
		}
		it.Name = name
		out = append(out, it)
	}
	return out, nil
}

func mealTotals(items []engine.MealDraftItem) model.NutrientProfile {
	profiles := make([]model.NutrientProfile, 0, len(items))
	for _, it := range items {
		profiles = append(profiles, it.Nutrients)
	}
	return engine.SumNutrients(profiles...)
}

func insertMealItems(tx *sql.Tx, mealID int64, items []engine.MealDraftItem) error {
	for i, it := range items {
		args := append([]any{mealID, i, it.Name}, nutrientArgs(it.Nutrients)...)
		if _, err := tx.Exec(`
INSERT INTO meal_items(meal_id, position, name, amount_g, fat_total_g, fat_saturated_g, carbohydrates_total_g, fiber_g, sugar_g, sodium_mg, potassium_mg, cholesterol_mg)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, args...); err != nil {
			return fmt.Errorf("add meal item %q: %w", it.Name, err)
		}
	}
	return nil
}

func updateMealTotals(tx *sql.Tx, mealID int64, totals model.NutrientProfile) error {
	args := append(nutrientArgs(totals), mealID)
	res, err := tx.Exec(`
UPDATE meals
SET total_amount_g = ?, total_fat_total_g = ?, total_fat_saturated_g = ?, total_carbohydrates_total_g = ?, total_fiber_g = ?, total_sugar_g = ?, total_sodium_mg = ?, total_potassium_mg = ?, total_cholesterol_mg = ?
WHERE id = ?
`, args...)
	if err != nil {
		return fmt.Errorf("update meal totals %d: %w", mealID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("meal %d: %w", mealID, ErrNotFound)
	}
	return nil
}

func nutrientArgs(p model.NutrientProfile) []any {
	return []any{p.AmountG, p.FatTotalG, p.FatSaturatedG, p.CarbohydratesTotalG, p.FiberG, p.SugarG, p.SodiumMg, p.PotassiumMg, p.CholesterolMg}
}
