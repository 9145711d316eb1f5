package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/model"
)

type WorkoutInput struct {
	Type        string
	DurationMin float64
	DistanceKm  float64
	Intensity   string
	PerformedAt time.Time
	Notes       string
}

// WorkoutDraft resolves the category and intensity of an input without
// checking completeness. It backs both previews and CreateWorkout.
func WorkoutDraft(in WorkoutInput) (engine.WorkoutDraft, error) {
	category, ok := engine.ParseCategory(in.Type)
	if !ok {
		return engine.WorkoutDraft{}, fmt.Errorf("%w: unknown workout type %q", engine.ErrInvalidWorkoutSpec, in.Type)
	}
	intensity, ok := engine.ParseIntensity(in.Intensity)
	if !ok {
		return engine.WorkoutDraft{}, fmt.Errorf("%w: invalid intensity %q (use low, medium or high)", engine.ErrInvalidWorkoutSpec, in.Intensity)
	}
	return engine.WorkoutDraft{
		Category:    category,
		DurationMin: in.DurationMin,
		DistanceKm:  in.DistanceKm,
		Intensity:   intensity,
	}, nil
}

// CreateWorkout stores a workout with its pace and calories frozen at log
// time. Later changes to the MET tables never touch stored rows.
func CreateWorkout(db *sql.DB, in WorkoutInput) (int64, error) {
	draft, err := WorkoutDraft(in)
	if err != nil {
		return 0, err
	}
	view, err := engine.Recompute(draft)
	if err != nil {
		return 0, err
	}
	if err := requireComplete(draft, view); err != nil {
		return 0, err
	}

	var distance, pace *float64
	if draft.Category.Kind() == engine.DistanceBased {
		d := draft.DistanceKm
		p := view.StoredPace
		distance, pace = &d, &p
	}
	performedAt := in.PerformedAt
	if performedAt.IsZero() {
		performedAt = time.Now()
	}

	res, err := db.Exec(`
INSERT INTO workouts(type, duration_min, distance_km, pace_min_per_km, intensity, calories_kcal, performed_at, notes)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, draft.Category.Name(), draft.DurationMin, nullableFloat(distance), nullableFloat(pace), string(draft.Intensity), view.StoredCalories, performedAt.Format(time.RFC3339), nullableString(in.Notes))
	if err != nil {
		return 0, fmt.Errorf("add workout: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve workout id: %w", err)
	}
	return id, nil
}

func requireComplete(d engine.WorkoutDraft, v engine.DerivedView) error {
	if v.Complete() {
		return nil
	}
	name := strings.ToLower(d.Category.Name())
	switch {
	case !(d.DurationMin > 0):
		return fmt.Errorf("duration must be > 0")
	case d.Category.Kind() == engine.DistanceBased && !(d.DistanceKm > 0):
		return fmt.Errorf("distance must be > 0 for %s", name)
	case d.Category.Kind() == engine.IntensityBased && d.Intensity == "":
		return fmt.Errorf("intensity is required for %s", name)
	default:
		return fmt.Errorf("workout is incomplete")
	}
}

func ListWorkouts(db *sql.DB, f ListFilter) ([]model.WorkoutRecord, error) {
	query := `SELECT id, type, duration_min, distance_km, pace_min_per_km, intensity, calories_kcal, performed_at, IFNULL(notes, ''), created_at FROM workouts WHERE 1=1`
	args := make([]any, 0)
	query, args, err := f.timeRange("performed_at", query, args)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(f.Type); t != "" {
		if c, ok := engine.ParseCategory(t); ok {
			t = c.Name()
		}
		query += ` AND type = ?`
		args = append(args, t)
	}
	query += ` ORDER BY performed_at DESC, id DESC`
	query, args = f.limitClause(query, args)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	items := make([]model.WorkoutRecord, 0)
	for rows.Next() {
		var item model.WorkoutRecord
		var distance, pace sql.NullFloat64
		var intensity string
		var performedAtRaw, createdRaw string
		if err := rows.Scan(&item.ID, &item.Type, &item.DurationMin, &distance, &pace, &intensity, &item.CaloriesKcal, &performedAtRaw, &item.Notes, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		item.PerformedAt, err = parseStoredTime("performed_at", performedAtRaw)
		if err != nil {
			return nil, err
		}
		if distance.Valid {
			v := distance.Float64
			item.DistanceKm = &v
		}
		if pace.Valid {
			v := pace.Float64
			item.PaceMinPerKm = &v
		}
		item.Intensity = model.Intensity(intensity)
		item.CreatedAt, _ = time.Parse(time.RFC3339, createdRaw)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workouts: %w", err)
	}
	return items, nil
}

func DeleteWorkout(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("workout id must be > 0")
	}
	res, err := db.Exec(`DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete workout %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("workout %d: %w", id, ErrNotFound)
	}
	return nil
}
