package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/model"
)

type MoodInput struct {
	Date   string
	Rating int
	Notes  string
}

// LogMood records the mood for a day. A second mood for the same date
// replaces the first.
func LogMood(db *sql.DB, in MoodInput) (int64, error) {
	in, err := normalizeMoodInput(in)
	if err != nil {
		return 0, err
	}
	return upsertMood(db, in)
}

type execQueryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func upsertMood(q execQueryer, in MoodInput) (int64, error) {
	if _, err := q.Exec(`
INSERT INTO moods(date, rating, notes)
VALUES(?, ?, ?)
ON CONFLICT(date) DO UPDATE SET rating=excluded.rating, notes=excluded.notes
`, in.Date, in.Rating, nullableString(in.Notes)); err != nil {
		return 0, fmt.Errorf("log mood for %s: %w", in.Date, err)
	}
	var id int64
	if err := q.QueryRow(`SELECT id FROM moods WHERE date = ?`, in.Date).Scan(&id); err != nil {
		return 0, fmt.Errorf("resolve mood id for %s: %w", in.Date, err)
	}
	return id, nil
}

func normalizeMoodInput(in MoodInput) (MoodInput, error) {
	if strings.TrimSpace(in.Date) == "" {
		in.Date = time.Now().Format("2006-01-02")
	}
	date, err := isoDate(in.Date)
	if err != nil {
		return MoodInput{}, err
	}
	in.Date = date
	if in.Rating < engine.MinMoodRating || in.Rating > engine.MaxMoodRating {
		return MoodInput{}, fmt.Errorf("mood rating must be between %d and %d", engine.MinMoodRating, engine.MaxMoodRating)
	}
	in.Notes = strings.TrimSpace(in.Notes)
	return in, nil
}

// ListMoods returns moods ordered by date ascending.
func ListMoods(db *sql.DB, f ListFilter) ([]model.MoodRecord, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	query := `SELECT id, date, rating, IFNULL(notes, '') FROM moods WHERE 1=1`
	args := make([]any, 0)
	if strings.TrimSpace(f.Date) != "" {
		d, err := isoDate(f.Date)
		if err != nil {
			return nil, err
		}
		query += ` AND date = ?`
		args = append(args, d)
	}
	if strings.TrimSpace(f.FromDate) != "" {
		d, err := isoDate(f.FromDate)
		if err != nil {
			return nil, err
		}
		query += ` AND date >= ?`
		args = append(args, d)
	}
	if strings.TrimSpace(f.ToDate) != "" {
		d, err := isoDate(f.ToDate)
		if err != nil {
			return nil, err
		}
		query += ` AND date <= ?`
		args = append(args, d)
	}
	query += ` ORDER BY date ASC`
	query, args = f.limitClause(query, args)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list moods: %w", err)
	}
	defer rows.Close()
	out := make([]model.MoodRecord, 0)
	for rows.Next() {
		var m model.MoodRecord
		if err := rows.Scan(&m.ID, &m.Date, &m.Rating, &m.Notes); err != nil {
			return nil, fmt.Errorf("scan mood: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moods: %w", err)
	}
	return out, nil
}

func DeleteMood(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("mood id must be > 0")
	}
	res, err := db.Exec(`DELETE FROM moods WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete mood %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mood %d: %w", id, ErrNotFound)
	}
	return nil
}

// ImportMoods upserts every mood from either external shape in a single
// transaction. Nothing is written if any entry is invalid.
func ImportMoods(db *sql.DB, src engine.MoodSource) (int, error) {
	records := engine.NormalizeMoods(src)
	inputs := make([]MoodInput, 0, len(records))
	for _, rec := range records {
		if rec.Date == "" {
			return 0, fmt.Errorf("import mood: date is required")
		}
		in, err := normalizeMoodInput(MoodInput{Date: rec.Date, Rating: rec.Rating, Notes: rec.Notes})
		if err != nil {
			return 0, fmt.Errorf("import mood %q: %w", rec.Date, err)
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return 0, nil
	}
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin mood import tx: %w", err)
	}
	for _, in := range inputs {
		if _, err := upsertMood(tx, in); err != nil {
			_ = tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit mood import: %w", err)
	}
	return len(inputs), nil
}
