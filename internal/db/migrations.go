package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS workouts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  type TEXT NOT NULL,
  duration_min REAL NOT NULL CHECK(duration_min > 0),
  distance_km REAL CHECK(distance_km IS NULL OR distance_km > 0),
  pace_min_per_km REAL CHECK(pace_min_per_km IS NULL OR pace_min_per_km > 0),
  intensity TEXT NOT NULL DEFAULT '' CHECK(intensity IN ('', 'Low', 'Medium', 'High')),
  calories_kcal REAL NOT NULL CHECK(calories_kcal >= 0),
  performed_at DATETIME NOT NULL,
  notes TEXT,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_workouts_performed_at ON workouts(performed_at);
CREATE INDEX IF NOT EXISTS idx_workouts_type ON workouts(type);

CREATE TABLE IF NOT EXISTS meals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  eaten_at DATETIME NOT NULL,
  total_amount_g REAL NOT NULL DEFAULT 0,
  total_fat_total_g REAL NOT NULL DEFAULT 0,
  total_fat_saturated_g REAL NOT NULL DEFAULT 0,
  total_carbohydrates_total_g REAL NOT NULL DEFAULT 0,
  total_fiber_g REAL NOT NULL DEFAULT 0,
  total_sugar_g REAL NOT NULL DEFAULT 0,
  total_sodium_mg REAL NOT NULL DEFAULT 0,
  total_potassium_mg REAL NOT NULL DEFAULT 0,
  total_cholesterol_mg REAL NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_meals_eaten_at ON meals(eaten_at);

CREATE TABLE IF NOT EXISTS meal_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  meal_id INTEGER NOT NULL,
  position INTEGER NOT NULL CHECK(position >= 0),
  name TEXT NOT NULL,
  amount_g REAL NOT NULL CHECK(amount_g > 0),
  fat_total_g REAL NOT NULL DEFAULT 0,
  fat_saturated_g REAL NOT NULL DEFAULT 0,
  carbohydrates_total_g REAL NOT NULL DEFAULT 0,
  fiber_g REAL NOT NULL DEFAULT 0,
  sugar_g REAL NOT NULL DEFAULT 0,
  sodium_mg REAL NOT NULL DEFAULT 0,
  potassium_mg REAL NOT NULL DEFAULT 0,
  cholesterol_mg REAL NOT NULL DEFAULT 0,
  FOREIGN KEY(meal_id) REFERENCES meals(id) ON DELETE CASCADE,
  UNIQUE(meal_id, position)
);

CREATE TABLE IF NOT EXISTS moods (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  date TEXT NOT NULL UNIQUE,
  rating INTEGER NOT NULL CHECK(rating BETWEEN 1 AND 10),
  notes TEXT,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 2,
		name:    "nutrition_cache",
		sql: `
CREATE TABLE IF NOT EXISTS nutrition_cache (
  query_norm TEXT PRIMARY KEY,
  payload_json TEXT NOT NULL,
  fetched_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nutrition_cache_expires_at ON nutrition_cache(expires_at);
`,
	},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}
	return nil
}

// SchemaVersion reports the highest applied migration, or 0 for a fresh file.
func SchemaVersion(db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}
