package service

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	ConfigNutritionBaseURL       = "nutrition_base_url"
	ConfigNutritionCacheTTLHours = "nutrition_cache_ttl_hours"
)

// ConfigKeys lists the keys SetConfig accepts.
var ConfigKeys = []string{ConfigNutritionBaseURL, ConfigNutritionCacheTTLHours}

func SetConfig(db *sql.DB, key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	if err := validateConfig(key, strings.TrimSpace(value)); err != nil {
		return err
	}
	_, err := db.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

func GetConfig(db *sql.DB, key string) (string, bool, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return "", false, fmt.Errorf("config key is required")
	}
	var value string
	err := db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

func ListConfig(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}

func validateConfig(key, value string) error {
	switch key {
	case ConfigNutritionBaseURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an http(s) URL", key)
		}
	case ConfigNutritionCacheTTLHours:
		hours, err := strconv.ParseFloat(value, 64)
		if err != nil || !(hours > 0) {
			return fmt.Errorf("%s must be a positive number of hours", key)
		}
	default:
		return fmt.Errorf("unknown config key %q (use %s)", key, strings.Join(ConfigKeys, ", "))
	}
	return nil
}
