package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	appDirName = "fittrack"
	dbFileName = "fittrack.db"

	// DBPathEnv overrides the default database location when --db is not set.
	DBPathEnv = "FITTRACK_DB"
)

func DefaultDBPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, dbFileName), nil
}

// ResolveDBPath picks the database path: explicit flag, then FITTRACK_DB,
// then the per-user default.
func ResolveDBPath(flagValue string) (string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv(DBPathEnv)); v != "" {
		return v, nil
	}
	return DefaultDBPath()
}

func EnsureDBDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}
