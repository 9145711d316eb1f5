package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is wrapped by every lookup or delete that matches no row.
var ErrNotFound = errors.New("not found")

const (
	defaultListLimit = 50
	// NoLimit disables the row cap on list queries.
	NoLimit = -1
)

// ListFilter narrows list and review queries. Date cannot be combined with
// FromDate or ToDate; all dates are YYYY-MM-DD in local time.
type ListFilter struct {
	Date     string
	FromDate string
	ToDate   string
	Type     string
	Limit    int
}

func (f ListFilter) validate() error {
	if strings.TrimSpace(f.Date) != "" && (strings.TrimSpace(f.FromDate) != "" || strings.TrimSpace(f.ToDate) != "") {
		return fmt.Errorf("--date cannot be combined with --from or --to")
	}
	return nil
}

// timeRange appends performed_at/eaten_at style bounds on an RFC3339 column.
func (f ListFilter) timeRange(column string, query string, args []any) (string, []any, error) {
	if err := f.validate(); err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(f.Date) != "" {
		start, end, err := dayBounds(f.Date)
		if err != nil {
			return "", nil, err
		}
		query += fmt.Sprintf(` AND %s >= ? AND %s < ?`, column, column)
		args = append(args, start, end)
	}
	if strings.TrimSpace(f.FromDate) != "" {
		from, err := parseDateStart(f.FromDate)
		if err != nil {
			return "", nil, err
		}
		query += fmt.Sprintf(` AND %s >= ?`, column)
		args = append(args, from)
	}
	if strings.TrimSpace(f.ToDate) != "" {
		to, err := parseDateEndExclusive(f.ToDate)
		if err != nil {
			return "", nil, err
		}
		query += fmt.Sprintf(` AND %s < ?`, column)
		args = append(args, to)
	}
	return query, args, nil
}

func (f ListFilter) limitClause(query string, args []any) (string, []any) {
	switch {
	case f.Limit == 0:
		return query + ` LIMIT ?`, append(args, defaultListLimit)
	case f.Limit > 0:
		return query + ` LIMIT ?`, append(args, f.Limit)
	default:
		return query, args
	}
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func dayBounds(date string) (string, string, error) {
	start, err := parseDateStart(date)
	if err != nil {
		return "", "", err
	}
	end, err := parseDateEndExclusive(date)
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

func parseDateStart(value string) (string, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t.Format(time.RFC3339), nil
}

func parseDateEndExclusive(value string) (string, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t.AddDate(0, 0, 1).Format(time.RFC3339), nil
}

// isoDate validates a YYYY-MM-DD string and returns it trimmed.
func isoDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return value, nil
}

func parseStoredTime(column, raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", column, err)
	}
	return t, nil
}

func nullableString(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
