package fittrack

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexis-sammut/fittrack/internal/app"
	"github.com/alexis-sammut/fittrack/internal/db"
	"github.com/alexis-sammut/fittrack/internal/service"
)

func withDB(run func(*sql.DB) error) error {
	path, err := app.ResolveDBPath(dbPath)
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func parseDateTimeOrNow(date, timeStr string) (time.Time, error) {
	date = strings.TrimSpace(date)
	timeStr = strings.TrimSpace(timeStr)
	if date == "" && timeStr == "" {
		return time.Now(), nil
	}
	if date == "" {
		return time.Time{}, fmt.Errorf("--date is required when --time is set")
	}
	if timeStr == "" {
		t, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
		}
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date/--time (expected YYYY-MM-DD and HH:MM)")
	}
	return t, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

// filterFlags are the shared --date/--from/--to/--limit flags of list,
// stats and report commands.
type filterFlags struct {
	date  string
	from  string
	to    string
	limit int
}

func (f *filterFlags) register(c *cobra.Command, withLimit bool) {
	c.Flags().StringVar(&f.date, "date", "", "Filter by date YYYY-MM-DD")
	c.Flags().StringVar(&f.from, "from", "", "Filter from date YYYY-MM-DD")
	c.Flags().StringVar(&f.to, "to", "", "Filter to date YYYY-MM-DD (inclusive)")
	if withLimit {
		c.Flags().IntVar(&f.limit, "limit", 50, "Result limit")
	}
}

func (f filterFlags) filter(typ string) service.ListFilter {
	return service.ListFilter{
		Date:     strings.TrimSpace(f.date),
		FromDate: strings.TrimSpace(f.from),
		ToDate:   strings.TrimSpace(f.to),
		Type:     strings.TrimSpace(typ),
		Limit:    f.limit,
	}
}
