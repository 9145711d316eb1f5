package fittrack

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexis-sammut/fittrack/internal/service"
)

var (
	exportFormat string
	exportOut    string
	importFormat string
	importIn     string
	importMode   string
	importDryRun bool
)

var workoutCSVHeader = []string{"type", "duration_min", "distance_km", "pace_min_per_km", "intensity", "calories_kcal", "performed_at", "notes"}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export local data (json snapshot or workouts csv)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(exportOut) == "" {
			return fmt.Errorf("--out is required")
		}
		return withDB(func(sqldb *sql.DB) error {
			data, err := service.ExportDataSnapshot(sqldb)
			if err != nil {
				return err
			}
			switch strings.ToLower(strings.TrimSpace(exportFormat)) {
			case "json":
				b, err := json.MarshalIndent(data, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal export json: %w", err)
				}
				if err := os.WriteFile(exportOut, b, 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
			case "csv":
				f, err := os.Create(exportOut)
				if err != nil {
					return fmt.Errorf("create export csv: %w", err)
				}
				defer f.Close()
				if err := writeWorkoutCSV(f, data.Workouts); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported --format %q (use json or csv)", exportFormat)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported data to %s\n", exportOut)
			return nil
		})
	},
}

func writeWorkoutCSV(out io.Writer, workouts []service.ExportWorkout) error {
	w := csv.NewWriter(out)
	if err := w.Write(workoutCSVHeader); err != nil {
		return fmt.Errorf("write export csv header: %w", err)
	}
	for _, wk := range workouts {
		record := []string{
			wk.Type,
			strconv.FormatFloat(wk.DurationMin, 'f', -1, 64),
			optionalFloat(wk.DistanceKm),
			optionalFloat(wk.PaceMinPerKm),
			wk.Intensity,
			strconv.FormatFloat(wk.CaloriesKcal, 'f', -1, 64),
			wk.PerformedAt,
			wk.Notes,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write export csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export csv: %w", err)
	}
	return nil
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import local data (json snapshot or workouts csv)",
	Long: `Import a JSON snapshot written by "fittrack export", or a workouts CSV.

CSV rows are logged like "workout add": pace and calories are derived again
from type, duration, distance and intensity. The pace and calorie columns of
an exported CSV are ignored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(importIn) == "" {
			return fmt.Errorf("--in is required")
		}
		mode, err := service.ParseImportMode(importMode)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			switch strings.ToLower(strings.TrimSpace(importFormat)) {
			case "json":
				raw, err := os.ReadFile(importIn)
				if err != nil {
					return fmt.Errorf("read import file: %w", err)
				}
				var payload service.ExportData
				if err := json.Unmarshal(raw, &payload); err != nil {
					return fmt.Errorf("parse import json: %w", err)
				}
				report, err := service.ImportDataSnapshotWithOptions(sqldb, &payload, service.ImportOptions{Mode: mode, DryRun: importDryRun})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Import report: inserted=%d updated=%d skipped=%d conflicts=%d\n", report.Inserted, report.Updated, report.Skipped, report.Conflicts)
				for _, w := range report.Warnings {
					fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
				}
			case "csv":
				inputs, err := readWorkoutCSV(importIn)
				if err != nil {
					return err
				}
				if !importDryRun {
					for i, in := range inputs {
						if _, err := service.CreateWorkout(sqldb, in); err != nil {
							return fmt.Errorf("import csv row %d: %w", i+2, err)
						}
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Import report: workouts=%d\n", len(inputs))
			default:
				return fmt.Errorf("unsupported --format %q (use json or csv)", importFormat)
			}
			if importDryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Dry-run import validated %s\n", importIn)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported data from %s\n", importIn)
			return nil
		})
	},
}

func readWorkoutCSV(path string) ([]service.WorkoutInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import csv: %w", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read import csv: %w", err)
	}
	if len(records) <= 1 {
		return nil, fmt.Errorf("import csv contains no data rows")
	}
	out := make([]service.WorkoutInput, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		row := records[i]
		if len(row) != len(workoutCSVHeader) {
			return nil, fmt.Errorf("csv row %d has %d columns, expected %d", i+1, len(row), len(workoutCSVHeader))
		}
		duration, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv row %d duration_min: invalid number %q", i+1, row[1])
		}
		distance := 0.0
		if v := strings.TrimSpace(row[2]); v != "" {
			if distance, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("csv row %d distance_km: invalid number %q", i+1, row[2])
			}
		}
		performed, err := parseCSVTime(strings.TrimSpace(row[6]))
		if err != nil {
			return nil, fmt.Errorf("csv row %d performed_at: %w", i+1, err)
		}
		out = append(out, service.WorkoutInput{
			Type:        row[0],
			DurationMin: duration,
			DistanceKm:  distance,
			Intensity:   row[4],
			PerformedAt: performed,
			Notes:       row[7],
		})
	}
	return out, nil
}

func parseCSVTime(value string) (t time.Time, err error) {
	layouts := []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04"}
	for _, l := range layouts {
		t, err = time.ParseInLocation(l, value, time.Local)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json or csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path")
	importCmd.Flags().StringVar(&importFormat, "format", "json", "Import format: json or csv")
	importCmd.Flags().StringVar(&importIn, "in", "", "Input file path")
	importCmd.Flags().StringVar(&importMode, "mode", "merge", "Import mode for JSON: fail|skip|merge|replace")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate and report without writing data")
}
