package fittrack

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexis-sammut/fittrack/internal/service"
)

var (
	doctorFix  bool
	doctorJSON bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check stored data for inconsistencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			if doctorFix && (report.FixedMealTotals > 0 || report.PurgedCacheRows > 0) {
				fixed, purged := report.FixedMealTotals, report.PurgedCacheRows
				if report, err = service.RunDoctor(sqldb, false); err != nil {
					return err
				}
				report.FixedMealTotals, report.PurgedCacheRows = fixed, purged
			}
			if doctorJSON {
				if err := printJSON(cmd, report); err != nil {
					return err
				}
			} else {
				printDoctorReport(cmd.OutOrStdout(), report)
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found issues")
			}
			return nil
		})
	},
}

func printDoctorReport(w io.Writer, r service.DoctorReport) {
	fmt.Fprintf(w, "meal_total_mismatches\t%d\n", r.MealTotalMismatches)
	fmt.Fprintf(w, "empty_meals\t%d\n", r.EmptyMeals)
	fmt.Fprintf(w, "invalid_workouts\t%d\n", r.InvalidWorkouts)
	fmt.Fprintf(w, "unknown_workout_types\t%d\n", r.UnknownWorkoutTypes)
	fmt.Fprintf(w, "invalid_moods\t%d\n", r.InvalidMoods)
	fmt.Fprintf(w, "expired_cache_rows\t%d\n", r.ExpiredCacheRows)
	if r.FixedMealTotals > 0 || r.PurgedCacheRows > 0 {
		fmt.Fprintf(w, "fixed_meal_totals\t%d\n", r.FixedMealTotals)
		fmt.Fprintf(w, "purged_cache_rows\t%d\n", r.PurgedCacheRows)
	}
	if r.Healthy() {
		fmt.Fprintln(w, "OK")
	}
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Recompute drifted meal totals and purge expired cache rows")
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output as JSON")
}
