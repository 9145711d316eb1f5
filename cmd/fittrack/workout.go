package fittrack

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/service"
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Log and review workouts",
}

var (
	workoutType        string
	workoutDurationMin float64
	workoutDistanceKm  float64
	workoutIntensity   string
	workoutDate        string
	workoutTime        string
	workoutNotes       string
)

func workoutInput() service.WorkoutInput {
	return service.WorkoutInput{
		Type:        workoutType,
		DurationMin: workoutDurationMin,
		DistanceKm:  workoutDistanceKm,
		Intensity:   workoutIntensity,
		Notes:       workoutNotes,
	}
}

var workoutAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a workout; pace and calories are derived and stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		performedAt, err := parseDateTimeOrNow(workoutDate, workoutTime)
		if err != nil {
			return err
		}
		in := workoutInput()
		in.PerformedAt = performedAt
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateWorkout(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added workout %d\n", id)
			return nil
		})
	},
}

var workoutPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the derived pace and calories without logging",
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := service.WorkoutDraft(workoutInput())
		if err != nil {
			return err
		}
		view, err := engine.Recompute(draft)
		if err != nil {
			return err
		}
		printPreview(cmd.OutOrStdout(), draft, view)
		return nil
	},
}

func printPreview(w io.Writer, d engine.WorkoutDraft, v engine.DerivedView) {
	fmt.Fprintf(w, "Type: %s (%s-based)\n", d.Category.Name(), d.Category.Kind())
	if v.ShowPace {
		fmt.Fprintf(w, "Pace: %s min/km\n", v.PaceDisplay)
	}
	if v.ShowCalories {
		fmt.Fprintf(w, "Calories: %s\n", v.CaloriesDisplay)
		return
	}
	if v.ShowDistance {
		fmt.Fprintln(w, "Enter --duration-min and --distance-km to see calories.")
		return
	}
	fmt.Fprintln(w, "Enter --duration-min and --intensity to see calories.")
}

var (
	workoutFilter   filterFlags
	workoutListType string
	workoutListJSON bool
)

var workoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListWorkouts(sqldb, workoutFilter.filter(workoutListType))
			if err != nil {
				return err
			}
			views := make([]engine.WorkoutView, 0, len(items))
			for _, item := range items {
				views = append(views, engine.SerializeWorkout(item))
			}
			if workoutListJSON {
				return printJSON(cmd, views)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tTYPE\tDURATION_MIN\tDISTANCE_KM\tPACE\tINTENSITY\tKCAL")
			for _, v := range views {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", v.ID, v.Date, v.Type, v.DurationMin, v.DistanceKm, v.Pace, v.Intensity, v.Calories)
			}
			return nil
		})
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("workout id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteWorkout(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted workout %d\n", id)
			return nil
		})
	},
}

var (
	workoutStatsFilter filterFlags
	workoutStatsJSON   bool
)

var workoutStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise workouts overall and per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.WorkoutReview(sqldb, workoutStatsFilter.filter(""))
			if err != nil {
				return err
			}
			if workoutStatsJSON {
				return printJSON(cmd, workoutStatsOutput(report))
			}
			printWorkoutStats(cmd.OutOrStdout(), report)
			return nil
		})
	},
}

type workoutStatsJSONOutput struct {
	Overall    engine.OverallDisplay    `json:"overall"`
	Categories []engine.CategoryDisplay `json:"categories"`
	Unknown    int                      `json:"unknown"`
}

func workoutStatsOutput(r engine.WorkoutReport) workoutStatsJSONOutput {
	out := workoutStatsJSONOutput{Overall: r.Overall.Display(), Unknown: r.Unknown}
	for _, s := range r.Ordered() {
		out.Categories = append(out.Categories, s.Display())
	}
	return out
}

func printWorkoutStats(w io.Writer, r engine.WorkoutReport) {
	o := r.Overall.Display()
	fmt.Fprintf(w, "Workouts: %s\n", o.Count)
	fmt.Fprintf(w, "Total: %s kcal, %s min\n", o.TotalCalories, o.TotalMinutes)
	fmt.Fprintf(w, "Average: %s kcal, %s min\n", o.AverageCalories, o.AverageMinutes)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "CATEGORY\tCOUNT\tAVG_KCAL\tAVG_MIN\tAVG_KM\tAVG_PACE\tINTENSITY")
	for _, s := range r.Ordered() {
		d := s.Display()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", d.Category, d.Count, d.AverageCalories, d.AverageMinutes, d.AverageDistance, d.AveragePace, d.Intensity)
	}
	if r.Unknown > 0 {
		fmt.Fprintf(w, "Unknown type: %d\n", r.Unknown)
	}
}

func categoryHelp() string {
	names := ""
	for i, c := range engine.Categories() {
		if i > 0 {
			names += ", "
		}
		names += c.Slug()
	}
	return names
}

func init() {
	rootCmd.AddCommand(workoutCmd)
	workoutCmd.AddCommand(workoutAddCmd, workoutPreviewCmd, workoutListCmd, workoutDeleteCmd, workoutStatsCmd)

	for _, c := range []*cobra.Command{workoutAddCmd, workoutPreviewCmd} {
		c.Flags().StringVar(&workoutType, "type", "", "Workout type ("+categoryHelp()+")")
		c.Flags().Float64Var(&workoutDurationMin, "duration-min", 0, "Duration in minutes")
		c.Flags().Float64Var(&workoutDistanceKm, "distance-km", 0, "Distance in km (running, walking, cycling)")
		c.Flags().StringVar(&workoutIntensity, "intensity", "", "Intensity: low, medium or high (other types)")
		_ = c.MarkFlagRequired("type")
	}
	workoutAddCmd.Flags().StringVar(&workoutDate, "date", "", "Date YYYY-MM-DD")
	workoutAddCmd.Flags().StringVar(&workoutTime, "time", "", "Time HH:MM")
	workoutAddCmd.Flags().StringVar(&workoutNotes, "notes", "", "Optional notes")

	workoutFilter.register(workoutListCmd, true)
	workoutListCmd.Flags().StringVar(&workoutListType, "type", "", "Filter by workout type")
	workoutListCmd.Flags().BoolVar(&workoutListJSON, "json", false, "Output as JSON")

	workoutStatsFilter.register(workoutStatsCmd, false)
	workoutStatsCmd.Flags().BoolVar(&workoutStatsJSON, "json", false, "Output as JSON")
}
