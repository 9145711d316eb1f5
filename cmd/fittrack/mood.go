package fittrack

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/service"
)

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Log daily moods and review the average",
}

var (
	moodDate     string
	moodRating   int
	moodNotes    string
	moodDistance float64
	moodRadius   float64
)

var moodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log the mood for a day (replaces an existing one)",
	Long: `Log the mood for a day. Give the rating directly with --rating, or give
the pointer distance from the centre of the mood picker with --distance and
let the rating follow from --radius (ceil(10 * distance / radius), 1-10).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, err := moodRatingFromFlags(cmd)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.LogMood(sqldb, service.MoodInput{Date: moodDate, Rating: rating, Notes: moodNotes})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged mood %d (%d, %s)\n", id, rating, engine.MoodLabel(rating))
			return nil
		})
	},
}

var (
	moodFilter   filterFlags
	moodListJSON bool
)

var moodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List moods by date",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			moods, err := service.ListMoods(sqldb, moodFilter.filter(""))
			if err != nil {
				return err
			}
			views := make([]engine.MoodView, 0, len(moods))
			for _, m := range moods {
				views = append(views, engine.SerializeMood(m))
			}
			if moodListJSON {
				return printJSON(cmd, views)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tMOOD\tLABEL\tNOTES")
			for _, v := range views {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\t%s\t%s\n", v.ID, v.Date, v.Rating, v.Label, v.Notes)
			}
			return nil
		})
	},
}

var moodDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a mood",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("mood id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteMood(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted mood %d\n", id)
			return nil
		})
	},
}

var (
	moodStatsFilter filterFlags
	moodStatsJSON   bool
)

var moodStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the mood count and average",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			summary, err := service.MoodReview(sqldb, moodStatsFilter.filter(""))
			if err != nil {
				return err
			}
			d := summary.Display()
			if moodStatsJSON {
				return printJSON(cmd, d)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moods: %s\n", d.Total)
			if summary.Count == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Average: %s\n", d.Average)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Average: %s (%s)\n", d.Average, engine.MoodLabel(int(summary.Average+0.5)))
			return nil
		})
	},
}

var moodImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import moods from a JSON array or an object keyed by date",
	Long: `Import moods from JSON. Both shapes are accepted:

  [{"date": "2024-05-01", "mood": 7}, {"date": "2024-05-02", "mood": 4}]
  {"2024-05-01": {"mood": 7}, "2024-05-02": {"mood": 4, "notes": "rain"}}

Entries sharing a date keep the last one. The import is all-or-nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read mood file: %w", err)
		}
		src, err := engine.DecodeMoods(data)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			n, err := service.ImportMoods(sqldb, src)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d mood(s)\n", n)
			return nil
		})
	},
}

func moodRatingFromFlags(cmd *cobra.Command) (int, error) {
	byRating := cmd.Flags().Changed("rating")
	byDistance := cmd.Flags().Changed("distance")
	switch {
	case byRating && byDistance:
		return 0, fmt.Errorf("--rating and --distance cannot be combined")
	case byRating:
		return moodRating, nil
	case byDistance:
		if !(moodRadius > 0) {
			return 0, fmt.Errorf("--radius must be > 0")
		}
		if !(moodDistance >= 0) {
			return 0, fmt.Errorf("--distance must be >= 0")
		}
		return engine.RatingFromRadius(moodDistance, moodRadius), nil
	default:
		return 0, fmt.Errorf("--rating or --distance is required")
	}
}

func init() {
	rootCmd.AddCommand(moodCmd)
	moodCmd.AddCommand(moodAddCmd, moodListCmd, moodDeleteCmd, moodStatsCmd, moodImportCmd)

	moodAddCmd.Flags().StringVar(&moodDate, "date", "", "Date YYYY-MM-DD (default today)")
	moodAddCmd.Flags().IntVar(&moodRating, "rating", 0, fmt.Sprintf("Mood rating %d-%d", engine.MinMoodRating, engine.MaxMoodRating))
	moodAddCmd.Flags().StringVar(&moodNotes, "notes", "", "Optional notes")
	moodAddCmd.Flags().Float64Var(&moodDistance, "distance", 0, "Pointer distance from the picker centre")
	moodAddCmd.Flags().Float64Var(&moodRadius, "radius", 100, "Picker radius used with --distance")

	moodFilter.register(moodListCmd, true)
	moodListCmd.Flags().BoolVar(&moodListJSON, "json", false, "Output as JSON")

	moodStatsFilter.register(moodStatsCmd, false)
	moodStatsCmd.Flags().BoolVar(&moodStatsJSON, "json", false, "Output as JSON")
}
