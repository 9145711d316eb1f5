package fittrack

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexis-sammut/fittrack/internal/report"
	"github.com/alexis-sammut/fittrack/internal/service"
)

var (
	reportFilter filterFlags
	reportHTML   bool
	reportJSON   bool
	reportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a workout, meal and mood review as Markdown or HTML",
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportHTML && reportJSON {
			return fmt.Errorf("use either --html or --json")
		}
		return withDB(func(sqldb *sql.DB) error {
			review, err := service.BuildReview(sqldb, reportFilter.filter(""))
			if err != nil {
				return err
			}
			if reportJSON {
				return printJSON(cmd, review)
			}
			out := report.Markdown(review)
			if reportHTML {
				if out, err = report.HTML(review); err != nil {
					return err
				}
			}
			if path := strings.TrimSpace(reportOut); path != "" {
				if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote report to %s\n", path)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportFilter.register(reportCmd, false)
	reportCmd.Flags().BoolVar(&reportHTML, "html", false, "Render sanitized HTML instead of Markdown")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Output the raw review as JSON")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Write the report to a file")
}
