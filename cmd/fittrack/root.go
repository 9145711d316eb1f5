package fittrack

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fittrack",
	Short: "fittrack logs workouts, meals and moods from your terminal",
	Long:  "fittrack is a local-first tracker that derives pace, MET-based calories and meal nutrition, and summarises workouts, meals and moods.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd.ErrOrStderr())
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// configureLogging routes diagnostics to w when --verbose is set and
// discards them otherwise.
func configureLogging(w io.Writer) {
	log.SetFlags(0)
	log.SetPrefix("fittrack: ")
	if verbose {
		log.SetOutput(w)
		return
	}
	log.SetOutput(io.Discard)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (default: $FITTRACK_DB or the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log lookup and cache diagnostics to stderr")
}
