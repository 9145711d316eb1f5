package fittrack

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexis-sammut/fittrack/internal/app"
	"github.com/alexis-sammut/fittrack/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local fittrack database",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		v, err := db.SchemaVersion(sqldb)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized fittrack database at %s (schema v%d)\n", path, v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
