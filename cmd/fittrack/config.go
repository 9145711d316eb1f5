package fittrack

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexis-sammut/fittrack/internal/service"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage settings stored in the database",
}

var (
	configBaseURL  string
	configTTLHours float64
)

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set nutrition provider settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("nutrition-base-url") && !cmd.Flags().Changed("cache-ttl-hours") {
			return fmt.Errorf("nothing to set; use --nutrition-base-url or --cache-ttl-hours")
		}
		return withDB(func(sqldb *sql.DB) error {
			if cmd.Flags().Changed("nutrition-base-url") {
				if err := service.SetConfig(sqldb, service.ConfigNutritionBaseURL, configBaseURL); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("cache-ttl-hours") {
				hours := strconv.FormatFloat(configTTLHours, 'f', -1, 64)
				if err := service.SetConfig(sqldb, service.ConfigNutritionCacheTTLHours, hours); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one or all config values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if len(args) == 1 {
				value, ok, err := service.GetConfig(sqldb, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("config %q is not set", strings.TrimSpace(args[0]))
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}
			values, err := service.ListConfig(sqldb)
			if err != nil {
				return err
			}
			for _, key := range service.ConfigKeys {
				value, ok := values[key]
				if !ok {
					value = "(default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", key, value)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd)
	configSetCmd.Flags().StringVar(&configBaseURL, "nutrition-base-url", "", "Nutrition API base URL")
	configSetCmd.Flags().Float64Var(&configTTLHours, "cache-ttl-hours", 0, "Nutrition cache lifetime in hours")
}
