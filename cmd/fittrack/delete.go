package fittrack

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/service"
)

var (
	deleteRequest string
	deleteType    string
	deleteID      int64
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a workout, meal or mood from a delete request",
	Long: `Delete one logged item and print the result as JSON.

The request is either given whole:

  fittrack delete --request '{"item_type": "meal", "item_id": 3}'

or through --type and --id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildDeleteRequest()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			result := service.DeleteItem(sqldb, req)
			b, err := json.Marshal(result)
			if err != nil {
				return fmt.Errorf("marshal delete result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			if !result.Success {
				return fmt.Errorf("delete %s %d failed: %s", req.ItemType, req.ItemID, result.Message)
			}
			return nil
		})
	},
}

func buildDeleteRequest() (engine.DeleteRequest, error) {
	if raw := strings.TrimSpace(deleteRequest); raw != "" {
		if deleteType != "" || deleteID != 0 {
			return engine.DeleteRequest{}, fmt.Errorf("use either --request or --type/--id")
		}
		return engine.ParseDeleteRequest([]byte(raw))
	}
	req := engine.DeleteRequest{ItemType: strings.ToLower(strings.TrimSpace(deleteType)), ItemID: deleteID}
	if err := req.Validate(); err != nil {
		return engine.DeleteRequest{}, err
	}
	return req, nil
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().StringVar(&deleteRequest, "request", "", `JSON delete request {"item_type": ..., "item_id": ...}`)
	deleteCmd.Flags().StringVar(&deleteType, "type", "", "Item type: workout, meal or mood")
	deleteCmd.Flags().Int64Var(&deleteID, "id", 0, "Item id")
}
