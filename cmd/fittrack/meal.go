package fittrack

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/provider/ninjas"
	"github.com/alexis-sammut/fittrack/internal/service"
)

const (
	nutritionAPIKeyEnv  = "FITTRACK_NUTRITION_API_KEY"
	nutritionStatusPage = "https://api-ninjas.com/api/nutrition"
	ingredientQtySep    = ":"
	ingredientListSep   = ","
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Log meals from ingredient lookups and review nutrition",
}

var (
	mealName   string
	mealItems  string
	mealDate   string
	mealTime   string
	mealAPIKey string
	mealJSON   bool
)

var mealAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Look up ingredients, scale them and log the meal",
	Long: `Look up every ingredient with the nutrition provider, scale the per-100 g
values to the given quantity and store the meal with its totals.

Ingredients are given as name:grams, separated by commas. A missing or
invalid quantity counts as 100 g:

  fittrack meal add --name lunch --items "brown rice:150, chicken breast:120, apple"

Ingredients the provider does not know are reported and skipped. A provider
outage aborts the whole meal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		queries, err := parseIngredients(mealItems)
		if err != nil {
			return err
		}
		eatenAt, err := parseDateTimeOrNow(mealDate, mealTime)
		if err != nil {
			return err
		}
		key, err := resolveNutritionAPIKey(mealAPIKey)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			client, err := nutritionClient(sqldb, key)
			if err != nil {
				return err
			}
			outcomes := service.LookupIngredients(cmd.Context(), sqldb, client, queries)
			draft, err := engine.AssembleMeal(mealName, outcomes)
			if err != nil {
				return lookupError(cmd.ErrOrStderr(), outcomes, err)
			}
			if draft.Partial() {
				fmt.Fprint(cmd.ErrOrStderr(), draft.FailureMessage())
			}
			id, err := service.CreateMeal(sqldb, service.MealInput{Name: draft.Name, EatenAt: eatenAt, Items: draft.Items})
			if err != nil {
				return err
			}
			meal, err := service.GetMeal(sqldb, id)
			if err != nil {
				return err
			}
			view := engine.SerializeMeal(meal)
			if mealJSON {
				return printJSON(cmd, view)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added meal %d\n", id)
			printMealTable(cmd.OutOrStdout(), view)
			return nil
		})
	},
}

var (
	mealUpdateName  string
	mealUpdateItems string
	mealUpdateKey   string
)

var mealUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename a meal or replace its ingredients",
	Long: `Rename a meal with --name, replace its ingredients with --items, or both.
New ingredients are looked up and scaled like "meal add" and the stored
totals are recomputed from them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("meal id", args[0])
		if err != nil {
			return err
		}
		rename := cmd.Flags().Changed("name")
		replace := cmd.Flags().Changed("items")
		if !rename && !replace {
			return fmt.Errorf("nothing to update; set --name or --items")
		}
		var queries []service.IngredientQuery
		var key string
		if replace {
			if queries, err = parseIngredients(mealUpdateItems); err != nil {
				return err
			}
			if key, err = resolveNutritionAPIKey(mealUpdateKey); err != nil {
				return err
			}
		}
		return withDB(func(sqldb *sql.DB) error {
			var up service.MealUpdate
			if rename {
				up.Name = &mealUpdateName
			}
			if replace {
				client, err := nutritionClient(sqldb, key)
				if err != nil {
					return err
				}
				outcomes := service.LookupIngredients(cmd.Context(), sqldb, client, queries)
				draft, err := engine.AssembleMeal(mealUpdateName, outcomes)
				if err != nil {
					return lookupError(cmd.ErrOrStderr(), outcomes, err)
				}
				if draft.Partial() {
					fmt.Fprint(cmd.ErrOrStderr(), draft.FailureMessage())
				}
				up.Items = draft.Items
			}
			if err := service.UpdateMeal(sqldb, id, up); err != nil {
				return err
			}
			meal, err := service.GetMeal(sqldb, id)
			if err != nil {
				return err
			}
			view := engine.SerializeMeal(meal)
			if mealJSON {
				return printJSON(cmd, view)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated meal %d\n", id)
			printMealTable(cmd.OutOrStdout(), view)
			return nil
		})
	},
}

func lookupError(w io.Writer, outcomes []engine.LookupOutcome, err error) error {
	if errors.Is(err, engine.ErrProviderUnavailable) {
		return fmt.Errorf("%w; check the status page at %s", err, nutritionStatusPage)
	}
	if errors.Is(err, engine.ErrNothingToAggregate) {
		fmt.Fprint(w, engine.MealDraft{Failures: failedQueries(outcomes)}.FailureMessage())
	}
	return err
}

func failedQueries(outcomes []engine.LookupOutcome) []string {
	out := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil || o.Result == nil {
			out = append(out, o.Query)
		}
	}
	return out
}

// parseIngredients reads "name:grams, name:grams". The quantity is optional.
func parseIngredients(raw string) ([]service.IngredientQuery, error) {
	out := make([]service.IngredientQuery, 0)
	for _, part := range strings.Split(raw, ingredientListSep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, qty := part, ""
		if i := strings.LastIndex(part, ingredientQtySep); i >= 0 {
			name, qty = strings.TrimSpace(part[:i]), strings.TrimSpace(part[i+1:])
		}
		if name == "" {
			return nil, fmt.Errorf("ingredient %q has no name", part)
		}
		q := service.IngredientQuery{Name: name}
		if qty != "" {
			v, err := strconv.ParseFloat(strings.TrimSuffix(qty, "g"), 64)
			if err == nil {
				q.QuantityG = v
			}
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one ingredient is required (--items)")
	}
	return out, nil
}

func resolveNutritionAPIKey(flagValue string) (string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv(nutritionAPIKeyEnv)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("missing nutrition API key; set --api-key or %s", nutritionAPIKeyEnv)
}

func nutritionClient(sqldb *sql.DB, apiKey string) (*ninjas.Client, error) {
	base, _, err := service.GetConfig(sqldb, service.ConfigNutritionBaseURL)
	if err != nil {
		return nil, err
	}
	return &ninjas.Client{APIKey: apiKey, BaseURL: base}, nil
}

func printMealTable(w io.Writer, m engine.MealView) {
	fmt.Fprintf(w, "%s (%s)\n", m.Name, m.Date)
	fmt.Fprintln(w, "ITEM\tAMOUNT_G\tFAT_G\tSAT_FAT_G\tCARBS_G\tFIBER_G\tSUGAR_G\tSODIUM_MG\tPOTASSIUM_MG\tCHOLESTEROL_MG")
	row := func(name string, n engine.NutrientDisplay) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", name, n.AmountG, n.FatTotalG, n.FatSaturatedG, n.CarbohydratesTotalG, n.FiberG, n.SugarG, n.SodiumMg, n.PotassiumMg, n.CholesterolMg)
	}
	for _, it := range m.Items {
		row(it.Name, it.NutrientDisplay)
	}
	row("Total", m.TotalNutrients)
}

var (
	mealFilter   filterFlags
	mealListName string
	mealListJSON bool
)

var mealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			meals, err := service.ListMeals(sqldb, mealFilter.filter(mealListName))
			if err != nil {
				return err
			}
			views := make([]engine.MealView, 0, len(meals))
			for _, m := range meals {
				views = append(views, engine.SerializeMeal(m))
			}
			if mealListJSON {
				return printJSON(cmd, views)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tNAME\tITEMS\tAMOUNT_G\tCARBS_G\tFAT_G")
			for _, v := range views {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%d\t%s\t%s\t%s\n", v.ID, v.Date, v.Name, len(v.Items), v.TotalNutrients.AmountG, v.TotalNutrients.CarbohydratesTotalG, v.TotalNutrients.FatTotalG)
			}
			return nil
		})
	},
}

var mealShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a meal with its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("meal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			meal, err := service.GetMeal(sqldb, id)
			if err != nil {
				return err
			}
			view := engine.SerializeMeal(meal)
			if mealJSON {
				return printJSON(cmd, view)
			}
			printMealTable(cmd.OutOrStdout(), view)
			return nil
		})
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a meal and its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("meal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteMeal(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal %d\n", id)
			return nil
		})
	},
}

var (
	mealStatsFilter filterFlags
	mealStatsJSON   bool
)

var mealStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise meal nutrition totals and averages",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.MealReview(sqldb, mealStatsFilter.filter(""))
			if err != nil {
				return err
			}
			totals := engine.DisplayNutrients(report.Totals)
			avgs := engine.DisplayNutrients(report.Averages)
			if mealStatsJSON {
				return printJSON(cmd, struct {
					Count    int                    `json:"count"`
					Totals   engine.NutrientDisplay `json:"totals"`
					Averages engine.NutrientDisplay `json:"averages"`
				}{report.Count, totals, avgs})
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Meals: %d\n", report.Count)
			fmt.Fprintln(w, "NUTRIENT\tTOTAL\tAVERAGE")
			fmt.Fprintf(w, "amount_g\t%s\t%s\n", totals.AmountG, avgs.AmountG)
			fmt.Fprintf(w, "fat_total_g\t%s\t%s\n", totals.FatTotalG, avgs.FatTotalG)
			fmt.Fprintf(w, "fat_saturated_g\t%s\t%s\n", totals.FatSaturatedG, avgs.FatSaturatedG)
			fmt.Fprintf(w, "carbohydrates_total_g\t%s\t%s\n", totals.CarbohydratesTotalG, avgs.CarbohydratesTotalG)
			fmt.Fprintf(w, "fiber_g\t%s\t%s\n", totals.FiberG, avgs.FiberG)
			fmt.Fprintf(w, "sugar_g\t%s\t%s\n", totals.SugarG, avgs.SugarG)
			fmt.Fprintf(w, "sodium_mg\t%s\t%s\n", totals.SodiumMg, avgs.SodiumMg)
			fmt.Fprintf(w, "potassium_mg\t%s\t%s\n", totals.PotassiumMg, avgs.PotassiumMg)
			fmt.Fprintf(w, "cholesterol_mg\t%s\t%s\n", totals.CholesterolMg, avgs.CholesterolMg)
			return nil
		})
	},
}

var (
	mealLookupGrams float64
	mealLookupKey   string
)

var mealLookupCmd = &cobra.Command{
	Use:   "lookup <food>",
	Short: "Look up one ingredient scaled to --grams without logging",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := resolveNutritionAPIKey(mealLookupKey)
		if err != nil {
			return err
		}
		query := service.IngredientQuery{Name: strings.Join(args, " "), QuantityG: mealLookupGrams}
		return withDB(func(sqldb *sql.DB) error {
			client, err := nutritionClient(sqldb, key)
			if err != nil {
				return err
			}
			outcomes := service.LookupIngredients(cmd.Context(), sqldb, client, []service.IngredientQuery{query})
			draft, err := engine.AssembleMeal(query.Name, outcomes)
			if err != nil {
				return lookupError(cmd.ErrOrStderr(), outcomes, err)
			}
			if mealJSON {
				return printJSON(cmd, engine.DisplayNutrients(draft.Totals))
			}
			printMealTable(cmd.OutOrStdout(), engine.MealView{
				Name:           draft.Items[0].Name,
				Date:           engine.FormatDate(time.Now()),
				Items:          []engine.MealItemView{},
				TotalNutrients: engine.DisplayNutrients(draft.Totals),
			})
			return nil
		})
	},
}

var mealCachePurgeAll bool

var mealCachePurgeCmd = &cobra.Command{
	Use:   "cache-purge",
	Short: "Delete expired nutrition cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			n, err := service.PurgeNutritionCache(sqldb, mealCachePurgeAll)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d cache entr(ies)\n", n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mealCmd)
	mealCmd.AddCommand(mealAddCmd, mealUpdateCmd, mealListCmd, mealShowCmd, mealDeleteCmd, mealStatsCmd, mealLookupCmd, mealCachePurgeCmd)

	mealAddCmd.Flags().StringVar(&mealName, "name", "", "Meal name (default \""+engine.DefaultMealName+"\")")
	mealAddCmd.Flags().StringVar(&mealItems, "items", "", "Ingredients as name:grams, comma-separated")
	mealAddCmd.Flags().StringVar(&mealDate, "date", "", "Date YYYY-MM-DD")
	mealAddCmd.Flags().StringVar(&mealTime, "time", "", "Time HH:MM")
	mealAddCmd.Flags().StringVar(&mealAPIKey, "api-key", "", "Nutrition API key (or "+nutritionAPIKeyEnv+")")
	_ = mealAddCmd.MarkFlagRequired("items")
	mealUpdateCmd.Flags().StringVar(&mealUpdateName, "name", "", "New meal name")
	mealUpdateCmd.Flags().StringVar(&mealUpdateItems, "items", "", "Replacement ingredients as name:grams, comma-separated")
	mealUpdateCmd.Flags().StringVar(&mealUpdateKey, "api-key", "", "Nutrition API key (or "+nutritionAPIKeyEnv+")")
	mealLookupCmd.Flags().Float64Var(&mealLookupGrams, "grams", engine.DefaultQuantityG, "Quantity in grams")
	mealLookupCmd.Flags().StringVar(&mealLookupKey, "api-key", "", "Nutrition API key (or "+nutritionAPIKeyEnv+")")
	for _, c := range []*cobra.Command{mealAddCmd, mealUpdateCmd, mealShowCmd, mealLookupCmd} {
		c.Flags().BoolVar(&mealJSON, "json", false, "Output as JSON")
	}

	mealFilter.register(mealListCmd, true)
	mealListCmd.Flags().StringVar(&mealListName, "name", "", "Filter by meal name")
	mealListCmd.Flags().BoolVar(&mealListJSON, "json", false, "Output as JSON")

	mealStatsFilter.register(mealStatsCmd, false)
	mealStatsCmd.Flags().BoolVar(&mealStatsJSON, "json", false, "Output as JSON")

	mealCachePurgeCmd.Flags().BoolVar(&mealCachePurgeAll, "all", false, "Delete every cache entry, not only expired ones")
}
