package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/model"
	"github.com/alexis-sammut/fittrack/internal/provider/ninjas"
)

const defaultNutritionCacheTTL = 7 * 24 * time.Hour

// NutritionLookup is satisfied by *ninjas.Client.
type NutritionLookup interface {
	LookupNutrition(ctx context.Context, query string) (ninjas.Nutrition, []byte, error)
}

type IngredientQuery struct {
	Name      string
	QuantityG float64
}

type cachedNutrition struct {
	Name    string                `json:"name"`
	Per100g model.NutrientProfile `json:"per_100g"`
}

// LookupIngredients resolves each ingredient in order, from the cache when
// a fresh entry exists and from the provider otherwise. A provider outage
// ends the run: the returned slice stops at the failing ingredient, whose
// error wraps engine.ErrProviderUnavailable.
func LookupIngredients(ctx context.Context, db *sql.DB, client NutritionLookup, queries []IngredientQuery) []engine.LookupOutcome {
	ttl := NutritionCacheTTL(db)
	out := make([]engine.LookupOutcome, 0, len(queries))
	for _, q := range queries {
		name := strings.TrimSpace(q.Name)
		outcome := engine.LookupOutcome{Query: name, QuantityG: q.QuantityG}
		if name == "" {
			outcome.Err = fmt.Errorf("ingredient name is required")
			out = append(out, outcome)
			continue
		}
		if err := ctx.Err(); err != nil {
			outcome.Err = fmt.Errorf("%w: %v", engine.ErrProviderUnavailable, err)
			return append(out, outcome)
		}

		if cached, ok, err := readNutritionCache(db, name); err != nil {
			log.Printf("nutrition cache read %q: %v", name, err)
		} else if ok {
			log.Printf("nutrition cache hit %q", name)
			outcome.Result = &engine.LookupResult{Name: cached.Name, Per100g: cached.Per100g}
			out = append(out, outcome)
			continue
		}

		if client == nil {
			outcome.Err = fmt.Errorf("%w: no nutrition provider configured", engine.ErrProviderUnavailable)
			return append(out, outcome)
		}
		item, _, err := client.LookupNutrition(ctx, name)
		if err != nil {
			if errors.Is(err, ninjas.ErrServiceDown) {
				outcome.Err = fmt.Errorf("%w: %v", engine.ErrProviderUnavailable, err)
				return append(out, outcome)
			}
			log.Printf("nutrition lookup %q: %v", name, err)
			outcome.Err = err
			out = append(out, outcome)
			continue
		}

		per100g := per100gProfile(item)
		if err := upsertNutritionCache(db, name, cachedNutrition{Name: item.Name, Per100g: per100g}, time.Now().Add(ttl)); err != nil {
			log.Printf("nutrition cache write %q: %v", name, err)
		}
		outcome.Result = &engine.LookupResult{Name: item.Name, Per100g: per100g}
		out = append(out, outcome)
	}
	return out
}

func per100gProfile(n ninjas.Nutrition) model.NutrientProfile {
	return model.NutrientProfile{
		AmountG:             engine.DefaultQuantityG,
		FatTotalG:           n.FatTotalG,
		FatSaturatedG:       n.FatSaturatedG,
		CarbohydratesTotalG: n.CarbohydratesTotalG,
		FiberG:              n.FiberG,
		SugarG:              n.SugarG,
		SodiumMg:            n.SodiumMg,
		PotassiumMg:         n.PotassiumMg,
		CholesterolMg:       n.CholesterolMg,
	}
}

// NutritionCacheTTL reads nutrition_cache_ttl_hours, falling back to seven
// days when unset or invalid.
func NutritionCacheTTL(db *sql.DB) time.Duration {
	raw, ok, err := GetConfig(db, ConfigNutritionCacheTTLHours)
	if err != nil || !ok {
		return defaultNutritionCacheTTL
	}
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(hours > 0) {
		return defaultNutritionCacheTTL
	}
	return time.Duration(hours * float64(time.Hour))
}

func readNutritionCache(db *sql.DB, query string) (cachedNutrition, bool, error) {
	var raw, expiresAtRaw string
	err := db.QueryRow(`SELECT payload_json, expires_at FROM nutrition_cache WHERE query_norm = ?`, normalizeName(query)).Scan(&raw, &expiresAtRaw)
	if err == sql.ErrNoRows {
		return cachedNutrition{}, false, nil
	}
	if err != nil {
		return cachedNutrition{}, false, fmt.Errorf("lookup nutrition cache: %w", err)
	}
	expiresAt, err := time.Parse(time.RFC3339, expiresAtRaw)
	if err != nil {
		return cachedNutrition{}, false, fmt.Errorf("parse nutrition cache expiry: %w", err)
	}
	if time.Now().After(expiresAt) {
		return cachedNutrition{}, false, nil
	}
	var item cachedNutrition
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return cachedNutrition{}, false, fmt.Errorf("decode nutrition cache: %w", err)
	}
	return item, true, nil
}

func upsertNutritionCache(db *sql.DB, query string, item cachedNutrition, expiresAt time.Time) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode nutrition cache: %w", err)
	}
	_, err = db.Exec(`
INSERT INTO nutrition_cache(query_norm, payload_json, fetched_at, expires_at)
VALUES(?, ?, ?, ?)
ON CONFLICT(query_norm) DO UPDATE SET
  payload_json=excluded.payload_json,
  fetched_at=excluded.fetched_at,
  expires_at=excluded.expires_at
`, normalizeName(query), string(payload), time.Now().Format(time.RFC3339), expiresAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert nutrition cache: %w", err)
	}
	return nil
}

// PurgeNutritionCache deletes expired entries, or every entry when all is set.
func PurgeNutritionCache(db *sql.DB, all bool) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if all {
		res, err = db.Exec(`DELETE FROM nutrition_cache`)
	} else {
		res, err = db.Exec(`DELETE FROM nutrition_cache WHERE expires_at < ?`, time.Now().Format(time.RFC3339))
	}
	if err != nil {
		return 0, fmt.Errorf("purge nutrition cache: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("nutrition cache rows affected: %w", err)
	}
	return affected, nil
}
