package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/provider/ninjas"
	"github.com/alexis-sammut/fittrack/internal/service"
)

type fakeLookup struct {
	items map[string]ninjas.Nutrition
	down  map[string]bool
	calls map[string]int
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		items: map[string]ninjas.Nutrition{
			"apple": {Name: "apple", CarbohydratesTotalG: 13.8, SugarG: 10.4, PotassiumMg: 107},
			"rice":  {Name: "rice", CarbohydratesTotalG: 28.4, FatTotalG: 0.4, PotassiumMg: 43},
		},
		down:  map[string]bool{},
		calls: map[string]int{},
	}
}

func (f *fakeLookup) LookupNutrition(_ context.Context, query string) (ninjas.Nutrition, []byte, error) {
	f.calls[query]++
	if f.down[query] {
		return ninjas.Nutrition{}, nil, fmt.Errorf("%w: maintenance", ninjas.ErrServiceDown)
	}
	item, ok := f.items[query]
	if !ok {
		return ninjas.Nutrition{}, []byte(`[]`), fmt.Errorf("%w for %q", ninjas.ErrNoMatch, query)
	}
	return item, []byte(`[{}]`), nil
}

func TestLookupIngredientsPartialAndCached(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	client := newFakeLookup()
	queries := []service.IngredientQuery{
		{Name: "apple", QuantityG: 200},
		{Name: "xyzzy", QuantityG: 50},
		{Name: "rice", QuantityG: 0},
	}
	outcomes := service.LookupIngredients(context.Background(), db, client, queries)
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}

	draft, err := engine.AssembleMeal("lunch", outcomes)
	if err != nil {
		t.Fatalf("assemble meal: %v", err)
	}
	if len(draft.Items) != 2 || len(draft.Failures) != 1 || draft.Failures[0] != "xyzzy" {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	if draft.Items[0].Nutrients.AmountG != 200 || draft.Items[0].Nutrients.PotassiumMg != 214 {
		t.Fatalf("expected apple scaled to 200 g, got %+v", draft.Items[0].Nutrients)
	}
	if draft.Items[1].Nutrients.AmountG != 100 {
		t.Fatalf("expected rice to default to 100 g, got %+v", draft.Items[1].Nutrients)
	}

	_ = service.LookupIngredients(context.Background(), db, client, queries)
	if client.calls["apple"] != 1 || client.calls["rice"] != 1 {
		t.Fatalf("expected cached lookups on second run, got calls %+v", client.calls)
	}
	if client.calls["xyzzy"] != 2 {
		t.Fatalf("expected misses not to be cached, got %d calls", client.calls["xyzzy"])
	}
}

func TestLookupIngredientsStopsOnOutage(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	client := newFakeLookup()
	client.down["rice"] = true
	outcomes := service.LookupIngredients(context.Background(), db, client, []service.IngredientQuery{
		{Name: "apple", QuantityG: 100},
		{Name: "rice", QuantityG: 100},
		{Name: "banana", QuantityG: 100},
	})
	if len(outcomes) != 2 {
		t.Fatalf("expected lookup to stop at the outage, got %d outcomes", len(outcomes))
	}
	if client.calls["banana"] != 0 {
		t.Fatalf("expected no lookup after outage")
	}
	if _, err := engine.AssembleMeal("lunch", outcomes); !errors.Is(err, engine.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestLookupIngredientsRefreshesExpiredCache(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	past := time.Now().Add(-48 * time.Hour).Format(time.RFC3339)
	if _, err := db.Exec(`INSERT INTO nutrition_cache(query_norm, payload_json, fetched_at, expires_at) VALUES('apple', '{"name":"stale"}', ?, ?)`, past, past); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	client := newFakeLookup()
	outcomes := service.LookupIngredients(context.Background(), db, client, []service.IngredientQuery{{Name: "apple", QuantityG: 100}})
	if client.calls["apple"] != 1 {
		t.Fatalf("expected expired entry to trigger a live lookup, got %+v", client.calls)
	}
	if outcomes[0].Result == nil || outcomes[0].Result.Name != "apple" {
		t.Fatalf("expected fresh result, got %+v", outcomes[0])
	}

	purged, err := service.PurgeNutritionCache(db, true)
	if err != nil {
		t.Fatalf("purge cache: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected 1 purged row, got %d", purged)
	}
}

func TestLookupIngredientsCancelledContext(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes := service.LookupIngredients(ctx, db, newFakeLookup(), []service.IngredientQuery{{Name: "apple"}, {Name: "rice"}})
	if len(outcomes) != 1 || !errors.Is(outcomes[0].Err, engine.ErrProviderUnavailable) {
		t.Fatalf("expected a single terminal outcome, got %+v", outcomes)
	}
}

func TestNutritionCacheTTLFromConfig(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if got := service.NutritionCacheTTL(db); got != 7*24*time.Hour {
		t.Fatalf("expected default ttl of 7 days, got %s", got)
	}
	if err := service.SetConfig(db, service.ConfigNutritionCacheTTLHours, "12"); err != nil {
		t.Fatalf("set ttl: %v", err)
	}
	if got := service.NutritionCacheTTL(db); got != 12*time.Hour {
		t.Fatalf("expected 12h ttl, got %s", got)
	}
}
