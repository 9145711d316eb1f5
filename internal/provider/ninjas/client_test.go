package ninjas

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupNutritionParsesFirstItem(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/nutrition" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "brown rice" {
			t.Errorf("unexpected query %q", got)
		}
		if got := r.Header.Get("X-Api-Key"); got != "demo" {
			t.Errorf("unexpected api key %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
  {"name": "brown rice", "calories": "Only available for premium subscribers.", "serving_size_g": 100,
   "fat_total_g": 0.9, "fat_saturated_g": 0.2, "carbohydrates_total_g": 23.1, "fiber_g": 1.8,
   "sugar_g": 0.4, "sodium_mg": 4, "potassium_mg": 79, "cholesterol_mg": 0},
  {"name": "ignored", "fat_total_g": 99}
]`))
	}))
	defer ts.Close()

	c := &Client{APIKey: "demo", BaseURL: ts.URL, HTTPClient: ts.Client()}
	item, raw, err := c.LookupNutrition(context.Background(), " brown rice ")
	if err != nil {
		t.Fatalf("lookup nutrition: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("expected raw body to be returned")
	}
	if item.Name != "brown rice" || item.CarbohydratesTotalG != 23.1 || item.PotassiumMg != 79 {
		t.Fatalf("unexpected nutrition: %+v", item)
	}
}

func TestLookupNutritionEmptyResultIsNoMatch(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c := &Client{APIKey: "demo", BaseURL: ts.URL, HTTPClient: ts.Client()}
	_, _, err := c.LookupNutrition(context.Background(), "xyzzy")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestLookupNutritionServiceDown(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "error body", status: http.StatusOK, body: `{"error": "The API is down for maintenance"}`},
		{name: "server error", status: http.StatusBadGateway, body: `bad gateway`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			c := &Client{APIKey: "demo", BaseURL: ts.URL, HTTPClient: ts.Client()}
			_, _, err := c.LookupNutrition(context.Background(), "apple")
			if !errors.Is(err, ErrServiceDown) {
				t.Fatalf("expected ErrServiceDown, got %v", err)
			}
		})
	}
}

func TestLookupNutritionOtherErrorIsNotOutage(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Invalid API Key."}`))
	}))
	defer ts.Close()

	c := &Client{APIKey: "wrong", BaseURL: ts.URL, HTTPClient: ts.Client()}
	_, _, err := c.LookupNutrition(context.Background(), "apple")
	if err == nil || errors.Is(err, ErrServiceDown) || errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected plain lookup error, got %v", err)
	}
}

func TestLookupNutritionRequiresKey(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if _, _, err := c.LookupNutrition(context.Background(), "apple"); err == nil {
		t.Fatalf("expected missing api key error")
	}
}
