package ninjas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.api-ninjas.com"

var (
	// ErrNoMatch means the provider answered but knows no food by that name.
	ErrNoMatch = errors.New("no nutrition data found")
	// ErrServiceDown means the provider itself is unavailable. Callers should
	// stop looking up further ingredients.
	ErrServiceDown = errors.New("nutrition service is down")
)

// Nutrition is one per-100g answer. Values the plan does not expose come
// back as zero.
type Nutrition struct {
	Name                string
	FatTotalG           float64
	FatSaturatedG       float64
	CarbohydratesTotalG float64
	FiberG              float64
	SugarG              float64
	SodiumMg            float64
	PotassiumMg         float64
	CholesterolMg       float64
}

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) LookupNutrition(ctx context.Context, query string) (Nutrition, []byte, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Nutrition{}, nil, fmt.Errorf("nutrition query is required")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return Nutrition{}, nil, fmt.Errorf("nutrition api key is required")
	}
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	u := fmt.Sprintf("%s/v1/nutrition?query=%s", base, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Nutrition{}, nil, fmt.Errorf("create nutrition request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Nutrition{}, nil, fmt.Errorf("execute nutrition request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Nutrition{}, nil, fmt.Errorf("read nutrition response: %w", err)
	}

	if msg := errorMessage(body); msg != "" {
		if strings.Contains(strings.ToLower(msg), "down") {
			return Nutrition{}, body, fmt.Errorf("%w: %s", ErrServiceDown, msg)
		}
		return Nutrition{}, body, fmt.Errorf("nutrition request for %q failed: %s", query, msg)
	}
	if resp.StatusCode >= 500 {
		return Nutrition{}, body, fmt.Errorf("%w: status %d", ErrServiceDown, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Nutrition{}, body, fmt.Errorf("nutrition request failed with status %d", resp.StatusCode)
	}

	var items []nutritionItem
	if err := json.Unmarshal(body, &items); err != nil {
		return Nutrition{}, body, fmt.Errorf("decode nutrition response: %w", err)
	}
	if len(items) == 0 {
		return Nutrition{}, body, fmt.Errorf("%w for %q", ErrNoMatch, query)
	}
	first := items[0]
	return Nutrition{
		Name:                strings.TrimSpace(first.Name),
		FatTotalG:           float64(first.FatTotalG),
		FatSaturatedG:       float64(first.FatSaturatedG),
		CarbohydratesTotalG: float64(first.CarbohydratesTotalG),
		FiberG:              float64(first.FiberG),
		SugarG:              float64(first.SugarG),
		SodiumMg:            float64(first.SodiumMg),
		PotassiumMg:         float64(first.PotassiumMg),
		CholesterolMg:       float64(first.CholesterolMg),
	}, body, nil
}

func errorMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &e); err != nil {
		return ""
	}
	return strings.TrimSpace(e.Error)
}

type nutritionItem struct {
	Name                string `json:"name"`
	FatTotalG           number `json:"fat_total_g"`
	FatSaturatedG       number `json:"fat_saturated_g"`
	CarbohydratesTotalG number `json:"carbohydrates_total_g"`
	FiberG              number `json:"fiber_g"`
	SugarG              number `json:"sugar_g"`
	SodiumMg            number `json:"sodium_mg"`
	PotassiumMg         number `json:"potassium_mg"`
	CholesterolMg       number `json:"cholesterol_mg"`
}

// number accepts a JSON number or a numeric string. Any other string (the
// free tier sends "Only available for premium subscribers.") reads as zero.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = number(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = number(v)
	return nil
}
