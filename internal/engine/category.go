package engine

import (
	"strings"

	"github.com/alexis-sammut/fittrack/internal/model"
)

type Kind int

const (
	DistanceBased Kind = iota + 1
	IntensityBased
)

func (k Kind) String() string {
	switch k {
	case DistanceBased:
		return "distance"
	case IntensityBased:
		return "intensity"
	default:
		return "unknown"
	}
}

// Category is one of the fixed workout categories. Every category carries
// its own MET model, so a category without a table cannot be constructed
// outside this package.
type Category struct {
	name string
	slug string
	met  metModel
}

func (c *Category) Name() string { return c.name }

// Slug is the short identifier used for per-category report keys.
func (c *Category) Slug() string { return c.slug }

func (c *Category) Kind() Kind { return c.met.kind() }

func (c *Category) String() string { return c.name }

var (
	Running = &Category{name: "Running", slug: "runs", met: speedBrackets{
		{minKmh: 13.0, met: 13.5},
		{minKmh: 11.4, met: 11.65},
		{minKmh: 9.8, met: 10.5},
		{minKmh: 8.1, met: 9.15},
		{minKmh: 6.0, met: 7.15},
		{met: 5.0, fallback: true},
	}}
	Walking = &Category{name: "Walking", slug: "walks", met: speedBrackets{
		{minKmh: 6.4, exclusive: true, met: 6.75},
		{minKmh: 5.7, met: 5.25},
		{minKmh: 4.9, met: 4.4},
		{minKmh: 4.1, met: 3.55},
		{minKmh: 3.2, met: 2.9},
		{met: 2.25, fallback: true},
	}}
	Cycling = &Category{name: "Cycling", slug: "cycles", met: speedBrackets{
		{minKmh: 30, exclusive: true, met: 14.0},
		{minKmh: 24, met: 10.0},
		{minKmh: 19, met: 8.0},
		{minKmh: 16, met: 6.0},
		{met: 4.0, fallback: true},
	}}
	Rowing           = &Category{name: "Rowing", slug: "rowing", met: intensityTable{4, 6, 8}}
	Swimming         = &Category{name: "Swimming", slug: "swims", met: intensityTable{5, 7, 9}}
	Hiking           = &Category{name: "Hiking", slug: "hikes", met: intensityTable{3.5, 5, 6.5}}
	Yoga             = &Category{name: "Yoga", slug: "yoga", met: mindBodyTable}
	Pilates          = &Category{name: "Pilates", slug: "pilates", met: mindBodyTable}
	HIIT             = &Category{name: "HIIT", slug: "hiits", met: intensityTable{8, 10, 12}}
	StrengthTraining = &Category{name: "Strength Training", slug: "strength", met: intensityTable{3, 5, 6}}
)

// Yoga and Pilates share one table.
var mindBodyTable = intensityTable{2.5, 3.5, 4.5}

var catalog = []*Category{
	Running, Walking, Cycling,
	Rowing, Swimming, Hiking, Yoga, Pilates, HIIT, StrengthTraining,
}

var categoryIndex = buildCategoryIndex()

func buildCategoryIndex() map[string]*Category {
	idx := make(map[string]*Category, len(catalog)*2)
	for _, c := range catalog {
		idx[categoryKey(c.name)] = c
		idx[categoryKey(c.slug)] = c
	}
	return idx
}

// Categories returns the catalogue in display order.
func Categories() []*Category {
	out := make([]*Category, len(catalog))
	copy(out, catalog)
	return out
}

// ParseCategory resolves a display name ("Strength Training") or slug
// ("strength"), ignoring case, spaces, dashes and underscores.
func ParseCategory(name string) (*Category, bool) {
	c, ok := categoryIndex[categoryKey(name)]
	return c, ok
}

func categoryKey(name string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return r.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// ParseIntensity accepts Low/Medium/High in any case. An empty value is
// reported as ok with an empty intensity.
func ParseIntensity(value string) (model.Intensity, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return "", true
	case "low":
		return model.IntensityLow, true
	case "medium":
		return model.IntensityMedium, true
	case "high":
		return model.IntensityHigh, true
	default:
		return "", false
	}
}

// IntensityLevel encodes Low/Medium/High as 1/2/3; anything else is 0.
func IntensityLevel(i model.Intensity) int {
	switch i {
	case model.IntensityLow:
		return 1
	case model.IntensityMedium:
		return 2
	case model.IntensityHigh:
		return 3
	default:
		return 0
	}
}

func intensityFromLevel(level int) model.Intensity {
	switch level {
	case 1:
		return model.IntensityLow
	case 2:
		return model.IntensityMedium
	case 3:
		return model.IntensityHigh
	default:
		return ""
	}
}
