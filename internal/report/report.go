// Package report renders a review period as Markdown or as a standalone
// HTML page.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/service"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

const title = "FitTrack review"

// Markdown renders every section of the review. Empty sections keep their
// zero-state sentinels.
func Markdown(r service.Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "_Period: %s_\n\n", period(r.FromDate, r.ToDate))

	writeWorkouts(&b, r.Workouts)
	writeMeals(&b, r.Meals)
	writeMoods(&b, r.Moods)
	return b.String()
}

// HTML converts the Markdown rendering to a sanitized standalone page.
func HTML(r service.Review) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(Markdown(r)), &buf); err != nil {
		return "", fmt.Errorf("render review html: %w", err)
	}
	body := sanitizer.SanitizeBytes(buf.Bytes())

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", template.HTMLEscapeString(title))
	page.WriteString("<style>table{border-collapse:collapse}th,td{border:1px solid #ccc;padding:4px 8px;text-align:right}th:first-child,td:first-child{text-align:left}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body)
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

func writeWorkouts(b *strings.Builder, w engine.WorkoutReport) {
	b.WriteString("## Workouts\n\n")
	o := w.Overall.Display()
	b.WriteString("| Workouts | Total kcal | Total minutes | Avg kcal | Avg minutes |\n")
	b.WriteString("|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n\n", o.Count, o.TotalCalories, o.TotalMinutes, o.AverageCalories, o.AverageMinutes)

	b.WriteString("| Category | Count | Avg kcal | Avg minutes | Avg distance (km) | Avg pace (min/km) | Intensity |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---|\n")
	for _, s := range w.Ordered() {
		d := s.Display()
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			cell(d.Category), d.Count, d.AverageCalories, d.AverageMinutes, d.AverageDistance, d.AveragePace, d.Intensity)
	}
	b.WriteString("\n")
	if w.Unknown > 0 {
		fmt.Fprintf(b, "%d workout(s) of an unknown type are counted in the totals only.\n\n", w.Unknown)
	}
}

func writeMeals(b *strings.Builder, m engine.MealReport) {
	b.WriteString("## Meals\n\n")
	fmt.Fprintf(b, "Meals logged: %d\n\n", m.Count)

	totals := engine.DisplayNutrients(m.Totals)
	avgs := engine.DisplayNutrients(m.Averages)
	b.WriteString("| Nutrient | Total | Average per meal |\n")
	b.WriteString("|---|---:|---:|\n")
	for _, row := range nutrientRows(totals, avgs) {
		fmt.Fprintf(b, "| %s | %s | %s |\n", row[0], row[1], row[2])
	}
	b.WriteString("\n")

	groups := m.Groups()
	if len(groups) == 0 {
		return
	}
	b.WriteString("| Meal | Count | Avg amount (g) | Avg carbs (g) | Avg fat (g) | Avg sodium (mg) |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|\n")
	for _, g := range groups {
		a := engine.DisplayNutrients(g.Averages)
		fmt.Fprintf(b, "| %s | %d | %s | %s | %s | %s |\n", cell(g.Name), g.Count, a.AmountG, a.CarbohydratesTotalG, a.FatTotalG, a.SodiumMg)
	}
	b.WriteString("\n")
}

func nutrientRows(totals, avgs engine.NutrientDisplay) [][3]string {
	return [][3]string{
		{"Amount (g)", totals.AmountG, avgs.AmountG},
		{"Fat total (g)", totals.FatTotalG, avgs.FatTotalG},
		{"Fat saturated (g)", totals.FatSaturatedG, avgs.FatSaturatedG},
		{"Carbohydrates (g)", totals.CarbohydratesTotalG, avgs.CarbohydratesTotalG},
		{"Fiber (g)", totals.FiberG, avgs.FiberG},
		{"Sugar (g)", totals.SugarG, avgs.SugarG},
		{"Sodium (mg)", totals.SodiumMg, avgs.SodiumMg},
		{"Potassium (mg)", totals.PotassiumMg, avgs.PotassiumMg},
		{"Cholesterol (mg)", totals.CholesterolMg, avgs.CholesterolMg},
	}
}

func writeMoods(b *strings.Builder, s engine.MoodSummary) {
	b.WriteString("## Mood\n\n")
	d := s.Display()
	fmt.Fprintf(b, "- Moods logged: %s\n", d.Total)
	if s.Count == 0 {
		fmt.Fprintf(b, "- Average mood: %s\n", d.Average)
		return
	}
	label := engine.MoodLabel(int(s.Average + 0.5))
	fmt.Fprintf(b, "- Average mood: %s (%s)\n", d.Average, label)
}

func period(from, to string) string {
	switch {
	case from == "" && to == "":
		return "all time"
	case from == to:
		return displayDate(from)
	case from == "":
		return "until " + displayDate(to)
	case to == "":
		return "since " + displayDate(from)
	default:
		return displayDate(from) + " to " + displayDate(to)
	}
}

func displayDate(iso string) string {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	return engine.FormatDate(t)
}

// cell escapes user text for a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
