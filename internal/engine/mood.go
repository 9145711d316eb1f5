package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/alexis-sammut/fittrack/internal/model"
)

const (
	MinMoodRating = 1
	MaxMoodRating = 10
)

var moodLabels = [MaxMoodRating]string{
	"Terrible", "Bad", "Bored", "Tired", "Neutral",
	"Fine", "Good", "Great", "Awesome", "Excellent",
}

// MoodLabel names a rating; out-of-range ratings have no label.
func MoodLabel(rating int) string {
	if rating < MinMoodRating || rating > MaxMoodRating {
		return ""
	}
	return moodLabels[rating-1]
}

// RatingFromRadius maps a pointer distance from the picker centre to a
// rating: ceil(10 * distance / radius), clamped to 1..10.
func RatingFromRadius(distance, radius float64) int {
	if !positive(radius) || math.IsNaN(distance) {
		return MinMoodRating
	}
	r := int(math.Ceil(float64(MaxMoodRating) * distance / radius))
	return max(MinMoodRating, min(MaxMoodRating, r))
}

// MoodEntry is the external shape of one mood, as found in either a list or
// a date-keyed map.
type MoodEntry struct {
	ID    int64  `json:"id,omitempty"`
	Date  string `json:"date,omitempty"`
	Mood  int    `json:"mood"`
	Notes string `json:"notes,omitempty"`
}

// MoodSource is any external mood representation. Shapes are normalised by
// NormalizeMoods before aggregation.
type MoodSource interface {
	byDate() map[string]model.MoodRecord
}

// MoodList is the flat shape. Entries sharing a date fold into one; the
// later entry wins.
type MoodList []MoodEntry

func (l MoodList) byDate() map[string]model.MoodRecord {
	out := make(map[string]model.MoodRecord, len(l))
	for _, e := range l {
		date := strings.TrimSpace(e.Date)
		out[date] = model.MoodRecord{ID: e.ID, Date: date, Rating: e.Mood, Notes: e.Notes}
	}
	return out
}

// MoodsByDate is the keyed shape. The map key is authoritative for the date.
type MoodsByDate map[string]MoodEntry

func (m MoodsByDate) byDate() map[string]model.MoodRecord {
	out := make(map[string]model.MoodRecord, len(m))
	for date, e := range m {
		date = strings.TrimSpace(date)
		out[date] = model.MoodRecord{ID: e.ID, Date: date, Rating: e.Mood, Notes: e.Notes}
	}
	return out
}

// MoodRecords adapts stored records.
type MoodRecords []model.MoodRecord

func (r MoodRecords) byDate() map[string]model.MoodRecord {
	out := make(map[string]model.MoodRecord, len(r))
	for _, rec := range r {
		rec.Date = strings.TrimSpace(rec.Date)
		out[rec.Date] = rec
	}
	return out
}

// NormalizeMoods returns the canonical sequence: one record per date,
// ordered by date ascending.
func NormalizeMoods(src MoodSource) []model.MoodRecord {
	if src == nil {
		return []model.MoodRecord{}
	}
	m := src.byDate()
	out := make([]model.MoodRecord, 0, len(m))
	for _, rec := range m {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// DecodeMoods accepts either a JSON array of moods or a JSON object keyed by
// date.
func DecodeMoods(data []byte) (MoodSource, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return MoodList{}, nil
	}
	switch trimmed[0] {
	case '[':
		var list MoodList
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode mood list: %w", err)
		}
		return list, nil
	case '{':
		var keyed MoodsByDate
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return nil, fmt.Errorf("decode moods by date: %w", err)
		}
		return keyed, nil
	default:
		return nil, fmt.Errorf("moods must be a JSON array or an object keyed by date")
	}
}

type MoodSummary struct {
	Count   int     `json:"total"`
	Sum     int     `json:"sum"`
	Average float64 `json:"average"`
	// Skipped counts entries without a date or with a rating outside 1..10.
	Skipped int `json:"skipped,omitempty"`
}

type MoodDisplay struct {
	Average string `json:"avg_mood"`
	Total   string `json:"total_moods"`
}

// Display reports "0" for both fields when there are no moods. Unlike the
// nutrient sentinels this is not "0.0".
func (s MoodSummary) Display() MoodDisplay {
	if s.Count == 0 {
		return MoodDisplay{Average: sentinelZero, Total: sentinelZero}
	}
	return MoodDisplay{
		Average: Decimal1(s.Average),
		Total:   Whole(float64(s.Count)),
	}
}

// ValidMood reports whether a record has a date and an in-range rating.
func ValidMood(rec model.MoodRecord) bool {
	return rec.Date != "" && rec.Rating >= MinMoodRating && rec.Rating <= MaxMoodRating
}

// SummarizeMoods counts and averages ratings over the normalised sequence.
// Invalid entries are left out of the average and counted in Skipped.
func SummarizeMoods(src MoodSource) MoodSummary {
	var s MoodSummary
	for _, rec := range NormalizeMoods(src) {
		if !ValidMood(rec) {
			s.Skipped++
			continue
		}
		s.Count++
		s.Sum += rec.Rating
	}
	if s.Count > 0 {
		s.Average = float64(s.Sum) / float64(s.Count)
	}
	return s
}
