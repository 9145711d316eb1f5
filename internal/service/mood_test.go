package service_test

import (
	"strings"
	"testing"

	"github.com/alexis-sammut/fittrack/internal/engine"
	"github.com/alexis-sammut/fittrack/internal/service"
)

func TestLogMoodUpsertsByDate(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	first, err := service.LogMood(db, service.MoodInput{Date: "2026-02-20", Rating: 4, Notes: "tired"})
	if err != nil {
		t.Fatalf("log mood: %v", err)
	}
	second, err := service.LogMood(db, service.MoodInput{Date: "2026-02-20", Rating: 8})
	if err != nil {
		t.Fatalf("log mood again: %v", err)
	}
	if first != second {
		t.Fatalf("expected same mood id for same date, got %d and %d", first, second)
	}

	moods, err := service.ListMoods(db, service.ListFilter{})
	if err != nil {
		t.Fatalf("list moods: %v", err)
	}
	if len(moods) != 1 || moods[0].Rating != 8 || moods[0].Notes != "" {
		t.Fatalf("expected one replaced mood, got %+v", moods)
	}

	if err := service.DeleteMood(db, first); err != nil {
		t.Fatalf("delete mood: %v", err)
	}
	moods, err = service.ListMoods(db, service.ListFilter{})
	if err != nil {
		t.Fatalf("list moods after delete: %v", err)
	}
	if len(moods) != 0 {
		t.Fatalf("expected no moods, got %d", len(moods))
	}
}

func TestLogMoodValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, err := service.LogMood(db, service.MoodInput{Date: "2026-02-20", Rating: 11}); err == nil || !strings.Contains(err.Error(), "between 1 and 10") {
		t.Fatalf("expected rating range error, got %v", err)
	}
	if _, err := service.LogMood(db, service.MoodInput{Date: "20 Feb 2026", Rating: 5}); err == nil {
		t.Fatalf("expected invalid date error")
	}
	id, err := service.LogMood(db, service.MoodInput{Rating: 5})
	if err != nil || id <= 0 {
		t.Fatalf("expected mood for today, got id=%d err=%v", id, err)
	}
}

func TestImportMoodsBothShapes(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	src, err := engine.DecodeMoods([]byte(`{"2026-02-01":{"mood":4},"2026-02-02":{"mood":6,"notes":"ok"}}`))
	if err != nil {
		t.Fatalf("decode keyed moods: %v", err)
	}
	n, err := service.ImportMoods(db, src)
	if err != nil {
		t.Fatalf("import keyed moods: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 imported moods, got %d", n)
	}

	src, err = engine.DecodeMoods([]byte(`[{"date":"2026-02-02","mood":7},{"date":"2026-02-03","mood":9}]`))
	if err != nil {
		t.Fatalf("decode mood list: %v", err)
	}
	if _, err := service.ImportMoods(db, src); err != nil {
		t.Fatalf("import mood list: %v", err)
	}

	summary, err := service.MoodReview(db, service.ListFilter{FromDate: "2026-02-01", ToDate: "2026-02-28"})
	if err != nil {
		t.Fatalf("mood review: %v", err)
	}
	got := summary.Display()
	if got.Total != "3" || got.Average != "6.7" {
		t.Fatalf("expected 3 moods averaging 6.7, got %+v", got)
	}
}

func TestImportMoodsIsAllOrNothing(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	_, err := service.ImportMoods(db, engine.MoodList{
		{Date: "2026-02-01", Mood: 5},
		{Date: "2026-02-02", Mood: 0},
	})
	if err == nil {
		t.Fatalf("expected invalid rating to abort import")
	}
	moods, err := service.ListMoods(db, service.ListFilter{})
	if err != nil {
		t.Fatalf("list moods: %v", err)
	}
	if len(moods) != 0 {
		t.Fatalf("expected nothing imported, got %d", len(moods))
	}
}
