package mapper

import (
	"testing"
	"time"
)

func TestResolveDate_DayFirstWinsAmbiguity(t *testing.T) {
	got, ok := ResolveDate("03/04/2025")
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if got.Day() != 3 || got.Month() != time.April || got.Year() != 2025 {
		t.Fatalf("got %s, want 3 April 2025", got.Format("2006-01-02"))
	}
}

func TestResolveDate_MonthFirstFallback(t *testing.T) {
	// Day 13 cannot be a month, so the day-first pattern fails and the
	// month-first pattern picks it up.
	got, ok := ResolveDate("04/13/2025")
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if got.Day() != 13 || got.Month() != time.April {
		t.Fatalf("got %s, want 13 April 2025", got.Format("2006-01-02"))
	}
}

func TestResolveDate_ISO(t *testing.T) {
	got, ok := ResolveDate("2025-12-31")
	if !ok || got.Day() != 31 || got.Month() != time.December {
		t.Fatalf("got %v ok=%v", got, ok)
	}
}

func TestResolveDate_DashDayFirst(t *testing.T) {
	got, ok := ResolveDate("25-12-2025")
	if !ok || got.Day() != 25 || got.Month() != time.December {
		t.Fatalf("got %v ok=%v", got, ok)
	}
}

func TestResolveDate_Unparseable(t *testing.T) {
	if _, ok := ResolveDate("next tuesday"); ok {
		t.Fatalf("expected parse to fail")
	}
	if _, ok := ResolveDate(""); ok {
		t.Fatalf("expected empty string to fail")
	}
}
