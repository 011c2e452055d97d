package kpi

import (
	"testing"
	"time"
)

func TestValidPeriod(t *testing.T) {
	for _, period := range []string{"Q1-2026", "Q4-2025", "M1-2026", "M12-2026"} {
		if !ValidPeriod(period) {
			t.Fatalf("expected %q to be valid", period)
		}
	}
	for _, period := range []string{"", "Q5-2026", "M0-2026", "M13-2026", "q1-2026", "Q1-26", "2026-Q1", "Q1 2026"} {
		if ValidPeriod(period) {
			t.Fatalf("expected %q to be invalid", period)
		}
	}
}

func TestCurrentPeriod(t *testing.T) {
	if got := CurrentPeriod(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)); got != "Q1-2026" {
		t.Fatalf("expected Q1-2026, got %q", got)
	}
	if got := CurrentPeriod(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)); got != "Q4-2026" {
		t.Fatalf("expected Q4-2026, got %q", got)
	}
	if got := CurrentMonthlyPeriod(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)); got != "M9-2026" {
		t.Fatalf("expected M9-2026, got %q", got)
	}
}

func TestPeriodBounds(t *testing.T) {
	start, end, ok := PeriodBounds("Q3-2026")
	if !ok {
		t.Fatal("expected Q3-2026 to parse")
	}
	if !start.Equal(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %v", end)
	}

	start, end, ok = PeriodBounds("M2-2026")
	if !ok {
		t.Fatal("expected M2-2026 to parse")
	}
	if !start.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) || !end.Equal(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected bounds %v..%v", start, end)
	}

	if _, _, ok := PeriodBounds("Q9-2026"); ok {
		t.Fatal("expected malformed period to fail")
	}
}
