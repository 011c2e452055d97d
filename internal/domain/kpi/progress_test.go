package kpi

import (
	"errors"
	"testing"
)

func TestProgressRoundsToTwoDecimals(t *testing.T) {
	pct, err := Progress(1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pct != 33.33 {
		t.Fatalf("expected 33.33, got %v", pct)
	}
}

func TestProgressUncappedAboveHundred(t *testing.T) {
	pct, err := Progress(75, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pct != 150 {
		t.Fatalf("expected 150, got %v", pct)
	}
}

func TestProgressNeverNegative(t *testing.T) {
	pct, err := Progress(-10, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pct != 0 {
		t.Fatalf("expected 0, got %v", pct)
	}
}

func TestProgressZeroTargetFails(t *testing.T) {
	if _, err := Progress(0, 0); !errors.Is(err, ErrZeroTarget) {
		t.Fatalf("expected ErrZeroTarget, got %v", err)
	}
	if _, err := Progress(42, 0); !errors.Is(err, ErrZeroTarget) {
		t.Fatalf("expected ErrZeroTarget, got %v", err)
	}
}

func TestStartOnProgress(t *testing.T) {
	if got := StartOnProgress(StatusNotStarted); got != StatusInProgress {
		t.Fatalf("expected in_progress, got %q", got)
	}
	if got := StartOnProgress(StatusRejected); got != StatusRejected {
		t.Fatalf("expected rejected unchanged, got %q", got)
	}
}
