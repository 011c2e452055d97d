package kpi

import "math"

// Progress returns the actual value as a percentage of target, rounded to
// two decimals. The result is uncapped above 100 and never negative. A zero
// target has no defined percentage and fails with ErrZeroTarget.
func Progress(actual, target float64) (float64, error) {
	if target == 0 {
		return 0, ErrZeroTarget
	}
	pct := math.Round(actual/target*100*100) / 100
	if pct < 0 {
		return 0, nil
	}
	return pct, nil
}

// StartOnProgress returns the status a record should carry after a progress
// update: a not-started record moves to in_progress, every other status is
// left alone.
func StartOnProgress(status string) string {
	if status == StatusNotStarted {
		return StatusInProgress
	}
	return status
}
