package kpi

import (
	"fmt"
	"regexp"
	"time"
)

// Period identifiers are Q<n>-<year> or M<n>-<year>, e.g. "Q3-2026" or
// "M11-2026".
var periodPattern = regexp.MustCompile(`^(?:Q([1-4])|M([1-9]|1[0-2]))-(\d{4})$`)

func ValidPeriod(period string) bool {
	return periodPattern.MatchString(period)
}

// CurrentPeriod returns the quarterly identifier for the given time, the
// default period when a caller supplies none.
func CurrentPeriod(now time.Time) string {
	quarter := (int(now.Month())-1)/3 + 1
	return fmt.Sprintf("Q%d-%d", quarter, now.Year())
}

func CurrentMonthlyPeriod(now time.Time) string {
	return fmt.Sprintf("M%d-%d", int(now.Month()), now.Year())
}

// PeriodBounds returns the first and last day covered by a period
// identifier. ok is false for malformed identifiers.
func PeriodBounds(period string) (start, end time.Time, ok bool) {
	match := periodPattern.FindStringSubmatch(period)
	if match == nil {
		return time.Time{}, time.Time{}, false
	}
	var year int
	fmt.Sscanf(match[3], "%d", &year)
	if match[1] != "" {
		var quarter int
		fmt.Sscanf(match[1], "%d", &quarter)
		start = time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 3, -1)
		return start, end, true
	}
	var month int
	fmt.Sscanf(match[2], "%d", &month)
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end, true
}
