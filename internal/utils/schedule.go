package utils

import (
	"time"

	"tontine-backend/internal/domain"
)

// frequencyStep advances a date by one cadence unit.
func frequencyStep(t time.Time, f domain.Frequency) time.Time {
	switch f {
	case domain.FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case domain.FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	case domain.FrequencyQuarterly:
		return t.AddDate(0, 3, 0)
	case domain.FrequencyYearly:
		return t.AddDate(1, 0, 0)
	default:
		// CUSTOM and anything unrecognized fall back to 30 days.
		return t.AddDate(0, 0, 30)
	}
}

// NextDueDate computes the next due date for a plan as seen at "now".
// The schedule is anchored at the plan's start date and stepped by the
// plan frequency, so delayed or skipped generation runs do not drift the
// calendar: the smallest anchor+k*step strictly after now wins, plus the
// optional offset in days.
func NextDueDate(plan *domain.ContributionPlan, now time.Time, offsetDays int) time.Time {
	anchor, err := time.Parse("2006-01-02", plan.StartDate)
	if err != nil {
		anchor = now
	}
	due := anchor
	for !due.After(now) {
		due = frequencyStep(due, plan.Frequency)
	}
	return due.AddDate(0, 0, offsetDays)
}

// MonthRange returns the calendar-month bucket [first, first-of-next)
// containing t. Contributions are unique per (membership, plan, bucket).
func MonthRange(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first, first.AddDate(0, 1, 0)
}
