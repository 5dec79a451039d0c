package scheduling

import (
	"fmt"
	"time"
)

// Recurrence cadences. CadenceNone books a single occurrence and ignores the
// requested count.
const (
	CadenceNone     = "none"
	CadenceDaily    = "daily"
	CadenceWeekly   = "weekly"
	CadenceBiweekly = "biweekly"
	CadenceMonthly  = "monthly"
)

var validCadences = map[string]bool{
	CadenceNone:     true,
	CadenceDaily:    true,
	CadenceWeekly:   true,
	CadenceBiweekly: true,
	CadenceMonthly:  true,
}

// ValidCadence reports whether c is a known recurrence cadence.
func ValidCadence(c string) bool { return validCadences[c] }

// ExpandRecurrence returns the occurrence instants for a booking starting at
// base. The first element is always base itself. Monthly steps use calendar
// months, so Jan 31 + 1 month normalizes per time.AddDate.
func ExpandRecurrence(base time.Time, cadence string, count int) ([]time.Time, error) {
	if cadence == "" || cadence == CadenceNone {
		return []time.Time{base}, nil
	}
	if !validCadences[cadence] {
		return nil, fmt.Errorf("unknown recurrence cadence: %s", cadence)
	}
	if count < 1 {
		return nil, fmt.Errorf("recurrence count must be at least 1")
	}

	dates := make([]time.Time, count)
	for i := 0; i < count; i++ {
		switch cadence {
		case CadenceDaily:
			dates[i] = base.AddDate(0, 0, i)
		case CadenceWeekly:
			dates[i] = base.AddDate(0, 0, 7*i)
		case CadenceBiweekly:
			dates[i] = base.AddDate(0, 0, 14*i)
		case CadenceMonthly:
			dates[i] = base.AddDate(0, i, 0)
		}
	}
	return dates, nil
}
