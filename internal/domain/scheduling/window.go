package scheduling

import "time"

// ConflictWindowRadius is how far on each side of a proposed time another
// appointment counts as a conflict.
const ConflictWindowRadius = time.Hour

// ConflictWindow returns the closed interval [t-1h, t+1h]. Appointments at
// exactly the bounds conflict; one second outside does not.
func ConflictWindow(t time.Time) (start, end time.Time) {
	return t.Add(-ConflictWindowRadius), t.Add(ConflictWindowRadius)
}

// InConflictWindow reports whether other falls inside the conflict window
// around t, bounds included.
func InConflictWindow(t, other time.Time) bool {
	start, end := ConflictWindow(t)
	return !other.Before(start) && !other.After(end)
}
