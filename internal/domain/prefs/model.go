package prefs

import (
	"fmt"
	"time"
)

// Preference keys persisted per account.
const (
	KeyDateRange = "date_range"
	KeySidebar   = "sidebar"
)

// DateRangePref is the schedule filter period an account last picked: two
// dates plus the label the picker showed ("This week", "Custom", ...). An
// empty pref means the client falls back to its own default period.
type DateRangePref struct {
	Start string `json:"start"` // YYYY-MM-DD
	End   string `json:"end"`   // YYYY-MM-DD
	Label string `json:"label,omitempty"`
}

const rangeDateLayout = "2006-01-02"

// Validate checks that both dates parse and the period is not inverted.
func (p DateRangePref) Validate() error {
	start, err := time.Parse(rangeDateLayout, p.Start)
	if err != nil {
		return fmt.Errorf("start must be YYYY-MM-DD")
	}
	end, err := time.Parse(rangeDateLayout, p.End)
	if err != nil {
		return fmt.Errorf("end must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return fmt.Errorf("period end precedes its start")
	}
	return nil
}

func (p DateRangePref) isZero() bool {
	return p.Start == "" && p.End == "" && p.Label == ""
}

type SidebarPref struct {
	Collapsed bool `json:"collapsed"`
}

// Preferences is every UI preference for one account, with defaults filled
// in for anything the account never saved.
type Preferences struct {
	DateRange DateRangePref `json:"date_range"`
	Sidebar   SidebarPref   `json:"sidebar"`
}

// DefaultPreferences is what a fresh account sees.
func DefaultPreferences() *Preferences {
	return &Preferences{
		DateRange: DateRangePref{},
		Sidebar:   SidebarPref{Collapsed: false},
	}
}
