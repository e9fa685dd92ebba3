package stint

import (
	"fmt"
	"strings"
	"time"
)

// TeamStint is one contiguous interval during which a player belongs to a
// team. A nil LeaveDate means the stint is still ongoing; for comparisons
// its effective end is the moment of evaluation, never a persisted value.
type TeamStint struct {
	TeamID    int64
	JoinDate  time.Time
	LeaveDate *time.Time
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// ParseDate normalizes the two wire shapes stint dates arrive in,
// RFC 3339 timestamps and plain calendar dates, to a UTC timestamp.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q: expected RFC 3339 or YYYY-MM-DD", raw)
}

// Validate checks the stint's own shape; overlap rules live in CheckStints.
func (s TeamStint) Validate() error {
	if s.TeamID <= 0 {
		return fmt.Errorf("stint team id is required")
	}
	if s.JoinDate.IsZero() {
		return fmt.Errorf("stint join date is required")
	}
	if s.LeaveDate != nil && s.LeaveDate.Before(s.JoinDate) {
		return fmt.Errorf("stint leave date %s is before join date %s",
			s.LeaveDate.Format(time.RFC3339), s.JoinDate.Format(time.RFC3339))
	}

	return nil
}
