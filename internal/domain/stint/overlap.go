package stint

import (
	"errors"
	"fmt"
	"time"
)

// ErrOverlap marks every team-stint time-range conflict. Callers dispatch
// on it with errors.Is.
var ErrOverlap = errors.New("team stint overlap")

// Overlaps reports whether two stints share at least one instant.
//
// Boundaries are inclusive: a stint ending exactly when another begins
// counts as overlapping. An open-ended stint is compared as if it ended at
// now. The check is symmetric, and a single-instant stint (join == leave)
// can still overlap another.
func Overlaps(a, b TeamStint, now time.Time) bool {
	endA := effectiveEnd(a, now)
	endB := effectiveEnd(b, now)

	return !a.JoinDate.After(endB) && !b.JoinDate.After(endA)
}

func effectiveEnd(s TeamStint, now time.Time) time.Time {
	if s.LeaveDate != nil {
		return *s.LeaveDate
	}
	return now
}

// CheckStints rejects a proposed stint set when any two proposed stints
// overlap each other, or when any proposed stint overlaps one already
// persisted for the player. Stint counts per submission are small, so the
// pairwise sweep stays quadratic on purpose. The first conflict aborts.
func CheckStints(proposed, existing []TeamStint, now time.Time) error {
	for i := 0; i < len(proposed); i++ {
		for j := i + 1; j < len(proposed); j++ {
			if Overlaps(proposed[i], proposed[j], now) {
				return fmt.Errorf("%w: player cannot be on team %d and team %d during overlapping periods",
					ErrOverlap, proposed[i].TeamID, proposed[j].TeamID)
			}
		}
	}

	for _, have := range existing {
		for _, want := range proposed {
			if Overlaps(have, want, now) {
				return fmt.Errorf("%w: new stint for team %d overlaps an existing stint with team %d",
					ErrOverlap, want.TeamID, have.TeamID)
			}
		}
	}

	return nil
}
