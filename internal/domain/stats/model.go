package stats

import "fmt"

// Season tags the roster currently tracks. Statistics are season-level and
// are not tied to any particular team stint.
type Season string

const (
	Season2324 Season = "2023-24"
	Season2425 Season = "2024-25"
	Season2526 Season = "2025-26"
)

var AllSeasons = map[Season]struct{}{
	Season2324: {},
	Season2425: {},
	Season2526: {},
}

// SeasonStatistic aggregates a player's counters for one season.
type SeasonStatistic struct {
	ID          int64
	Season      Season
	GamesPlayed int
	Goals       int
	Assists     int
}

func (s SeasonStatistic) Validate() error {
	if _, ok := AllSeasons[s.Season]; !ok {
		return fmt.Errorf("invalid season: %s", s.Season)
	}
	if s.GamesPlayed < 0 {
		return fmt.Errorf("games played cannot be negative")
	}
	if s.Goals < 0 {
		return fmt.Errorf("goals cannot be negative")
	}
	if s.Assists < 0 {
		return fmt.Errorf("assists cannot be negative")
	}

	return nil
}

// ValidateAll checks every entry; the first bad entry aborts.
func ValidateAll(items []SeasonStatistic) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}
