package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/roster-api/internal/domain/stats"
)

// Position enumerates the roster positions accepted by the API.
type Position string

const (
	PositionGoalkeeper Position = "GOALKEEPER"
	PositionDefender   Position = "DEFENDER"
	PositionMidfielder Position = "MIDFIELDER"
	PositionForward    Position = "FORWARD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// Player is a roster entry together with its team history and season
// statistics.
type Player struct {
	ID          int64
	Name        string
	Position    Position
	Age         int
	Nationality string
	CreatedAt   time.Time
	Stints      []TeamEntry
	Stats       []stats.SeasonStatistic
}

// TeamEntry is one team-membership interval with the team's fields
// denormalized for listing.
type TeamEntry struct {
	TeamID      int64
	TeamName    string
	TeamLeague  string
	TeamCountry string
	TeamFounded int
	JoinDate    time.Time
	LeaveDate   *time.Time
}

const (
	MinAge = 16
	MaxAge = 50
)

// Patch carries the optional scalar fields of a partial player update.
// A nil field means "leave unchanged" and is not validated.
type Patch struct {
	Name        *string
	Position    *Position
	Age         *int
	Nationality *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Position == nil && p.Age == nil && p.Nationality == nil
}

// Validate checks only the fields that are present, so the same rules
// serve both full creates and partial updates.
func (p Patch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("player name cannot be empty")
	}
	if p.Age != nil && (*p.Age < MinAge || *p.Age > MaxAge) {
		return fmt.Errorf("player age must be between %d and %d", MinAge, MaxAge)
	}
	if p.Nationality != nil && strings.TrimSpace(*p.Nationality) == "" {
		return fmt.Errorf("player nationality cannot be empty")
	}
	if p.Position != nil {
		if _, ok := AllPositions[*p.Position]; !ok {
			return fmt.Errorf("invalid player position: %s", *p.Position)
		}
	}

	return nil
}
