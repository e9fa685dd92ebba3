package player

import (
	"context"
	"errors"

	"github.com/riskibarqy/roster-api/internal/domain/stats"
	"github.com/riskibarqy/roster-api/internal/domain/stint"
)

var (
	// ErrTeamMissing is returned when a stint references a team id that
	// does not exist.
	ErrTeamMissing = errors.New("referenced team does not exist")
	// ErrDuplicate is returned when the storage uniqueness constraint on
	// (name, nationality) rejects a player.
	ErrDuplicate = errors.New("player already exists")
)

// CreateRecord is the validated input handed to the repository. Stints and
// stats are persisted atomically with the player row.
type CreateRecord struct {
	Name        string
	Position    Position
	Age         int
	Nationality string
	Stints      []stint.TeamStint
	Stats       []stats.SeasonStatistic
}

// Repository describes player persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, record CreateRecord) (Player, error)
	List(ctx context.Context) ([]Player, error)
	Get(ctx context.Context, id int64) (Player, bool, error)
	Update(ctx context.Context, id int64, patch Patch) (Player, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListStints(ctx context.Context, playerID int64) ([]stint.TeamStint, error)
	AppendStints(ctx context.Context, playerID int64, stints []stint.TeamStint) (Player, bool, error)
}
