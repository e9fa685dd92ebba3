package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/roster-api/internal/domain/player"
	"github.com/riskibarqy/roster-api/internal/domain/stats"
	"github.com/riskibarqy/roster-api/internal/domain/stint"
)

type playerRecord struct {
	id          int64
	name        string
	position    player.Position
	age         int
	nationality string
	createdAt   time.Time
	stints      []stint.TeamStint
	stats       []stats.SeasonStatistic
}

// PlayerRepository keeps the full aggregate in process. It enforces the
// same constraints the SQL schema does: team foreign keys, the
// (name, nationality) uniqueness, and the overlap re-check under its
// write lock.
type PlayerRepository struct {
	mu         sync.RWMutex
	teams      *TeamRepository
	players    map[int64]*playerRecord
	nextID     int64
	nextStatID int64
	now        func() time.Time
}

func NewPlayerRepository(teams *TeamRepository) *PlayerRepository {
	return &PlayerRepository{
		teams:   teams,
		players: make(map[int64]*playerRecord),
		now:     time.Now,
	}
}

func (r *PlayerRepository) Create(_ context.Context, record player.CreateRecord) (player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.players {
		if existing.name == record.Name && existing.nationality == record.Nationality {
			return player.Player{}, player.ErrDuplicate
		}
	}
	if err := r.checkTeamsLocked(record.Stints); err != nil {
		return player.Player{}, err
	}

	r.nextID++
	row := &playerRecord{
		id:          r.nextID,
		name:        record.Name,
		position:    record.Position,
		age:         record.Age,
		nationality: record.Nationality,
		createdAt:   r.now().UTC(),
		stints:      append([]stint.TeamStint(nil), record.Stints...),
	}
	for _, item := range record.Stats {
		r.nextStatID++
		item.ID = r.nextStatID
		row.stats = append(row.stats, item)
	}
	r.players[row.id] = row

	return r.assembleLocked(row), nil
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	for _, row := range r.players {
		out = append(out, r.assembleLocked(row))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *PlayerRepository) Get(_ context.Context, id int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.players[id]
	if !ok {
		return player.Player{}, false, nil
	}
	return r.assembleLocked(row), true, nil
}

func (r *PlayerRepository) Update(_ context.Context, id int64, patch player.Patch) (player.Player, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.players[id]
	if !ok {
		return player.Player{}, false, nil
	}

	name := row.name
	nationality := row.nationality
	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.Nationality != nil {
		nationality = *patch.Nationality
	}
	for _, existing := range r.players {
		if existing.id != id && existing.name == name && existing.nationality == nationality {
			return player.Player{}, false, player.ErrDuplicate
		}
	}

	row.name = name
	row.nationality = nationality
	if patch.Position != nil {
		row.position = *patch.Position
	}
	if patch.Age != nil {
		row.age = *patch.Age
	}

	return r.assembleLocked(row), true, nil
}

func (r *PlayerRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[id]; !ok {
		return false, nil
	}
	delete(r.players, id)
	return true, nil
}

func (r *PlayerRepository) ListStints(_ context.Context, playerID int64) ([]stint.TeamStint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.players[playerID]
	if !ok {
		return nil, nil
	}
	return append([]stint.TeamStint(nil), row.stints...), nil
}

func (r *PlayerRepository) AppendStints(_ context.Context, playerID int64, stints []stint.TeamStint) (player.Player, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.players[playerID]
	if !ok {
		return player.Player{}, false, nil
	}
	if err := r.checkTeamsLocked(stints); err != nil {
		return player.Player{}, false, err
	}
	if err := stint.CheckStints(stints, row.stints, r.now()); err != nil {
		return player.Player{}, false, err
	}

	row.stints = append(row.stints, stints...)
	return r.assembleLocked(row), true, nil
}

func (r *PlayerRepository) checkTeamsLocked(stints []stint.TeamStint) error {
	if r.teams == nil {
		return nil
	}
	for _, item := range stints {
		if _, ok := r.teams.get(item.TeamID); !ok {
			return fmt.Errorf("%w: team=%d", player.ErrTeamMissing, item.TeamID)
		}
	}
	return nil
}

func (r *PlayerRepository) assembleLocked(row *playerRecord) player.Player {
	out := player.Player{
		ID:          row.id,
		Name:        row.name,
		Position:    row.position,
		Age:         row.age,
		Nationality: row.nationality,
		CreatedAt:   row.createdAt,
		Stints:      make([]player.TeamEntry, 0, len(row.stints)),
		Stats:       append([]stats.SeasonStatistic(nil), row.stats...),
	}

	for _, item := range row.stints {
		entry := player.TeamEntry{
			TeamID:    item.TeamID,
			JoinDate:  item.JoinDate,
			LeaveDate: item.LeaveDate,
		}
		if r.teams != nil {
			if t, ok := r.teams.get(item.TeamID); ok {
				entry.TeamName = t.Name
				entry.TeamLeague = t.League
				entry.TeamCountry = t.Country
				entry.TeamFounded = t.Founded
			}
		}
		out.Stints = append(out.Stints, entry)
	}

	sort.SliceStable(out.Stints, func(i, j int) bool {
		return out.Stints[i].JoinDate.Before(out.Stints[j].JoinDate)
	})

	return out
}
