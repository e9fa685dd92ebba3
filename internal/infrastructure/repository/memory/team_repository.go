package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/roster-api/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams []team.Team
	index map[int64]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	index := make(map[int64]team.Team, len(teams))
	for _, t := range teams {
		index[t.ID] = t
	}
	return &TeamRepository{
		teams: append([]team.Team(nil), teams...),
		index: index,
	}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	out = append(out, r.teams...)
	return out, nil
}

func (r *TeamRepository) get(id int64) (team.Team, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.index[id]
	return t, ok
}
