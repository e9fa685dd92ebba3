package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/roster-api/internal/domain/team"
	"github.com/riskibarqy/roster-api/internal/platform/cache"
)

const cacheKeyTeamsList = "teams:list"

type TeamService struct {
	teamRepo team.Repository
	cache    *cache.Store
}

func NewTeamService(teamRepo team.Repository, store *cache.Store) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		cache:    store,
	}
}

// ListTeams returns the seeded reference teams. The set only changes by
// migration, so cached reads never go stale within a deploy.
func (s *TeamService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	if s.cache == nil {
		return s.loadTeams(ctx)
	}

	value, err := s.cache.GetOrLoad(ctx, cacheKeyTeamsList, func(ctx context.Context) (any, error) {
		return s.loadTeams(ctx)
	})
	if err != nil {
		return nil, err
	}

	teams, ok := value.([]team.Team)
	if !ok {
		return s.loadTeams(ctx)
	}
	return teams, nil
}

func (s *TeamService) loadTeams(ctx context.Context) ([]team.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}
