package postgres

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/roster-api/internal/domain/team"
	qb "github.com/riskibarqy/roster-api/internal/platform/querybuilder"
)

type TeamRepository struct {
	db           *sqlx.DB
	queryTimeout time.Duration
}

func NewTeamRepository(db *sqlx.DB, queryTimeout time.Duration) *TeamRepository {
	return &TeamRepository{
		db:           db,
		queryTimeout: queryTimeout,
	}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	query, args, err := qb.Select("id", "name", "league", "country", "founded").
		From("teams").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select teams")
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ID:      row.ID,
			Name:    row.Name,
			League:  row.League,
			Country: row.Country,
			Founded: row.Founded,
		})
	}
	return out, nil
}
