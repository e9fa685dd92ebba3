package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/roster-api/internal/domain/player"
	"github.com/riskibarqy/roster-api/internal/domain/stats"
	"github.com/riskibarqy/roster-api/internal/domain/stint"
	qb "github.com/riskibarqy/roster-api/internal/platform/querybuilder"
)

var playerSelectColumns = []string{
	"id",
	"name",
	"position",
	"age",
	"nationality",
	"created_at",
}

const listStintRowsQuery = `
SELECT ts.id, ts.player_id, ts.team_id, ts.join_date, ts.leave_date,
       t.name AS team_name, t.league AS team_league,
       t.country AS team_country, t.founded AS team_founded
FROM team_stints ts
JOIN teams t ON t.id = ts.team_id
JOIN players p ON p.id = ts.player_id
ORDER BY p.name, ts.id`

const getStintRowsQuery = `
SELECT ts.id, ts.player_id, ts.team_id, ts.join_date, ts.leave_date,
       t.name AS team_name, t.league AS team_league,
       t.country AS team_country, t.founded AS team_founded
FROM team_stints ts
JOIN teams t ON t.id = ts.team_id
WHERE ts.player_id = $1
ORDER BY ts.id`

// PlayerRepository persists the player aggregate across the players,
// team_stints, and season_stats tables. Writes that insert stints run in a
// transaction; with serializable enabled the overlap check is re-run inside
// it so two racing appends cannot both commit.
type PlayerRepository struct {
	db           *sqlx.DB
	queryTimeout time.Duration
	serializable bool
}

func NewPlayerRepository(db *sqlx.DB, queryTimeout time.Duration, serializable bool) *PlayerRepository {
	return &PlayerRepository{
		db:           db,
		queryTimeout: queryTimeout,
		serializable: serializable,
	}
}

func (r *PlayerRepository) Create(ctx context.Context, record player.CreateRecord) (player.Player, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, r.txOptions())
	if err != nil {
		return player.Player{}, crerr.Wrap(err, "begin tx for player create")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertInto("players").
		Columns("name", "position", "age", "nationality").
		Values(record.Name, string(record.Position), record.Age, record.Nationality).
		Returning("id", "created_at").
		ToSQL()
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}

	var id int64
	var createdAt time.Time
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&id, &createdAt); err != nil {
		if isUniqueViolation(err) {
			return player.Player{}, player.ErrDuplicate
		}
		return player.Player{}, crerr.Wrap(err, "insert player")
	}

	if err := insertStints(ctx, tx, id, record.Stints); err != nil {
		return player.Player{}, err
	}
	if err := insertStats(ctx, tx, id, record.Stats); err != nil {
		return player.Player{}, err
	}

	if err := tx.Commit(); err != nil {
		return player.Player{}, crerr.Wrap(err, "commit player create tx")
	}

	created, found, err := r.Get(ctx, id)
	if err != nil {
		return player.Player{}, err
	}
	if !found {
		return player.Player{}, crerr.Newf("player %d vanished after create", id)
	}
	return created, nil
}

// List runs the three list queries concurrently and assembles the nested
// aggregates from the flat rows.
func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	var (
		players  []playerRow
		stints   []stintRow
		statRows []statRow
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		query, args, err := qb.Select(playerSelectColumns...).From("players").
			OrderBy("name", "id").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build select players query: %w", err)
		}
		if err := r.db.SelectContext(ctx, &players, query, args...); err != nil {
			return crerr.Wrap(err, "select players")
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		if err := r.db.SelectContext(ctx, &stints, listStintRowsQuery); err != nil {
			return crerr.Wrap(err, "select team stints")
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		query, args, err := qb.Select("id", "player_id", "season", "games_played", "goals", "assists").
			From("season_stats").
			OrderBy("player_id", "season").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build select season stats query: %w", err)
		}
		if err := r.db.SelectContext(ctx, &statRows, query, args...); err != nil {
			return crerr.Wrap(err, "select season stats")
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return assemblePlayers(players, stints, statRows), nil
}

func (r *PlayerRepository) Get(ctx context.Context, id int64) (player.Player, bool, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, crerr.Wrap(err, "select player")
	}

	var stints []stintRow
	if err := r.db.SelectContext(ctx, &stints, getStintRowsQuery, id); err != nil {
		return player.Player{}, false, crerr.Wrap(err, "select player stints")
	}

	statsQuery, statsArgs, err := qb.Select("id", "player_id", "season", "games_played", "goals", "assists").
		From("season_stats").
		Where(qb.Eq("player_id", id)).
		OrderBy("season").
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player stats query: %w", err)
	}
	var statRows []statRow
	if err := r.db.SelectContext(ctx, &statRows, statsQuery, statsArgs...); err != nil {
		return player.Player{}, false, crerr.Wrap(err, "select player stats")
	}

	items := assemblePlayers([]playerRow{row}, stints, statRows)
	return items[0], true, nil
}

func (r *PlayerRepository) Update(ctx context.Context, id int64, patch player.Patch) (player.Player, bool, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	builder := qb.Update("players")
	if patch.Name != nil {
		builder.Set("name", *patch.Name)
	}
	if patch.Position != nil {
		builder.Set("position", string(*patch.Position))
	}
	if patch.Age != nil {
		builder.Set("age", *patch.Age)
	}
	if patch.Nationality != nil {
		builder.Set("nationality", *patch.Nationality)
	}

	query, args, err := builder.
		Where(qb.Eq("id", id)).
		Returning("id").
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build update player query: %w", err)
	}

	var updatedID int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&updatedID); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		if isUniqueViolation(err) {
			return player.Player{}, false, player.ErrDuplicate
		}
		return player.Player{}, false, crerr.Wrap(err, "update player")
	}

	return r.Get(ctx, updatedID)
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	query, args, err := qb.DeleteFrom("players").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete player query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, crerr.Wrap(err, "delete player")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, crerr.Wrap(err, "count deleted players")
	}

	return affected > 0, nil
}

func (r *PlayerRepository) ListStints(ctx context.Context, playerID int64) ([]stint.TeamStint, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	rows, err := selectPlainStints(ctx, r.db, playerID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PlayerRepository) AppendStints(ctx context.Context, playerID int64, stints []stint.TeamStint) (player.Player, bool, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, r.txOptions())
	if err != nil {
		return player.Player{}, false, crerr.Wrap(err, "begin tx for stint append")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Select("id").From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player id query: %w", err)
	}
	var foundID int64
	if err := tx.GetContext(ctx, &foundID, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, crerr.Wrap(err, "select player for stint append")
	}

	if r.serializable {
		existing, err := selectPlainStints(ctx, tx, playerID)
		if err != nil {
			return player.Player{}, false, err
		}
		if err := stint.CheckStints(stints, existing, time.Now()); err != nil {
			return player.Player{}, false, err
		}
	}

	if err := insertStints(ctx, tx, playerID, stints); err != nil {
		return player.Player{}, false, err
	}

	if err := tx.Commit(); err != nil {
		return player.Player{}, false, crerr.Wrap(err, "commit stint append tx")
	}

	return r.Get(ctx, playerID)
}

func (r *PlayerRepository) txOptions() *sql.TxOptions {
	if !r.serializable {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelSerializable}
}

func selectPlainStints(ctx context.Context, q sqlx.QueryerContext, playerID int64) ([]stint.TeamStint, error) {
	query, args, err := qb.Select("team_id", "join_date", "leave_date").
		From("team_stints").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("join_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stints query: %w", err)
	}

	var rows []struct {
		TeamID    int64      `db:"team_id"`
		JoinDate  time.Time  `db:"join_date"`
		LeaveDate *time.Time `db:"leave_date"`
	}
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select team stints")
	}

	out := make([]stint.TeamStint, 0, len(rows))
	for _, row := range rows {
		out = append(out, stint.TeamStint{
			TeamID:    row.TeamID,
			JoinDate:  row.JoinDate,
			LeaveDate: row.LeaveDate,
		})
	}
	return out, nil
}

func insertStints(ctx context.Context, tx *sqlx.Tx, playerID int64, stints []stint.TeamStint) error {
	if len(stints) == 0 {
		return nil
	}

	builder := qb.InsertInto("team_stints").
		Columns("player_id", "team_id", "join_date", "leave_date")
	for _, item := range stints {
		builder.Values(playerID, item.TeamID, item.JoinDate, item.LeaveDate)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert stints query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return player.ErrTeamMissing
		}
		return crerr.Wrap(err, "insert team stints")
	}
	return nil
}

func insertStats(ctx context.Context, tx *sqlx.Tx, playerID int64, items []stats.SeasonStatistic) error {
	if len(items) == 0 {
		return nil
	}

	builder := qb.InsertInto("season_stats").
		Columns("player_id", "season", "games_played", "goals", "assists")
	for _, item := range items {
		builder.Values(playerID, string(item.Season), item.GamesPlayed, item.Goals, item.Assists)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert season stats query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "insert season stats")
	}
	return nil
}
