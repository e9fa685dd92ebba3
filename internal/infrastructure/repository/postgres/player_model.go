package postgres

import "time"

type playerRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Position    string    `db:"position"`
	Age         int       `db:"age"`
	Nationality string    `db:"nationality"`
	CreatedAt   time.Time `db:"created_at"`
}

// stintRow is one flattened player-stint pairing with the team columns
// joined in. The list query may repeat logical stints across rows; the
// assembler dedups them.
type stintRow struct {
	ID          int64      `db:"id"`
	PlayerID    int64      `db:"player_id"`
	TeamID      int64      `db:"team_id"`
	JoinDate    time.Time  `db:"join_date"`
	LeaveDate   *time.Time `db:"leave_date"`
	TeamName    string     `db:"team_name"`
	TeamLeague  string     `db:"team_league"`
	TeamCountry string     `db:"team_country"`
	TeamFounded int        `db:"team_founded"`
}

type statRow struct {
	ID          int64  `db:"id"`
	PlayerID    int64  `db:"player_id"`
	Season      string `db:"season"`
	GamesPlayed int    `db:"games_played"`
	Goals       int    `db:"goals"`
	Assists     int    `db:"assists"`
}

type teamRow struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	League  string `db:"league"`
	Country string `db:"country"`
	Founded int    `db:"founded"`
}
