package postgres

import (
	"github.com/riskibarqy/roster-api/internal/domain/player"
	"github.com/riskibarqy/roster-api/internal/domain/stats"
)

type stintKey struct {
	teamID   int64
	joinDate int64
}

// assemblePlayers folds the three flat result sets into nested aggregates.
// Player order is preserved from the player query. Repeated stint rows for
// the same (team id, join date) collapse to one entry, and each player's
// stats collection is attached exactly once.
func assemblePlayers(players []playerRow, stints []stintRow, statRows []statRow) []player.Player {
	out := make([]player.Player, 0, len(players))
	index := make(map[int64]int, len(players))

	for _, row := range players {
		index[row.ID] = len(out)
		out = append(out, player.Player{
			ID:          row.ID,
			Name:        row.Name,
			Position:    player.Position(row.Position),
			Age:         row.Age,
			Nationality: row.Nationality,
			CreatedAt:   row.CreatedAt,
			Stints:      []player.TeamEntry{},
			Stats:       []stats.SeasonStatistic{},
		})
	}

	seen := make(map[int64]map[stintKey]struct{})
	for _, row := range stints {
		pos, ok := index[row.PlayerID]
		if !ok {
			continue
		}

		key := stintKey{teamID: row.TeamID, joinDate: row.JoinDate.UnixNano()}
		if _, exists := seen[row.PlayerID]; !exists {
			seen[row.PlayerID] = make(map[stintKey]struct{})
		}
		if _, dup := seen[row.PlayerID][key]; dup {
			continue
		}
		seen[row.PlayerID][key] = struct{}{}

		out[pos].Stints = append(out[pos].Stints, player.TeamEntry{
			TeamID:      row.TeamID,
			TeamName:    row.TeamName,
			TeamLeague:  row.TeamLeague,
			TeamCountry: row.TeamCountry,
			TeamFounded: row.TeamFounded,
			JoinDate:    row.JoinDate,
			LeaveDate:   row.LeaveDate,
		})
	}

	for _, row := range statRows {
		pos, ok := index[row.PlayerID]
		if !ok {
			continue
		}
		out[pos].Stats = append(out[pos].Stats, stats.SeasonStatistic{
			ID:          row.ID,
			Season:      stats.Season(row.Season),
			GamesPlayed: row.GamesPlayed,
			Goals:       row.Goals,
			Assists:     row.Assists,
		})
	}

	return out
}
