package memory

import "github.com/riskibarqy/roster-api/internal/domain/team"

// SeedTeams mirrors the reference rows installed by the seed migration.
func SeedTeams() []team.Team {
	return []team.Team{
		{ID: 1, Name: "Arsenal", League: "Premier League", Country: "England", Founded: 1886},
		{ID: 2, Name: "FC Barcelona", League: "La Liga", Country: "Spain", Founded: 1899},
		{ID: 3, Name: "Bayern Munich", League: "Bundesliga", Country: "Germany", Founded: 1900},
		{ID: 4, Name: "Olympique Lyonnais", League: "Ligue 1", Country: "France", Founded: 1950},
		{ID: 5, Name: "Juventus", League: "Serie A", Country: "Italy", Founded: 1897},
		{ID: 6, Name: "Ajax", League: "Eredivisie", Country: "Netherlands", Founded: 1900},
	}
}
