package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("players").
		Where(Eq("nationality", "Brazil"), IsNull("deleted_at")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM players WHERE nationality = $1 AND deleted_at IS NULL ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "Brazil" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_InCondition(t *testing.T) {
	query, args, err := Select("id").
		From("team_stints").
		Where(In("player_id", []any{int64(1), int64(2)})).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM team_stints WHERE player_id IN ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").
		From("team_stints").
		Where(In("player_id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM team_stints WHERE 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("players").
		Columns("name", "position").
		Values("Marta", "FORWARD").
		Returning("id", "created_at").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO players (name, position) VALUES ($1, $2) RETURNING id, created_at"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Marta" || args[1] != "FORWARD" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_MultiRow(t *testing.T) {
	query, args, err := InsertInto("season_stats").
		Columns("player_id", "season").
		Values(int64(1), "2023-24").
		Values(int64(1), "2024-25").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO season_stats (player_id, season) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("players").
		Columns("name", "position").
		Values("Marta").
		ToSQL()
	if err == nil {
		t.Fatal("expected row width mismatch error")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("players").
		Set("name", "Pernille Harder").
		Set("age", 31).
		Where(Eq("id", int64(7))).
		Returning("id").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE players SET name = $1, age = $2 WHERE id = $3 RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "Pernille Harder" || args[2] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("players").
		Where(Eq("id", int64(3))).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM players WHERE id = $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != int64(3) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_RequiresWhere(t *testing.T) {
	if _, _, err := DeleteFrom("players").ToSQL(); err == nil {
		t.Fatal("expected missing conditions error")
	}
}

func TestExprRenumbersPlaceholders(t *testing.T) {
	query, args, err := Select("id").
		From("team_stints").
		Where(
			Eq("player_id", int64(1)),
			Expr("join_date <= ? AND (leave_date IS NULL OR leave_date >= ?)", "2024-06-30", "2023-07-01"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM team_stints WHERE player_id = $1 AND join_date <= $2 AND (leave_date IS NULL OR leave_date >= $3)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
