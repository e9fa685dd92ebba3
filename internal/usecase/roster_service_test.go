package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/roster-api/internal/domain/player"
	"github.com/riskibarqy/roster-api/internal/domain/stats"
	"github.com/riskibarqy/roster-api/internal/domain/stint"
	"github.com/riskibarqy/roster-api/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/roster-api/internal/platform/cache"
	"github.com/riskibarqy/roster-api/internal/platform/logging"
)

var testNow = time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

func newRosterService(store *cache.Store) (*RosterService, *memory.PlayerRepository) {
	repo := memory.NewPlayerRepository(memory.NewTeamRepository(memory.SeedTeams()))
	svc := NewRosterService(repo, store, logging.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	v := day(y, m, d)
	return &v
}

func validCreateInput(name string) CreatePlayerInput {
	return CreatePlayerInput{
		Name:        name,
		Position:    player.PositionForward,
		Age:         24,
		Nationality: "England",
		Stints: []stint.TeamStint{
			{TeamID: 1, JoinDate: day(2023, time.July, 1)},
		},
		Stats: []stats.SeasonStatistic{
			{Season: stats.Season2425, GamesPlayed: 30, Goals: 12, Assists: 5},
		},
	}
}

func TestRosterService_CreatePlayer(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)

	created, err := svc.CreatePlayer(context.Background(), validCreateInput("Bukayo Saka"))
	if err != nil {
		t.Fatalf("CreatePlayer error: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned player id")
	}
	if len(created.Stints) != 1 || created.Stints[0].TeamName != "Arsenal" {
		t.Fatalf("expected denormalized Arsenal stint, got %+v", created.Stints)
	}
	if len(created.Stats) != 1 || created.Stats[0].ID == 0 {
		t.Fatalf("expected statistic with assigned id, got %+v", created.Stats)
	}
}

func TestRosterService_CreatePlayer_OverlappingStints(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)

	input := validCreateInput("Declan Rice")
	input.Stints = []stint.TeamStint{
		{TeamID: 1, JoinDate: day(2023, time.July, 1), LeaveDate: dayPtr(2024, time.June, 30)},
		{TeamID: 2, JoinDate: day(2024, time.June, 30)},
	}

	_, err := svc.CreatePlayer(context.Background(), input)
	if !errors.Is(err, stint.ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}

	players, listErr := svc.ListPlayers(context.Background())
	if listErr != nil {
		t.Fatalf("ListPlayers error: %v", listErr)
	}
	if len(players) != 0 {
		t.Fatalf("rejected create must persist nothing, got %d players", len(players))
	}
}

func TestRosterService_CreatePlayer_Duplicate(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)

	if _, err := svc.CreatePlayer(context.Background(), validCreateInput("Martin Odegaard")); err != nil {
		t.Fatalf("first create: %v", err)
	}

	dup := validCreateInput("Martin Odegaard")
	dup.Nationality = "England"
	dup.Stints = nil

	_, err := svc.CreatePlayer(context.Background(), dup)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRosterService_CreatePlayer_UnknownTeam(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)

	input := validCreateInput("Gabriel Jesus")
	input.Stints = []stint.TeamStint{{TeamID: 999, JoinDate: day(2024, time.July, 1)}}

	_, err := svc.CreatePlayer(context.Background(), input)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown team, got %v", err)
	}
}

func TestRosterService_CreatePlayer_InvalidAge(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)

	input := validCreateInput("Ethan Nwaneri")
	input.Age = 15

	_, err := svc.CreatePlayer(context.Background(), input)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRosterService_UpdatePlayer_EmptyPatchEchoesCurrent(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)
	created, err := svc.CreatePlayer(context.Background(), validCreateInput("Leandro Trossard"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.UpdatePlayer(context.Background(), created.ID, player.Patch{})
	if err != nil {
		t.Fatalf("empty patch update: %v", err)
	}
	if got.Name != "Leandro Trossard" || got.Age != 24 {
		t.Fatalf("empty patch must not change the player, got %+v", got)
	}
}

func TestRosterService_UpdatePlayer(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)
	created, err := svc.CreatePlayer(context.Background(), validCreateInput("Kai Havertz"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newAge := 26
	newPos := player.PositionMidfielder
	updated, err := svc.UpdatePlayer(context.Background(), created.ID, player.Patch{Age: &newAge, Position: &newPos})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Age != 26 || updated.Position != player.PositionMidfielder {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Name != "Kai Havertz" {
		t.Fatalf("untouched fields must survive, got name %q", updated.Name)
	}
}

func TestRosterService_UpdatePlayer_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)

	age := 20
	_, err := svc.UpdatePlayer(context.Background(), 42, player.Patch{Age: &age})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRosterService_DeletePlayer(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)
	created, err := svc.CreatePlayer(context.Background(), validCreateInput("Ben White"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeletePlayer(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeletePlayer(context.Background(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete must be ErrNotFound, got %v", err)
	}
}

func TestRosterService_AppendStints(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)

	input := validCreateInput("William Saliba")
	input.Stints = []stint.TeamStint{
		{TeamID: 4, JoinDate: day(2019, time.July, 1), LeaveDate: dayPtr(2022, time.June, 30)},
	}
	created, err := svc.CreatePlayer(context.Background(), input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.AppendStints(context.Background(), created.ID, []stint.TeamStint{
		{TeamID: 1, JoinDate: day(2022, time.July, 1)},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(updated.Stints) != 2 {
		t.Fatalf("expected 2 stints, got %d", len(updated.Stints))
	}
}

func TestRosterService_AppendStints_OverlapWithPersisted(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)

	created, err := svc.CreatePlayer(context.Background(), validCreateInput("Gabriel Martinelli"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The persisted stint is open-ended, so anything before now collides.
	_, err = svc.AppendStints(context.Background(), created.ID, []stint.TeamStint{
		{TeamID: 2, JoinDate: day(2024, time.January, 1), LeaveDate: dayPtr(2024, time.June, 30)},
	})
	if !errors.Is(err, stint.ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
}

func TestRosterService_AppendStints_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)

	_, err := svc.AppendStints(context.Background(), 99, []stint.TeamStint{
		{TeamID: 1, JoinDate: day(2024, time.July, 1)},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRosterService_ImportPlayers(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)

	bad := validCreateInput("Jorginho")
	bad.Stints = []stint.TeamStint{{TeamID: 999, JoinDate: day(2023, time.July, 1)}}

	first := validCreateInput("Jurrien Timber")
	first.Stints = []stint.TeamStint{{TeamID: 6, JoinDate: day(2020, time.July, 1), LeaveDate: dayPtr(2023, time.June, 30)}}
	second := validCreateInput("Takehiro Tomiyasu")
	second.Nationality = "Japan"
	second.Stints = nil

	result, err := svc.ImportPlayers(context.Background(), ImportInput{
		Players:    []CreatePlayerInput{first, bad, second},
		MaxWorkers: 99,
	})
	if err != nil {
		t.Fatalf("ImportPlayers error: %v", err)
	}

	if result.TaskCount != 3 {
		t.Fatalf("expected 3 tasks, got=%d", result.TaskCount)
	}
	if result.SuccessCount != 2 {
		t.Fatalf("expected 2 created, got=%d", result.SuccessCount)
	}
	if result.FailedCount != 1 {
		t.Fatalf("expected 1 failed, got=%d", result.FailedCount)
	}
	if result.WorkerCount != 3 {
		t.Fatalf("worker count must be clamped to task count, got=%d", result.WorkerCount)
	}

	for i, item := range result.Items {
		if item.Index != i {
			t.Fatalf("items must be ordered by submission index, got %+v", result.Items)
		}
	}
	if result.Items[1].Status != importStatusFailed || result.Items[1].Message == "" {
		t.Fatalf("failed item must carry a message, got %+v", result.Items[1])
	}
	if result.Items[0].PlayerID == 0 || result.Items[2].PlayerID == 0 {
		t.Fatalf("created items must carry player ids, got %+v", result.Items)
	}
}

func TestRosterService_ImportPlayers_Empty(t *testing.T) {
	t.Parallel()

	svc, _ := newRosterService(nil)

	_, err := svc.ImportPlayers(context.Background(), ImportInput{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNormalizeImportWorkerCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value, tasks, want int
	}{
		{0, 10, defaultImportWorkers},
		{-1, 10, defaultImportWorkers},
		{99, 10, maxImportWorkers},
		{6, 3, 3},
		{2, 10, 2},
		{5, 0, 1},
	}
	for _, tc := range cases {
		if got := normalizeImportWorkerCount(tc.value, tc.tasks); got != tc.want {
			t.Fatalf("normalizeImportWorkerCount(%d, %d) = %d, want %d", tc.value, tc.tasks, got, tc.want)
		}
	}
}

type countingPlayerRepo struct {
	player.Repository
	listCalls atomic.Int32
}

func (c *countingPlayerRepo) List(ctx context.Context) ([]player.Player, error) {
	c.listCalls.Add(1)
	return c.Repository.List(ctx)
}

func TestRosterService_ListPlayers_CachesAndInvalidates(t *testing.T) {
	t.Parallel()

	inner := memory.NewPlayerRepository(memory.NewTeamRepository(memory.SeedTeams()))
	counting := &countingPlayerRepo{Repository: inner}

	svc := NewRosterService(counting, cache.NewStore(time.Minute), logging.NewNop())
	svc.now = func() time.Time { return testNow }

	ctx := context.Background()
	if _, err := svc.ListPlayers(ctx); err != nil {
		t.Fatalf("first list: %v", err)
	}
	if _, err := svc.ListPlayers(ctx); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if got := counting.listCalls.Load(); got != 1 {
		t.Fatalf("second list must be served from cache, repo hit %d times", got)
	}

	if _, err := svc.CreatePlayer(ctx, validCreateInput("Myles Lewis-Skelly")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ListPlayers(ctx); err != nil {
		t.Fatalf("list after write: %v", err)
	}
	if got := counting.listCalls.Load(); got != 2 {
		t.Fatalf("writes must invalidate the list cache, repo hit %d times", got)
	}
}
