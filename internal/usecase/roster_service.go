package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/roster-api/internal/domain/player"
	"github.com/riskibarqy/roster-api/internal/domain/stats"
	"github.com/riskibarqy/roster-api/internal/domain/stint"
	"github.com/riskibarqy/roster-api/internal/platform/cache"
	"github.com/riskibarqy/roster-api/internal/platform/logging"
)

const (
	cacheKeyPlayersList = "players:list"

	defaultImportWorkers = 4
	maxImportWorkers     = 8
)

// CreatePlayerInput carries an already-parsed create payload. Stint dates
// are normalized to UTC timestamps before they reach the service.
type CreatePlayerInput struct {
	Name        string
	Position    player.Position
	Age         int
	Nationality string
	Stints      []stint.TeamStint
	Stats       []stats.SeasonStatistic
}

type RosterService struct {
	playerRepo player.Repository
	cache      *cache.Store
	logger     *logging.Logger
	now        func() time.Time
}

func NewRosterService(playerRepo player.Repository, store *cache.Store, logger *logging.Logger) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{
		playerRepo: playerRepo,
		cache:      store,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *RosterService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListPlayers")
	defer span.End()

	if s.cache == nil {
		return s.loadPlayers(ctx)
	}

	value, err := s.cache.GetOrLoad(ctx, cacheKeyPlayersList, func(ctx context.Context) (any, error) {
		return s.loadPlayers(ctx)
	})
	if err != nil {
		return nil, err
	}

	players, ok := value.([]player.Player)
	if !ok {
		return s.loadPlayers(ctx)
	}
	return players, nil
}

func (s *RosterService) loadPlayers(ctx context.Context) ([]player.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

func (s *RosterService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CreatePlayer")
	defer span.End()

	if err := validateCreateInput(input); err != nil {
		return player.Player{}, err
	}
	if err := stint.CheckStints(input.Stints, nil, s.now()); err != nil {
		return player.Player{}, err
	}

	created, err := s.playerRepo.Create(ctx, player.CreateRecord{
		Name:        input.Name,
		Position:    input.Position,
		Age:         input.Age,
		Nationality: input.Nationality,
		Stints:      input.Stints,
		Stats:       input.Stats,
	})
	if err != nil {
		switch {
		case errors.Is(err, player.ErrDuplicate):
			return player.Player{}, fmt.Errorf("%w: player %s (%s) already exists", ErrConflict, input.Name, input.Nationality)
		case errors.Is(err, player.ErrTeamMissing):
			return player.Player{}, fmt.Errorf("%w: referenced team does not exist", ErrInvalidInput)
		case errors.Is(err, stint.ErrOverlap):
			return player.Player{}, err
		}
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	s.invalidate(ctx)
	return created, nil
}

func (s *RosterService) UpdatePlayer(ctx context.Context, id int64, patch player.Patch) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.UpdatePlayer")
	defer span.End()

	if id <= 0 {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	// An empty patch changes nothing and echoes the current state back.
	if patch.IsEmpty() {
		current, found, err := s.playerRepo.Get(ctx, id)
		if err != nil {
			return player.Player{}, fmt.Errorf("get player: %w", err)
		}
		if !found {
			return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, id)
		}
		return current, nil
	}

	if err := patch.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updated, found, err := s.playerRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, player.ErrDuplicate) {
			return player.Player{}, fmt.Errorf("%w: another player already holds that name and nationality", ErrConflict)
		}
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}
	if !found {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, id)
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *RosterService) DeletePlayer(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.DeletePlayer")
	defer span.End()

	if id <= 0 {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	found, err := s.playerRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: player=%d", ErrNotFound, id)
	}

	s.invalidate(ctx)
	return nil
}

func (s *RosterService) AppendStints(ctx context.Context, playerID int64, stints []stint.TeamStint) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AppendStints")
	defer span.End()

	if playerID <= 0 {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if len(stints) == 0 {
		return player.Player{}, fmt.Errorf("%w: at least one stint is required", ErrInvalidInput)
	}
	for _, item := range stints {
		if err := item.Validate(); err != nil {
			return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	existing, err := s.playerRepo.ListStints(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("list stints: %w", err)
	}
	if err := stint.CheckStints(stints, existing, s.now()); err != nil {
		return player.Player{}, err
	}

	updated, found, err := s.playerRepo.AppendStints(ctx, playerID, stints)
	if err != nil {
		switch {
		case errors.Is(err, player.ErrTeamMissing):
			return player.Player{}, fmt.Errorf("%w: referenced team does not exist", ErrInvalidInput)
		case errors.Is(err, stint.ErrOverlap):
			return player.Player{}, err
		}
		return player.Player{}, fmt.Errorf("append stints: %w", err)
	}
	if !found {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	s.invalidate(ctx)
	return updated, nil
}

type ImportInput struct {
	Players    []CreatePlayerInput
	MaxWorkers int
}

type ImportResult struct {
	TaskCount    int                `json:"task_count"`
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
	WorkerCount  int                `json:"worker_count"`
	Items        []ImportItemResult `json:"items"`
}

type ImportItemResult struct {
	Index      int    `json:"index"`
	PlayerID   int64  `json:"player_id,omitempty"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

const (
	importStatusCreated = "created"
	importStatusFailed  = "failed"
)

// ImportPlayers creates many players concurrently over a worker pool.
// Items succeed or fail independently; there is no cross-item atomicity.
func (s *RosterService) ImportPlayers(ctx context.Context, input ImportInput) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ImportPlayers")
	defer span.End()

	if len(input.Players) == 0 {
		return ImportResult{}, fmt.Errorf("%w: players are required", ErrInvalidInput)
	}

	workerCount := normalizeImportWorkerCount(input.MaxWorkers, len(input.Players))
	result := ImportResult{
		TaskCount:   len(input.Players),
		WorkerCount: workerCount,
		Items:       make([]ImportItemResult, 0, len(input.Players)),
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ImportResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan ImportItemResult, len(input.Players))

	var workers sync.WaitGroup
	for idx, item := range input.Players {
		idx, item := idx, item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := ImportItemResult{
				Index: idx,
				Name:  item.Name,
			}

			created, createErr := s.CreatePlayer(ctx, item)
			if createErr != nil {
				row.Status = importStatusFailed
				row.Message = createErr.Error()
				s.logger.WarnContext(ctx, "import player failed", "index", idx, "name", item.Name, "error", createErr)
			} else {
				row.Status = importStatusCreated
				row.PlayerID = created.ID
			}
			row.DurationMs = time.Since(start).Milliseconds()

			results <- row
		}); err != nil {
			workers.Done()
			return ImportResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Items = append(result.Items, row)
		if row.Status == importStatusCreated {
			result.SuccessCount++
		} else {
			result.FailedCount++
		}
	}

	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].Index < result.Items[j].Index
	})

	return result, nil
}

func (s *RosterService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.DeletePrefix(ctx, "players:")
}

func validateCreateInput(input CreatePlayerInput) error {
	patch := player.Patch{
		Name:        &input.Name,
		Position:    &input.Position,
		Age:         &input.Age,
		Nationality: &input.Nationality,
	}
	if err := patch.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, item := range input.Stints {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if err := stats.ValidateAll(input.Stats); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func normalizeImportWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = defaultImportWorkers
	}
	if value > maxImportWorkers {
		value = maxImportWorkers
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
