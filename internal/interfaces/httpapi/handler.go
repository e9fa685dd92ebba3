package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/roster-api/internal/domain/player"
	"github.com/riskibarqy/roster-api/internal/domain/stats"
	"github.com/riskibarqy/roster-api/internal/domain/stint"
	"github.com/riskibarqy/roster-api/internal/domain/team"
	"github.com/riskibarqy/roster-api/internal/platform/logging"
	"github.com/riskibarqy/roster-api/internal/usecase"
)

type Handler struct {
	rosterService *usecase.RosterService
	teamService   *usecase.TeamService
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	rosterService *usecase.RosterService,
	teamService *usecase.TeamService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		rosterService: rosterService,
		teamService:   teamService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type createPlayerRequest struct {
	Name        string         `json:"name" validate:"required"`
	Position    string         `json:"position" validate:"required"`
	Age         int            `json:"age" validate:"required"`
	Nationality string         `json:"nationality" validate:"required"`
	TeamStints  []stintRequest `json:"teamStints" validate:"dive"`
	Statistics  []statRequest  `json:"statistics" validate:"dive"`
}

type stintRequest struct {
	TeamID    int64   `json:"teamId" validate:"required,gt=0"`
	JoinDate  string  `json:"joinDate" validate:"required"`
	LeaveDate *string `json:"leaveDate"`
}

type statRequest struct {
	Season      string `json:"season" validate:"required"`
	GamesPlayed int    `json:"gamesPlayed"`
	Goals       int    `json:"goals"`
	Assists     int    `json:"assists"`
}

type updatePlayerRequest struct {
	Name        *string `json:"name"`
	Position    *string `json:"position"`
	Age         *int    `json:"age"`
	Nationality *string `json:"nationality"`
}

type appendStintsRequest struct {
	TeamStints []stintRequest `json:"teamStints" validate:"required,min=1,dive"`
}

type importPlayersRequest struct {
	Players    []createPlayerRequest `json:"players" validate:"required,min=1,dive"`
	MaxWorkers int                   `json:"maxWorkers"`
}

type playerDTO struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Position    string     `json:"position"`
	Age         int        `json:"age"`
	Nationality string     `json:"nationality"`
	CreatedAt   string     `json:"createdAt"`
	TeamStints  []stintDTO `json:"teamStints"`
	Statistics  []statDTO  `json:"statistics"`
}

type stintDTO struct {
	TeamID    int64   `json:"teamId"`
	TeamName  string  `json:"teamName"`
	League    string  `json:"league"`
	Country   string  `json:"country"`
	Founded   int     `json:"founded"`
	JoinDate  string  `json:"joinDate"`
	LeaveDate *string `json:"leaveDate"`
}

type statDTO struct {
	ID          int64  `json:"id"`
	Season      string `json:"season"`
	GamesPlayed int    `json:"gamesPlayed"`
	Goals       int    `json:"goals"`
	Assists     int    `json:"assists"`
}

type teamDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	League  string `json:"league"`
	Country string `json:"country"`
	Founded int    `json:"founded"`
}

func playerToDTO(ctx context.Context, v player.Player) playerDTO {
	ctx, span := startSpan(ctx, "httpapi.playerToDTO")
	defer span.End()

	stints := make([]stintDTO, 0, len(v.Stints))
	for _, item := range v.Stints {
		stints = append(stints, stintToDTO(ctx, item))
	}

	statistics := make([]statDTO, 0, len(v.Stats))
	for _, item := range v.Stats {
		statistics = append(statistics, statDTO{
			ID:          item.ID,
			Season:      string(item.Season),
			GamesPlayed: item.GamesPlayed,
			Goals:       item.Goals,
			Assists:     item.Assists,
		})
	}

	return playerDTO{
		ID:          v.ID,
		Name:        v.Name,
		Position:    string(v.Position),
		Age:         v.Age,
		Nationality: v.Nationality,
		CreatedAt:   v.CreatedAt.UTC().Format(time.RFC3339),
		TeamStints:  stints,
		Statistics:  statistics,
	}
}

func stintToDTO(ctx context.Context, v player.TeamEntry) stintDTO {
	ctx, span := startSpan(ctx, "httpapi.stintToDTO")
	defer span.End()

	out := stintDTO{
		TeamID:   v.TeamID,
		TeamName: v.TeamName,
		League:   v.TeamLeague,
		Country:  v.TeamCountry,
		Founded:  v.TeamFounded,
		JoinDate: v.JoinDate.UTC().Format(time.RFC3339),
	}
	if v.LeaveDate != nil {
		leave := v.LeaveDate.UTC().Format(time.RFC3339)
		out.LeaveDate = &leave
	}
	return out
}

func teamToDTO(ctx context.Context, v team.Team) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	return teamDTO{
		ID:      v.ID,
		Name:    v.Name,
		League:  v.League,
		Country: v.Country,
		Founded: v.Founded,
	}
}

func createRequestToInput(req createPlayerRequest) (usecase.CreatePlayerInput, error) {
	stints, err := stintRequestsToDomain(req.TeamStints)
	if err != nil {
		return usecase.CreatePlayerInput{}, err
	}

	statistics := make([]stats.SeasonStatistic, 0, len(req.Statistics))
	for _, item := range req.Statistics {
		statistics = append(statistics, stats.SeasonStatistic{
			Season:      stats.Season(item.Season),
			GamesPlayed: item.GamesPlayed,
			Goals:       item.Goals,
			Assists:     item.Assists,
		})
	}

	return usecase.CreatePlayerInput{
		Name:        req.Name,
		Position:    player.Position(req.Position),
		Age:         req.Age,
		Nationality: req.Nationality,
		Stints:      stints,
		Stats:       statistics,
	}, nil
}

func stintRequestsToDomain(items []stintRequest) ([]stint.TeamStint, error) {
	out := make([]stint.TeamStint, 0, len(items))
	for _, item := range items {
		join, err := stint.ParseDate(item.JoinDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
		}

		converted := stint.TeamStint{
			TeamID:   item.TeamID,
			JoinDate: join,
		}
		if item.LeaveDate != nil {
			leave, err := stint.ParseDate(*item.LeaveDate)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
			}
			converted.LeaveDate = &leave
		}

		out = append(out, converted)
	}
	return out, nil
}
