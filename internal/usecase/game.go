package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
	"github.com/rocketscienceinc/tictactoe-area/internal/service"
)

type GameUseCase interface {
	Connect(ctx context.Context, playerID, name string) (*entity.Player, error)
	Enter(ctx context.Context, areaID string) (service.AreaSnapshot, error)

	Handle(ctx context.Context, areaID, playerID string, cmd service.Command) (service.CommandResult, error)

	Snapshot(areaID string) (service.AreaSnapshot, error)
	History(areaID string) ([]entity.MatchRecord, error)
	Areas() []string
}

type playerService interface {
	GetOrCreate(ctx context.Context, id, name string) (*entity.Player, error)
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type areaRegistry interface {
	GetOrCreate(id string) (*service.GameArea, error)
	Get(id string) (*service.GameArea, error)
	IDs() []string
}

type gameUseCase struct {
	logger *slog.Logger

	playerService playerService
	areas         areaRegistry
}

func NewGameUseCase(logger *slog.Logger, playerService playerService, areas areaRegistry) GameUseCase {
	return &gameUseCase{
		logger:        logger.With("component", "game_usecase"),
		playerService: playerService,
		areas:         areas,
	}
}

// Connect registers the player, or refreshes a known one.
func (that *gameUseCase) Connect(ctx context.Context, playerID, name string) (*entity.Player, error) {
	player, err := that.playerService.GetOrCreate(ctx, playerID, name)
	if err != nil {
		return nil, fmt.Errorf("could not connect player: %w", err)
	}

	that.logger.Info("player connected", "playerID", player.ID, "name", player.Name)

	return player, nil
}

// Enter opens the area, creating it when it does not exist yet.
func (that *gameUseCase) Enter(_ context.Context, areaID string) (service.AreaSnapshot, error) {
	area, err := that.areas.GetOrCreate(areaID)
	if err != nil {
		return service.AreaSnapshot{}, fmt.Errorf("failed to open area: %w", err)
	}

	return area.Snapshot(), nil
}

// Handle resolves the player and routes the command to the area.
func (that *gameUseCase) Handle(ctx context.Context, areaID, playerID string, cmd service.Command) (service.CommandResult, error) {
	player, err := that.playerService.GetByID(ctx, playerID)
	if err != nil {
		return service.CommandResult{}, fmt.Errorf("failed to get player: %w", err)
	}

	area, err := that.areas.GetOrCreate(areaID)
	if err != nil {
		return service.CommandResult{}, fmt.Errorf("failed to open area: %w", err)
	}

	result, err := area.Handle(ctx, cmd, player)
	if err != nil {
		return service.CommandResult{}, fmt.Errorf("%s failed: %w", cmd.Type, err)
	}

	return result, nil
}

func (that *gameUseCase) Snapshot(areaID string) (service.AreaSnapshot, error) {
	area, err := that.areas.Get(areaID)
	if err != nil {
		return service.AreaSnapshot{}, err
	}

	return area.Snapshot(), nil
}

func (that *gameUseCase) History(areaID string) ([]entity.MatchRecord, error) {
	area, err := that.areas.Get(areaID)
	if err != nil {
		return nil, err
	}

	return area.History(), nil
}

func (that *gameUseCase) Areas() []string {
	return that.areas.IDs()
}
