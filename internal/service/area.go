package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
	"github.com/rocketscienceinc/tictactoe-area/internal/pkg"
)

type listenerEntry struct {
	id       ListenerID
	listener Listener
}

// GameArea hosts at most one active game and the history of finished ones.
// Commands are serialized by the area's own lock.
type GameArea struct {
	logger *slog.Logger
	id     string
	newID  func() (string, error)

	mu      sync.Mutex
	game    *entity.Game
	history *entity.MatchHistory

	listenersMu    sync.Mutex
	listeners      []listenerEntry
	nextListenerID ListenerID
}

type AreaOption func(*GameArea)

// WithGameIDGenerator replaces the UUID based game ID generator.
func WithGameIDGenerator(gen func() (string, error)) AreaOption {
	return func(area *GameArea) {
		area.newID = gen
	}
}

func NewGameArea(logger *slog.Logger, id string, opts ...AreaOption) *GameArea {
	area := &GameArea{
		logger:  logger.With("component", "game_area", "areaID", id),
		id:      id,
		newID:   pkg.GenerateGameID,
		history: entity.NewMatchHistory(),
	}

	for _, opt := range opts {
		opt(area)
	}

	return area
}

func (that *GameArea) ID() string {
	return that.id
}

// Register adds a listener for area changes.
func (that *GameArea) Register(listener Listener) ListenerID {
	that.listenersMu.Lock()
	defer that.listenersMu.Unlock()

	that.nextListenerID++
	that.listeners = append(that.listeners, listenerEntry{id: that.nextListenerID, listener: listener})

	return that.nextListenerID
}

// Unregister removes a listener; unknown IDs are ignored.
func (that *GameArea) Unregister(id ListenerID) {
	that.listenersMu.Lock()
	defer that.listenersMu.Unlock()

	for i, entry := range that.listeners {
		if entry.id == id {
			that.listeners = append(that.listeners[:i:i], that.listeners[i+1:]...)
			return
		}
	}
}

// Handle applies a player's command. On success listeners are notified with
// the new state; on failure the area is left untouched and nobody is notified.
func (that *GameArea) Handle(ctx context.Context, cmd Command, player *entity.Player) (CommandResult, error) {
	if player == nil || player.ID == "" {
		return CommandResult{}, fmt.Errorf("%w: player is required", apperror.ErrInvalidCommand)
	}

	log := that.logger.With("method", "Handle", "command", cmd.Type, "playerID", player.ID)

	that.mu.Lock()
	defer that.mu.Unlock()

	var (
		result CommandResult
		err    error
	)

	switch cmd.Type {
	case CommandJoinGame:
		result, err = that.joinGame(player)
	case CommandLeaveGame:
		err = that.leaveGame(cmd.GameID, player)
	case CommandGameMove:
		err = that.gameMove(cmd.GameID, cmd.Move, player)
	default:
		err = apperror.ErrInvalidCommand
	}

	if err != nil {
		log.Debug("command rejected", "error", err)
		return CommandResult{}, err
	}

	log.Debug("command applied", "gameID", that.game.ID, "status", that.game.Status)

	that.emitAreaChanged(ctx)

	return result, nil
}

func (that *GameArea) joinGame(player *entity.Player) (CommandResult, error) {
	if that.activeGame() != nil {
		if err := that.game.Join(player); err != nil {
			return CommandResult{}, err
		}

		return CommandResult{GameID: that.game.ID}, nil
	}

	gameID, err := that.newID()
	if err != nil {
		return CommandResult{}, fmt.Errorf("failed to create game: %w", err)
	}

	game := entity.NewGame(gameID)
	if err = game.Join(player); err != nil {
		return CommandResult{}, err
	}

	that.game = game
	that.logger.Info("game created", "gameID", gameID)

	return CommandResult{GameID: gameID}, nil
}

func (that *GameArea) leaveGame(gameID string, player *entity.Player) error {
	game, err := that.confirmGameID(gameID)
	if err != nil {
		return err
	}

	if err = game.Leave(player.ID); err != nil {
		return err
	}

	that.recordIfOver()

	return nil
}

func (that *GameArea) gameMove(gameID string, move *entity.Move, player *entity.Player) error {
	game, err := that.confirmGameID(gameID)
	if err != nil {
		return err
	}

	if move == nil {
		return fmt.Errorf("%w: move is required", apperror.ErrInvalidMove)
	}

	if err = game.ApplyMove(player.ID, *move); err != nil {
		return err
	}

	that.recordIfOver()

	return nil
}

// activeGame returns the current game unless there is none or it has finished.
func (that *GameArea) activeGame() *entity.Game {
	if that.game == nil || that.game.IsOver() {
		return nil
	}

	return that.game
}

func (that *GameArea) confirmGameID(gameID string) (*entity.Game, error) {
	game := that.activeGame()
	if game == nil {
		return nil, apperror.ErrGameNotInProgress
	}

	if game.ID != gameID {
		return nil, apperror.ErrGameIDMismatch
	}

	return game, nil
}

func (that *GameArea) recordIfOver() {
	if !that.game.IsOver() {
		return
	}

	record := entity.NewMatchRecord(that.game)
	that.history.Append(record)

	that.logger.Info("game over", "gameID", that.game.ID, "scores", record.Scores)
}

func (that *GameArea) emitAreaChanged(ctx context.Context) {
	that.listenersMu.Lock()
	listeners := make([]listenerEntry, len(that.listeners))
	copy(listeners, that.listeners)
	that.listenersMu.Unlock()

	for _, entry := range listeners {
		entry.listener.AreaChanged(ctx, that.snapshot())
	}
}

// Snapshot returns a copy of the area's current state.
func (that *GameArea) Snapshot() AreaSnapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

// History returns the finished games in the order they ended.
func (that *GameArea) History() []entity.MatchRecord {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.history.Records()
}

func (that *GameArea) snapshot() AreaSnapshot {
	return AreaSnapshot{
		AreaID:  that.id,
		Game:    that.game.Clone(),
		History: that.history.Records(),
	}
}
