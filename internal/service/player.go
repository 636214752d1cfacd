package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
	"github.com/rocketscienceinc/tictactoe-area/internal/pkg"
)

const defaultNameLength = 8

type PlayerService interface {
	GetOrCreate(ctx context.Context, id, name string) (*entity.Player, error)
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type playerService struct {
	playerRepo playerRepo
}

func NewPlayerService(playerRepo playerRepo) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
	}
}

// GetOrCreate returns the registered player, registering it first when the ID
// is unknown or empty. A non-empty name replaces the stored one.
func (that *playerService) GetOrCreate(ctx context.Context, id, name string) (*entity.Player, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	if id == "" {
		id = pkg.GenerateNewPlayerID()
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("get player by id: %w", err)
	}

	if err == nil && (name == "" || name == player.Name) {
		return player, nil
	}

	if name == "" {
		name = defaultName(id)
	}

	player = &entity.Player{ID: id, Name: name}
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	return player, nil
}

func (that *playerService) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get player by id: %w", err)
	}

	return player, nil
}

func defaultName(id string) string {
	if len(id) > defaultNameLength {
		id = id[:defaultNameLength]
	}

	return "player-" + id
}
