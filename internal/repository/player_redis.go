package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
)

// Each player is a hash at ttt:player:<id>.
const (
	playerNamespace = "ttt:player:"

	fieldName      = "name"
	fieldUpdatedAt = "updated_at"
)

type redisPlayer struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisPlayerRepository(rdb *redis.Client) PlayerRepository {
	return &redisPlayer{
		rdb: rdb,
		now: time.Now,
	}
}

func playerKey(id string) string {
	return playerNamespace + id
}

func (that *redisPlayer) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	err := that.rdb.HSet(ctx, playerKey(player.ID), map[string]any{
		fieldName:      player.Name,
		fieldUpdatedAt: that.now().UTC().Format(time.RFC3339),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to save player %s: %w", player.ID, err)
	}

	return nil
}

// GetByID reads the hash back. A missing key comes back as an empty map.
func (that *redisPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	fields, err := that.rdb.HGetAll(ctx, playerKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load player %s: %w", id, err)
	}

	if len(fields) == 0 {
		return nil, ErrPlayerNotFound
	}

	return &entity.Player{
		ID:   id,
		Name: fields[fieldName],
	}, nil
}
