package service

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
)

// AreaSnapshot is a copy of an area's state taken after a successful command.
// Game is the most recent game, finished or not, and nil before the first join.
type AreaSnapshot struct {
	AreaID  string               `json:"area_id"`
	Game    *entity.Game         `json:"game,omitempty"`
	History []entity.MatchRecord `json:"history"`
}

// Listener is notified synchronously, in command order, while the area is locked.
// Implementations must not call back into the same area and must not block.
type Listener interface {
	AreaChanged(ctx context.Context, snapshot AreaSnapshot)
}

type ListenerFunc func(ctx context.Context, snapshot AreaSnapshot)

func (that ListenerFunc) AreaChanged(ctx context.Context, snapshot AreaSnapshot) {
	that(ctx, snapshot)
}

type ListenerID uint64
