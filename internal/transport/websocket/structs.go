package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
	"github.com/rocketscienceinc/tictactoe-area/internal/service"
)

const (
	ActionConnect     = "connect"
	ActionAreaEnter   = "area:enter"
	ActionGameJoin    = "game:join"
	ActionGameMove    = "game:move"
	ActionGameLeave   = "game:leave"
	ActionAreaChanged = "area:changed"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is what clients send. Fields are read per action.
type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	AreaID string         `json:"area_id,omitempty"`
	GameID string         `json:"game_id,omitempty"`
	Move   *entity.Move   `json:"move,omitempty"`
}

type ResponsePayload struct {
	Player *entity.Player        `json:"player,omitempty"`
	GameID string                `json:"game_id,omitempty"`
	Area   *service.AreaSnapshot `json:"area,omitempty"`
	Error  string                `json:"error,omitempty"`
	Code   string                `json:"code,omitempty"`
}
