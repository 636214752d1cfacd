package service

import "github.com/rocketscienceinc/tictactoe-area/internal/entity"

type CommandType string

const (
	CommandJoinGame  CommandType = "JoinGame"
	CommandLeaveGame CommandType = "LeaveGame"
	CommandGameMove  CommandType = "GameMove"
)

// Command is a player request routed to a game area.
// GameID is required by LeaveGame and GameMove, Move by GameMove.
type Command struct {
	Type   CommandType  `json:"type"`
	GameID string       `json:"game_id,omitempty"`
	Move   *entity.Move `json:"move,omitempty"`
}

// CommandResult carries the game ID for JoinGame and is empty otherwise.
type CommandResult struct {
	GameID string `json:"game_id,omitempty"`
}
