package apperror

import "errors"

// Messages are part of the wire contract: clients match on them exactly.
var (
	ErrPlayerAlreadyInGame   = errors.New("Player is already in this game") //nolint: stylecheck // user facing message
	ErrGameFull              = errors.New("Game is full")                   //nolint: stylecheck // user facing message
	ErrPlayerNotInGame       = errors.New("Player is not in this game")     //nolint: stylecheck // user facing message
	ErrGameNotInProgress     = errors.New("Game is not in progress")        //nolint: stylecheck // user facing message
	ErrNotYourTurn           = errors.New("Not your turn")                  //nolint: stylecheck // user facing message
	ErrBoardPositionNotEmpty = errors.New("Board position is not empty")    //nolint: stylecheck // user facing message
	ErrGameIDMismatch        = errors.New("Game ID mismatch")               //nolint: stylecheck // user facing message
	ErrInvalidCommand        = errors.New("Invalid command")                //nolint: stylecheck // user facing message
	ErrInvalidMove           = errors.New("Invalid move")                   //nolint: stylecheck // user facing message

	ErrNotFound = errors.New("not found")
)

const CodeInternal = "internal_error"

var codes = []struct {
	err  error
	code string
}{
	{ErrPlayerAlreadyInGame, "player_already_in_game"},
	{ErrGameFull, "game_full"},
	{ErrPlayerNotInGame, "player_not_in_game"},
	{ErrGameNotInProgress, "game_not_in_progress"},
	{ErrNotYourTurn, "not_your_turn"},
	{ErrBoardPositionNotEmpty, "board_position_not_empty"},
	{ErrGameIDMismatch, "game_id_mismatch"},
	{ErrInvalidCommand, "invalid_command"},
	{ErrInvalidMove, "invalid_move"},
	{ErrNotFound, "not_found"},
}

// Code returns the stable identifier of a (possibly wrapped) application error.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	return CodeInternal
}

// Message returns the user facing message of a known error, or a generic one.
func Message(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.err.Error()
		}
	}

	return "Internal error"
}
