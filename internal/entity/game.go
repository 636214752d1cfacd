package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
)

type Status string

const (
	StatusWaitingToStart Status = "WAITING_TO_START"
	StatusInProgress     Status = "IN_PROGRESS"
	StatusOver           Status = "OVER"
)

const maxMoves = BoardSize * BoardSize

// Game is one tic-tac-toe session. X is the first seat, O the second.
// Whose turn it is follows from len(Moves) and is never stored.
type Game struct {
	ID     string  `json:"id"`
	X      *Player `json:"x,omitempty"`
	O      *Player `json:"o,omitempty"`
	Moves  []Move  `json:"moves"`
	Status Status  `json:"status"`
	Winner *Player `json:"winner,omitempty"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:     id,
		Moves:  []Move{},
		Status: StatusWaitingToStart,
	}
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaitingToStart
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *Game) IsOver() bool {
	return that.Status == StatusOver
}

func (that *Game) IsTie() bool {
	return that.IsOver() && that.Winner == nil
}

func (that *Game) HasPlayer(id string) bool {
	return that.X.Is(id) || that.O.Is(id)
}

// Opponent returns the occupant of the other seat, or nil.
func (that *Game) Opponent(id string) *Player {
	switch {
	case that.X.Is(id):
		return that.O
	case that.O.Is(id):
		return that.X
	default:
		return nil
	}
}

// Turn returns the mark whose seat moves next.
func (that *Game) Turn() Mark {
	if len(that.Moves)%2 == 0 {
		return MarkX
	}

	return MarkO
}

// CurrentPlayer returns the occupant of the seat whose turn it is.
func (that *Game) CurrentPlayer() *Player {
	if that.Turn() == MarkX {
		return that.X
	}

	return that.O
}

func (that *Game) Board() Board {
	var board Board
	for _, move := range that.Moves {
		board[move.Row][move.Col] = move.Mark
	}

	return board
}

func (that *Game) ConfirmInProgress() error {
	switch that.Status {
	case StatusInProgress:
		return nil
	case StatusWaitingToStart, StatusOver:
		return apperror.ErrGameNotInProgress
	default:
		return fmt.Errorf("%w: unknown status %q", apperror.ErrGameNotInProgress, that.Status)
	}
}

// Join seats the player in the first free seat, X before O.
func (that *Game) Join(player *Player) error {
	if that.HasPlayer(player.ID) {
		return apperror.ErrPlayerAlreadyInGame
	}

	if that.X != nil && that.O != nil {
		return apperror.ErrGameFull
	}

	if that.X == nil {
		that.X = player.Clone()
	} else {
		that.O = player.Clone()
	}

	if that.X != nil && that.O != nil {
		that.Status = StatusInProgress
	} else {
		that.Status = StatusWaitingToStart
	}

	return nil
}

// ApplyMove validates and records a move. The mark is stored as supplied;
// it is not derived from the mover's seat.
func (that *Game) ApplyMove(playerID string, move Move) error {
	if err := that.ConfirmInProgress(); err != nil {
		return err
	}

	if !that.CurrentPlayer().Is(playerID) {
		return apperror.ErrNotYourTurn
	}

	if !move.InBounds() || !move.Mark.IsValid() {
		return fmt.Errorf("%w: row %d col %d mark %q", apperror.ErrInvalidMove, move.Row, move.Col, move.Mark)
	}

	for _, played := range that.Moves {
		if played.SameCell(move) {
			return apperror.ErrBoardPositionNotEmpty
		}
	}

	that.Moves = append(that.Moves, move)
	that.updateGameState(playerID, move.Mark)

	return nil
}

func (that *Game) updateGameState(playerID string, mark Mark) {
	board := that.Board()

	switch {
	// the mover completed a line
	case board.HasLine(mark):
		that.Status = StatusOver
		if that.X.Is(playerID) {
			that.Winner = that.X.Clone()
		} else {
			that.Winner = that.O.Clone()
		}
	// board is full without a line
	case len(that.Moves) == maxMoves:
		that.Status = StatusOver
		that.Winner = nil
	}
}

// Leave removes the player. With both seats taken the leaver forfeits and the
// opponent wins; otherwise the seat is freed and the game waits again.
func (that *Game) Leave(playerID string) error {
	if !that.HasPlayer(playerID) {
		return apperror.ErrPlayerNotInGame
	}

	if that.IsOver() {
		return apperror.ErrGameNotInProgress
	}

	if that.X != nil && that.O != nil {
		that.Winner = that.Opponent(playerID).Clone()
		that.Status = StatusOver

		return nil
	}

	if that.X.Is(playerID) {
		that.X = nil
	} else {
		that.O = nil
	}

	that.Status = StatusWaitingToStart

	return nil
}

// Clone returns a deep copy safe to hand to other goroutines.
func (that *Game) Clone() *Game {
	if that == nil {
		return nil
	}

	moves := make([]Move, len(that.Moves))
	copy(moves, that.Moves)

	return &Game{
		ID:     that.ID,
		X:      that.X.Clone(),
		O:      that.O.Clone(),
		Moves:  moves,
		Status: that.Status,
		Winner: that.Winner.Clone(),
	}
}
