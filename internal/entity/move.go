package entity

// BoardSize is the side length of the board.
const BoardSize = 3

type Mark string

const (
	MarkX Mark = "X"
	MarkO Mark = "O"

	MarkEmpty Mark = ""
)

func (that Mark) IsValid() bool {
	return that == MarkX || that == MarkO
}

type Move struct {
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	Mark Mark `json:"mark"`
}

func (that Move) InBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

func (that Move) SameCell(other Move) bool {
	return that.Row == other.Row && that.Col == other.Col
}

type Board [BoardSize][BoardSize]Mark

// WinLines lists every row, column and diagonal as (row, col) pairs.
var WinLines = [][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// HasLine reports whether mark holds all three cells of any win line.
func (that *Board) HasLine(mark Mark) bool {
	for _, line := range WinLines {
		if that[line[0][0]][line[0][1]] == mark &&
			that[line[1][0]][line[1][1]] == mark &&
			that[line[2][0]][line[2][1]] == mark {
			return true
		}
	}

	return false
}
