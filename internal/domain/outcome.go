package domain

// Status is the state of play derived from a board.
type Status uint8

const (
	InProgress Status = iota
	Win
	Draw
)

func (s Status) String() string {
	switch s {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Outcome is the result of evaluating a board. Line is only meaningful when
// Status is Win.
type Outcome struct {
	Status Status
	Winner Cell
	Line   Line
}

// Evaluate scans the winning lines in canonical order and reports the first
// complete one. A full board without a complete line is a draw.
func Evaluate(b Board) Outcome {
	for _, ln := range Lines {
		c := b[ln[0]]
		if c != Empty && b[ln[1]] == c && b[ln[2]] == c {
			return Outcome{Status: Win, Winner: c, Line: ln}
		}
	}
	if b.Full() {
		return Outcome{Status: Draw}
	}
	return Outcome{Status: InProgress}
}

// Over reports whether the game has ended.
func (o Outcome) Over() bool { return o.Status != InProgress }

// WinnerIs reports whether mark completed a line.
func (o Outcome) WinnerIs(mark Cell) bool { return o.Status == Win && o.Winner == mark }

// Contains reports whether idx lies on the winning line.
func (o Outcome) Contains(idx int) bool {
	if o.Status != Win {
		return false
	}
	return o.Line[0] == idx || o.Line[1] == idx || o.Line[2] == idx
}
