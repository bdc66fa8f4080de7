package domain

import (
	"errors"
	"fmt"
)

// Game holds a Tic-Tac-Toe match together with its move history. Board, Turn,
// Outcome, Winner, Over and Moves describe the step currently shown and are
// refreshed after every change.
type Game struct {
	History []Board
	Step    int

	Board   Board
	Turn    Cell
	Outcome Outcome
	Winner  Cell
	Over    bool
	Moves   int
}

// Errors returned by domain operations.
var (
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrGameOver    = errors.New("game over")
	ErrInvalidStep = errors.New("invalid step")
)

// New returns a new game with X to move.
func New() Game {
	g := Game{History: []Board{{}}}
	g.refresh()
	return g
}

// Play attempts to play the current turn at row r, column c (0..2).
func (g *Game) Play(r, c int) error {
	if g.Over {
		return ErrGameOver
	}
	if r < 0 || r > 2 || c < 0 || c > 2 {
		return ErrOutOfBounds
	}
	return g.PlayIndex(Index(r, c))
}

// PlayIndex plays the current turn at a board index. Playing while an earlier
// step is shown discards the later history.
func (g *Game) PlayIndex(idx int) error {
	if g.Over {
		return ErrGameOver
	}
	if idx < 0 || idx >= Size {
		return ErrOutOfBounds
	}
	if g.Board[idx] != Empty {
		return ErrOccupied
	}

	next := g.Board.With(idx, g.Turn)
	g.History = append(g.History[:g.Step+1:g.Step+1], next)
	g.Step++
	g.refresh()
	return nil
}

// JumpTo shows an earlier (or later) step of the history without discarding it.
func (g *Game) JumpTo(step int) error {
	if step < 0 || step >= len(g.History) {
		return ErrInvalidStep
	}
	g.Step = step
	g.refresh()
	return nil
}

// Reset clears the history back to the empty board.
func (g *Game) Reset() {
	*g = New()
}

// Latest reports whether the shown step is the last one played.
func (g *Game) Latest() bool { return g.Step == len(g.History)-1 }

// Move describes the cell filled at one step of the history.
type Move struct {
	Step int
	Mark Cell
	Idx  int
	Row  int
	Col  int
}

// Label is the 1-based "(row, col)" shown in the move list.
func (m Move) Label() string { return fmt.Sprintf("(%d, %d)", m.Row+1, m.Col+1) }

// MoveAt returns the move that produced History[step]. Step 0 has no move.
func (g *Game) MoveAt(step int) (Move, bool) {
	if step <= 0 || step >= len(g.History) {
		return Move{}, false
	}
	prev, cur := g.History[step-1], g.History[step]
	for i := range cur {
		if cur[i] != prev[i] {
			r, c := RowCol(i)
			return Move{Step: step, Mark: cur[i], Idx: i, Row: r, Col: c}, true
		}
	}
	return Move{}, false
}

// MoveList returns every move of the history in play order.
func (g *Game) MoveList() []Move {
	out := make([]Move, 0, len(g.History)-1)
	for s := 1; s < len(g.History); s++ {
		if m, ok := g.MoveAt(s); ok {
			out = append(out, m)
		}
	}
	return out
}

func (g *Game) refresh() {
	g.Board = g.History[g.Step]
	g.Moves = g.Step
	// X moves on even steps
	if g.Step%2 == 0 {
		g.Turn = X
	} else {
		g.Turn = O
	}
	g.Outcome = Evaluate(g.Board)
	g.Over = g.Outcome.Over()
	g.Winner = Empty
	if g.Outcome.Status == Win {
		g.Winner = g.Outcome.Winner
	}
}
