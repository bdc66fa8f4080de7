package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// String renders the mark as shown on the board; Empty renders as "".
func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other mark. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// ParseCell reads "X" or "O" (case-insensitive).
func ParseCell(s string) (Cell, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	}
	return Empty, fmt.Errorf("%w: mark %q", ErrInvalidBoard, s)
}

// Size is the number of cells on the board.
const Size = 9

// Board is a fixed 3x3 board stored row-major.
type Board [Size]Cell

// ErrInvalidBoard is returned when a board or mark cannot be parsed.
var ErrInvalidBoard = errors.New("invalid board")

// Line is one of the index triples that wins when uniformly marked.
type Line [3]int

// Lines lists every winning line in canonical order: rows, columns, diagonals.
var Lines = [8]Line{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Corners are the four corner indices.
var Corners = [4]int{0, 2, 6, 8}

// Center is the index of the middle cell.
const Center = 4

// Index converts a row/column pair (0..2) to a board index.
func Index(r, c int) int { return r*3 + c }

// RowCol converts a board index to its row and column.
func RowCol(idx int) (int, int) { return idx / 3, idx % 3 }

// EmptyCells returns the indices of empty cells in ascending order.
func (b Board) EmptyCells() []int {
	out := make([]int, 0, Size)
	for i, c := range b {
		if c == Empty {
			out = append(out, i)
		}
	}
	return out
}

// CountEmpty returns the number of empty cells.
func (b Board) CountEmpty() int {
	n := 0
	for _, c := range b {
		if c == Empty {
			n++
		}
	}
	return n
}

// Full reports whether every cell is occupied.
func (b Board) Full() bool { return b.CountEmpty() == 0 }

// With returns a copy of the board with idx set to mark.
func (b Board) With(idx int, mark Cell) Board {
	b[idx] = mark
	return b
}

// String writes the board as 9 characters, '.' for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for _, c := range b {
		if c == Empty {
			sb.WriteByte('.')
			continue
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

// ParseBoard reads the 9 character form written by Board.String. Empty cells
// may be written as '.', '-', '_' or a space. Separators '/' and '|' between
// rows are ignored.
func ParseBoard(s string) (Board, error) {
	var b Board
	i := 0
	for _, r := range s {
		var c Cell
		switch r {
		case '/', '|', '\n':
			continue
		case 'x', 'X':
			c = X
		case 'o', 'O':
			c = O
		case '.', '-', '_', ' ':
			c = Empty
		default:
			return Board{}, fmt.Errorf("%w: unexpected %q", ErrInvalidBoard, r)
		}
		if i >= Size {
			return Board{}, fmt.Errorf("%w: more than %d cells", ErrInvalidBoard, Size)
		}
		b[i] = c
		i++
	}
	if i != Size {
		return Board{}, fmt.Errorf("%w: got %d cells, want %d", ErrInvalidBoard, i, Size)
	}
	return b, nil
}
