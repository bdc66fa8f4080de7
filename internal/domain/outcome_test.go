package domain

import (
	"errors"
	"testing"
)

func mustBoard(t *testing.T, s string) Board {
	t.Helper()
	b, err := ParseBoard(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return b
}

func TestEvaluateEveryLine(t *testing.T) {
	for _, ln := range Lines {
		for _, mark := range []Cell{X, O} {
			var b Board
			for _, idx := range ln {
				b[idx] = mark
			}
			got := Evaluate(b)
			if got.Status != Win || got.Winner != mark || got.Line != ln {
				t.Fatalf("line %v mark %v: got %+v", ln, mark, got)
			}
			for _, idx := range ln {
				if !got.Contains(idx) {
					t.Fatalf("outcome should contain %d", idx)
				}
			}
		}
	}
}

func TestEvaluateDrawAndInProgress(t *testing.T) {
	cases := []struct {
		board string
		want  Status
	}{
		{".........", InProgress},
		{"XO.......", InProgress},
		{"XOXXOOOXX", Draw},
		{"XOXOXOOXO", Draw},
		{"XXOOOXXOX", Draw},
	}
	for _, tc := range cases {
		got := Evaluate(mustBoard(t, tc.board))
		if got.Status != tc.want {
			t.Fatalf("%s: want %v, got %v", tc.board, tc.want, got.Status)
		}
		if got.Winner != Empty || got.Contains(0) {
			t.Fatalf("%s: no winner expected, got %+v", tc.board, got)
		}
	}
}

func TestEvaluateFullBoardWithWinIsWin(t *testing.T) {
	got := Evaluate(mustBoard(t, "XXXOOXXOO"))
	if got.Status != Win || got.Winner != X || got.Line != (Line{0, 1, 2}) {
		t.Fatalf("expected X win on top row, got %+v", got)
	}
}

func TestEvaluateMultipleLinesUsesCanonicalOrder(t *testing.T) {
	cases := []struct {
		board string
		line  Line
		mark  Cell
	}{
		// row 0 and column 0
		{"XXXX..X..", Line{0, 1, 2}, X},
		// column 2 and diagonal 2,4,6
		{"..O.OOO.O", Line{2, 5, 8}, O},
		// both diagonals
		{"X.X.X.X.X", Line{0, 4, 8}, X},
		// contrived: O on row 1, X on row 2
		{"...OOOXXX", Line{3, 4, 5}, O},
	}
	for _, tc := range cases {
		got := Evaluate(mustBoard(t, tc.board))
		if got.Status != Win || got.Line != tc.line || got.Winner != tc.mark {
			t.Fatalf("%s: want %v on %v, got %+v", tc.board, tc.mark, tc.line, got)
		}
	}
}

func TestEvaluateIgnoresTurnAlternation(t *testing.T) {
	got := Evaluate(mustBoard(t, "OOO......"))
	if !got.WinnerIs(O) || got.WinnerIs(X) {
		t.Fatalf("expected O win on unbalanced board, got %+v", got)
	}
}

func TestParseBoard(t *testing.T) {
	b := mustBoard(t, "x-O/_ .|oXx")
	want := Board{X, Empty, O, Empty, Empty, Empty, O, X, X}
	if b != want {
		t.Fatalf("want %v, got %v", want, b)
	}
	if b.String() != "X.O...OXX" {
		t.Fatalf("unexpected round trip %q", b.String())
	}
	for _, bad := range []string{"", "XO", "XOXOXOXOXO", "XOXOXOXOZ"} {
		if _, err := ParseBoard(bad); !errors.Is(err, ErrInvalidBoard) {
			t.Fatalf("%q: expected ErrInvalidBoard, got %v", bad, err)
		}
	}
}

func TestBoardHelpers(t *testing.T) {
	b := mustBoard(t, "X...O...X")
	if got := b.EmptyCells(); len(got) != 6 || got[0] != 1 || got[5] != 7 {
		t.Fatalf("unexpected empty cells %v", got)
	}
	next := b.With(1, O)
	if b[1] != Empty || next[1] != O {
		t.Fatalf("With must not mutate the receiver")
	}
	if b.Full() || !mustBoard(t, "XOXXOOOXX").Full() {
		t.Fatalf("unexpected Full result")
	}
	if X.Opponent() != O || O.Opponent() != X || Empty.Opponent() != Empty {
		t.Fatalf("unexpected opponents")
	}
	if r, c := RowCol(7); r != 2 || c != 1 || Index(r, c) != 7 {
		t.Fatalf("unexpected row/col for 7: %d,%d", r, c)
	}
	if m, err := ParseCell("o"); err != nil || m != O {
		t.Fatalf("expected O, got %v %v", m, err)
	}
	if _, err := ParseCell("-"); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard, got %v", err)
	}
}
