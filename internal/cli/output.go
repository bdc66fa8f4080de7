package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jaminalder/tictactoe/internal/domain"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case MoveResult:
		o.printMove(v)
	case Analysis:
		o.printAnalysis(v)
	case GameView:
		o.printGame(v)
	default:
		o.printJSON(data)
	}
}

func (o *Output) printMove(m MoveResult) {
	if m.Move < 0 {
		fmt.Fprintln(o.w, "no move: the board is full")
		return
	}
	fmt.Fprintf(o.w, "%d (%d, %d)\n", m.Move, m.Row+1, m.Col+1)
}

func (o *Output) printAnalysis(a Analysis) {
	b, _ := domain.ParseBoard(a.Board)
	o.printBoard(b)
	switch a.Status {
	case domain.Win.String():
		fmt.Fprintf(o.w, "Winner: %s on %v\n", a.Winner, a.Line)
		return
	case domain.Draw.String():
		fmt.Fprintln(o.w, "Draw")
		return
	}
	fmt.Fprintf(o.w, "%s to move\n", a.Mark)
	for _, s := range a.Scores {
		best := ""
		if s.Move == a.Best {
			best = "  <- best"
		}
		fmt.Fprintf(o.w, "  %d %s %+d%s\n", s.Move, s.Label, s.Score, best)
	}
	fmt.Fprintf(o.w, "searched %d positions, %d cutoffs\n", a.Nodes, a.Pruned)
}

func (o *Output) printGame(g GameView) {
	o.printBoard(g.Board)
	fmt.Fprintf(o.w, "Step %d of %d. %s\n", g.Step, g.Steps, g.Status)
}

func (o *Output) printBoard(b domain.Board) {
	fmt.Fprintln(o.w, "     1  2  3")
	fmt.Fprintln(o.w, "   +---------+")
	for r := 0; r < 3; r++ {
		fmt.Fprintf(o.w, " %d |", r+1)
		for c := 0; c < 3; c++ {
			cell := b[domain.Index(r, c)]
			if cell == domain.Empty {
				fmt.Fprint(o.w, " . ")
			} else {
				fmt.Fprintf(o.w, " %s ", cell)
			}
		}
		fmt.Fprintln(o.w, "|")
	}
	fmt.Fprintln(o.w, "   +---------+")
}
