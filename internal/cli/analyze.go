package cli

import (
	"github.com/spf13/cobra"

	"github.com/jaminalder/tictactoe/internal/ai"
	"github.com/jaminalder/tictactoe/internal/domain"
)

// CellScore is the search value of one empty cell.
type CellScore struct {
	Move  int    `json:"move"`
	Label string `json:"label"`
	Score int    `json:"score"`
}

// Analysis is the outcome and search breakdown of a board.
type Analysis struct {
	Board  string      `json:"board"`
	Status string      `json:"status"`
	Winner string      `json:"winner,omitempty"`
	Line   []int       `json:"line,omitempty"`
	Mark   string      `json:"mark,omitempty"`
	Scores []CellScore `json:"scores,omitempty"`
	Best   int         `json:"best"`
	Nodes  int         `json:"nodes"`
	Pruned int         `json:"pruned"`
}

func newAnalyzeCmd(e *env) *cobra.Command {
	var boardText, mark string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Show the outcome of a board and the search score of every empty cell",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := domain.ParseBoard(boardText)
			if err != nil {
				return err
			}
			a, err := analyze(b, mark)
			if err != nil {
				return err
			}
			e.out(cmd).Print(a)
			return nil
		},
	}
	cmd.Flags().StringVar(&boardText, "board", "", "Board as 9 cells of X, O and . (row by row)")
	cmd.Flags().StringVar(&mark, "mark", "", "Mark to analyze for (default: the side to move)")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}

func analyze(b domain.Board, mark string) (Analysis, error) {
	out := domain.Evaluate(b)
	a := Analysis{Board: b.String(), Status: out.Status.String(), Best: ai.NoMove}
	if out.Status == domain.Win {
		a.Winner = out.Winner.String()
		a.Line = out.Line[:]
	}
	if out.Over() {
		return a, nil
	}
	me, err := markFor(b, mark)
	if err != nil {
		return a, err
	}
	a.Mark = me.String()
	scores, stats := ai.ScoreMoves(b, me)
	a.Nodes, a.Pruned = stats.Nodes, stats.Pruned
	best := -1 << 20
	for _, ms := range scores {
		r, c := domain.RowCol(ms.Idx)
		a.Scores = append(a.Scores, CellScore{Move: ms.Idx, Label: domain.Move{Row: r, Col: c}.Label(), Score: ms.Score})
		if ms.Score > best {
			best, a.Best = ms.Score, ms.Idx
		}
	}
	return a, nil
}
