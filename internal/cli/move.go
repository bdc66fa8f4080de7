package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaminalder/tictactoe/internal/ai"
	"github.com/jaminalder/tictactoe/internal/domain"
)

// MoveResult is the cell chosen by the move command.
type MoveResult struct {
	Board      string `json:"board"`
	Difficulty string `json:"difficulty"`
	Mark       string `json:"mark"`
	Move       int    `json:"move"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
}

func newMoveCmd(e *env) *cobra.Command {
	var boardText, difficulty, mark string
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Print the computer's move for a board",
		Example: `  tictactoe move --board XX.OO.... --difficulty hard --mark O
  tictactoe move --board "X../.O./..." -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := domain.ParseBoard(boardText)
			if err != nil {
				return err
			}
			d, err := ai.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			me, err := markFor(b, mark)
			if err != nil {
				return err
			}
			selector := ai.NewSelector(e.random)
			idx := selector.SelectMove(b, d, me)
			res := MoveResult{Board: b.String(), Difficulty: d.String(), Mark: me.String(), Move: idx, Row: -1, Col: -1}
			if idx != ai.NoMove {
				res.Row, res.Col = domain.RowCol(idx)
			}
			e.out(cmd).Print(res)
			return nil
		},
	}
	cmd.Flags().StringVar(&boardText, "board", "", "Board as 9 cells of X, O and . (row by row)")
	cmd.Flags().StringVar(&difficulty, "difficulty", e.cfg.DefaultDifficulty, "Difficulty: easy, medium, hard")
	cmd.Flags().StringVar(&mark, "mark", "", "Mark to move for (default: the side to move)")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}

// markFor parses mark, or infers the side to move from the mark counts when it
// is empty.
func markFor(b domain.Board, mark string) (domain.Cell, error) {
	if strings.TrimSpace(mark) != "" {
		return domain.ParseCell(mark)
	}
	var xs, ons int
	for _, c := range b {
		switch c {
		case domain.X:
			xs++
		case domain.O:
			ons++
		}
	}
	if xs > ons {
		return domain.O, nil
	}
	return domain.X, nil
}

func errInvalidOutput(format string) error {
	return fmt.Errorf("output format %q: want text or json", format)
}
