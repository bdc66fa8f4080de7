package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaminalder/tictactoe/internal/ai"
	"github.com/jaminalder/tictactoe/internal/app"
	"github.com/jaminalder/tictactoe/internal/domain"
)

const terminalPlayer = "terminal"

const playHelp = `Commands:
  <row> <col>   play a cell, 1-based (e.g. "2 3")
  <n>           play cell n, 1-9 row by row
  jump <step>   show an earlier step; playing from it drops the later moves
  history       list the moves
  reset         start over
  quit          leave`

func newPlayCmd(e *env) *cobra.Command {
	var difficulty, computerMark string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play against the computer in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := ai.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			mark, err := domain.ParseCell(computerMark)
			if err != nil {
				return err
			}
			svc := app.NewService(ai.NewSelector(e.random), app.DefaultSettings(), e.clock, e.cliLogger())
			gs, err := svc.CreateGame(app.Settings{Mode: app.Computer, Difficulty: d, ComputerMark: mark})
			if err != nil {
				return err
			}
			if _, _, err := svc.Join(gs.ID, terminalPlayer); err != nil {
				return err
			}
			s := &session{svc: svc, id: gs.ID, out: cmd.OutOrStdout(), printer: NewOutput("text", cmd.OutOrStdout())}
			return s.run(cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVar(&difficulty, "difficulty", e.cfg.DefaultDifficulty, "Difficulty: easy, medium, hard")
	cmd.Flags().StringVar(&computerMark, "computer-mark", e.cfg.ComputerMark, "Mark the computer plays: X or O")
	return cmd
}

type session struct {
	svc     *app.Service
	id      string
	out     io.Writer
	printer *Output
}

var errQuit = errors.New("quit")

func (s *session) run(in io.Reader) error {
	fmt.Fprintln(s.out, playHelp)
	s.show()
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(s.out)
			return sc.Err()
		}
		err := s.handle(strings.TrimSpace(sc.Text()))
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			fmt.Fprintf(s.out, "%s\n", err)
		default:
			s.show()
		}
	}
}

func (s *session) handle(line string) error {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) == 0 {
		return errors.New("enter a move, or help")
	}
	var err error
	switch strings.ToLower(fields[0]) {
	case "quit", "q", "exit":
		return errQuit
	case "help", "?":
		fmt.Fprintln(s.out, playHelp)
		return nil
	case "reset":
		_, err = s.svc.Reset(s.id, terminalPlayer)
	case "history":
		gs, _ := s.svc.Get(s.id)
		for _, m := range gs.Game.MoveList() {
			fmt.Fprintf(s.out, "  #%d %s %s\n", m.Step, m.Mark, m.Label())
		}
		return nil
	case "jump":
		if len(fields) != 2 {
			return errors.New("usage: jump <step>")
		}
		step, perr := strconv.Atoi(fields[1])
		if perr != nil {
			return fmt.Errorf("step %q is not a number", fields[1])
		}
		_, err = s.svc.JumpTo(s.id, terminalPlayer, step)
	default:
		r, c, perr := parseCell(fields)
		if perr != nil {
			return perr
		}
		_, err = s.svc.Play(s.id, terminalPlayer, r, c)
	}
	if err != nil {
		return friendly(err)
	}
	return nil
}

// parseCell reads "row col" (1-based) or a single cell number 1-9.
func parseCell(fields []string) (int, int, error) {
	switch len(fields) {
	case 1:
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 1 || n > domain.Size {
			return 0, 0, fmt.Errorf("unknown command %q", fields[0])
		}
		r, c := domain.RowCol(n - 1)
		return r, c, nil
	case 2:
		r, err1 := strconv.Atoi(fields[0])
		c, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			return 0, 0, fmt.Errorf("unknown command %q", strings.Join(fields, " "))
		}
		return r - 1, c - 1, nil
	}
	return 0, 0, fmt.Errorf("unknown command %q", strings.Join(fields, " "))
}

func friendly(err error) error {
	switch {
	case errors.Is(err, domain.ErrOccupied):
		return errors.New("that cell is taken")
	case errors.Is(err, domain.ErrOutOfBounds):
		return errors.New("rows and columns go from 1 to 3")
	case errors.Is(err, domain.ErrGameOver):
		return errors.New("the game is over: reset, jump or quit")
	case errors.Is(err, domain.ErrInvalidStep):
		return errors.New("no such step")
	case errors.Is(err, app.ErrNotYourTurn):
		return errors.New("the computer moves from this step: jump elsewhere or reset")
	}
	return err
}

func (s *session) show() {
	gs, ok := s.svc.Get(s.id)
	if !ok {
		return
	}
	s.printer.Print(newGameView(*gs))
}

// GameView is the terminal rendering of a game.
type GameView struct {
	Board  domain.Board
	Step   int
	Steps  int
	Status string
}

func newGameView(gs app.GameState) GameView {
	g := gs.Game
	v := GameView{Board: g.Board, Step: g.Step, Steps: len(g.History) - 1}
	switch {
	case g.Outcome.Status == domain.Win:
		if g.Winner == gs.Settings.ComputerMark {
			v.Status = "Winner: " + g.Winner.String() + " (computer)"
		} else {
			v.Status = "Winner: " + g.Winner.String() + " (you)"
		}
	case g.Outcome.Status == domain.Draw:
		v.Status = "Game ended in a draw!"
	case gs.ComputerToMove():
		v.Status = fmt.Sprintf("Computer's turn (%s)", gs.Settings.ComputerMark)
	default:
		v.Status = "Next player: " + g.Turn.String()
	}
	return v
}
