package ai

import (
	"fmt"
	"strings"

	"github.com/jaminalder/tictactoe/internal/dependencies/random"
	"github.com/jaminalder/tictactoe/internal/domain"
)

// NoMove is returned when the board has no empty cell.
const NoMove = -1

// Difficulty selects which strategy picks the computer's move.
type Difficulty uint8

const (
	Random Difficulty = iota
	Heuristic
	ExhaustiveSearch
)

// Difficulties lists every tier from easiest to hardest.
var Difficulties = []Difficulty{Random, Heuristic, ExhaustiveSearch}

// String returns the label shown to players.
func (d Difficulty) String() string {
	switch d {
	case Random:
		return "easy"
	case Heuristic:
		return "medium"
	case ExhaustiveSearch:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", uint8(d))
	}
}

// ParseDifficulty accepts the player labels (easy, medium, hard) and the tier
// names (random, heuristic, search).
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "random":
		return Random, nil
	case "medium", "heuristic":
		return Heuristic, nil
	case "hard", "search", "exhaustive", "minimax":
		return ExhaustiveSearch, nil
	}
	return Random, fmt.Errorf("unknown difficulty %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(b []byte) error {
	v, err := ParseDifficulty(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Strategy chooses a cell for the side playing me.
type Strategy interface {
	ChooseMove(b domain.Board, me domain.Cell) int
}

// Selector dispatches move selection to the strategy of each difficulty.
type Selector struct {
	strategies map[Difficulty]Strategy
}

// NewSelector wires the three built-in strategies around one random source.
func NewSelector(rnd random.Random) *Selector {
	return &Selector{strategies: map[Difficulty]Strategy{
		Random:           NewRandomStrategy(rnd),
		Heuristic:        NewHeuristicStrategy(rnd),
		ExhaustiveSearch: NewSearchStrategy(rnd),
	}}
}

// statsStrategy is a Strategy that can report the work behind its choice.
type statsStrategy interface {
	ChooseMoveWithStats(b domain.Board, me domain.Cell) (int, SearchStats)
}

// SelectMove returns the cell the computer should occupy, or NoMove when the
// board is full. Unknown difficulties play randomly.
func (s *Selector) SelectMove(b domain.Board, d Difficulty, computer domain.Cell) int {
	idx, _ := s.SelectMoveWithStats(b, d, computer)
	return idx
}

// SelectMoveWithStats is SelectMove that also returns the search statistics.
// Tiers that do not search report zero stats.
func (s *Selector) SelectMoveWithStats(b domain.Board, d Difficulty, computer domain.Cell) (int, SearchStats) {
	if b.Full() {
		return NoMove, SearchStats{}
	}
	st := s.strategy(d)
	if ss, ok := st.(statsStrategy); ok {
		return ss.ChooseMoveWithStats(b, computer)
	}
	return st.ChooseMove(b, computer), SearchStats{}
}

func (s *Selector) strategy(d Difficulty) Strategy {
	if st, ok := s.strategies[d]; ok {
		return st
	}
	return s.strategies[Random]
}
