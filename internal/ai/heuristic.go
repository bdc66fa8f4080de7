package ai

import (
	"github.com/jaminalder/tictactoe/internal/dependencies/random"
	"github.com/jaminalder/tictactoe/internal/domain"
)

// HeuristicStrategy plays a fixed checklist: win, block, center, corner,
// anything.
type HeuristicStrategy struct {
	random random.Random
}

// NewHeuristicStrategy creates a new HeuristicStrategy
func NewHeuristicStrategy(rnd random.Random) *HeuristicStrategy {
	return &HeuristicStrategy{random: rnd}
}

func (s *HeuristicStrategy) ChooseMove(b domain.Board, me domain.Cell) int {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return NoMove
	}
	if idx, ok := winningCell(b, empty, me); ok {
		return idx
	}
	if idx, ok := winningCell(b, empty, me.Opponent()); ok {
		return idx
	}
	if b[domain.Center] == domain.Empty {
		return domain.Center
	}
	if corners := emptyCorners(b); len(corners) > 0 {
		return random.Pick(s.random, corners)
	}
	return random.Pick(s.random, empty)
}

// winningCell returns the lowest empty cell where mark completes a line.
func winningCell(b domain.Board, empty []int, mark domain.Cell) (int, bool) {
	for _, idx := range empty {
		if domain.Evaluate(b.With(idx, mark)).WinnerIs(mark) {
			return idx, true
		}
	}
	return NoMove, false
}

func emptyCorners(b domain.Board) []int {
	out := make([]int, 0, len(domain.Corners))
	for _, c := range domain.Corners {
		if b[c] == domain.Empty {
			out = append(out, c)
		}
	}
	return out
}
