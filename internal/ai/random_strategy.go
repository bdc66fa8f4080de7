package ai

import (
	"github.com/jaminalder/tictactoe/internal/dependencies/random"
	"github.com/jaminalder/tictactoe/internal/domain"
)

// RandomStrategy picks a uniformly random empty cell
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseMove draws exactly one sample from the empty cells.
func (s *RandomStrategy) ChooseMove(b domain.Board, _ domain.Cell) int {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return NoMove
	}
	return random.Pick(s.random, empty)
}
