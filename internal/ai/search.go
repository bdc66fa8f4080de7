package ai

import (
	"github.com/jaminalder/tictactoe/internal/dependencies/random"
	"github.com/jaminalder/tictactoe/internal/domain"
)

const (
	// winScore is the score of an immediate win; each ply of delay costs one.
	winScore = 10
	// maxDepth bounds the recursion; a 3x3 board never gets there.
	maxDepth = 9
	// inf is larger than any reachable score.
	inf = 1 << 20
)

// SearchStats counts the work done by one search.
type SearchStats struct {
	Nodes  int
	Pruned int
}

// MoveScore is the search value of playing one cell.
type MoveScore struct {
	Idx   int
	Score int
}

// SearchStrategy plays perfectly using minimax with alpha-beta pruning. The
// first two computer moves use a fixed opening instead of a search.
type SearchStrategy struct {
	random random.Random
}

// NewSearchStrategy creates a new SearchStrategy
func NewSearchStrategy(rnd random.Random) *SearchStrategy {
	return &SearchStrategy{random: rnd}
}

func (s *SearchStrategy) ChooseMove(b domain.Board, me domain.Cell) int {
	idx, _ := s.ChooseMoveWithStats(b, me)
	return idx
}

// ChooseMoveWithStats is ChooseMove that also reports how many positions were
// visited. Opening moves report zero stats.
func (s *SearchStrategy) ChooseMoveWithStats(b domain.Board, me domain.Cell) (int, SearchStats) {
	empty := b.CountEmpty()
	if empty == 0 {
		return NoMove, SearchStats{}
	}
	if empty >= domain.Size-1 {
		if b[domain.Center] == domain.Empty {
			return domain.Center, SearchStats{}
		}
		if corners := emptyCorners(b); len(corners) > 0 {
			return random.Pick(s.random, corners), SearchStats{}
		}
	}

	scores, stats := ScoreMoves(b, me)
	best := scores[0]
	for _, ms := range scores[1:] {
		if ms.Score > best.Score {
			best = ms
		}
	}
	return best.Idx, stats
}

// ScoreMoves places me on every empty cell in ascending order and searches
// the reply tree with the opponent to move. The board is not modified.
func ScoreMoves(b domain.Board, me domain.Cell) ([]MoveScore, SearchStats) {
	sr := searcher{computer: me, human: me.Opponent()}
	scratch := b
	out := make([]MoveScore, 0, domain.Size)
	for idx := range scratch {
		if scratch[idx] != domain.Empty {
			continue
		}
		scratch[idx] = me
		score := sr.search(&scratch, 0, false, -inf, inf)
		scratch[idx] = domain.Empty
		out = append(out, MoveScore{Idx: idx, Score: score})
	}
	return out, sr.stats
}

type searcher struct {
	computer domain.Cell
	human    domain.Cell
	stats    SearchStats
}

// search mutates b in place and restores every cell it places before
// returning.
func (sr *searcher) search(b *domain.Board, depth int, maximizing bool, alpha, beta int) int {
	sr.stats.Nodes++

	out := domain.Evaluate(*b)
	switch {
	case out.WinnerIs(sr.computer):
		return winScore - depth
	case out.WinnerIs(sr.human):
		return depth - winScore
	case out.Status == domain.Draw:
		return 0
	}
	if depth > maxDepth {
		return 0
	}

	if maximizing {
		best := -inf
		for idx := range b {
			if b[idx] != domain.Empty {
				continue
			}
			b[idx] = sr.computer
			score := sr.search(b, depth+1, false, alpha, beta)
			b[idx] = domain.Empty
			best = max(best, score)
			alpha = max(alpha, best)
			if beta <= alpha {
				sr.stats.Pruned++
				break
			}
		}
		return best
	}

	best := inf
	for idx := range b {
		if b[idx] != domain.Empty {
			continue
		}
		b[idx] = sr.human
		score := sr.search(b, depth+1, true, alpha, beta)
		b[idx] = domain.Empty
		best = min(best, score)
		beta = min(beta, best)
		if beta <= alpha {
			sr.stats.Pruned++
			break
		}
	}
	return best
}
