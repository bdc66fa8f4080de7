package app

import (
	"fmt"
	"strings"

	"github.com/jaminalder/tictactoe/internal/ai"
	"github.com/jaminalder/tictactoe/internal/domain"
)

// Mode selects who plays the second side.
type Mode uint8

const (
	// TwoPlayer is a hot-seat game: the owner plays both marks.
	TwoPlayer Mode = iota
	// Computer pits the owner against the move selector.
	Computer
)

func (m Mode) String() string {
	if m == Computer {
		return "computer"
	}
	return "two-player"
}

// ParseMode reads "two-player" or "computer" ("ai" is accepted too).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "two-player", "two_player", "pvp", "":
		return TwoPlayer, nil
	case "computer", "ai", "cpu":
		return Computer, nil
	}
	return TwoPlayer, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Settings configures one game.
type Settings struct {
	Mode         Mode
	Difficulty   ai.Difficulty
	ComputerMark domain.Cell
}

// DefaultSettings is a two-player game; switching to computer mode gives the
// computer O at medium difficulty.
func DefaultSettings() Settings {
	return Settings{Mode: TwoPlayer, Difficulty: ai.Heuristic, ComputerMark: domain.O}
}

// HumanMark is the mark the owner plays in computer mode.
func (s Settings) HumanMark() domain.Cell { return s.ComputerMark.Opponent() }

func (s Settings) validate() error {
	if s.Mode != TwoPlayer && s.Mode != Computer {
		return fmt.Errorf("%w: %d", ErrInvalidMode, s.Mode)
	}
	if s.Mode == Computer && s.ComputerMark != domain.X && s.ComputerMark != domain.O {
		return fmt.Errorf("%w: computer mark %q", ErrInvalidMode, s.ComputerMark)
	}
	if s.Difficulty > ai.ExhaustiveSearch {
		return fmt.Errorf("%w: %v", ErrInvalidMode, s.Difficulty)
	}
	return nil
}
