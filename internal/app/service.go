package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jaminalder/tictactoe/internal/ai"
	"github.com/jaminalder/tictactoe/internal/dependencies/clock"
	"github.com/jaminalder/tictactoe/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNotAPlayer  = errors.New("not a player")
	ErrInvalidMode = errors.New("invalid game settings")
)

// Role is what a visitor may do with a game.
type Role uint8

const (
	Spectator Role = iota
	Owner
)

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID       string
	Owner    string
	Settings Settings
	Game     domain.Game
	Created  time.Time
	Updated  time.Time
}

// ComputerToMove reports whether the shown step waits for the computer.
func (gs GameState) ComputerToMove() bool {
	return gs.Settings.Mode == Computer && !gs.Game.Over && gs.Game.Turn == gs.Settings.ComputerMark
}

type subscriber struct {
	ch        chan GameState
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers.
type Service struct {
	mu       sync.Mutex
	games    map[string]*GameState
	subs     map[string]map[*subscriber]struct{}
	selector *ai.Selector
	defaults Settings
	clock    clock.Clock
	logger   *slog.Logger
}

// NewService creates a service that asks selector for computer moves.
func NewService(selector *ai.Selector, defaults Settings, clk clock.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		games:    make(map[string]*GameState),
		subs:     make(map[string]map[*subscriber]struct{}),
		selector: selector,
		defaults: defaults,
		clock:    clk,
		logger:   logger.With(slog.String("component", "game-service")),
	}
}

// Defaults returns the settings used for games created without a form.
func (s *Service) Defaults() Settings { return s.defaults }

// CreateGame creates and registers a new game. In computer mode with the
// computer playing X, its first move is already on the board.
func (s *Service) CreateGame(settings Settings) (*GameState, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	gs := &GameState{ID: newGameID(), Settings: settings, Game: domain.New(), Created: now, Updated: now}
	s.games[gs.ID] = gs
	s.logger.Info("game created",
		slog.String("game_id", gs.ID),
		slog.String("mode", settings.Mode.String()),
		slog.String("difficulty", settings.Difficulty.String()),
	)
	s.computerMoveLocked(gs)
	cp := *gs
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := *gs
	return &cp, true
}

// Join makes the first visitor the owner; everyone else spectates.
func (s *Service) Join(id, playerID string) (Role, *GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return Spectator, nil, ErrNotFound
	}
	role := Spectator
	if gs.Owner == "" || gs.Owner == playerID {
		if gs.Owner == "" {
			s.logger.Info("game claimed", slog.String("game_id", id), slog.String("player_id", playerID))
		}
		gs.Owner = playerID
		role = Owner
		gs.Updated = s.clock.Now()
	}
	cp := *gs
	return role, &cp, nil
}

// Play validates ownership and turn, applies the move at the shown step and,
// in computer mode, lets the computer reply before broadcasting.
func (s *Service) Play(id, playerID string, r, c int) (*GameState, error) {
	return s.mutate(id, playerID, func(gs *GameState) error {
		if gs.ComputerToMove() {
			return ErrNotYourTurn
		}
		mark := gs.Game.Turn
		if err := gs.Game.Play(r, c); err != nil {
			return err
		}
		s.logger.Info("move played",
			slog.String("game_id", gs.ID),
			slog.String("mark", mark.String()),
			slog.Int("row", r),
			slog.Int("col", c),
			slog.Int("step", gs.Game.Step),
		)
		s.computerMoveLocked(gs)
		return nil
	})
}

// JumpTo shows an earlier step of the history. The history is kept until the
// next move from that step.
func (s *Service) JumpTo(id, playerID string, step int) (*GameState, error) {
	return s.mutate(id, playerID, func(gs *GameState) error {
		if err := gs.Game.JumpTo(step); err != nil {
			return err
		}
		s.logger.Info("jumped to step", slog.String("game_id", gs.ID), slog.Int("step", step))
		return nil
	})
}

// Reset starts the game over with the same settings.
func (s *Service) Reset(id, playerID string) (*GameState, error) {
	return s.mutate(id, playerID, func(gs *GameState) error {
		gs.Game.Reset()
		s.logger.Info("game reset", slog.String("game_id", gs.ID))
		s.computerMoveLocked(gs)
		return nil
	})
}

// UpdateSettings changes mode or difficulty; like a fresh game it clears the
// board.
func (s *Service) UpdateSettings(id, playerID string, settings Settings) (*GameState, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	return s.mutate(id, playerID, func(gs *GameState) error {
		gs.Settings = settings
		gs.Game.Reset()
		s.logger.Info("settings changed",
			slog.String("game_id", gs.ID),
			slog.String("mode", settings.Mode.String()),
			slog.String("difficulty", settings.Difficulty.String()),
		)
		s.computerMoveLocked(gs)
		return nil
	})
}

// mutate runs fn on the owner's game under the lock and broadcasts the new
// state to subscribers.
func (s *Service) mutate(id, playerID string, fn func(gs *GameState) error) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	if gs.Owner != playerID {
		return nil, ErrNotAPlayer
	}
	if err := fn(gs); err != nil {
		return nil, err
	}
	gs.Updated = s.clock.Now()
	cp := *gs
	s.broadcastLocked(id, cp)
	return &cp, nil
}

// broadcastLocked never blocks: a subscriber whose buffer is still full is
// closed and dropped. Caller holds s.mu.
func (s *Service) broadcastLocked(id string, gs GameState) {
	for sub := range s.subs[id] {
		select {
		case sub.ch <- gs:
		default:
			sub.close()
			delete(s.subs[id], sub)
		}
	}
}

// computerMoveLocked plays the computer's reply when the shown step waits for
// it. Caller holds s.mu.
func (s *Service) computerMoveLocked(gs *GameState) {
	if !gs.ComputerToMove() {
		return
	}
	start := s.clock.Now()
	idx, stats := s.selector.SelectMoveWithStats(gs.Game.Board, gs.Settings.Difficulty, gs.Settings.ComputerMark)
	if idx == ai.NoMove {
		return
	}
	if err := gs.Game.PlayIndex(idx); err != nil {
		s.logger.Error("computer move rejected",
			slog.String("game_id", gs.ID),
			slog.Int("cell", idx),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Debug("computer moved",
		slog.String("game_id", gs.ID),
		slog.String("difficulty", gs.Settings.Difficulty.String()),
		slog.Int("cell", idx),
		slog.Int("nodes", stats.Nodes),
		slog.Int("pruned", stats.Pruned),
		slog.Duration("took", s.clock.Now().Sub(start)),
	)
}

// Subscribe registers a subscriber for a game. Returns a channel of state
// snapshots and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan GameState, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}
