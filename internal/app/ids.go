package app

import "github.com/google/uuid"

// NewPlayerID returns a fresh identifier for a browser or terminal player.
func NewPlayerID() string { return uuid.NewString() }

func newGameID() string { return uuid.NewString() }

