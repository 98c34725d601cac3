package games

import (
	"context"
	"errors"
)

var ErrGameNotFound = errors.New("game not found")

// Game is a catalog entry on the casino side; ProviderGameID is the
// reference the provider knows the game by.
type Game struct {
	ID             int64
	Name           string
	ProviderID     int64
	ProviderCode   string
	ProviderGameID string
	IsActive       bool
}

type Games interface {
	GetByID(ctx context.Context, id int64) (*Game, error)
}
