package sessions

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session maps an opaque token to a player, their wallet and a game.
type Session struct {
	ID                int64
	Token             string
	UserID            int64
	WalletID          int64
	GameID            int64
	ProviderSessionID sql.NullString
	IsActive          bool
	CreatedAt         time.Time
}

type Sessions interface {
	Create(ctx context.Context, token string, userID, walletID, gameID int64) (*Session, error)

	// GetActiveByToken returns the session only if it exists and is still
	// active; otherwise ErrSessionNotFound.
	GetActiveByToken(ctx context.Context, token string) (*Session, error)

	SetProviderSession(ctx context.Context, token, providerSessionID string) error
}
