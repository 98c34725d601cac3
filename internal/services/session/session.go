// Package session resolves opaque game-session tokens to player accounts.
// The ledger trusts the user id a validated session resolves to.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/juanwalsh/backendtest/internal/repos/games"
	pggames "github.com/juanwalsh/backendtest/internal/repos/games/postgres"
	"github.com/juanwalsh/backendtest/internal/repos/sessions"
	pgsessions "github.com/juanwalsh/backendtest/internal/repos/sessions/postgres"
	"github.com/juanwalsh/backendtest/internal/repos/wallets"
	pgwallets "github.com/juanwalsh/backendtest/internal/repos/wallets/postgres"
)

// ErrSessionNotFound is re-exported so callers don't need to import the
// repo package for the common failure.
var ErrSessionNotFound = sessions.ErrSessionNotFound

// Launched describes a freshly created session plus the provider-side game
// reference needed to launch it upstream.
type Launched struct {
	SessionID      int64
	Token          string
	UserID         int64
	WalletID       int64
	GameID         int64
	ProviderGameID string
}

type Service struct {
	sessions sessions.Sessions
	wallets  wallets.Wallets
	games    games.Games
}

func New(db *sql.DB) *Service {
	return &Service{
		sessions: pgsessions.New(db),
		wallets:  pgwallets.New(db),
		games:    pggames.New(db),
	}
}

// Launch verifies the player and game exist, mints a token and persists the
// session.
func (s *Service) Launch(ctx context.Context, userID, gameID int64) (*Launched, error) {
	w, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve wallet: %w", err)
	}

	g, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("resolve game: %w", err)
	}

	token := uuid.NewString()

	created, err := s.sessions.Create(ctx, token, userID, w.ID, g.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &Launched{
		SessionID:      created.ID,
		Token:          created.Token,
		UserID:         created.UserID,
		WalletID:       created.WalletID,
		GameID:         created.GameID,
		ProviderGameID: g.ProviderGameID,
	}, nil
}

// Validate returns the active session for a token, or ErrSessionNotFound.
func (s *Service) Validate(ctx context.Context, token string) (*sessions.Session, error) {
	return s.sessions.GetActiveByToken(ctx, token)
}

// SetProviderSession records the provider's own session id after launch.
func (s *Service) SetProviderSession(ctx context.Context, token, providerSessionID string) error {
	return s.sessions.SetProviderSession(ctx, token, providerSessionID)
}
