package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/juanwalsh/backendtest/internal/repos/sessions"
)

var _ sessions.Sessions = (*sessionsRepo)(nil)

type sessionsRepo struct{ db *sql.DB }

func New(db *sql.DB) *sessionsRepo {
	return &sessionsRepo{db: db}
}

func (r *sessionsRepo) Create(ctx context.Context, token string, userID, walletID, gameID int64) (*sessions.Session, error) {
	var s sessions.Session

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO game_sessions (token, user_id, wallet_id, game_id, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, token, user_id, wallet_id, game_id, provider_session_id, is_active, created_at
	`, token, userID, walletID, gameID).Scan(
		&s.ID, &s.Token, &s.UserID, &s.WalletID, &s.GameID,
		&s.ProviderSessionID, &s.IsActive, &s.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &s, nil
}

func (r *sessionsRepo) GetActiveByToken(ctx context.Context, token string) (*sessions.Session, error) {
	var s sessions.Session

	err := r.db.QueryRowContext(ctx, `
		SELECT id, token, user_id, wallet_id, game_id, provider_session_id, is_active, created_at
		FROM game_sessions
		WHERE token = $1 AND is_active
	`, token).Scan(
		&s.ID, &s.Token, &s.UserID, &s.WalletID, &s.GameID,
		&s.ProviderSessionID, &s.IsActive, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sessions.ErrSessionNotFound
		}

		return nil, fmt.Errorf("get session: %w", err)
	}

	return &s, nil
}

func (r *sessionsRepo) SetProviderSession(ctx context.Context, token, providerSessionID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE game_sessions
		SET provider_session_id = $2
		WHERE token = $1
	`, token, providerSessionID)
	if err != nil {
		return fmt.Errorf("set provider session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return sessions.ErrSessionNotFound
	}

	return nil
}
