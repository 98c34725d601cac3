package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/juanwalsh/backendtest/internal/repos/provider"
	"github.com/juanwalsh/backendtest/pkg/money"
)

var _ provider.Provider = (*providerRepo)(nil)

type providerRepo struct{ db *sql.DB }

func New(db *sql.DB) *providerRepo {
	return &providerRepo{db: db}
}

func (r *providerRepo) UpsertCustomer(ctx context.Context, casinoCode string, externalUserID int64) (*provider.Customer, error) {
	var c provider.Customer

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO provider_customers (player_id, casino_code, external_user_id)
		VALUES ('player_' || $2::text, $1, $2)
		ON CONFLICT (casino_code, external_user_id) DO UPDATE SET casino_code = EXCLUDED.casino_code
		RETURNING id, player_id, casino_code, external_user_id
	`, casinoCode, externalUserID).Scan(&c.ID, &c.PlayerID, &c.CasinoCode, &c.ExternalUserID)
	if err != nil {
		return nil, fmt.Errorf("upsert customer: %w", err)
	}

	return &c, nil
}

func (r *providerRepo) CustomerByExternalUser(ctx context.Context, casinoCode string, externalUserID int64) (*provider.Customer, error) {
	var c provider.Customer

	err := r.db.QueryRowContext(ctx, `
		SELECT id, player_id, casino_code, external_user_id
		FROM provider_customers
		WHERE casino_code = $1 AND external_user_id = $2
	`, casinoCode, externalUserID).Scan(&c.ID, &c.PlayerID, &c.CasinoCode, &c.ExternalUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, provider.ErrCustomerNotFound
		}

		return nil, fmt.Errorf("get customer: %w", err)
	}

	return &c, nil
}

func (r *providerRepo) GameByRef(ctx context.Context, gameRef string) (*provider.Game, error) {
	return r.game(ctx, `
		SELECT id, game_ref, name, is_active
		FROM provider_games
		WHERE game_ref = $1
	`, gameRef)
}

func (r *providerRepo) AnyActiveGame(ctx context.Context) (*provider.Game, error) {
	return r.game(ctx, `
		SELECT id, game_ref, name, is_active
		FROM provider_games
		WHERE is_active
		ORDER BY id
		LIMIT 1
	`)
}

func (r *providerRepo) game(ctx context.Context, query string, args ...any) (*provider.Game, error) {
	var g provider.Game

	err := r.db.QueryRowContext(ctx, query, args...).Scan(&g.ID, &g.GameRef, &g.Name, &g.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, provider.ErrGameNotFound
		}

		return nil, fmt.Errorf("get provider game: %w", err)
	}

	return &g, nil
}

func (r *providerRepo) CreateRound(ctx context.Context, round provider.Round) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO game_rounds (round_id, session_token, player_id, game_id, currency, status, total_bet_amount, total_payout_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, round.RoundID, round.SessionToken, round.PlayerID, round.GameID,
		round.Currency, round.Status, round.TotalBet, round.TotalPayout)
	if err != nil {
		return fmt.Errorf("create round: %w", err)
	}

	return nil
}

func (r *providerRepo) CloseRound(ctx context.Context, roundID string, totalBet, totalPayout money.Amount) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE game_rounds
		SET status = 'CLOSED', total_bet_amount = $2, total_payout_amount = $3
		WHERE round_id = $1
	`, roundID, totalBet, totalPayout)
	if err != nil {
		return fmt.Errorf("close round: %w", err)
	}

	return nil
}

func (r *providerRepo) RecordBet(ctx context.Context, bet provider.Bet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO provider_bets (transaction_id, round_id, bet_type, amount, casino_balance_after, status, response_cache)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, bet.TransactionID, bet.RoundID, bet.BetType, bet.Amount,
		bet.CasinoBalanceAfter, bet.Status, bet.ResponseCache)
	if err != nil {
		return fmt.Errorf("record bet: %w", err)
	}

	return nil
}
