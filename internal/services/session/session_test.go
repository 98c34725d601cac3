package session_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanwalsh/backendtest/internal/repos/wallets"
	"github.com/juanwalsh/backendtest/internal/services/session"
)

func newService(t *testing.T) (*session.Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return session.New(db), mock
}

func TestLaunchCreatesSession(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(`FROM wallets\s+WHERE user_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "currency_code", "playable_balance", "redeemable_balance", "updated_at",
		}).AddRow(7, 1, "BRL", "1000.00", "0.00", time.Now()))

	mock.ExpectQuery(`FROM games g\s+JOIN game_providers p`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "provider_id", "code", "provider_game_id", "is_active"}).
			AddRow(1, "Fortune Tiger", 1, "JAQPOT", "fortune-tiger", true))

	token := uuid.NewString()
	mock.ExpectQuery(`INSERT INTO game_sessions`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "token", "user_id", "wallet_id", "game_id", "provider_session_id", "is_active", "created_at",
		}).AddRow(3, token, 1, 7, 1, nil, true, time.Now()))

	launched, err := svc.Launch(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, token, launched.Token)
	assert.Equal(t, int64(7), launched.WalletID)
	assert.Equal(t, "fortune-tiger", launched.ProviderGameID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLaunchUnknownUser(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(`FROM wallets\s+WHERE user_id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Launch(context.Background(), 99, 1)
	assert.ErrorIs(t, err, wallets.ErrWalletNotFound)
}

func TestValidateUnknownToken(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(`FROM game_sessions\s+WHERE token = \$1 AND is_active`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Validate(context.Background(), "nope")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}
