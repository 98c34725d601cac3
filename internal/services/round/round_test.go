package round_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanwalsh/backendtest/internal/services/round"
)

// casinoStub replays the canned wallet responses of the fixed demonstration
// round and records the rollback's original transaction id.
type casinoStub struct {
	balances []string
	balance  int
	wallet   int
	replies  []walletStubReply
	rolled   string
}

type walletStubReply struct {
	txType  string
	balance string
}

func (s *casinoStub) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get("X-Casino-Signature"))

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path == "/getBalance" {
			require.Less(t, s.balance, len(s.balances))
			fmt.Fprintf(w, `{"success":true,"userId":1,"playableBalance":%q,"redeemableBalance":"0.00","currencyCode":"BRL"}`,
				s.balances[s.balance])
			s.balance++

			return
		}

		if r.URL.Path == "/rollback" {
			s.rolled = body["originalTransactionId"]
		}

		require.Less(t, s.wallet, len(s.replies))
		reply := s.replies[s.wallet]
		s.wallet++

		fmt.Fprintf(w, `{"success":true,"transactionId":"%d","externalTransactionId":%q,"transactionType":%q,"amount":%q,"balanceAfter":%q,"status":"COMPLETED"}`,
			s.wallet, body["transactionId"], reply.txType, body["amount"], reply.balance)
	})
}

func customerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "player_id", "casino_code", "external_user_id"}).
		AddRow(11, "player_1", "CASINO_MAIN", 1)
}

func gameRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "game_ref", "name", "is_active"}).
		AddRow(1, "fortune-tiger", "Fortune Tiger", true)
}

func TestLaunchMapsCustomerAndGame(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO provider_customers`).
		WithArgs("CASINO_MAIN", int64(1)).
		WillReturnRows(customerRows())
	mock.ExpectQuery(`FROM provider_games\s+WHERE game_ref = \$1`).
		WithArgs("fortune-tiger").
		WillReturnRows(gameRows())

	svc := round.New(db, round.NewCasinoClient("http://casino.invalid", "secret"))

	result, err := svc.Launch(context.Background(), "tok-1", 1, "fortune-tiger")
	require.NoError(t, err)

	assert.Equal(t, "psession_tok-1", result.ProviderSessionID)
	assert.Equal(t, int64(11), result.PlayerID)
	assert.Equal(t, "fortune-tiger", result.GameID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSimulatePlaysFixedRound(t *testing.T) {
	stub := &casinoStub{
		balances: []string{"1000.00", "1015.00"},
		replies: []walletStubReply{
			{"BET", "990.00"},
			{"BET", "985.00"},
			{"WIN", "1010.00"},
			{"ROLLBACK", "1015.00"},
		},
	}

	casino := httptest.NewServer(stub.handler(t))
	defer casino.Close()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM provider_customers\s+WHERE casino_code = \$1 AND external_user_id = \$2`).
		WithArgs("CASINO_MAIN", int64(1)).
		WillReturnRows(customerRows())
	mock.ExpectQuery(`FROM provider_games\s+WHERE is_active`).
		WillReturnRows(gameRows())
	mock.ExpectExec(`INSERT INTO game_rounds`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	for range 4 {
		mock.ExpectExec(`INSERT INTO provider_bets`).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}

	mock.ExpectExec(`UPDATE game_rounds\s+SET status = 'CLOSED'`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := round.New(db, round.NewCasinoClient(casino.URL, "secret"))

	sim, err := svc.Simulate(context.Background(), "tok-1", "req-1")
	require.NoError(t, err)

	require.Len(t, sim.Steps, 6)
	assert.Equal(t, "GET_BALANCE", sim.Steps[0].Action)
	assert.Equal(t, "DEBIT", sim.Steps[1].Action)
	assert.Equal(t, "10.00", sim.Steps[1].Amount)
	assert.Equal(t, "DEBIT", sim.Steps[2].Action)
	assert.Equal(t, "5.00", sim.Steps[2].Amount)
	assert.Equal(t, "CREDIT", sim.Steps[3].Action)
	assert.Equal(t, "25.00", sim.Steps[3].Amount)
	assert.Equal(t, "ROLLBACK", sim.Steps[4].Action)
	assert.Equal(t, "5.00", sim.Steps[4].Amount)
	assert.Equal(t, "GET_BALANCE", sim.Steps[5].Action)
	assert.Equal(t, "1015.00", sim.FinalBalance)

	// The rollback targeted the second bet.
	assert.Equal(t, sim.Steps[2].TransactionID, stub.rolled)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSimulateWithoutActiveGame(t *testing.T) {
	stub := &casinoStub{balances: []string{"1000.00"}}

	casino := httptest.NewServer(stub.handler(t))
	defer casino.Close()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM provider_customers\s+WHERE casino_code = \$1 AND external_user_id = \$2`).
		WithArgs("CASINO_MAIN", int64(1)).
		WillReturnRows(customerRows())
	mock.ExpectQuery(`FROM provider_games\s+WHERE is_active`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_ref", "name", "is_active"}))

	svc := round.New(db, round.NewCasinoClient(casino.URL, "secret"))

	_, err = svc.Simulate(context.Background(), "tok-1", "req-1")
	assert.ErrorIs(t, err, round.ErrNoActiveGame)
}
