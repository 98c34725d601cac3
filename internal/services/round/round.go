// Package round is the provider-side orchestrator. It carries no ledger
// logic of its own: a simulated round is a fixed sequence of signed wallet
// calls against the casino, recorded locally for audit.
package round

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/juanwalsh/backendtest/internal/repos/provider"
	pgprovider "github.com/juanwalsh/backendtest/internal/repos/provider/postgres"
	"github.com/juanwalsh/backendtest/pkg/money"
)

// casinoCode identifies the single casino this provider integrates with.
const casinoCode = "CASINO_MAIN"

var ErrNoActiveGame = errors.New("no active game found")

// Step is one entry of a simulated round's audit trail.
type Step struct {
	Step          int            `json:"step"`
	Action        string         `json:"action"`
	TransactionID string         `json:"transactionId,omitempty"`
	Amount        string         `json:"amount,omitempty"`
	BalanceAfter  string         `json:"balanceAfter,omitempty"`
	Status        string         `json:"status"`
	Details       map[string]any `json:"details,omitempty"`
}

// Simulation is the outcome of a full simulated round.
type Simulation struct {
	RoundID      string `json:"roundId"`
	Steps        []Step `json:"steps"`
	FinalBalance string `json:"finalBalance"`
}

// LaunchResult is the provider's reply to a casino launch request.
type LaunchResult struct {
	ProviderSessionID string `json:"providerSessionId"`
	PlayerID          int64  `json:"playerId"`
	GameID            string `json:"gameId"`
}

type Service struct {
	repo   provider.Provider
	casino *CasinoClient
}

func New(db *sql.DB, casino *CasinoClient) *Service {
	return &Service{
		repo:   pgprovider.New(db),
		casino: casino,
	}
}

// Launch maps the casino player into the provider's customer table and
// resolves the requested game.
func (s *Service) Launch(ctx context.Context, token string, externalUserID int64, gameRef string) (*LaunchResult, error) {
	customer, err := s.repo.UpsertCustomer(ctx, casinoCode, externalUserID)
	if err != nil {
		return nil, err
	}

	game, err := s.repo.GameByRef(ctx, gameRef)
	if err != nil {
		return nil, err
	}

	slog.Info("provider session launched", "token", token, "playerId", customer.ID, "gameRef", gameRef)

	return &LaunchResult{
		ProviderSessionID: "psession_" + token,
		PlayerID:          customer.ID,
		GameID:            game.GameRef,
	}, nil
}

// Simulate runs the fixed demonstration round: balance check, two bets, a
// win, a rollback of the second bet, and a final balance check. Each wallet
// call is recorded as a provider bet with the casino's response frozen.
func (s *Service) Simulate(ctx context.Context, token, requestID string) (*Simulation, error) {
	opening, err := s.casino.GetBalance(ctx, requestID, token)
	if err != nil {
		return nil, fmt.Errorf("opening balance: %w", err)
	}

	customer, err := s.repo.CustomerByExternalUser(ctx, casinoCode, opening.UserID)
	if err != nil {
		return nil, err
	}

	game, err := s.repo.AnyActiveGame(ctx)
	if err != nil {
		if errors.Is(err, provider.ErrGameNotFound) {
			return nil, ErrNoActiveGame
		}

		return nil, err
	}

	currency := opening.CurrencyCode
	if currency == "" {
		currency = "BRL"
	}

	roundID := "round_" + uuid.NewString()

	err = s.repo.CreateRound(ctx, provider.Round{
		RoundID:      roundID,
		SessionToken: token,
		PlayerID:     customer.ID,
		GameID:       game.ID,
		Currency:     currency,
		Status:       provider.RoundOpen,
		TotalBet:     money.Zero(),
		TotalPayout:  money.Zero(),
	})
	if err != nil {
		return nil, err
	}

	sim := &Simulation{RoundID: roundID}
	sim.pushBalanceStep(opening)

	_, err = s.playStep(ctx, sim, roundID, requestID, token, "DEBIT", "10.00", "")
	if err != nil {
		return nil, err
	}

	bet2, err := s.playStep(ctx, sim, roundID, requestID, token, "DEBIT", "5.00", "")
	if err != nil {
		return nil, err
	}

	_, err = s.playStep(ctx, sim, roundID, requestID, token, "CREDIT", "25.00", "")
	if err != nil {
		return nil, err
	}

	_, err = s.playStep(ctx, sim, roundID, requestID, token, "ROLLBACK", "5.00", bet2)
	if err != nil {
		return nil, err
	}

	closing, err := s.casino.GetBalance(ctx, requestID, token)
	if err != nil {
		return nil, fmt.Errorf("closing balance: %w", err)
	}

	sim.pushBalanceStep(closing)
	sim.FinalBalance = closing.PlayableBalance

	// bet2 was rolled back, so only bet1 counts toward the totals.
	err = s.repo.CloseRound(ctx, roundID, money.MustParse("10.00"), money.MustParse("25.00"))
	if err != nil {
		return nil, err
	}

	slog.Info("round simulation finished", "roundId", roundID, "finalBalance", sim.FinalBalance)

	return sim, nil
}

// playStep issues one wallet call, records the provider bet and appends the
// audit step. For ROLLBACK, original names the bet being reversed.
func (s *Service) playStep(ctx context.Context, sim *Simulation, roundID, requestID, token, action, amount, original string) (string, error) {
	txID := fmt.Sprintf("tx_%s_%s", actionTag(action, len(sim.Steps)), uuid.NewString())

	var (
		reply *WalletReply
		err   error
	)

	switch action {
	case "DEBIT":
		reply, err = s.casino.Debit(ctx, requestID, token, amount, txID)
	case "CREDIT":
		reply, err = s.casino.Credit(ctx, requestID, token, amount, txID)
	case "ROLLBACK":
		reply, err = s.casino.Rollback(ctx, requestID, token, amount, txID, original)
	default:
		return "", fmt.Errorf("unknown action %q", action)
	}
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", action, amount, err)
	}

	amt, perr := money.Parse(amount)
	if perr != nil {
		return "", perr
	}

	balanceAfter, perr := money.Parse(reply.BalanceAfter)
	if perr != nil {
		return "", fmt.Errorf("casino returned unparseable balance %q: %w", reply.BalanceAfter, perr)
	}

	frozen, perr := json.Marshal(reply)
	if perr != nil {
		return "", perr
	}

	err = s.repo.RecordBet(ctx, provider.Bet{
		TransactionID:      txID,
		RoundID:            roundID,
		BetType:            provider.BetType(reply.TransactionType),
		Amount:             amt,
		CasinoBalanceAfter: balanceAfter,
		Status:             "CONFIRMED",
		ResponseCache:      string(frozen),
	})
	if err != nil {
		return "", err
	}

	sim.Steps = append(sim.Steps, Step{
		Step:          len(sim.Steps) + 1,
		Action:        action,
		TransactionID: txID,
		Amount:        amount,
		BalanceAfter:  reply.BalanceAfter,
		Status:        "SUCCESS",
	})

	return txID, nil
}

func (sim *Simulation) pushBalanceStep(reply *BalanceReply) {
	sim.Steps = append(sim.Steps, Step{
		Step:         len(sim.Steps) + 1,
		Action:       "GET_BALANCE",
		Status:       "SUCCESS",
		BalanceAfter: reply.PlayableBalance,
		Details: map[string]any{
			"playableBalance": reply.PlayableBalance,
			"currencyCode":    reply.CurrencyCode,
		},
	})
}

func actionTag(action string, step int) string {
	switch action {
	case "DEBIT":
		return fmt.Sprintf("bet%d", step)
	case "CREDIT":
		return "win"
	default:
		return "rb"
	}
}
