// Package provider holds the game provider's own bookkeeping: the players
// it has mapped from the casino, its game list, and the rounds and bets it
// records while driving the wallet API.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/juanwalsh/backendtest/pkg/money"
)

var (
	ErrGameNotFound     = errors.New("provider game not found")
	ErrCustomerNotFound = errors.New("provider customer not found")
)

// Customer maps an external (casino-side) user to a provider player id.
type Customer struct {
	ID             int64
	PlayerID       string
	CasinoCode     string
	ExternalUserID int64
}

type Game struct {
	ID       int64
	GameRef  string
	Name     string
	IsActive bool
}

// RoundStatus tracks a round's lifecycle.
type RoundStatus string

const (
	RoundOpen   RoundStatus = "OPEN"
	RoundClosed RoundStatus = "CLOSED"
)

type Round struct {
	RoundID      string
	SessionToken string
	PlayerID     int64
	GameID       int64
	Currency     string
	Status       RoundStatus
	TotalBet     money.Amount
	TotalPayout  money.Amount
	CreatedAt    time.Time
}

// BetType mirrors the wallet call that produced the record.
type BetType string

const (
	BetTypeBet      BetType = "BET"
	BetTypeWin      BetType = "WIN"
	BetTypeRollback BetType = "ROLLBACK"
)

// Bet is the provider's record of one wallet call inside a round, with the
// casino's response frozen for audit.
type Bet struct {
	TransactionID      string
	RoundID            string
	BetType            BetType
	Amount             money.Amount
	CasinoBalanceAfter money.Amount
	Status             string
	ResponseCache      string
}

type Provider interface {
	// UpsertCustomer returns the existing mapping for (casinoCode,
	// externalUserID) or creates one.
	UpsertCustomer(ctx context.Context, casinoCode string, externalUserID int64) (*Customer, error)

	CustomerByExternalUser(ctx context.Context, casinoCode string, externalUserID int64) (*Customer, error)

	GameByRef(ctx context.Context, gameRef string) (*Game, error)

	// AnyActiveGame picks an active game for simulation rounds.
	AnyActiveGame(ctx context.Context) (*Game, error)

	CreateRound(ctx context.Context, round Round) error

	CloseRound(ctx context.Context, roundID string, totalBet, totalPayout money.Amount) error

	RecordBet(ctx context.Context, bet Bet) error
}
