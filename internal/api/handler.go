package api

import (
	"database/sql"

	"github.com/go-redis/redis/v8"
	"github.com/juanwalsh/backendtest/internal/services/audit"
	"github.com/juanwalsh/backendtest/internal/services/round"
	"github.com/juanwalsh/backendtest/internal/services/session"
	"github.com/juanwalsh/backendtest/internal/services/wallet"
)

// Handler wires the services into HTTP endpoints. The ledger engine itself
// has no opinion on HTTP status codes or wire shapes; that translation all
// lives here.
type Handler struct {
	wallet   *wallet.Service
	sessions *session.Service
	rounds   *round.Service
	cache    *wallet.BalanceCache
	audit    *audit.Publisher
	provider *ProviderClient

	db  *sql.DB
	rdb *redis.Client
}

type HandlerDeps struct {
	Wallet   *wallet.Service
	Sessions *session.Service
	Rounds   *round.Service
	Cache    *wallet.BalanceCache
	Audit    *audit.Publisher
	Provider *ProviderClient
	DB       *sql.DB
	Redis    *redis.Client
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		wallet:   deps.Wallet,
		sessions: deps.Sessions,
		rounds:   deps.Rounds,
		cache:    deps.Cache,
		audit:    deps.Audit,
		provider: deps.Provider,
		db:       deps.DB,
		rdb:      deps.Redis,
	}
}
