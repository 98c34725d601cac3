package main

import (
	"log/slog"
	"time"

	"github.com/juanwalsh/backendtest/internal/infra/pgutils"
	"github.com/juanwalsh/backendtest/internal/infra/redisutil"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" default:"3000"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" default:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" default:"15s"`

	DSN  string `env:"PG_DSN"`
	Pool pgutils.PoolConfig

	Redis           redisutil.Config
	BalanceCacheTTL time.Duration `env:"BALANCE_CACHE_TTL" default:"60s"`

	// Shared secrets for the two signed surfaces. Both sides of each
	// integration must agree on these.
	CasinoSecret   string `env:"CASINO_HMAC_SECRET"`
	ProviderSecret string `env:"PROVIDER_HMAC_SECRET"`

	// Base URLs the two sides use to call each other. Defaults assume the
	// single-binary deployment where both surfaces share one listener.
	CasinoBaseURL   string `env:"CASINO_BASE_URL" default:"http://localhost:3000/casino"`
	ProviderBaseURL string `env:"PROVIDER_BASE_URL" default:"http://localhost:3000/provider"`
}
