package envconf

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

type testRedisSection struct {
	Addr string `env:"TEST_REDIS_ADDR" default:"localhost:6379"`
	DB   int    `env:"TEST_REDIS_DB" default:"0"`
}

type testConfig struct {
	Port     uint16        `env:"TEST_PORT"`
	DSN      string        `env:"TEST_DSN"`
	Timeout  time.Duration `env:"TEST_TIMEOUT" default:"10s"`
	LogLevel slog.Level    `env:"TEST_LOG_LEVEL" default:"INFO"`
	Redis    testRedisSection
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_PORT", "8080")
	t.Setenv("TEST_DSN", "postgres://localhost/wallet")
	t.Setenv("TEST_TIMEOUT", "5s")
	t.Setenv("TEST_REDIS_ADDR", "redis:6379")

	cfg := new(testConfig)

	err := Load(cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.DSN != "postgres://localhost/wallet" {
		t.Errorf("dsn = %q", cfg.DSN)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("log level = %v, want INFO", cfg.LogLevel)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("redis db = %d, want default 0", cfg.Redis.DB)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TEST_PORT", "9090")
	t.Setenv("TEST_DSN", "postgres://localhost/wallet")

	cfg := new(testConfig)

	err := Load(cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Timeout != 10*time.Second {
		t.Errorf("timeout default = %v, want 10s", cfg.Timeout)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis addr default = %q", cfg.Redis.Addr)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("TEST_PORT", "9090")
	// TEST_DSN intentionally unset and has no default.

	err := Load(new(testConfig))
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("expected ErrMissingRequired, got %v", err)
	}
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("TEST_PORT", "not-a-port")
	t.Setenv("TEST_DSN", "x")

	err := Load(new(testConfig))
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_NotAPointer(t *testing.T) {
	err := Load(testConfig{})
	if err == nil {
		t.Fatal("expected error for non-pointer destination")
	}
}
