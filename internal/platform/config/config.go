// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A small set of
fields can be overridden from the command line (see [Config.BindFlags]).

Usage:

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, authority) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

// # Authentication Schemes

// Scheme selects which credential authority a deployment runs.
type Scheme string

const (
	// SchemeToken issues signed tokens and revokes them through a denylist.
	SchemeToken Scheme = "token"

	// SchemeSession issues opaque handles backed by server-side records.
	SchemeSession Scheme = "session"
)

// # Directory Drivers

const (
	DirectoryPostgres = "postgres"
	DirectoryMemory   = "memory"
)

// # Configuration Schema

// Config holds all runtime configuration for the API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Credential directory
	DirectoryDriver string `env:"DIRECTORY_DRIVER" envDefault:"postgres"`
	DatabaseURL     string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Expiring key-value store (Redis)
	RedisURL      string        `env:"REDIS_URL,required,notEmpty"`
	RedisPoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	StoreTimeout  time.Duration `env:"STORE_TIMEOUT"   envDefault:"2s"`

	// AuthScheme picks exactly one credential scheme for the process lifetime.
	AuthScheme Scheme `env:"AUTH_SCHEME" envDefault:"token"`

	// Token scheme signing material: either a shared secret (HS256) or an
	// RSA key pair (RS256). The key pair wins when both are present.
	JWTSecret      string        `env:"JWT_SECRET"`
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"credauth"`
	TokenTTL       time.Duration `env:"TOKEN_TTL"  envDefault:"1h"`

	// Session scheme lifetime. Sliding renewal is off unless asked for.
	SessionTTL     time.Duration `env:"SESSION_TTL"     envDefault:"3600s"`
	SessionSliding bool          `env:"SESSION_SLIDING" envDefault:"false"`

	// Per-IP throttling on register and login
	LoginRateRPS   float64 `env:"LOGIN_RATE_RPS"   envDefault:"5"`
	LoginRateBurst int     `env:"LOGIN_RATE_BURST" envDefault:"10"`

	// Key throttling on X-Real-IP / X-Forwarded-For. Enable only behind a
	// proxy that overwrites them.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct, applies any
// command-line overrides found in args, and validates the result.
func Load(args []string) (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	flagSet := pflag.NewFlagSet("api", pflag.ContinueOnError)
	cfg.BindFlags(flagSet)
	if err := flagSet.Parse(args); err != nil {
		return nil, fmt.Errorf("config: failed to parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// BindFlags registers the command-line overrides on flagSet. Defaults are
// the values already loaded from the environment.
func (c *Config) BindFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar((*string)(&c.AuthScheme), "scheme", string(c.AuthScheme), "credential scheme: token or session")
	flagSet.StringVar(&c.ServerPort, "port", c.ServerPort, "HTTP listen port")
	flagSet.BoolVar(&c.Debug, "debug", c.Debug, "enable debug logging")
	flagSet.BoolVar(&c.TrustProxyHeaders, "trust-proxy", c.TrustProxyHeaders, "throttle on proxy headers instead of the peer address")
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	switch c.AuthScheme {
	case SchemeToken:
		hasKeyPair := c.JWTPrivKeyPath != "" && c.JWTPubKeyPath != ""
		if !hasKeyPair && c.JWTSecret == "" {
			return errors.New("config: token scheme needs JWT_SECRET or JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH")
		}
		if c.TokenTTL <= 0 {
			return errors.New("config: TOKEN_TTL must be positive")
		}
	case SchemeSession:
		if c.SessionTTL < time.Second {
			return errors.New("config: SESSION_TTL must be at least one second")
		}
	default:
		return fmt.Errorf("config: unknown AUTH_SCHEME %q", c.AuthScheme)
	}

	switch c.DirectoryDriver {
	case DirectoryPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres directory")
		}
	case DirectoryMemory:
	default:
		return fmt.Errorf("config: unknown DIRECTORY_DRIVER %q", c.DirectoryDriver)
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesKeyPair reports whether tokens are signed with RS256 key files.
func (c *Config) UsesKeyPair() bool {
	return c.JWTPrivKeyPath != "" && c.JWTPubKeyPath != ""
}
