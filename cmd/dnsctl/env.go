package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/edvin/mailwatch/internal/config"
	"github.com/edvin/mailwatch/internal/db"
	"github.com/edvin/mailwatch/internal/logging"
	"github.com/edvin/mailwatch/internal/poller"
	"github.com/edvin/mailwatch/internal/resolver"
)

// env carries what a command needs. Stdout is reserved for command output;
// logs go to stderr.
type env struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func loadEnv(requireDB bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if requireDB {
		if err := cfg.Validate(config.RoleCLI); err != nil {
			return nil, err
		}
	}
	logger := logging.NewLogger(cfg).Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return &env{cfg: cfg, logger: logger}, nil
}

func (e *env) corePool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := db.NewCorePool(ctx, e.cfg.CoreDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to core database: %w", err)
	}
	return pool, nil
}

// poller builds a poller over the configured resolvers that logs through
// the command logger.
func (e *env) poller() (*poller.Poller, poller.Observer, error) {
	observer := poller.NewLogObserver(e.logger)
	pool, err := resolver.NewPool(e.cfg.DNSResolvers, resolver.PoolConfig{
		Timeout:  e.cfg.DNSQueryTimeout,
		Observer: observer,
	})
	if err != nil {
		return nil, nil, err
	}
	return poller.New(pool, poller.Config{
		MinimumQuorum: e.cfg.MinDNSResolutions,
		Observer:      observer,
	}), observer, nil
}
