// Package database owns the PostgreSQL pool behind the product catalog.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/curator/pkg/lifecycle"
)

// pingInterval spaces startup pings while the server may still be booting.
const pingInterval = 500 * time.Millisecond

// System manages the connection pool and its lifecycle hooks.
type System interface {
	// Connection returns the underlying pool.
	Connection() *sql.DB
	// Start registers a startup ping and a shutdown close with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type pool struct {
	db      *sql.DB
	logger  *slog.Logger
	timeout time.Duration
}

// New configures a pool through the pgx stdlib driver. sql.Open only validates
// the DSN; the first connection is made by the startup ping.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &pool{
		db:      db,
		logger:  logger.With("system", "database"),
		timeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (p *pool) Connection() *sql.DB {
	return p.db
}

func (p *pool) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(p.await)

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		stats := p.db.Stats()
		if err := p.db.Close(); err != nil {
			p.logger.Error("close failed", "error", err)
			return
		}
		p.logger.Info("pool closed", "in_use", stats.InUse, "opened", stats.OpenConnections)
	})

	return nil
}

// await pings until the server answers or the connect timeout elapses, so a
// database container that starts alongside the service does not fail the boot.
func (p *pool) await(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		err := p.db.PingContext(ctx)
		if err == nil {
			p.logger.Info("pool ready", "attempts", attempt)
			return nil
		}
		p.logger.Debug("ping failed", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("database ping after %d attempts: %w", attempt, err)
		case <-ticker.C:
		}
	}
}
