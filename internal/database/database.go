package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	appconfig "github.com/catalabs/catalog_api/internal/config"
)

// Connection retry policy: the catalog often starts alongside its
// database container, so the first pings may land before Postgres accepts
// connections.
const (
	connectAttempts = 5
	connectBaseWait = 500 * time.Millisecond
	connectMaxWait  = 5 * time.Second
	pingTimeout     = 5 * time.Second
)

// Connect opens the shared PostgreSQL pool, retrying with exponential
// backoff until the server answers a ping. The returned pool is the one
// every Session draws its connections from.
func Connect(cfg *appconfig.DatabaseConfig) (*sqlx.DB, error) {
	if cfg == nil {
		return nil, errors.New("nil database config")
	}
	dsn := buildDSN(cfg)

	var db *sqlx.DB
	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, lastErr = sqlx.Open("postgres", dsn)
		if lastErr != nil {
			wait(attempt)
			continue
		}

		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		lastErr = db.PingContext(ctx)
		cancel()
		if lastErr == nil {
			return db, nil
		}

		_ = db.Close()
		wait(attempt)
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectAttempts, lastErr)
}

// buildDSN renders the connection URL, escaping credentials so passwords
// with reserved characters survive.
func buildDSN(cfg *appconfig.DatabaseConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password),
		cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)
}

// wait sleeps for connectBaseWait doubled per attempt, capped at
// connectMaxWait.
func wait(attempt int) {
	d := connectBaseWait << (attempt - 1)
	if d > connectMaxWait {
		d = connectMaxWait
	}
	time.Sleep(d)
}
