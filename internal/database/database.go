package database

import (
	"context"
	"fmt"
	"time"

	"cart-offer/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema creates the offers table. Sequence doubles as the primary key and
// orders each restaurant's offers.
const Schema = `
	CREATE TABLE IF NOT EXISTS offers (
		sequence      BIGSERIAL PRIMARY KEY,
		id            UUID NOT NULL UNIQUE,
		restaurant_id BIGINT NOT NULL CHECK (restaurant_id > 0),
		offer_type    TEXT NOT NULL CHECK (offer_type IN ('FLATX', 'FLAT%')),
		offer_value   BIGINT NOT NULL CHECK (offer_value >= 0),
		segments      TEXT[] NOT NULL CHECK (cardinality(segments) > 0),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (offer_type <> 'FLAT%' OR offer_value <= 100)
	);
	CREATE INDEX IF NOT EXISTS idx_offers_restaurant_sequence ON offers(restaurant_id, sequence);
`

// NewPool creates a new PostgreSQL connection pool.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_connections", cfg.MaxConnections).
		Int("min_connections", cfg.MinConnections).
		Msg("creating database connection pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("database connection pool created successfully")

	return pool, nil
}

// EnsureSchema creates the offers table and its index when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply offers schema: %w", err)
	}

	logger.Info().Msg("offers schema ready")
	return nil
}
