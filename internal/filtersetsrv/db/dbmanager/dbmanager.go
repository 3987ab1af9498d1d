// Package dbmanager manages the PostgreSQL connection pool used by the store.
package dbmanager

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"
)

// DbConn is a single pooled connection. Callers must Close it when the
// request completes.
type DbConn interface {
	// Conn returns the underlying sql.Conn.
	Conn() *sql.Conn
	// Close returns the connection to the pool.
	Close(ctx context.Context)
}

// DbPool hands out connections with session parameters applied.
type DbPool interface {
	Conn(ctx context.Context) (DbConn, error)
	Stats() (requests, returns uint64)
	OpenConns() int
}

// NewDbPool creates a new pool for the given provider. Only "postgresql" is
// supported.
func NewDbPool(ctx context.Context, provider string) DbPool {
	switch provider {
	case "postgresql":
		pool, err := newPostgresqlPool()
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to create postgresql pool")
			return nil
		}
		return pool
	default:
		log.Ctx(ctx).Error().Str("provider", provider).Msg("unsupported db provider")
		return nil
	}
}
