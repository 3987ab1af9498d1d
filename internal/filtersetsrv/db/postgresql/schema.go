package postgresql

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/vizstack/filtersetsrv/internal/common/apperrors"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/dberror"
)

// schemaStatements create the tables and indexes the service depends on. The
// statements are idempotent so EnsureSchema can run on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		username VARCHAR(128) NOT NULL UNIQUE,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_on TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS dashboards (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		dashboard_title VARCHAR(500) NOT NULL,
		slug VARCHAR(255) UNIQUE,
		created_on TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS dashboard_owners (
		dashboard_id BIGINT NOT NULL REFERENCES dashboards(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		PRIMARY KEY (dashboard_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS filter_sets (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name VARCHAR(500) NOT NULL,
		description VARCHAR(1000),
		json_metadata JSONB NOT NULL,
		dashboard_id BIGINT NOT NULL,
		owner_type VARCHAR(16) NOT NULL,
		owner_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		is_primary BOOLEAN NOT NULL DEFAULT FALSE,
		created_on TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		changed_on TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by BIGINT,
		changed_by BIGINT,
		CONSTRAINT filter_sets_name_key UNIQUE (name),
		CONSTRAINT filter_sets_owner_type_check CHECK (owner_type IN ('User', 'Dashboard')),
		CONSTRAINT filter_sets_dashboard_id_fkey FOREIGN KEY (dashboard_id) REFERENCES dashboards(id) ON DELETE CASCADE,
		CONSTRAINT filter_sets_user_id_fkey FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS filter_sets_user_primary_idx
		ON filter_sets (user_id, dashboard_id) WHERE is_primary`,
	`CREATE INDEX IF NOT EXISTS filter_sets_dashboard_id_idx
		ON filter_sets (dashboard_id)`,
}

// EnsureSchema creates the service schema if it does not already exist.
func (fm *filterSetManager) EnsureSchema(ctx context.Context) apperrors.Error {
	for _, stmt := range schemaStatements {
		if _, err := fm.conn().ExecContext(ctx, stmt); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to apply schema statement")
			return dberror.ErrDatabase.Err(err)
		}
	}
	return nil
}
