package postgresql

import (
	"context"
	"database/sql"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/vizstack/filtersetsrv/internal/common/apperrors"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/dberror"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/models"
)

// CreateDashboard inserts a new dashboard.
func (fm *filterSetManager) CreateDashboard(ctx context.Context, d *models.Dashboard) apperrors.Error {
	query := `
		INSERT INTO dashboards (dashboard_title, slug)
		VALUES ($1, $2)
		RETURNING id, created_on;
	`
	errDb := fm.conn().QueryRowContext(ctx, query, d.Title, d.Slug).Scan(&d.ID, &d.CreatedOn)
	if errDb != nil {
		if pgErr, ok := errDb.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return dberror.ErrAlreadyExists.Msg("dashboard slug already exists")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("title", d.Title).Msg("failed to insert dashboard")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// AddDashboardOwner records userID as an owner of the dashboard.
func (fm *filterSetManager) AddDashboardOwner(ctx context.Context, dashboardID, userID int64) apperrors.Error {
	query := `
		INSERT INTO dashboard_owners (dashboard_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING;
	`
	if _, errDb := fm.conn().ExecContext(ctx, query, dashboardID, userID); errDb != nil {
		if pgErr, ok := errDb.(*pgconn.PgError); ok && pgErr.Code == "23503" {
			return dberror.ErrForeignKey.Msg("dashboard or user does not exist")
		}
		log.Ctx(ctx).Error().Err(errDb).Int64("dashboard_id", dashboardID).Msg("failed to add dashboard owner")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// GetDashboardByID retrieves a dashboard and its owners by id.
func (fm *filterSetManager) GetDashboardByID(ctx context.Context, id int64) (*models.Dashboard, apperrors.Error) {
	query := `
		SELECT id, dashboard_title, slug, created_on
		FROM dashboards
		WHERE id = $1;
	`
	var d models.Dashboard
	errDb := fm.conn().QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Title, &d.Slug, &d.CreatedOn)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Int64("id", id).Msg("dashboard not found")
			return nil, dberror.ErrNotFound.Msg("dashboard not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Int64("id", id).Msg("failed to retrieve dashboard")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	if err := fm.loadDashboardOwners(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDashboardBySlug retrieves a dashboard and its owners by slug.
func (fm *filterSetManager) GetDashboardBySlug(ctx context.Context, slug string) (*models.Dashboard, apperrors.Error) {
	query := `
		SELECT id, dashboard_title, slug, created_on
		FROM dashboards
		WHERE slug = $1;
	`
	var d models.Dashboard
	errDb := fm.conn().QueryRowContext(ctx, query, slug).Scan(&d.ID, &d.Title, &d.Slug, &d.CreatedOn)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("dashboard not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("slug", slug).Msg("failed to retrieve dashboard")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	if err := fm.loadDashboardOwners(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (fm *filterSetManager) loadDashboardOwners(ctx context.Context, d *models.Dashboard) apperrors.Error {
	query := `
		SELECT user_id FROM dashboard_owners
		WHERE dashboard_id = $1
		ORDER BY user_id;
	`
	rows, errDb := fm.conn().QueryContext(ctx, query, d.ID)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Int64("dashboard_id", d.ID).Msg("failed to load dashboard owners")
		return dberror.ErrDatabase.Err(errDb)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		if errScan := rows.Scan(&userID); errScan != nil {
			return dberror.ErrDatabase.Err(errScan)
		}
		d.OwnerIDs = append(d.OwnerIDs, userID)
	}
	if errDb := rows.Err(); errDb != nil {
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// DeleteDashboard removes a dashboard. Filter sets and owner rows follow via
// ON DELETE CASCADE.
func (fm *filterSetManager) DeleteDashboard(ctx context.Context, id int64) apperrors.Error {
	query := `
		DELETE FROM dashboards
		WHERE id = $1;
	`
	if _, errDb := fm.conn().ExecContext(ctx, query, id); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Int64("id", id).Msg("failed to delete dashboard")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}
