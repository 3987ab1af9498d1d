package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/vizstack/filtersetsrv/internal/common/apperrors"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/dberror"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/models"
)

const filterSetColumns = `id, name, description, json_metadata, dashboard_id, owner_type, owner_id,
	user_id, is_primary, created_on, changed_on, created_by, changed_by`

func scanFilterSet(row interface{ Scan(...any) error }) (*models.FilterSet, error) {
	var fs models.FilterSet
	err := row.Scan(
		&fs.ID,
		&fs.Name,
		&fs.Description,
		&fs.JSONMetadata,
		&fs.DashboardID,
		&fs.OwnerType,
		&fs.OwnerID,
		&fs.UserID,
		&fs.IsPrimary,
		&fs.CreatedOn,
		&fs.ChangedOn,
		&fs.CreatedBy,
		&fs.ChangedBy,
	)
	if err != nil {
		return nil, err
	}
	return &fs, nil
}

// CreateFilterSet inserts a new filter set. When the filter set is marked
// primary, any existing primary for the same (user_id, dashboard_id) pair is
// demoted in the same transaction so the partial unique index never trips
// under normal operation.
func (fm *filterSetManager) CreateFilterSet(ctx context.Context, fs *models.FilterSet) (err apperrors.Error) {
	tx, errdb := fm.conn().BeginTx(ctx, &sql.TxOptions{})
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to start transaction")
		return dberror.ErrDatabase.Err(errdb)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
				log.Ctx(ctx).Error().Err(rollbackErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if fs.IsPrimary {
		demote := `
			UPDATE filter_sets
			SET is_primary = FALSE, changed_on = NOW(), changed_by = $3
			WHERE user_id = $1 AND dashboard_id = $2 AND is_primary;
		`
		if _, errDb := tx.ExecContext(ctx, demote, fs.UserID, fs.DashboardID, fs.ChangedBy); errDb != nil {
			log.Ctx(ctx).Error().Err(errDb).Int64("user_id", fs.UserID).Msg("failed to demote primary filter set")
			return dberror.ErrDatabase.Err(errDb)
		}
	}

	query := `
		INSERT INTO filter_sets (name, description, json_metadata, dashboard_id, owner_type, owner_id,
			user_id, is_primary, created_by, changed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_on, changed_on;
	`
	row := tx.QueryRowContext(ctx, query,
		fs.Name,
		fs.Description,
		fs.JSONMetadata,
		fs.DashboardID,
		fs.OwnerType,
		fs.OwnerID,
		fs.UserID,
		fs.IsPrimary,
		fs.CreatedBy,
		fs.ChangedBy,
	)
	if errDb := row.Scan(&fs.ID, &fs.CreatedOn, &fs.ChangedOn); errDb != nil {
		if pgErr, ok := errDb.(*pgconn.PgError); ok {
			switch {
			case pgErr.Code == "23505" && pgErr.ConstraintName == "filter_sets_name_key":
				log.Ctx(ctx).Info().Str("name", fs.Name).Msg("filter set name already exists")
				return dberror.ErrAlreadyExists.Msg("filter set name already exists")
			case pgErr.Code == "23505" && pgErr.ConstraintName == "filter_sets_user_primary_idx":
				return dberror.ErrPrimaryConflict
			case pgErr.Code == "23503" && pgErr.ConstraintName == "filter_sets_dashboard_id_fkey":
				return dberror.ErrForeignKey.Msg("dashboard does not exist")
			case pgErr.Code == "23503" && pgErr.ConstraintName == "filter_sets_user_id_fkey":
				return dberror.ErrForeignKey.Msg("user does not exist")
			case pgErr.Code == "23514":
				return dberror.ErrInvalidInput.Msg("invalid owner type")
			}
		}
		log.Ctx(ctx).Error().Err(errDb).Str("name", fs.Name).Msg("failed to insert filter set")
		return dberror.ErrDatabase.Err(errDb)
	}

	if errDb := tx.Commit(); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// GetFilterSet retrieves a filter set by its id.
func (fm *filterSetManager) GetFilterSet(ctx context.Context, id int64) (*models.FilterSet, apperrors.Error) {
	query := `
		SELECT ` + filterSetColumns + `
		FROM filter_sets
		WHERE id = $1;
	`
	fs, errDb := scanFilterSet(fm.conn().QueryRowContext(ctx, query, id))
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Int64("id", id).Msg("filter set not found")
			return nil, dberror.ErrNotFound.Msg("filter set not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Int64("id", id).Msg("failed to retrieve filter set")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return fs, nil
}

// GetFilterSetByName retrieves a filter set by its unique name.
func (fm *filterSetManager) GetFilterSetByName(ctx context.Context, name string) (*models.FilterSet, apperrors.Error) {
	query := `
		SELECT ` + filterSetColumns + `
		FROM filter_sets
		WHERE name = $1;
	`
	fs, errDb := scanFilterSet(fm.conn().QueryRowContext(ctx, query, name))
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("filter set not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("name", name).Msg("failed to retrieve filter set")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return fs, nil
}

// ListFilterSetsByDashboard returns the filter sets of a dashboard visible
// under the given scope, ordered by id. The visibility predicate is applied
// in SQL so rows the caller may not see are never fetched.
func (fm *filterSetManager) ListFilterSetsByDashboard(ctx context.Context, dashboardID int64, scope models.VisibilityScope) ([]*models.FilterSet, apperrors.Error) {
	query := `
		SELECT ` + filterSetColumns + `
		FROM filter_sets
		WHERE dashboard_id = $1
	`
	args := []any{dashboardID}
	if !scope.All {
		query += `
		AND ((owner_type = 'User' AND owner_id = $2)
			OR (owner_type = 'Dashboard' AND owner_id IN (
				SELECT dashboard_id FROM dashboard_owners WHERE user_id = $2)))
		`
		args = append(args, scope.UserID)
	}
	query += `ORDER BY id ASC;`

	rows, errDb := fm.conn().QueryContext(ctx, query, args...)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Int64("dashboard_id", dashboardID).Msg("failed to list filter sets")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	defer rows.Close()

	var result []*models.FilterSet
	for rows.Next() {
		fs, errScan := scanFilterSet(rows)
		if errScan != nil {
			log.Ctx(ctx).Error().Err(errScan).Msg("failed to scan filter set")
			return nil, dberror.ErrDatabase.Err(errScan)
		}
		result = append(result, fs)
	}
	if errDb := rows.Err(); errDb != nil {
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return result, nil
}

// GetUserPrimary returns the primary filter set a user holds on a dashboard,
// or ErrNotFound when none is marked.
func (fm *filterSetManager) GetUserPrimary(ctx context.Context, userID, dashboardID int64) (*models.FilterSet, apperrors.Error) {
	query := `
		SELECT ` + filterSetColumns + `
		FROM filter_sets
		WHERE user_id = $1 AND dashboard_id = $2 AND is_primary;
	`
	fs, errDb := scanFilterSet(fm.conn().QueryRowContext(ctx, query, userID, dashboardID))
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("no primary filter set")
		}
		log.Ctx(ctx).Error().Err(errDb).Int64("user_id", userID).Msg("failed to retrieve primary filter set")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return fs, nil
}

// UpdateFilterSet applies the non-nil fields of changes to the filter set
// identified by id. When the update marks the row primary, other primaries of
// the same (user_id, dashboard_id) pair are demoted in the same transaction.
// The updated row is returned.
func (fm *filterSetManager) UpdateFilterSet(ctx context.Context, id int64, changes *models.FilterSetChanges) (fs *models.FilterSet, err apperrors.Error) {
	tx, errdb := fm.conn().BeginTx(ctx, &sql.TxOptions{})
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to start transaction")
		return nil, dberror.ErrDatabase.Err(errdb)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
				log.Ctx(ctx).Error().Err(rollbackErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if changes.IsPrimary != nil && *changes.IsPrimary {
		demote := `
			UPDATE filter_sets
			SET is_primary = FALSE, changed_on = NOW(), changed_by = $2
			WHERE id != $1 AND is_primary
				AND user_id = (SELECT user_id FROM filter_sets WHERE id = $1)
				AND dashboard_id = (SELECT dashboard_id FROM filter_sets WHERE id = $1);
		`
		if _, errDb := tx.ExecContext(ctx, demote, id, changes.ChangedBy); errDb != nil {
			log.Ctx(ctx).Error().Err(errDb).Int64("id", id).Msg("failed to demote primary filter set")
			return nil, dberror.ErrDatabase.Err(errDb)
		}
	}

	setClauses := []string{"changed_on = NOW()", "changed_by = $1"}
	args := []any{changes.ChangedBy}
	addSet := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if changes.Name != nil {
		addSet("name", *changes.Name)
	}
	if changes.Description != nil {
		addSet("description", *changes.Description)
	}
	if changes.JSONMetadata != nil {
		addSet("json_metadata", changes.JSONMetadata)
	}
	if changes.OwnerType != nil {
		addSet("owner_type", *changes.OwnerType)
	}
	if changes.OwnerID != nil {
		addSet("owner_id", *changes.OwnerID)
	}
	if changes.IsPrimary != nil {
		addSet("is_primary", *changes.IsPrimary)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE filter_sets
		SET %s
		WHERE id = $%d
		RETURNING `+filterSetColumns+`;
	`, strings.Join(setClauses, ", "), len(args))

	fs, errDb := scanFilterSet(tx.QueryRowContext(ctx, query, args...))
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("filter set not found")
		}
		if pgErr, ok := errDb.(*pgconn.PgError); ok {
			switch {
			case pgErr.Code == "23505" && pgErr.ConstraintName == "filter_sets_name_key":
				return nil, dberror.ErrAlreadyExists.Msg("filter set name already exists")
			case pgErr.Code == "23505" && pgErr.ConstraintName == "filter_sets_user_primary_idx":
				return nil, dberror.ErrPrimaryConflict
			case pgErr.Code == "23514":
				return nil, dberror.ErrInvalidInput.Msg("invalid owner type")
			}
		}
		log.Ctx(ctx).Error().Err(errDb).Int64("id", id).Msg("failed to update filter set")
		return nil, dberror.ErrDatabase.Err(errDb)
	}

	if errDb := tx.Commit(); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to commit transaction")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return fs, nil
}

// DeleteFilterSet removes a filter set by id. Deleting a row that does not
// exist is not an error.
func (fm *filterSetManager) DeleteFilterSet(ctx context.Context, id int64) apperrors.Error {
	query := `
		DELETE FROM filter_sets
		WHERE id = $1;
	`
	result, errDb := fm.conn().ExecContext(ctx, query, id)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Int64("id", id).Msg("failed to delete filter set")
		return dberror.ErrDatabase.Err(errDb)
	}
	if rows, errDb := result.RowsAffected(); errDb == nil && rows == 0 {
		log.Ctx(ctx).Info().Int64("id", id).Msg("filter set already deleted")
	}
	return nil
}
