// Package fsmanager implements the filter-set commands: validation of inbound
// payloads, the ownership authorization policy, and the orchestration of the
// store operations behind Create, Update, Delete and List.
package fsmanager

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/jackc/pgtype"
	"github.com/rs/zerolog/log"

	"github.com/vizstack/filtersetsrv/internal/common/apperrors"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/dberror"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/models"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/fscommon"
)

// ResolveDashboard looks up a dashboard by numeric id or slug.
func ResolveDashboard(ctx context.Context, idOrSlug string) (*models.Dashboard, apperrors.Error) {
	store := db.DB(ctx)
	if store == nil {
		return nil, ErrFilterSetError.Msg("no database connection")
	}
	if id, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil {
		dashboard, dbErr := store.GetDashboardByID(ctx, id)
		if dbErr != nil {
			if errors.Is(dbErr, dberror.ErrNotFound) {
				return nil, ErrDashboardNotFound
			}
			return nil, ErrFilterSetError.Err(dbErr)
		}
		return dashboard, nil
	}
	dashboard, dbErr := store.GetDashboardBySlug(ctx, idOrSlug)
	if dbErr != nil {
		if errors.Is(dbErr, dberror.ErrNotFound) {
			return nil, ErrDashboardNotFound
		}
		return nil, ErrFilterSetError.Err(dbErr)
	}
	return dashboard, nil
}

// CreateFilterSet runs the Create command: resolve the dashboard, check owner
// coherence and authorization, then persist. The creating user is always the
// caller; owner demotion for primaries happens inside the store transaction.
func CreateFilterSet(ctx context.Context, dashboardID int64, payload *CreatePayload) (*models.FilterSet, apperrors.Error) {
	user := fscommon.GetUserContext(ctx)
	if user == nil {
		return nil, ErrFilterSetError.Msg("missing user context")
	}
	store := db.DB(ctx)
	if store == nil {
		return nil, ErrFilterSetError.Msg("no database connection")
	}

	dashboard, err := store.GetDashboardByID(ctx, dashboardID)
	if err != nil {
		if errors.Is(err, dberror.ErrNotFound) {
			return nil, ErrDashboardNotFound
		}
		return nil, ErrCreateFailed.Err(err)
	}

	var ownerID int64
	switch payload.OwnerType {
	case fscommon.OwnerTypeDashboard:
		if payload.OwnerID != nil && *payload.OwnerID != dashboardID {
			return nil, ErrDashboardIdInconsistency
		}
		if !user.IsAdmin && !dashboard.IsOwner(user.UserID) {
			return nil, ErrUserIsNotDashboardOwner
		}
		ownerID = dashboardID
	case fscommon.OwnerTypeUser:
		ownerID = *payload.OwnerID
		// The caller itself always exists; anyone else must.
		if ownerID != user.UserID {
			if _, err := store.GetUser(ctx, ownerID); err != nil {
				if errors.Is(err, dberror.ErrNotFound) {
					return nil, ErrOwnerNotExists
				}
				return nil, ErrCreateFailed.Err(err)
			}
		}
	}

	fs := &models.FilterSet{
		Name:         payload.Name,
		JSONMetadata: pgtype.JSONB{Bytes: []byte(payload.JSONMetadata), Status: pgtype.Present},
		DashboardID:  dashboardID,
		OwnerType:    payload.OwnerType,
		OwnerID:      ownerID,
		UserID:       user.UserID,
		IsPrimary:    payload.IsPrimary,
		CreatedBy:    sql.NullInt64{Int64: user.UserID, Valid: true},
		ChangedBy:    sql.NullInt64{Int64: user.UserID, Valid: true},
	}
	if payload.Description != nil {
		fs.Description = sql.NullString{String: *payload.Description, Valid: true}
	}

	if err := store.CreateFilterSet(ctx, fs); err != nil {
		switch {
		case errors.Is(err, dberror.ErrAlreadyExists):
			return nil, ErrNameExists
		case errors.Is(err, dberror.ErrForeignKey):
			return nil, ErrOwnerNotExists
		default:
			log.Ctx(ctx).Error().Err(err).Str("name", payload.Name).Msg("create filter set failed")
			return nil, ErrCreateFailed.Err(err)
		}
	}
	return fs, nil
}

// loadTarget fetches the filter set for Update/Delete, applying the
// cross-dashboard masking rule: a filter set that exists on a different
// dashboard is reported as forbidden, not as missing.
func loadTarget(ctx context.Context, store db.Store, dashboardID, filterSetID int64) (*models.FilterSet, apperrors.Error) {
	fs, err := store.GetFilterSet(ctx, filterSetID)
	if err != nil {
		if errors.Is(err, dberror.ErrNotFound) {
			return nil, ErrFilterSetNotFound
		}
		return nil, ErrFilterSetError.Err(err)
	}
	if fs.DashboardID != dashboardID {
		return nil, ErrForbidden
	}
	return fs, nil
}

// UpdateFilterSet runs the Update command. Only name, description,
// json_metadata, owner_type and is_primary may change; moving ownership to
// the dashboard forces owner_id to the dashboard id.
func UpdateFilterSet(ctx context.Context, dashboardID, filterSetID int64, payload *UpdatePayload) (*models.FilterSet, apperrors.Error) {
	user := fscommon.GetUserContext(ctx)
	if user == nil {
		return nil, ErrFilterSetError.Msg("missing user context")
	}
	store := db.DB(ctx)
	if store == nil {
		return nil, ErrFilterSetError.Msg("no database connection")
	}

	dashboard, err := store.GetDashboardByID(ctx, dashboardID)
	if err != nil {
		if errors.Is(err, dberror.ErrNotFound) {
			return nil, ErrDashboardNotFound
		}
		return nil, ErrUpdateFailed.Err(err)
	}

	fs, err := loadTarget(ctx, store, dashboardID, filterSetID)
	if err != nil {
		return nil, err
	}
	if !CanManage(user, fs, dashboard) {
		return nil, ErrForbidden
	}

	changes := &models.FilterSetChanges{
		Name:        payload.Name,
		Description: payload.Description,
		IsPrimary:   payload.IsPrimary,
		ChangedBy:   user.UserID,
	}
	if payload.JSONMetadata != nil {
		changes.JSONMetadata = []byte(*payload.JSONMetadata)
	}
	if payload.OwnerType != nil {
		if payload.OwnerID != nil && *payload.OwnerID != dashboardID {
			return nil, ErrDashboardIdInconsistency
		}
		ownerType := fscommon.OwnerTypeDashboard
		changes.OwnerType = &ownerType
		changes.OwnerID = &dashboardID
	} else if payload.OwnerID != nil {
		return nil, ErrInvalidPayload.Msg("owner_id cannot change without owner_type")
	}

	updated, err := store.UpdateFilterSet(ctx, filterSetID, changes)
	if err != nil {
		switch {
		case errors.Is(err, dberror.ErrAlreadyExists):
			return nil, ErrNameExists
		case errors.Is(err, dberror.ErrNotFound):
			return nil, ErrFilterSetNotFound
		default:
			log.Ctx(ctx).Error().Err(err).Int64("id", filterSetID).Msg("update filter set failed")
			return nil, ErrUpdateFailed.Err(err)
		}
	}
	return updated, nil
}

// DeleteFilterSet runs the Delete command. Deleting an id that never existed
// succeeds, so repeated deletes are safe; a filter set on another dashboard
// is forbidden rather than missing.
func DeleteFilterSet(ctx context.Context, dashboardID, filterSetID int64) apperrors.Error {
	user := fscommon.GetUserContext(ctx)
	if user == nil {
		return ErrFilterSetError.Msg("missing user context")
	}
	store := db.DB(ctx)
	if store == nil {
		return ErrFilterSetError.Msg("no database connection")
	}

	dashboard, err := store.GetDashboardByID(ctx, dashboardID)
	if err != nil {
		if errors.Is(err, dberror.ErrNotFound) {
			return ErrDashboardNotFound
		}
		return ErrDeleteFailed.Err(err)
	}

	fs, err := loadTarget(ctx, store, dashboardID, filterSetID)
	if err != nil {
		if errors.Is(err, ErrFilterSetNotFound) {
			// Idempotent delete.
			return nil
		}
		return err
	}
	if !CanManage(user, fs, dashboard) {
		return ErrForbidden
	}

	if err := store.DeleteFilterSet(ctx, filterSetID); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("id", filterSetID).Msg("delete filter set failed")
		return ErrDeleteFailed.Err(err)
	}
	return nil
}

// ListFilterSets runs the List command: resolve the dashboard by id or slug
// and return its filter sets visible to the caller, ordered by id.
func ListFilterSets(ctx context.Context, idOrSlug string) (*models.Dashboard, []*models.FilterSet, apperrors.Error) {
	user := fscommon.GetUserContext(ctx)
	if user == nil {
		return nil, nil, ErrFilterSetError.Msg("missing user context")
	}
	dashboard, err := ResolveDashboard(ctx, idOrSlug)
	if err != nil {
		return nil, nil, err
	}
	store := db.DB(ctx)
	if store == nil {
		return nil, nil, ErrFilterSetError.Msg("no database connection")
	}
	filterSets, dbErr := store.ListFilterSetsByDashboard(ctx, dashboard.ID, ScopeForCaller(user))
	if dbErr != nil {
		return nil, nil, ErrFilterSetError.Err(dbErr)
	}
	return dashboard, filterSets, nil
}
