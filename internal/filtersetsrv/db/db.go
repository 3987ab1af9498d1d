// Package db provides the database access layer for the filter-set service.
// It defines two interfaces:
// - FilterSetManager: handles filter sets plus the dashboard and user lookups they depend on
// - ConnectionManager: manages the per-request database connection
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vizstack/filtersetsrv/internal/common/apperrors"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/dbmanager"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/models"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/postgresql"
)

// FilterSetManager handles all persistence operations of the filter-set
// service. All operations require a valid context and may return
// apperrors.Error for various failure cases.
type FilterSetManager interface {
	// Schema
	EnsureSchema(ctx context.Context) apperrors.Error

	// Filter Set
	CreateFilterSet(ctx context.Context, fs *models.FilterSet) apperrors.Error
	GetFilterSet(ctx context.Context, id int64) (*models.FilterSet, apperrors.Error)
	GetFilterSetByName(ctx context.Context, name string) (*models.FilterSet, apperrors.Error)
	ListFilterSetsByDashboard(ctx context.Context, dashboardID int64, scope models.VisibilityScope) ([]*models.FilterSet, apperrors.Error)
	GetUserPrimary(ctx context.Context, userID, dashboardID int64) (*models.FilterSet, apperrors.Error)
	UpdateFilterSet(ctx context.Context, id int64, changes *models.FilterSetChanges) (*models.FilterSet, apperrors.Error)
	DeleteFilterSet(ctx context.Context, id int64) apperrors.Error

	// Dashboard
	CreateDashboard(ctx context.Context, d *models.Dashboard) apperrors.Error
	AddDashboardOwner(ctx context.Context, dashboardID, userID int64) apperrors.Error
	GetDashboardByID(ctx context.Context, id int64) (*models.Dashboard, apperrors.Error)
	GetDashboardBySlug(ctx context.Context, slug string) (*models.Dashboard, apperrors.Error)
	DeleteDashboard(ctx context.Context, id int64) apperrors.Error

	// User
	CreateUser(ctx context.Context, u *models.User) apperrors.Error
	GetUser(ctx context.Context, id int64) (*models.User, apperrors.Error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, apperrors.Error)
	DeleteUser(ctx context.Context, id int64) apperrors.Error
}

// ConnectionManager manages the per-request database connection.
type ConnectionManager interface {
	// Close the connection to the database.
	Close(ctx context.Context)
}

// Store combines the managers into a single interface so handlers see one
// database access point per request.
type Store interface {
	FilterSetManager
	ConnectionManager
}

var pool dbmanager.DbPool

// Init initializes the database connection pool.
func Init() {
	ctx := log.Logger.WithContext(context.Background())
	pg := dbmanager.NewDbPool(ctx, "postgresql")
	if pg == nil {
		panic("unable to create db pool")
	}
	pool = pg
}

// Conn returns a new database connection from the pool.
// Returns an error if the connection cannot be established.
func Conn(ctx context.Context) (dbmanager.DbConn, error) {
	if pool != nil {
		conn, err := pool.Conn(ctx)
		if err == nil {
			return conn, nil
		}
		log.Ctx(ctx).Error().Err(err).Msg("unable to get db connection")
		return nil, err
	}
	return nil, fmt.Errorf("database pool not initialized")
}

type ctxDbKeyType string

const ctxDbKey ctxDbKeyType = "FilterSetDb"

// ConnCtx adds a database connection to the context.
// Returns an error if the connection cannot be established.
func ConnCtx(ctx context.Context) (context.Context, error) {
	conn, err := Conn(ctx)
	if err != nil {
		return nil, err
	}
	return context.WithValue(ctx, ctxDbKey, conn), nil
}

type filterSetStore struct {
	FilterSetManager
	ConnectionManager
}

// DB returns the store bound to the connection carried in the context.
// Returns nil if no connection is found in the context.
func DB(ctx context.Context) Store {
	if conn, ok := ctx.Value(ctxDbKey).(dbmanager.DbConn); ok {
		fm, cm := postgresql.NewFilterSetDb(conn)
		return &filterSetStore{
			FilterSetManager:  fm,
			ConnectionManager: cm,
		}
	}
	log.Ctx(ctx).Error().Msg("unable to get db connection from context")
	return nil
}
