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

// CreateUser inserts a new user.
func (fm *filterSetManager) CreateUser(ctx context.Context, u *models.User) apperrors.Error {
	query := `
		INSERT INTO users (username, is_admin)
		VALUES ($1, $2)
		RETURNING id, created_on;
	`
	errDb := fm.conn().QueryRowContext(ctx, query, u.Username, u.IsAdmin).Scan(&u.ID, &u.CreatedOn)
	if errDb != nil {
		if pgErr, ok := errDb.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return dberror.ErrAlreadyExists.Msg("username already exists")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("username", u.Username).Msg("failed to insert user")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// GetUser retrieves a user by id.
func (fm *filterSetManager) GetUser(ctx context.Context, id int64) (*models.User, apperrors.Error) {
	query := `
		SELECT id, username, is_admin, created_on
		FROM users
		WHERE id = $1;
	`
	var u models.User
	errDb := fm.conn().QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.IsAdmin, &u.CreatedOn)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Int64("id", id).Msg("user not found")
			return nil, dberror.ErrNotFound.Msg("user not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Int64("id", id).Msg("failed to retrieve user")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by username.
func (fm *filterSetManager) GetUserByUsername(ctx context.Context, username string) (*models.User, apperrors.Error) {
	query := `
		SELECT id, username, is_admin, created_on
		FROM users
		WHERE username = $1;
	`
	var u models.User
	errDb := fm.conn().QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.IsAdmin, &u.CreatedOn)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("user not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("username", username).Msg("failed to retrieve user")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return &u, nil
}

// DeleteUser removes a user by id.
func (fm *filterSetManager) DeleteUser(ctx context.Context, id int64) apperrors.Error {
	query := `
		DELETE FROM users
		WHERE id = $1;
	`
	if _, errDb := fm.conn().ExecContext(ctx, query, id); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Int64("id", id).Msg("failed to delete user")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}
