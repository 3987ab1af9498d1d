package auth

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vizstack/filtersetsrv/internal/common/httpx"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/config"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/fscommon"
)

// UserAuthMiddleware authenticates the request via its bearer token and
// attaches the resolved caller identity to the context. Requests without a
// valid identity get a 401. In test mode a static token maps to the
// configured test user.
func UserAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			httpx.ErrUnAuthorized("missing bearer token").Send(w)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		var userID int64
		if config.IsTest() && tokenString == config.Config().Auth.TestUserToken {
			userID = config.Config().Auth.TestUserID
		} else {
			var err error
			userID, err = parseToken(tokenString)
			if err != nil {
				log.Ctx(ctx).Info().Err(err).Msg("token validation failed")
				httpx.ErrUnAuthorized().Send(w)
				return
			}
		}

		store := db.DB(ctx)
		if store == nil {
			httpx.ErrApplicationError("unable to service request at this time").Send(w)
			return
		}
		user, dbErr := store.GetUser(ctx, userID)
		if dbErr != nil {
			log.Ctx(ctx).Info().Err(dbErr).Int64("user_id", userID).Msg("token user not found")
			httpx.ErrUnAuthorized().Send(w)
			return
		}

		ctx = fscommon.WithUserContext(ctx, &fscommon.UserContext{
			UserID:   user.ID,
			Username: user.Username,
			IsAdmin:  user.IsAdmin,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
