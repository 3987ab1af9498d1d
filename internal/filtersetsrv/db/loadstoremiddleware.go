package db

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vizstack/filtersetsrv/internal/common/httpx"
)

// LoadStoreMiddleware is a middleware that loads a db connection into the
// request context and closes it after the request is served.
func LoadStoreMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := ConnCtx(r.Context())
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("unable to get db connection")
			httpx.ErrApplicationError("unable to service request at this time").Send(w)
			return
		}
		defer func() {
			if store := DB(ctx); store != nil {
				store.Close(context.Background()) // use background to avoid canceled context
			}
		}()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
