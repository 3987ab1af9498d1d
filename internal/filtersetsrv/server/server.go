// Package server assembles the HTTP server: router, middleware chain, CORS,
// and the operational endpoints.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/vizstack/filtersetsrv/internal/common/httpx"
	commonmiddleware "github.com/vizstack/filtersetsrv/internal/common/middleware"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/apis"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/config"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/fscommon"
)

type FilterSetServer struct {
	Router *chi.Mux
}

func CreateNewServer() (*FilterSetServer, error) {
	s := &FilterSetServer{}
	s.Router = chi.NewRouter()
	return s, nil
}

func (s *FilterSetServer) MountHandlers() {
	s.Router.Use(commonmiddleware.RequestLogger)
	s.Router.Use(commonmiddleware.PanicHandler)
	s.Router.Use(commonmiddleware.SetTimeout(config.Config().GetRequestTimeout()))
	s.Router.Use(db.LoadStoreMiddleware)
	if config.Config().HandleCORS {
		s.Router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   config.Config().CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
		}))
	}

	// Canonical root. The bare /dashboard/... family is a migration-time
	// alias of the same handlers.
	s.Router.Route("/api/"+fscommon.ApiVersion, func(r chi.Router) {
		apis.Router(r)
	})
	s.mountResourceHandlers(s.Router)
}

func (s *FilterSetServer) mountResourceHandlers(r chi.Router) {
	apis.Router(r)
	r.Get("/version", s.getVersion)
	r.Get("/ready", s.getReadiness)
}

type GetVersionRsp struct {
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
}

func (s *FilterSetServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &GetVersionRsp{
		ServerVersion: "Filter Set Server: " + fscommon.ServerVersion,
		ApiVersion:    fscommon.ApiVersion,
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}

func (s *FilterSetServer) getReadiness(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("Readiness check")

	ctx, err := db.ConnCtx(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Database connection failed during readiness check")
		httpx.SendJsonRsp(r.Context(), w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "database connection failed",
		})
		return
	}
	defer db.DB(ctx).Close(ctx)

	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
