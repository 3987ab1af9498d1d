// Package apis maps the HTTP surface onto the filter-set commands. Handlers
// decode and validate the request, invoke the command layer, and shape the
// JSON responses; all error-to-status mapping lives in httpx.
package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vizstack/filtersetsrv/internal/common/httpx"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/auth"
)

type responseHandlerParam struct {
	Method  string
	Path    string
	Handler httpx.RequestHandler
}

// filterSetHandlers defines the filter-set API routes. All of them require an
// authenticated caller.
var filterSetHandlers = []responseHandlerParam{
	{
		Method:  http.MethodGet,
		Path:    "/dashboard/{dashboardIDOrSlug}/filtersets",
		Handler: listFilterSets,
	},
	{
		Method:  http.MethodPost,
		Path:    "/dashboard/{dashboardIDOrSlug}/filtersets",
		Handler: createFilterSet,
	},
	{
		Method:  http.MethodPut,
		Path:    "/dashboard/{dashboardIDOrSlug}/filtersets/{filterSetID}",
		Handler: updateFilterSet,
	},
	{
		Method:  http.MethodDelete,
		Path:    "/dashboard/{dashboardIDOrSlug}/filtersets/{filterSetID}",
		Handler: deleteFilterSet,
	},
}

// Router registers the filter-set endpoints on r.
func Router(r chi.Router) chi.Router {
	r.Group(func(r chi.Router) {
		r.Use(auth.UserAuthMiddleware)
		for _, handler := range filterSetHandlers {
			r.Method(handler.Method, handler.Path, httpx.WrapHandler(handler.Handler))
		}
	})
	return r
}
