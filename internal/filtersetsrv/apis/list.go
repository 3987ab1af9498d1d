package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vizstack/filtersetsrv/internal/common/httpx"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/fsmanager"
)

type listRsp struct {
	Count  int             `json:"count"`
	IDs    []int64         `json:"ids"`
	Result []*filterSetRep `json:"result"`
}

func listFilterSets(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	idOrSlug := chi.URLParam(r, "dashboardIDOrSlug")
	if idOrSlug == "" {
		return nil, httpx.ErrInvalidRequest("invalid dashboard id")
	}

	_, filterSets, appErr := fsmanager.ListFilterSets(ctx, idOrSlug)
	if appErr != nil {
		return nil, appErr
	}

	rsp := listRsp{
		Count:  len(filterSets),
		IDs:    []int64{},
		Result: []*filterSetRep{},
	}
	for _, fs := range filterSets {
		rsp.IDs = append(rsp.IDs, fs.ID)
		rsp.Result = append(rsp.Result, filterSetToRep(fs))
	}

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}
