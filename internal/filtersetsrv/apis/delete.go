package apis

import (
	"net/http"

	"github.com/vizstack/filtersetsrv/internal/common/httpx"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/fsmanager"
)

type deleteRsp struct {
	ID int64 `json:"id"`
}

func deleteFilterSet(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	dashboardID, err := dashboardIDParam(r)
	if err != nil {
		return nil, err
	}
	filterSetID, err := filterSetIDParam(r)
	if err != nil {
		return nil, err
	}

	if appErr := fsmanager.DeleteFilterSet(ctx, dashboardID, filterSetID); appErr != nil {
		return nil, appErr
	}

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   deleteRsp{ID: dashboardID},
	}, nil
}
