package apis

import (
	"net/http"

	"github.com/vizstack/filtersetsrv/internal/common/httpx"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/fsmanager"
)

func updateFilterSet(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	dashboardID, err := dashboardIDParam(r)
	if err != nil {
		return nil, err
	}
	filterSetID, err := filterSetIDParam(r)
	if err != nil {
		return nil, err
	}
	body, err := readJSONBody(r)
	if err != nil {
		return nil, err
	}

	payload, fieldErrs := fsmanager.ParseUpdatePayload(body)
	if fieldErrs != nil {
		return nil, httpx.ErrValidationFailed(fieldErrs)
	}

	fs, appErr := fsmanager.UpdateFilterSet(ctx, dashboardID, filterSetID, payload)
	if appErr != nil {
		return nil, appErr
	}

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   filterSetToRep(fs),
	}, nil
}
