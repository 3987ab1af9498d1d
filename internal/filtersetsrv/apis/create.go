package apis

import (
	"fmt"
	"net/http"

	"github.com/vizstack/filtersetsrv/internal/common/httpx"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/fscommon"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/fsmanager"
)

func createFilterSet(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	dashboardID, err := dashboardIDParam(r)
	if err != nil {
		return nil, err
	}
	body, err := readJSONBody(r)
	if err != nil {
		return nil, err
	}

	payload, fieldErrs := fsmanager.ParseCreatePayload(body)
	if fieldErrs != nil {
		return nil, httpx.ErrValidationFailed(fieldErrs)
	}

	fs, appErr := fsmanager.CreateFilterSet(ctx, dashboardID, payload)
	if appErr != nil {
		return nil, appErr
	}

	location := fmt.Sprintf("/api/%s/dashboard/%d/filtersets/%d", fscommon.ApiVersion, dashboardID, fs.ID)
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   location,
		Response:   filterSetToRep(fs),
	}, nil
}
