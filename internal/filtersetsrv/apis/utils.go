package apis

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vizstack/filtersetsrv/internal/common/httpx"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/config"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/models"
)

// filterSetRep is the wire representation of a filter set. params is the
// parsed projection of json_metadata.
type filterSetRep struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	JSONMetadata string          `json:"json_metadata"`
	Params       json.RawMessage `json:"params"`
	DashboardID  int64           `json:"dashboard_id"`
	OwnerType    string          `json:"owner_type"`
	OwnerID      int64           `json:"owner_id"`
	IsPrimary    bool            `json:"is_primary"`
	CreatedOn    time.Time       `json:"created_on"`
	ChangedOn    time.Time       `json:"changed_on"`
	CreatedBy    *int64          `json:"created_by"`
	ChangedBy    *int64          `json:"changed_by"`
}

func filterSetToRep(fs *models.FilterSet) *filterSetRep {
	rep := &filterSetRep{
		ID:           fs.ID,
		Name:         fs.Name,
		JSONMetadata: string(fs.JSONMetadata.Bytes),
		Params:       json.RawMessage(fs.JSONMetadata.Bytes),
		DashboardID:  fs.DashboardID,
		OwnerType:    fs.OwnerType.String(),
		OwnerID:      fs.OwnerID,
		IsPrimary:    fs.IsPrimary,
		CreatedOn:    fs.CreatedOn,
		ChangedOn:    fs.ChangedOn,
	}
	if fs.Description.Valid {
		rep.Description = &fs.Description.String
	}
	if fs.CreatedBy.Valid {
		rep.CreatedBy = &fs.CreatedBy.Int64
	}
	if fs.ChangedBy.Valid {
		rep.ChangedBy = &fs.ChangedBy.Int64
	}
	return rep
}

// readJSONBody returns the raw JSON body of a POST/PUT request, enforcing the
// content type and the configured size limit.
func readJSONBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, httpx.ErrUnableToParseReqData()
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			return nil, httpx.ErrUnsupportedContentType()
		}
	}
	maxSize := config.Config().MaxRequestBodySize
	if maxSize <= 0 {
		maxSize = 1 << 20
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSize))
	if err != nil {
		return nil, httpx.ErrUnableToParseReqData()
	}
	return body, nil
}

// dashboardIDParam returns the numeric dashboard id of the request path.
// Mutating endpoints address dashboards by id only; slugs are for listing.
func dashboardIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "dashboardIDOrSlug"), 10, 64)
	if err != nil {
		return 0, httpx.ErrInvalidRequest("invalid dashboard id")
	}
	return id, nil
}

func filterSetIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "filterSetID"), 10, 64)
	if err != nil {
		return 0, httpx.ErrInvalidRequest("invalid filter set id")
	}
	return id, nil
}
