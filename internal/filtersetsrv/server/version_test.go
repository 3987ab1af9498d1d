package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/fscommon"
)

func TestGetVersion(t *testing.T) {
	ctx := newDb()
	defer db.DB(ctx).Close(ctx)

	req, _ := http.NewRequest("GET", "/version", nil)
	response := executeTestRequest(t, req, "")

	require.Equal(t, http.StatusOK, response.Code)
	checkHeader(t, response.Result().Header)

	compareJson(t,
		&GetVersionRsp{
			ServerVersion: "Filter Set Server: " + fscommon.ServerVersion,
			ApiVersion:    fscommon.ApiVersion,
		}, response.Body.String())
}

func TestGetReadiness(t *testing.T) {
	ctx := newDb()
	defer db.DB(ctx).Close(ctx)

	req, _ := http.NewRequest("GET", "/ready", nil)
	response := executeTestRequest(t, req, "")

	require.Equal(t, http.StatusOK, response.Code)
	checkHeader(t, response.Result().Header)

	compareJson(t, map[string]string{
		"status": "ready",
	}, response.Body.String())
}
