package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizstack/filtersetsrv/internal/common/uuid"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/auth"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/config"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/models"
)

func newDb() context.Context {
	config.TestInit()
	db.Init()
	ctx, err := db.ConnCtx(context.Background())
	if err != nil {
		panic(err)
	}
	if err := db.DB(ctx).EnsureSchema(ctx); err != nil {
		panic(err)
	}
	return ctx
}

// testEnv seeds an admin, a dashboard owner, a regular user, and a dashboard
// owned by the dashboard owner; tokens are issued per user.
type testEnv struct {
	ctx        context.Context
	admin      *models.User
	dashOwner  *models.User
	regular    *models.User
	dashboard  *models.Dashboard
	adminToken string
	ownerToken string
	userToken  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := newDb()
	t.Cleanup(func() { db.DB(ctx).Close(ctx) })

	suffix := uuid.New().String()[28:]
	env := &testEnv{ctx: ctx}

	env.admin = &models.User{Username: "admin_" + suffix, IsAdmin: true}
	require.NoError(t, db.DB(ctx).CreateUser(ctx, env.admin))
	env.dashOwner = &models.User{Username: "dash_owner_" + suffix}
	require.NoError(t, db.DB(ctx).CreateUser(ctx, env.dashOwner))
	env.regular = &models.User{Username: "fs_owner_" + suffix}
	require.NoError(t, db.DB(ctx).CreateUser(ctx, env.regular))

	env.dashboard = &models.Dashboard{
		Title: "test_dashboard_" + suffix,
		Slug:  sql.NullString{String: "test-dashboard-" + suffix, Valid: true},
	}
	require.NoError(t, db.DB(ctx).CreateDashboard(ctx, env.dashboard))
	require.NoError(t, db.DB(ctx).AddDashboardOwner(ctx, env.dashboard.ID, env.dashOwner.ID))

	t.Cleanup(func() {
		db.DB(ctx).DeleteDashboard(ctx, env.dashboard.ID)
		db.DB(ctx).DeleteUser(ctx, env.regular.ID)
		db.DB(ctx).DeleteUser(ctx, env.dashOwner.ID)
		db.DB(ctx).DeleteUser(ctx, env.admin.ID)
	})

	var err error
	env.adminToken, err = auth.CreateToken(env.admin.ID, 0)
	require.NoError(t, err)
	env.ownerToken, err = auth.CreateToken(env.dashOwner.ID, 0)
	require.NoError(t, err)
	env.userToken, err = auth.CreateToken(env.regular.ID, 0)
	require.NoError(t, err)

	return env
}

func (e *testEnv) newDashboard(t *testing.T, owners ...int64) *models.Dashboard {
	t.Helper()
	suffix := uuid.New().String()[28:]
	d := &models.Dashboard{
		Title: "dashboard_" + suffix,
		Slug:  sql.NullString{String: "dashboard-" + suffix, Valid: true},
	}
	require.NoError(t, db.DB(e.ctx).CreateDashboard(e.ctx, d))
	t.Cleanup(func() { db.DB(e.ctx).DeleteDashboard(e.ctx, d.ID) })
	for _, ownerID := range owners {
		require.NoError(t, db.DB(e.ctx).AddDashboardOwner(e.ctx, d.ID, ownerID))
	}
	return d
}

func executeTestRequest(t *testing.T, req *http.Request, token string) *httptest.ResponseRecorder {
	s, err := CreateNewServer()
	assert.NoError(t, err, "create new server")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	s.MountHandlers()

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func checkHeader(t *testing.T, h http.Header) {
	expected := "application/json"
	got := h.Get("Content-Type")
	assert.Equal(t, expected, got, "Content-Type expected %s, got %s", expected, got)
	assert.NotNil(t, h.Get("X-Request-ID"), "No Request Id")
}

func compareJson(t *testing.T, expected any, actual string) {
	var j []byte
	var err error

	switch v := expected.(type) {
	case string:
		if json.Valid([]byte(v)) {
			j = []byte(v)
		} else {
			j, err = json.Marshal(v)
			assert.NoError(t, err, "json marshal")
		}
	case []byte:
		if json.Valid(v) {
			j = v
		} else {
			j, err = json.Marshal(string(v))
			assert.NoError(t, err, "json marshal")
		}
	default:
		j, err = json.Marshal(expected)
		assert.NoError(t, err, "json marshal")
	}

	assert.JSONEq(t, string(j), actual, "Expected: %v\nGot: %v\n", expected, actual)
}

func setRequestBodyAndHeader(t *testing.T, req *http.Request, data interface{}) {
	var jsonData []byte
	if s, ok := data.(string); ok {
		if json.Valid([]byte(s)) {
			jsonData = []byte(s)
		}
	} else if b, ok := data.([]byte); ok {
		if json.Valid(b) {
			jsonData = b
		}
	} else {
		var err error
		jsonData, err = json.Marshal(data)
		assert.NoError(t, err, "Failed to marshal data into JSON")
	}

	req.Body = io.NopCloser(bytes.NewReader(jsonData))
	req.ContentLength = int64(len(jsonData))

	req.Header.Set("Content-Type", "application/json")
}
