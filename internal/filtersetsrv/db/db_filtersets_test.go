package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jackc/pgtype"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizstack/filtersetsrv/internal/common/uuid"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/config"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/dberror"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/models"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/fscommon"
)

func newDb(c ...context.Context) context.Context {
	config.TestInit()
	Init()
	var ctx context.Context
	var err error
	if len(c) > 0 {
		ctx, err = ConnCtx(c[0])
	} else {
		ctx, err = ConnCtx(context.Background())
	}
	if err != nil {
		log.Ctx(ctx).Fatal().Err(err).Msg("unable to get db connection")
	}
	if err := DB(ctx).EnsureSchema(ctx); err != nil {
		log.Ctx(ctx).Fatal().Err(err).Msg("unable to ensure schema")
	}
	return ctx
}

func testSuffix() string {
	return uuid.New().String()[28:]
}

func newTestUser(t *testing.T, ctx context.Context, isAdmin bool) *models.User {
	t.Helper()
	u := &models.User{Username: "user_" + testSuffix(), IsAdmin: isAdmin}
	require.NoError(t, DB(ctx).CreateUser(ctx, u))
	t.Cleanup(func() { DB(ctx).DeleteUser(ctx, u.ID) })
	return u
}

func newTestDashboard(t *testing.T, ctx context.Context, owners ...int64) *models.Dashboard {
	t.Helper()
	suffix := testSuffix()
	d := &models.Dashboard{
		Title: "dashboard_" + suffix,
		Slug:  sql.NullString{String: "slug-" + suffix, Valid: true},
	}
	require.NoError(t, DB(ctx).CreateDashboard(ctx, d))
	t.Cleanup(func() { DB(ctx).DeleteDashboard(ctx, d.ID) })
	for _, ownerID := range owners {
		require.NoError(t, DB(ctx).AddDashboardOwner(ctx, d.ID, ownerID))
	}
	return d
}

func metadata(t *testing.T, s string) pgtype.JSONB {
	t.Helper()
	var m pgtype.JSONB
	require.NoError(t, m.Set(s))
	return m
}

func TestCreateFilterSet(t *testing.T) {
	ctx := newDb()
	defer DB(ctx).Close(ctx)

	user := newTestUser(t, ctx, false)
	dashboard := newTestDashboard(t, ctx)

	fs := &models.FilterSet{
		Name:         "fs_" + testSuffix(),
		JSONMetadata: metadata(t, `{"nativeFilters": {}}`),
		DashboardID:  dashboard.ID,
		OwnerType:    fscommon.OwnerTypeUser,
		OwnerID:      user.ID,
		UserID:       user.ID,
		CreatedBy:    sql.NullInt64{Int64: user.ID, Valid: true},
		ChangedBy:    sql.NullInt64{Int64: user.ID, Valid: true},
	}
	err := DB(ctx).CreateFilterSet(ctx, fs)
	require.NoError(t, err)
	assert.NotZero(t, fs.ID)
	assert.False(t, fs.CreatedOn.IsZero())

	// Same name again (should return ErrAlreadyExists)
	dup := &models.FilterSet{
		Name:         fs.Name,
		JSONMetadata: metadata(t, `{"nativeFilters": {}}`),
		DashboardID:  dashboard.ID,
		OwnerType:    fscommon.OwnerTypeUser,
		OwnerID:      user.ID,
		UserID:       user.ID,
	}
	err = DB(ctx).CreateFilterSet(ctx, dup)
	assert.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrAlreadyExists)

	// Non-existent dashboard (should return ErrForeignKey)
	orphan := &models.FilterSet{
		Name:         "fs_" + testSuffix(),
		JSONMetadata: metadata(t, `{"nativeFilters": {}}`),
		DashboardID:  dashboard.ID + 1000000,
		OwnerType:    fscommon.OwnerTypeUser,
		OwnerID:      user.ID,
		UserID:       user.ID,
	}
	err = DB(ctx).CreateFilterSet(ctx, orphan)
	assert.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrForeignKey)
}

func TestGetFilterSet(t *testing.T) {
	ctx := newDb()
	defer DB(ctx).Close(ctx)

	user := newTestUser(t, ctx, false)
	dashboard := newTestDashboard(t, ctx)

	fs := &models.FilterSet{
		Name:         "fs_" + testSuffix(),
		Description:  sql.NullString{String: "a filter set", Valid: true},
		JSONMetadata: metadata(t, `{"nativeFilters": {"f1": {"id": "f1"}}}`),
		DashboardID:  dashboard.ID,
		OwnerType:    fscommon.OwnerTypeUser,
		OwnerID:      user.ID,
		UserID:       user.ID,
	}
	require.NoError(t, DB(ctx).CreateFilterSet(ctx, fs))

	got, err := DB(ctx).GetFilterSet(ctx, fs.ID)
	require.NoError(t, err)
	assert.Equal(t, fs.Name, got.Name)
	assert.Equal(t, "a filter set", got.Description.String)
	assert.Equal(t, dashboard.ID, got.DashboardID)
	assert.JSONEq(t, `{"nativeFilters": {"f1": {"id": "f1"}}}`, string(got.JSONMetadata.Bytes))

	byName, err := DB(ctx).GetFilterSetByName(ctx, fs.Name)
	require.NoError(t, err)
	assert.Equal(t, fs.ID, byName.ID)

	// Non-existent id (should return ErrNotFound)
	got, err = DB(ctx).GetFilterSet(ctx, fs.ID+1000000)
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
}

func TestPrimaryDemotion(t *testing.T) {
	ctx := newDb()
	defer DB(ctx).Close(ctx)

	user := newTestUser(t, ctx, false)
	dashboard := newTestDashboard(t, ctx)

	a := &models.FilterSet{
		Name:         "fs_a_" + testSuffix(),
		JSONMetadata: metadata(t, `{"nativeFilters": {}}`),
		DashboardID:  dashboard.ID,
		OwnerType:    fscommon.OwnerTypeUser,
		OwnerID:      user.ID,
		UserID:       user.ID,
		IsPrimary:    true,
	}
	require.NoError(t, DB(ctx).CreateFilterSet(ctx, a))

	primary, err := DB(ctx).GetUserPrimary(ctx, user.ID, dashboard.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, primary.ID)

	// A second primary for the same (user, dashboard) demotes the first.
	b := &models.FilterSet{
		Name:         "fs_b_" + testSuffix(),
		JSONMetadata: metadata(t, `{"nativeFilters": {}}`),
		DashboardID:  dashboard.ID,
		OwnerType:    fscommon.OwnerTypeUser,
		OwnerID:      user.ID,
		UserID:       user.ID,
		IsPrimary:    true,
	}
	require.NoError(t, DB(ctx).CreateFilterSet(ctx, b))

	gotA, err := DB(ctx).GetFilterSet(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, gotA.IsPrimary)

	primary, err = DB(ctx).GetUserPrimary(ctx, user.ID, dashboard.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, primary.ID)

	// Promoting via update demotes the current primary.
	isPrimary := true
	updated, err := DB(ctx).UpdateFilterSet(ctx, a.ID, &models.FilterSetChanges{
		IsPrimary: &isPrimary,
		ChangedBy: user.ID,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsPrimary)

	gotB, err := DB(ctx).GetFilterSet(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, gotB.IsPrimary)
}

func TestUpdateFilterSet(t *testing.T) {
	ctx := newDb()
	defer DB(ctx).Close(ctx)

	user := newTestUser(t, ctx, false)
	dashboard := newTestDashboard(t, ctx)

	fs := &models.FilterSet{
		Name:         "fs_" + testSuffix(),
		JSONMetadata: metadata(t, `{"nativeFilters": {}}`),
		DashboardID:  dashboard.ID,
		OwnerType:    fscommon.OwnerTypeUser,
		OwnerID:      user.ID,
		UserID:       user.ID,
	}
	require.NoError(t, DB(ctx).CreateFilterSet(ctx, fs))

	newName := "fs_renamed_" + testSuffix()
	newDesc := "updated description"
	ownerType := fscommon.OwnerTypeDashboard
	updated, err := DB(ctx).UpdateFilterSet(ctx, fs.ID, &models.FilterSetChanges{
		Name:        &newName,
		Description: &newDesc,
		OwnerType:   &ownerType,
		OwnerID:     &dashboard.ID,
		ChangedBy:   user.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, newDesc, updated.Description.String)
	assert.Equal(t, fscommon.OwnerTypeDashboard, updated.OwnerType)
	assert.Equal(t, dashboard.ID, updated.OwnerID)

	// Name collision on update (should return ErrAlreadyExists)
	other := &models.FilterSet{
		Name:         "fs_other_" + testSuffix(),
		JSONMetadata: metadata(t, `{"nativeFilters": {}}`),
		DashboardID:  dashboard.ID,
		OwnerType:    fscommon.OwnerTypeUser,
		OwnerID:      user.ID,
		UserID:       user.ID,
	}
	require.NoError(t, DB(ctx).CreateFilterSet(ctx, other))
	_, err = DB(ctx).UpdateFilterSet(ctx, other.ID, &models.FilterSetChanges{
		Name:      &newName,
		ChangedBy: user.ID,
	})
	assert.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrAlreadyExists)

	// Non-existent id (should return ErrNotFound)
	_, err = DB(ctx).UpdateFilterSet(ctx, fs.ID+1000000, &models.FilterSetChanges{
		Name:      &newDesc,
		ChangedBy: user.ID,
	})
	assert.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
}

func TestDeleteFilterSet(t *testing.T) {
	ctx := newDb()
	defer DB(ctx).Close(ctx)

	user := newTestUser(t, ctx, false)
	dashboard := newTestDashboard(t, ctx)

	fs := &models.FilterSet{
		Name:         "fs_" + testSuffix(),
		JSONMetadata: metadata(t, `{"nativeFilters": {}}`),
		DashboardID:  dashboard.ID,
		OwnerType:    fscommon.OwnerTypeUser,
		OwnerID:      user.ID,
		UserID:       user.ID,
	}
	require.NoError(t, DB(ctx).CreateFilterSet(ctx, fs))

	require.NoError(t, DB(ctx).DeleteFilterSet(ctx, fs.ID))

	// Deleting again should succeed without errors.
	require.NoError(t, DB(ctx).DeleteFilterSet(ctx, fs.ID))

	got, err := DB(ctx).GetFilterSet(ctx, fs.ID)
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
}

func TestListFilterSetsVisibility(t *testing.T) {
	ctx := newDb()
	defer DB(ctx).Close(ctx)

	owner := newTestUser(t, ctx, false)
	other := newTestUser(t, ctx, false)
	dashOwner := newTestUser(t, ctx, false)
	dashboard := newTestDashboard(t, ctx, dashOwner.ID)

	userOwned := &models.FilterSet{
		Name:         "fs_user_" + testSuffix(),
		JSONMetadata: metadata(t, `{"nativeFilters": {}}`),
		DashboardID:  dashboard.ID,
		OwnerType:    fscommon.OwnerTypeUser,
		OwnerID:      owner.ID,
		UserID:       owner.ID,
	}
	require.NoError(t, DB(ctx).CreateFilterSet(ctx, userOwned))

	dashOwned := &models.FilterSet{
		Name:         "fs_dash_" + testSuffix(),
		JSONMetadata: metadata(t, `{"nativeFilters": {}}`),
		DashboardID:  dashboard.ID,
		OwnerType:    fscommon.OwnerTypeDashboard,
		OwnerID:      dashboard.ID,
		UserID:       dashOwner.ID,
	}
	require.NoError(t, DB(ctx).CreateFilterSet(ctx, dashOwned))

	// Admin scope sees both, ordered by id.
	all, err := DB(ctx).ListFilterSetsByDashboard(ctx, dashboard.ID, models.VisibilityScope{All: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, userOwned.ID, all[0].ID)
	assert.Equal(t, dashOwned.ID, all[1].ID)

	// The user owner sees only their own filter set.
	visible, err := DB(ctx).ListFilterSetsByDashboard(ctx, dashboard.ID, models.VisibilityScope{UserID: owner.ID})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, userOwned.ID, visible[0].ID)

	// The dashboard owner sees only the dashboard-owned filter set.
	visible, err = DB(ctx).ListFilterSetsByDashboard(ctx, dashboard.ID, models.VisibilityScope{UserID: dashOwner.ID})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, dashOwned.ID, visible[0].ID)

	// Unrelated users see nothing.
	visible, err = DB(ctx).ListFilterSetsByDashboard(ctx, dashboard.ID, models.VisibilityScope{UserID: other.ID})
	require.NoError(t, err)
	assert.Len(t, visible, 0)
}

func TestGetDashboard(t *testing.T) {
	ctx := newDb()
	defer DB(ctx).Close(ctx)

	owner := newTestUser(t, ctx, false)
	dashboard := newTestDashboard(t, ctx, owner.ID)

	got, err := DB(ctx).GetDashboardByID(ctx, dashboard.ID)
	require.NoError(t, err)
	assert.Equal(t, dashboard.Title, got.Title)
	assert.Equal(t, []int64{owner.ID}, got.OwnerIDs)
	assert.True(t, got.IsOwner(owner.ID))
	assert.False(t, got.IsOwner(owner.ID+1))

	bySlug, err := DB(ctx).GetDashboardBySlug(ctx, dashboard.Slug.String)
	require.NoError(t, err)
	assert.Equal(t, dashboard.ID, bySlug.ID)

	_, err = DB(ctx).GetDashboardByID(ctx, dashboard.ID+1000000)
	assert.Error(t, err)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
}
