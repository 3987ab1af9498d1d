package fsmanager

import (
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/db/models"
	"github.com/vizstack/filtersetsrv/internal/filtersetsrv/fscommon"
)

// ScopeForCaller compiles the caller into a visibility scope the store can
// translate into a SQL predicate. Admins see everything; anyone else sees
// filter sets they own directly or through dashboard ownership.
func ScopeForCaller(user *fscommon.UserContext) models.VisibilityScope {
	if user.IsAdmin {
		return models.VisibilityScope{All: true}
	}
	return models.VisibilityScope{UserID: user.UserID}
}

// IsVisible is the in-process form of the visibility predicate. The store
// applies the same rule in SQL; this form exists for authorization checks and
// tests.
func IsVisible(user *fscommon.UserContext, fs *models.FilterSet, dashboard *models.Dashboard) bool {
	if user.IsAdmin {
		return true
	}
	switch fs.OwnerType {
	case fscommon.OwnerTypeUser:
		return fs.OwnerID == user.UserID
	case fscommon.OwnerTypeDashboard:
		return dashboard != nil && dashboard.IsOwner(user.UserID)
	}
	return false
}

// CanManage reports whether the caller may update or delete the filter set.
// Admins always may; user-owned filter sets are managed by their owner;
// dashboard-owned filter sets by the dashboard's owners.
func CanManage(user *fscommon.UserContext, fs *models.FilterSet, dashboard *models.Dashboard) bool {
	return IsVisible(user, fs, dashboard)
}
