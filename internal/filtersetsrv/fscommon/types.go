// Package fscommon provides shared types and request-context plumbing for
// the filter-set service.
package fscommon

// ServerVersion is the version of the filter-set server.
const ServerVersion = "0.2.0"

// ApiVersion is the version of the HTTP API surface.
const ApiVersion = "v1"

// OwnerType discriminates who owns a filter set: an individual user or the
// dashboard itself. The owner_id field is interpreted according to this tag.
type OwnerType string

const (
	// OwnerTypeUser marks a filter set owned by a single user; owner_id is a
	// user id.
	OwnerTypeUser OwnerType = "User"
	// OwnerTypeDashboard marks a filter set shared through its dashboard;
	// owner_id always equals dashboard_id.
	OwnerTypeDashboard OwnerType = "Dashboard"
)

// IsValid reports whether t is one of the known owner types.
func (t OwnerType) IsValid() bool {
	return t == OwnerTypeUser || t == OwnerTypeDashboard
}

func (t OwnerType) String() string {
	return string(t)
}

// UserContext identifies the authenticated caller of a request.
type UserContext struct {
	// UserID is the caller's numeric user id.
	UserID int64
	// Username is the caller's login name.
	Username string
	// IsAdmin reports whether the caller holds the administrative role and
	// bypasses ownership checks.
	IsAdmin bool
}
