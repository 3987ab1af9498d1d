package fsmanager

import (
	"net/http"

	"github.com/vizstack/filtersetsrv/internal/common/apperrors"
)

var (
	// ErrFilterSetError is the root of all filter-set command errors.
	ErrFilterSetError apperrors.Error = apperrors.New("filter set error").SetStatusCode(http.StatusInternalServerError)

	// ErrDashboardNotFound signals that the path dashboard does not exist.
	ErrDashboardNotFound apperrors.Error = ErrFilterSetError.New("dashboard not found").SetStatusCode(http.StatusNotFound)
	// ErrFilterSetNotFound signals that the target filter set does not exist.
	ErrFilterSetNotFound apperrors.Error = ErrFilterSetError.New("filter set not found").SetStatusCode(http.StatusNotFound)

	// ErrForbidden signals that the caller may not act on the target. It also
	// masks filter sets that exist on a different dashboard, so ids cannot be
	// enumerated across dashboards.
	ErrForbidden apperrors.Error = ErrFilterSetError.New("changing this filter set is forbidden").SetStatusCode(http.StatusForbidden)
	// ErrUserIsNotDashboardOwner signals a dashboard-owned filter set operation
	// by a caller who neither owns the dashboard nor is admin.
	ErrUserIsNotDashboardOwner apperrors.Error = ErrForbidden.New("user is not a dashboard owner").SetStatusCode(http.StatusForbidden)

	// ErrNameExists signals a collision on the globally unique name.
	ErrNameExists apperrors.Error = ErrFilterSetError.New("filter set name already exists").SetStatusCode(http.StatusUnprocessableEntity)

	// ErrInvalidPayload is the root of payload-level rejections.
	ErrInvalidPayload apperrors.Error = ErrFilterSetError.New("invalid filter set payload").SetStatusCode(http.StatusBadRequest)
	// ErrOwnerNotExists signals an owner_id that references no existing user.
	ErrOwnerNotExists apperrors.Error = ErrInvalidPayload.New("owner_id does not exist").SetStatusCode(http.StatusBadRequest)
	// ErrDashboardIdInconsistency signals a dashboard-owned payload whose
	// owner_id differs from the path dashboard id.
	ErrDashboardIdInconsistency apperrors.Error = ErrInvalidPayload.New("owner_id does not match the dashboard").SetStatusCode(http.StatusBadRequest)

	// ErrCreateFailed, ErrUpdateFailed and ErrDeleteFailed wrap store failures
	// not classified above.
	ErrCreateFailed apperrors.Error = ErrFilterSetError.New("failed to create filter set")
	ErrUpdateFailed apperrors.Error = ErrFilterSetError.New("failed to update filter set")
	ErrDeleteFailed apperrors.Error = ErrFilterSetError.New("failed to delete filter set")
)
