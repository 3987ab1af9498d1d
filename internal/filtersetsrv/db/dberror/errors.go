// Package dberror defines the sentinel errors surfaced by the store layer.
package dberror

import (
	"net/http"

	"github.com/vizstack/filtersetsrv/internal/common/apperrors"
)

var (
	// ErrDatabase is the root of all store errors.
	ErrDatabase apperrors.Error = apperrors.New("db error").SetStatusCode(http.StatusInternalServerError)
	// ErrAlreadyExists signals a unique-constraint collision; surfaced to
	// clients as 422.
	ErrAlreadyExists apperrors.Error = ErrDatabase.New("already exists").SetStatusCode(http.StatusUnprocessableEntity)
	// ErrNotFound signals a missing row.
	ErrNotFound apperrors.Error = ErrDatabase.New("not found").SetStatusCode(http.StatusNotFound)
	// ErrInvalidInput signals malformed input rejected by the store.
	ErrInvalidInput apperrors.Error = ErrDatabase.New("invalid input").SetStatusCode(http.StatusBadRequest)
	// ErrForeignKey signals a referential-integrity violation.
	ErrForeignKey apperrors.Error = ErrDatabase.New("referenced row does not exist").SetStatusCode(http.StatusBadRequest)
	// ErrPrimaryConflict signals a violation of the one-primary-per-user-and-
	// dashboard index under concurrent writes.
	ErrPrimaryConflict apperrors.Error = ErrDatabase.New("primary filter set conflict").SetStatusCode(http.StatusConflict)
)
