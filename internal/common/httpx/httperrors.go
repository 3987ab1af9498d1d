package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/vizstack/filtersetsrv/internal/common/apperrors"
)

// Error is an HTTP error response. Fields carries per-field validation
// messages and is present in the body only when non-empty.
type Error struct {
	Description string              `json:"description"`
	StatusCode  int                 `json:"http_status_code"`
	Fields      map[string][]string `json:"fields,omitempty"`
}

type errorRsp struct {
	Result  int                 `json:"result"`
	Error   string              `json:"error"`
	Message map[string][]string `json:"message,omitempty"`
}

// Failure is the result code carried by every error response body.
const Failure int = 0

// Send writes the error response. A nil writer is a no-op.
func (e *Error) Send(w http.ResponseWriter) {
	if w == nil {
		return
	}
	rsp := &errorRsp{
		Result:  Failure,
		Error:   e.Description,
		Message: e.Fields,
	}
	rspJson, err := json.Marshal(rsp)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("unable to encode error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	w.Write(rspJson)
}

func (e *Error) Error() string {
	return e.Description
}

// SendError sends an application error as an HTTP error response. Errors
// without a status code are treated as internal failures.
func SendError(w http.ResponseWriter, err apperrors.Error) {
	if err == nil {
		return
	}
	statusCode := err.StatusCode()
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	httperror := &Error{
		StatusCode:  statusCode,
		Description: err.ErrorAll(),
	}
	httperror.Send(w)
}

// ErrReqMethodNotSupported returns an error for unsupported HTTP methods.
func ErrReqMethodNotSupported() *Error {
	return &Error{
		Description: "request method not supported",
		StatusCode:  http.StatusMethodNotAllowed,
	}
}

// ErrUnableToParseReqData returns an error when the request body cannot be parsed.
func ErrUnableToParseReqData() *Error {
	return &Error{
		Description: "unable to parse request data",
		StatusCode:  http.StatusBadRequest,
	}
}

// ErrUnsupportedContentType returns an error for non-JSON request bodies.
func ErrUnsupportedContentType() *Error {
	return &Error{
		Description: "request body must be application/json",
		StatusCode:  http.StatusBadRequest,
	}
}

// ErrApplicationError returns an error for application-level failures.
// If no message is provided, a default message is used.
func ErrApplicationError(msg ...string) *Error {
	s := "unable to process request"
	if len(msg) > 0 {
		s = msg[0]
	}
	return &Error{
		Description: s,
		StatusCode:  http.StatusInternalServerError,
	}
}

// ErrUnAuthorized returns an error for requests without a valid caller identity.
func ErrUnAuthorized(msg ...string) *Error {
	s := "unable to authenticate request"
	if len(msg) > 0 {
		s = msg[0]
	}
	return &Error{
		Description: s,
		StatusCode:  http.StatusUnauthorized,
	}
}

// ErrInvalidRequest returns an error for invalid request data.
func ErrInvalidRequest(msg ...string) *Error {
	s := "invalid request data or empty request values"
	if len(msg) > 0 {
		s = msg[0]
	}
	return &Error{
		Description: s,
		StatusCode:  http.StatusBadRequest,
	}
}

// ErrValidationFailed returns a 400 carrying per-field validation messages.
func ErrValidationFailed(fields map[string][]string) *Error {
	return &Error{
		Description: "request validation failed",
		StatusCode:  http.StatusBadRequest,
		Fields:      fields,
	}
}

// ErrRequestTimeout returns an error for requests that exceeded their deadline.
func ErrRequestTimeout() *Error {
	return &Error{
		Description: "request timed out",
		StatusCode:  http.StatusRequestTimeout,
	}
}
