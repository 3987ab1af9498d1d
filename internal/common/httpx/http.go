// Package httpx provides HTTP request and response plumbing shared by all
// transport handlers: JSON request decoding, a uniform response envelope, and
// the mapping from application errors to HTTP error responses.
package httpx

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vizstack/filtersetsrv/internal/common/apperrors"
)

// GetRequestData decodes the JSON request body into data. Only POST and PUT
// requests carry bodies. Non-JSON content types and unparseable bodies are
// rejected.
func GetRequestData(r *http.Request, data any) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return ErrReqMethodNotSupported()
	}
	if r.Body == nil {
		log.Ctx(r.Context()).Error().Msg("empty request body")
		return ErrUnableToParseReqData()
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			return ErrUnsupportedContentType()
		}
	}
	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		return ErrUnableToParseReqData()
	}
	return nil
}

// Response is the result of a request handler: a status code, an optional
// Location for 201 responses, and a body that is marshaled as JSON.
type Response struct {
	StatusCode int
	Location   string
	Response   any
}

// RequestHandler is the function signature for all API handlers. Errors
// returned from handlers are translated to HTTP error responses by WrapHandler.
type RequestHandler func(r *http.Request) (*Response, error)

// WrapHandler adapts a RequestHandler to http.HandlerFunc, centralizing the
// error-to-status mapping. apperrors carry their own status codes; anything
// else becomes a 500 without leaking internals.
func WrapHandler(handler RequestHandler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			switch e := err.(type) {
			case *Error:
				e.Send(w)
			case apperrors.Error:
				SendError(w, e)
			default:
				log.Ctx(r.Context()).Error().Err(err).Msg("unclassified handler error")
				ErrApplicationError().Send(w)
			}
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		SendJsonRsp(r.Context(), w, rsp.StatusCode, rsp.Response, rsp.Location)
	})
}
