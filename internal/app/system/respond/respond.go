// Package respond writes JSON responses and maps application errors to
// transport statuses. Handlers log the raw error themselves; only the
// user-safe message leaves the process.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/workhubhq/workhub/internal/app/system/apperr"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// Error maps err through the apperr taxonomy and writes the envelope.
func Error(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	JSON(w, apperr.HTTPStatus(kind), errorBody{Error: apperr.SafeMessage(err)})
}

// ErrorKind writes an explicit kind and message without a wrapped cause.
func ErrorKind(w http.ResponseWriter, kind apperr.Kind, message string) {
	JSON(w, apperr.HTTPStatus(kind), errorBody{Error: message})
}

// Unauthorized is the common 401 envelope.
func Unauthorized(w http.ResponseWriter) {
	ErrorKind(w, apperr.NotAuthenticated, "Authentication required.")
}

// Forbidden is the common 403 envelope.
func Forbidden(w http.ResponseWriter) {
	ErrorKind(w, apperr.Forbidden, "You don't have permission to do that.")
}
