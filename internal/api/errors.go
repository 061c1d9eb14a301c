// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	xglog "github.com/ManuGH/tlgrab/internal/log"
)

// httpError carries a status for handler failures.
type httpError struct {
	Status int    `json:"-"`
	Code   string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (e *httpError) Error() string { return e.Code + ": " + e.Detail }

func newHTTPError(status int, code, detail string) *httpError {
	return &httpError{Status: status, Code: code, Detail: detail}
}

// writeError renders err as JSON. Errors without a status become 500 and
// their text is logged, not returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var he *httpError
	if !errors.As(err, &he) {
		logger := xglog.WithComponentFromContext(r.Context(), "api")
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "http.internal_error").
			Str(xglog.FieldPath, r.URL.Path).
			Msg("request failed")
		he = newHTTPError(http.StatusInternalServerError, "internal_error", "")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.Status)
	_ = json.NewEncoder(w).Encode(he)
}
