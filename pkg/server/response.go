package server

import (
	"encoding/json"
	"net/http"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeError maps a coded error onto an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorBody{Code: string(code), Message: errs.UserMessage(err)})
}

func statusFor(code errs.Code) int {
	err := errs.New(code, "")
	switch {
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.IsInvalid(err), code == errs.ErrCodeUnsupported:
		return http.StatusBadRequest
	}
	switch code {
	case errs.ErrCodeForbidden:
		return http.StatusForbidden
	case errs.ErrCodeLimitExceeded:
		return http.StatusTooManyRequests
	case errs.ErrCodeNetwork:
		return http.StatusBadGateway
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
