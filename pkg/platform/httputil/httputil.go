// Package httputil centralizes JSON response and error writing so every
// handler maps domain errors to HTTP the same way.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "vouch/pkg/domain-errors"
)

// errorResponse is the wire shape for all error bodies.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError maps a coded error to its HTTP status and writes the JSON body.
// Internal and invariant-violation details never reach the response; callers
// log them separately.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)

	resp := errorResponse{Error: string(code)}
	switch code {
	case dErrors.CodeInternal, dErrors.CodeInvariantViolation:
		resp.Error = string(dErrors.CodeInternal)
	default:
		resp.ErrorDescription = dErrors.MessageOf(err)
	}

	WriteJSON(w, statusFor(code), resp)
}

// WriteJSON writes any value as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON decodes a request body, rejecting unknown fields. Returns a
// coded error suitable for WriteError.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
