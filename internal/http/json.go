package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// maxRequestBody caps JSON request bodies. The API only ever receives
// small credential payloads.
const maxRequestBody = 1 << 20

// DecodeJSON reads the request body into dst, rejecting unknown fields
// and oversized payloads. On failure it writes the error response itself
// and reports false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}
	return true
}

// WriteJSON encodes v into a buffer first, so an encoding failure can
// still become a clean 500 instead of a half-written body.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// A short write here means the client went away; nothing to do.
	_, _ = buf.WriteTo(w)
}

// ErrorParams groups parameters for WriteError. ErrCode is the stable
// machine-readable code clients switch on; Err supplies the human text.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes the API's uniform JSON error shape.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, errorResponse{Error: p.ErrCode, Message: p.Err.Error()})
}
