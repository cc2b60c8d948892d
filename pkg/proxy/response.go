package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"wgportal/gateway/pkg/proxy/types"
	"wgportal/gateway/pkg/routers"
)

// WriteJSONResponse writes data as JSON with the given status code.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteErrorResponse writes {success:false, error, code, field?} for err.
// Secrets are scrubbed from the message.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, err error, secrets ...string) error {
	return WriteJSONResponse(w, statusCode, NewErrorResponse(err, secrets...))
}

// NewErrorResponse converts err into an ErrorResponse.
func NewErrorResponse(err error, secrets ...string) *types.ErrorResponse {
	resp := &types.ErrorResponse{
		Success: false,
		Error:   SanitizeError(err, secrets...),
		Code:    ErrorCode(err),
	}

	var reqErr *InvalidRequestError
	var connErr *routers.InvalidConnectionError
	switch {
	case errors.As(err, &reqErr):
		resp.Field = reqErr.Field
	case errors.As(err, &connErr):
		resp.Field = connErr.Field
	}

	return resp
}

// StatusForError returns the HTTP status used when err prevents an
// envelope from being produced at all.
func StatusForError(err error) int {
	switch ErrorCode(err) {
	case types.CodeInvalidRequest, types.CodeUnsupportedMethod, types.CodeInvalidConnection, types.CodeUnsupportedVendor:
		return http.StatusBadRequest
	case types.CodeStoreError, types.CodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
