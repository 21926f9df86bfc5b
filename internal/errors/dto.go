package errors

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Display       string         `json:"message"`
	InternalError string         `json:"internal_error,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// NewErrorResponse converts an error into the standard API error payload,
// surfacing hints and reportable details attached through the builder.
func NewErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Display:       errors.FlattenHints(err),
			InternalError: err.Error(),
		},
	}

	for _, d := range errors.GetSafeDetails(err).SafeDetails {
		if payload, ok := strings.CutPrefix(d, "__json__:"); ok {
			details := make(map[string]any)
			if jsonErr := json.Unmarshal([]byte(payload), &details); jsonErr == nil {
				resp.Error.Details = details
			}
		}
	}

	if resp.Error.Display == "" {
		resp.Error.Display = "An unexpected error occurred"
	}

	return resp
}
