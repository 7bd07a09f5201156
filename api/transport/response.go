package transport

import (
	"encoding/json"

	"github.com/taskstack/backend/domain"
)

// Public error kinds.
const (
	KindValidationError = "ValidationError"
	KindNotFound        = "NotFound"
	KindInternalError   = "InternalError"
)

// ErrorBody is the wire shape of every failure response.
type ErrorBody struct {
	Error ErrorInfo `json:"error"`
}

// ErrorInfo carries the error kind, a human-readable message and, for
// validation failures, one entry per violated field.
type ErrorInfo struct {
	Kind    string                  `json:"kind"`
	Message string                  `json:"message"`
	Details []domain.FieldViolation `json:"details,omitempty"`
}

// NewError builds an error body.
func NewError(kind, message string, details []domain.FieldViolation) ErrorBody {
	return ErrorBody{
		Error: ErrorInfo{
			Kind:    kind,
			Message: message,
			Details: details,
		},
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e ErrorBody) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
