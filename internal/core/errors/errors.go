package errors

const (
	HttpInternalError        = "internal_error"
	HttpInvalidJsonError     = "invalid_json"
	HttpPayloadTooLargeError = "payload_too_large"
	HttpAuthFailedError      = "auth_failed"
)

// ErrorResponse is the error response body for requests rejected before routing.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
