package webhook

import "fmt"

// Reasons reported by AuthError.
const (
	ReasonMissingHeaders   = "missing verification headers"
	ReasonNoSecret         = "no secret configured"
	ReasonInvalidSecret    = "invalid secret encoding"
	ReasonInvalidTimestamp = "invalid timestamp"
	ReasonStaleTimestamp   = "timestamp outside tolerance"
	ReasonMismatch         = "signature mismatch"
)

// AuthError means the delivery could not be authenticated. The request must be
// rejected before any handler runs.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("webhook verification failed: %s", e.Reason)
}
