package ingestion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	v1 "github.com/hooksmith/usersync/internal/api/v1"
	httperr "github.com/hooksmith/usersync/internal/core/errors"
	"github.com/hooksmith/usersync/internal/webhook"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgAuthFailed     = "Webhook verification failed"
	msgBodyTooLarge   = "Request body exceeds maximum allowed size"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// WebhookHandler handles one webhook delivery. Every request gets exactly one response.
func (s *Service) WebhookHandler(c *gin.Context) {
	body, ierr := s.readBody(c)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	evt, ierr := s.verifyEvent(body, c.Request.Header)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	slog.Info("Received Event",
		"event_type", evt.Type,
		"svix_id", evt.DeliveryID,
		"payload_size", len(body))

	// A verified event runs to completion even if the sender hangs up.
	ctx := context.WithoutCancel(c.Request.Context())

	if s.alreadyProcessed(ctx, evt) {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate", "event_type": evt.Type})
		return
	}

	res := s.router.Route(ctx, evt)
	if res.Status >= 200 && res.Status < 300 {
		s.markProcessed(ctx, evt)
	}

	c.JSON(res.Status, res.Body)
}

// readBody reads the raw request body, enforcing the configured size limit.
func (s *Service) readBody(c *gin.Context) ([]byte, *ingestionError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpPayloadTooLargeError,
			message:    msgBodyTooLarge,
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	return bodyBytes, nil
}

// verifyEvent authenticates the delivery and stamps ReceivedAt.
func (s *Service) verifyEvent(body []byte, headers http.Header) (*v1.InboundEvent, *ingestionError) {
	evt, err := s.verifier.Verify(body, headers)
	if err != nil {
		var authErr *webhook.AuthError
		if errors.As(err, &authErr) {
			slog.Warn("Webhook verification failed",
				"reason", authErr.Reason,
				"svix_id", headers.Get(webhook.HeaderID))
			return nil, &ingestionError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpAuthFailedError,
				message:    msgAuthFailed,
				details:    map[string]interface{}{"reason": authErr.Reason},
			}
		}

		slog.Warn("Invalid webhook body", "error", err, "payload_size", len(body))
		return nil, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    err.Error(),
		}
	}

	// set ReceivedAt to be the time we receive the request
	evt.ReceivedAt = time.Now().UTC()
	return evt, nil
}

// alreadyProcessed reports whether the delivery id has a receipt. Lookup failures
// are logged and treated as unseen, so the handler's own idempotency takes over.
func (s *Service) alreadyProcessed(ctx context.Context, evt *v1.InboundEvent) bool {
	if s.receipts == nil || evt.DeliveryID == "" {
		return false
	}

	seen, err := s.receipts.Seen(ctx, evt.DeliveryID)
	if err != nil {
		slog.Warn("[Receipts] Lookup failed, processing delivery", "svix_id", evt.DeliveryID, "error", err)
		return false
	}
	if seen {
		slog.Info("Duplicate delivery acknowledged", "svix_id", evt.DeliveryID, "event_type", evt.Type)
	}
	return seen
}

func (s *Service) markProcessed(ctx context.Context, evt *v1.InboundEvent) {
	if s.receipts == nil || evt.DeliveryID == "" {
		return
	}
	if err := s.receipts.Mark(ctx, evt.DeliveryID); err != nil {
		slog.Warn("[Receipts] Failed to record delivery", "svix_id", evt.DeliveryID, "error", err)
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
