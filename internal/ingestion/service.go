package ingestion

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	v1 "github.com/hooksmith/usersync/internal/api/v1"
	"github.com/hooksmith/usersync/internal/receipts"
	"github.com/hooksmith/usersync/internal/router"
)

// Verifier authenticates a raw delivery.
type Verifier interface {
	Verify(body []byte, headers http.Header) (*v1.InboundEvent, error)
}

// EventRouter dispatches a verified event.
type EventRouter interface {
	Route(ctx context.Context, evt *v1.InboundEvent) router.Result
}

type Service struct {
	verifier         Verifier
	router           EventRouter
	receipts         receipts.Store
	maxBodySizeBytes int
}

// NewService wires the webhook endpoint. receiptStore may be nil to disable
// redelivery detection.
func NewService(verifier Verifier, r EventRouter, receiptStore receipts.Store, maxBodySizeMB int) *Service {
	if verifier == nil {
		panic("ingestion: verifier must not be nil")
	}
	if r == nil {
		panic("ingestion: router must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		verifier:         verifier,
		router:           r,
		receipts:         receiptStore,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the webhook routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	// Canonical webhook endpoint.
	r.POST("/v1/webhooks/clerk", s.WebhookHandler)

	// Path used by the previous deployment. Can be removed after the provider endpoint is updated.
	r.POST("/webhook", s.WebhookHandler)
}
