// Package router dispatches verified events to their lifecycle handler and turns the
// outcome into an HTTP status and body. It is the single place where handler failures
// become responses.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	v1 "github.com/hooksmith/usersync/internal/api/v1"
	"github.com/hooksmith/usersync/internal/lifecycle"
)

// Response statuses written in the "status" field.
const (
	StatusCreated  = "created"
	StatusExisting = "existing"
	StatusUpdated  = "updated"
	StatusRecorded = "recorded"
	StatusSkipped  = "skipped"
	StatusIgnored  = "ignored"
	StatusError    = "error"
)

// Lifecycle is the set of handlers the router dispatches to.
type Lifecycle interface {
	CreateUser(ctx context.Context, p v1.UserPayload) (lifecycle.CreateResult, error)
	UpdateUser(ctx context.Context, p v1.UserPayload) (lifecycle.UpdateResult, error)
	DeleteUser(ctx context.Context, p v1.DeletedPayload) (lifecycle.RecordResult, error)
	RecordSession(ctx context.Context, p v1.SessionPayload) (lifecycle.RecordResult, error)
}

// Result is the response for one routed event.
type Result struct {
	Status int
	Body   map[string]interface{}
}

type handlerFunc func(ctx context.Context, evt *v1.InboundEvent) (map[string]interface{}, error)

// Router holds a fixed registry of event type handlers.
type Router struct {
	handlers map[string]handlerFunc
}

func New(svc Lifecycle) *Router {
	if svc == nil {
		panic("router: lifecycle must not be nil")
	}
	return &Router{
		handlers: map[string]handlerFunc{
			v1.EventUserCreated:    createUser(svc),
			v1.EventUserUpdated:    updateUser(svc),
			v1.EventUserDeleted:    deleteUser(svc),
			v1.EventSessionCreated: recordSession(svc),
		},
	}
}

// Handles reports whether eventType has a registered handler.
func (r *Router) Handles(eventType string) bool {
	_, ok := r.handlers[eventType]
	return ok
}

// Route runs the handler for evt.Type at most once. Unknown types are acknowledged
// with 200 so the sender does not retry them. Route never panics.
func (r *Router) Route(ctx context.Context, evt *v1.InboundEvent) Result {
	handler, ok := r.handlers[evt.Type]
	if !ok {
		slog.Info("Ignoring unhandled event type", "event_type", evt.Type, "svix_id", evt.DeliveryID)
		return Result{
			Status: http.StatusOK,
			Body:   map[string]interface{}{"status": StatusIgnored, "event_type": evt.Type},
		}
	}

	body, err := invoke(ctx, handler, evt)
	if err != nil {
		return errorResult(evt, err)
	}

	body["event_type"] = evt.Type
	return Result{Status: http.StatusOK, Body: body}
}

func invoke(ctx context.Context, handler handlerFunc, evt *v1.InboundEvent) (body map[string]interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return handler(ctx, evt)
}

func errorResult(evt *v1.InboundEvent, err error) Result {
	if errors.Is(err, v1.ErrValidation) {
		slog.Warn("Event payload rejected",
			"event_type", evt.Type,
			"svix_id", evt.DeliveryID,
			"error", err)
		return Result{
			Status: http.StatusBadRequest,
			Body:   map[string]interface{}{"status": StatusError, "event_type": evt.Type, "error": err.Error()},
		}
	}

	slog.Error("Failed to process event",
		"event_type", evt.Type,
		"svix_id", evt.DeliveryID,
		"error", err)
	return Result{
		Status: http.StatusInternalServerError,
		Body:   map[string]interface{}{"status": StatusError, "event_type": evt.Type, "error": "failed to process event"},
	}
}

func createUser(svc Lifecycle) handlerFunc {
	return func(ctx context.Context, evt *v1.InboundEvent) (map[string]interface{}, error) {
		var p v1.UserPayload
		if err := evt.DecodeData(&p); err != nil {
			return nil, err
		}
		res, err := svc.CreateUser(ctx, p)
		if err != nil {
			return nil, err
		}
		status := StatusCreated
		if !res.Created {
			status = StatusExisting
		}
		return map[string]interface{}{
			"status":           status,
			"user_id":          res.UserID,
			"unique_global_id": res.UniqueGlobalID.String(),
		}, nil
	}
}

func updateUser(svc Lifecycle) handlerFunc {
	return func(ctx context.Context, evt *v1.InboundEvent) (map[string]interface{}, error) {
		var p v1.UserPayload
		if err := evt.DecodeData(&p); err != nil {
			return nil, err
		}
		res, err := svc.UpdateUser(ctx, p)
		if err != nil {
			return nil, err
		}
		if !res.Updated {
			return map[string]interface{}{"status": StatusSkipped, "reason": res.Reason}, nil
		}
		return map[string]interface{}{"status": StatusUpdated, "user_id": res.UserID}, nil
	}
}

func deleteUser(svc Lifecycle) handlerFunc {
	return func(ctx context.Context, evt *v1.InboundEvent) (map[string]interface{}, error) {
		var p v1.DeletedPayload
		if err := evt.DecodeData(&p); err != nil {
			return nil, err
		}
		res, err := svc.DeleteUser(ctx, p)
		if err != nil {
			return nil, err
		}
		return recordBody(res), nil
	}
}

func recordSession(svc Lifecycle) handlerFunc {
	return func(ctx context.Context, evt *v1.InboundEvent) (map[string]interface{}, error) {
		var p v1.SessionPayload
		if err := evt.DecodeData(&p); err != nil {
			return nil, err
		}
		res, err := svc.RecordSession(ctx, p)
		if err != nil {
			return nil, err
		}
		return recordBody(res), nil
	}
}

func recordBody(res lifecycle.RecordResult) map[string]interface{} {
	if !res.Recorded {
		return map[string]interface{}{"status": StatusSkipped, "reason": res.Reason}
	}
	return map[string]interface{}{"status": StatusRecorded, "user_id": res.UserID}
}
