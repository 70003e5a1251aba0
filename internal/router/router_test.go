package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/hooksmith/usersync/internal/api/v1"
	"github.com/hooksmith/usersync/internal/core/storage/memory"
	"github.com/hooksmith/usersync/internal/lifecycle"
	"github.com/stretchr/testify/require"
)

// fakeLifecycle counts calls and returns canned results.
type fakeLifecycle struct {
	calls  map[string]int
	err    error
	panics bool
}

func newFakeLifecycle() *fakeLifecycle {
	return &fakeLifecycle{calls: map[string]int{}}
}

func (f *fakeLifecycle) hit(name string) error {
	f.calls[name]++
	if f.panics {
		panic("boom")
	}
	return f.err
}

func (f *fakeLifecycle) CreateUser(context.Context, v1.UserPayload) (lifecycle.CreateResult, error) {
	return lifecycle.CreateResult{Created: true, UserID: 1}, f.hit("create")
}

func (f *fakeLifecycle) UpdateUser(context.Context, v1.UserPayload) (lifecycle.UpdateResult, error) {
	return lifecycle.UpdateResult{Updated: true, UserID: 1}, f.hit("update")
}

func (f *fakeLifecycle) DeleteUser(context.Context, v1.DeletedPayload) (lifecycle.RecordResult, error) {
	return lifecycle.RecordResult{Recorded: true, UserID: 1}, f.hit("delete")
}

func (f *fakeLifecycle) RecordSession(context.Context, v1.SessionPayload) (lifecycle.RecordResult, error) {
	return lifecycle.RecordResult{Recorded: true, UserID: 1}, f.hit("session")
}

func event(eventType, data string) *v1.InboundEvent {
	return &v1.InboundEvent{Type: eventType, Data: []byte(data)}
}

func TestRouter_DispatchesEachRegisteredType(t *testing.T) {
	tests := []struct {
		evt      *v1.InboundEvent
		call     string
		wantBody string
	}{
		{event(v1.EventUserCreated, `{"id":"user_1"}`), "create", StatusCreated},
		{event(v1.EventUserUpdated, `{"id":"user_1"}`), "update", StatusUpdated},
		{event(v1.EventUserDeleted, `{"id":"user_1","deleted":true}`), "delete", StatusRecorded},
		{event(v1.EventSessionCreated, `{"id":"sess_1","user_id":"user_1"}`), "session", StatusRecorded},
	}

	for _, tc := range tests {
		t.Run(tc.evt.Type, func(t *testing.T) {
			fake := newFakeLifecycle()
			r := New(fake)

			require.True(t, r.Handles(tc.evt.Type))
			res := r.Route(context.Background(), tc.evt)
			require.Equal(t, http.StatusOK, res.Status)
			require.Equal(t, tc.wantBody, res.Body["status"])
			require.Equal(t, tc.evt.Type, res.Body["event_type"])
			require.Equal(t, map[string]int{tc.call: 1}, fake.calls)
		})
	}
}

func TestRouter_UnknownTypeIsIgnored(t *testing.T) {
	fake := newFakeLifecycle()
	r := New(fake)

	require.False(t, r.Handles("org.renamed"))
	res := r.Route(context.Background(), event("org.renamed", `{"id":"org_1"}`))
	require.Equal(t, http.StatusOK, res.Status)
	require.Equal(t, StatusIgnored, res.Body["status"])
	require.Empty(t, fake.calls)
}

func TestRouter_HandlerFailures(t *testing.T) {
	tests := []struct {
		name       string
		configure  func(f *fakeLifecycle)
		evt        *v1.InboundEvent
		wantStatus int
	}{
		{
			name:       "storage failure",
			configure:  func(f *fakeLifecycle) { f.err = errors.New("connection reset") },
			evt:        event(v1.EventUserCreated, `{"id":"user_1"}`),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "validation failure from handler",
			configure:  func(f *fakeLifecycle) { f.err = fmt.Errorf("%w: id is required", v1.ErrValidation) },
			evt:        event(v1.EventUserUpdated, `{}`),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing data",
			configure:  func(f *fakeLifecycle) {},
			evt:        event(v1.EventUserCreated, ``),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "data of the wrong shape",
			configure:  func(f *fakeLifecycle) {},
			evt:        event(v1.EventSessionCreated, `["not","an","object"]`),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "panic is recovered",
			configure:  func(f *fakeLifecycle) { f.panics = true },
			evt:        event(v1.EventUserDeleted, `{"id":"user_1"}`),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := newFakeLifecycle()
			tc.configure(fake)
			r := New(fake)

			var res Result
			require.NotPanics(t, func() { res = r.Route(context.Background(), tc.evt) })
			require.Equal(t, tc.wantStatus, res.Status)
			require.Equal(t, StatusError, res.Body["status"])

			total := 0
			for _, n := range fake.calls {
				total += n
			}
			require.LessOrEqual(t, total, 1)
		})
	}
}

func TestRouter_InternalErrorsAreNotLeaked(t *testing.T) {
	fake := newFakeLifecycle()
	fake.err = errors.New("pq: password authentication failed for user admin")

	res := New(fake).Route(context.Background(), event(v1.EventUserCreated, `{"id":"user_1"}`))
	require.Equal(t, http.StatusInternalServerError, res.Status)
	require.NotContains(t, res.Body["error"], "password")
}

func TestRouter_WithLifecycleService(t *testing.T) {
	ctx := context.Background()
	r := New(lifecycle.NewService(memory.NewStore(), nil))

	created := r.Route(ctx, event(v1.EventUserCreated, `{"id":"user_1","email_addresses":[{"email_address":"a@b.com"}]}`))
	require.Equal(t, http.StatusOK, created.Status)
	require.Equal(t, StatusCreated, created.Body["status"])

	again := r.Route(ctx, event(v1.EventUserCreated, `{"id":"user_1"}`))
	require.Equal(t, http.StatusOK, again.Status)
	require.Equal(t, StatusExisting, again.Body["status"])
	require.Equal(t, created.Body["user_id"], again.Body["user_id"])

	missing := r.Route(ctx, event(v1.EventUserUpdated, `{"id":"user_missing"}`))
	require.Equal(t, http.StatusOK, missing.Status)
	require.Equal(t, StatusSkipped, missing.Body["status"])
	require.Equal(t, lifecycle.ReasonNotFound, missing.Body["reason"])

	invalid := r.Route(ctx, event(v1.EventUserCreated, `{"first_name":"NoID"}`))
	require.Equal(t, http.StatusBadRequest, invalid.Status)
}
