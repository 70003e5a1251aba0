package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy() HealthChecker {
	return pingFunc(func(context.Context) error { return nil })
}

func TestHealth_AllDependenciesUp(t *testing.T) {
	s := New("127.0.0.1:0", healthy(), "release")
	s.AddHealthCheck("receipts", healthy())

	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "healthy", body.Status)
	require.Equal(t, map[string]string{"database": "connected", "receipts": "connected"}, body.Checks)
}

func TestHealth_DatabaseDown(t *testing.T) {
	s := New("127.0.0.1:0", pingFunc(func(context.Context) error { return errors.New("connection refused") }), "release")

	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	require.Contains(t, resp.Body.String(), `"unhealthy"`)
	require.Contains(t, resp.Body.String(), `"unreachable"`)
}

func TestRequestID(t *testing.T) {
	s := New("127.0.0.1:0", nil, "release")

	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NotEmpty(t, resp.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	resp = httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, req)
	require.Equal(t, "req-123", resp.Header().Get(requestIDHeader))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	s := New("127.0.0.1:0", nil, "release")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	require.NoError(t, <-done)
}
