// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/noldarim/nlctl/internal/config"
	"github.com/noldarim/nlctl/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const armResponse = `{
  "ok": true,
  "parsed": {
    "text": "arm the system",
    "intent": "arm",
    "source": "rule",
    "entities": {"mode": "away"},
    "api": {"method": "POST", "path": "/api/arm-system", "payload": {"mode": "away"}}
  },
  "api_result": {"status": "armed"},
  "error": null
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default().Client
	cfg.BaseURL = srv.URL
	return NewClient(cfg)
}

func TestClient_Execute_Request(t *testing.T) {
	var (
		mu      sync.Mutex
		ids     []string
		bodies  []protocol.ExecuteRequest
		methods []string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req protocol.ExecuteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		mu.Lock()
		ids = append(ids, r.Header.Get("X-Correlation-ID"))
		bodies = append(bodies, req)
		methods = append(methods, r.Method+" "+r.URL.Path+" "+r.Header.Get("Content-Type"))
		mu.Unlock()

		_, _ = io.WriteString(w, armResponse)
	})

	for i := 0; i < 2; i++ {
		_, err := client.Execute(context.Background(), "arm the system")
		require.NoError(t, err)
	}

	require.Len(t, ids, 2)
	assert.True(t, strings.HasPrefix(ids[0], "nlctl-"), "correlation id %q", ids[0])
	assert.NotEqual(t, ids[0], ids[1], "each call gets a fresh correlation id")
	assert.Equal(t, "arm the system", bodies[0].Text)
	assert.Equal(t, "POST /nl/execute application/json", methods[0])
}

func TestClient_Execute_Statuses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    bool
		wantHTTP   string
		wantOK     bool
		wantErrMsg string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   armResponse,
			wantOK: true,
		},
		{
			name:       "soft_failure_with_nl_body",
			status:     http.StatusBadRequest,
			body:       `{"ok":false,"parsed":{"text":"blah","intent":null,"source":"rule","entities":{},"api":null},"api_result":null,"error":"Could not understand command"}`,
			wantErrMsg: "Could not understand command",
		},
		{
			name:       "soft_failure_with_detail_body",
			status:     http.StatusBadRequest,
			body:       `{"detail":"text must not be empty"}`,
			wantErrMsg: "text must not be empty",
		},
		{
			name:     "server_error",
			status:   http.StatusServiceUnavailable,
			body:     `{"detail":"down"}`,
			wantErr:  true,
			wantHTTP: "HTTP 503: Service Unavailable",
		},
		{
			name:     "not_found",
			status:   http.StatusNotFound,
			wantErr:  true,
			wantHTTP: "HTTP 404: Not Found",
		},
		{
			name:    "malformed_body",
			status:  http.StatusOK,
			body:    `{"ok": tru`,
			wantErr: true,
		},
		{
			name:    "empty_body",
			status:  http.StatusOK,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			resp, err := client.Execute(context.Background(), "anything")
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantHTTP != "" {
					var httpErr *HTTPError
					require.True(t, errors.As(err, &httpErr))
					assert.Equal(t, tt.status, httpErr.StatusCode)
					assert.Equal(t, tt.wantHTTP, err.Error())
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, resp.OK)
			if tt.wantErrMsg != "" {
				assert.True(t, resp.Failed())
				assert.Equal(t, tt.wantErrMsg, resp.ErrorMessage())
			}
		})
	}
}

func TestClient_Execute_LooselyTypedEntitiesResolve(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ok":true,"parsed":{"text":"add user John with pin 4321",
			"intent":"add_user","source":"llm","entities":{"name":"John","pin":4321},
			"api":{"method":"POST","path":"/api/add-user","payload":{"name":"John","pin":4321}}},
			"api_result":{"status":"ok"},"error":null}`)
	})

	resp, err := client.Execute(context.Background(), "add user John with pin 4321")
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "4321", resp.Parsed.Entities.PIN)
	assert.JSONEq(t, `{"name":"John","pin":4321}`, string(resp.Parsed.API.Payload))
}

func TestClient_Execute_EmptyBodyIsSentinel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "  null ")
	})

	_, err := client.Execute(context.Background(), "arm")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClient_Execute_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := config.Default().Client
	cfg.BaseURL = srv.URL
	cfg.Timeout = 50 * time.Millisecond
	client := NewClient(cfg)

	_, err := client.Execute(context.Background(), "arm")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Execute_ResponseTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, armResponse)
	}))
	defer srv.Close()

	cfg := config.Default().Client
	cfg.BaseURL = srv.URL
	cfg.MaxResponseBytes = 16
	client := NewClient(cfg)

	_, err := client.Execute(context.Background(), "arm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 16 bytes")
}

func TestClient_Execute_TraceSpan(t *testing.T) {
	var traceparent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		_, _ = io.WriteString(w, armResponse)
	}))
	defer srv.Close()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	cfg := config.Default().Client
	cfg.BaseURL = srv.URL
	client := NewClient(cfg, WithTracerProvider(tp))
	client.propagator = propagation.TraceContext{}

	_, err := client.Execute(context.Background(), "arm the system")
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "nl.execute", spans[0].Name())
	assert.NotEmpty(t, traceparent, "trace context is propagated")
	assert.Contains(t, traceparent, spans[0].SpanContext().TraceID().String())
}

func TestClient_Health(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})

	status, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status["status"])
}

func TestClient_Health_Unhealthy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Health(context.Background())
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}
