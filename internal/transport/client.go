// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport sends operator commands to the remote NL service.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/noldarim/nlctl/internal/config"
	"github.com/noldarim/nlctl/internal/logger"
	"github.com/noldarim/nlctl/internal/protocol"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/noldarim/nlctl/internal/transport"

var (
	log     zerolog.Logger
	logOnce sync.Once
)

func getLog() *zerolog.Logger {
	logOnce.Do(func() {
		log = logger.GetTransportLogger()
	})
	return &log
}

// ErrEmptyResponse is returned when the service answered without a usable body.
var ErrEmptyResponse = errors.New("empty response body")

// HTTPError is returned for any status other than 2xx and the soft-failure status.
type HTTPError struct {
	StatusCode int
	Status     string // reason phrase, e.g. "Service Unavailable"
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// Executor submits one command and returns the service's answer.
// A nil error means the call resolved, even when the answer reports ok=false.
type Executor interface {
	Execute(ctx context.Context, text string) (protocol.NLResponse, error)
}

// Client is the HTTP implementation of Executor.
type Client struct {
	cfg        config.ClientConfig
	httpClient *http.Client
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

var _ Executor = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTracerProvider sets the provider used for request spans
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// NewClient creates a client for the configured service.
func NewClient(cfg config.ClientConfig, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		tracer:     otel.Tracer(tracerName),
		propagator: otel.GetTextMapPropagator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute POSTs the command text to the execute endpoint. Every call carries a
// fresh correlation id; it is only used for tracing and logs.
func (c *Client) Execute(ctx context.Context, text string) (protocol.NLResponse, error) {
	correlationID := c.newCorrelationID()

	ctx, span := c.tracer.Start(ctx, "nl.execute",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("nl.correlation_id", correlationID),
			attribute.String("http.request.method", http.MethodPost),
			attribute.String("url.full", c.cfg.ExecuteURL()),
		),
	)
	defer span.End()

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, status, err := c.execute(ctx, text, correlationID)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		getLog().Warn().Err(err).Str("correlation_id", correlationID).Msg("Command request failed")
		return protocol.NLResponse{}, err
	}

	span.SetAttributes(
		attribute.Bool("nl.ok", resp.OK),
		attribute.String("nl.intent", string(resp.Parsed.Intent)),
	)
	getLog().Debug().
		Str("correlation_id", correlationID).
		Int("status", status).
		Bool("ok", resp.OK).
		Str("intent", string(resp.Parsed.Intent)).
		Msg("Command request resolved")
	return resp, nil
}

func (c *Client) execute(ctx context.Context, text, correlationID string) (protocol.NLResponse, int, error) {
	body, err := json.Marshal(protocol.ExecuteRequest{Text: text})
	if err != nil {
		return protocol.NLResponse{}, 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ExecuteURL(), bytes.NewReader(body))
	if err != nil {
		return protocol.NLResponse{}, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(c.cfg.CorrelationHeader, correlationID)
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return protocol.NLResponse{}, 0, err
	}
	defer resp.Body.Close()

	if !c.acceptStatus(resp.StatusCode) {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.cfg.MaxResponseBytes))
		return protocol.NLResponse{}, resp.StatusCode, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     reasonPhrase(resp),
		}
	}

	data, err := c.readBody(resp.Body)
	if err != nil {
		return protocol.NLResponse{}, resp.StatusCode, err
	}

	nl, err := decodeResponse(data)
	return nl, resp.StatusCode, err
}

// Health queries the service health endpoint.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	ctx, span := c.tracer.Start(ctx, "nl.health", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.HealthURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(c.cfg.CorrelationHeader, c.newCorrelationID())
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &HTTPError{StatusCode: resp.StatusCode, Status: reasonPhrase(resp)}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	data, err := c.readBody(resp.Body)
	if err != nil {
		return nil, err
	}
	status := map[string]any{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &status); err != nil {
			return nil, fmt.Errorf("failed to decode health response: %w", err)
		}
	}
	return status, nil
}

func (c *Client) acceptStatus(code int) bool {
	if code >= 200 && code <= 299 {
		return true
	}
	return c.cfg.SoftFailureStatus != 0 && code == c.cfg.SoftFailureStatus
}

func (c *Client) readBody(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, c.cfg.MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) > c.cfg.MaxResponseBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", c.cfg.MaxResponseBytes)
	}
	return data, nil
}

func (c *Client) newCorrelationID() string {
	prefix := c.cfg.CorrelationPrefix
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "-" + uuid.NewString()
}

func decodeResponse(data []byte) (protocol.NLResponse, error) {
	if protocol.IsNull(data) {
		return protocol.NLResponse{}, ErrEmptyResponse
	}
	var nl protocol.NLResponse
	if err := json.Unmarshal(data, &nl); err != nil {
		return protocol.NLResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return nl, nil
}

// reasonPhrase strips the numeric code from resp.Status, falling back to the
// standard text when the server sent none.
func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}
