package kie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dsoria/taskflow-api/internal/config"
)

// signal names understood by the deployed task process.
const (
	// SignalStatusChanged tells the process instance the task moved to a
	// new status.
	SignalStatusChanged = "status_changed"

	// SignalComplete tells the process instance to finish normally (used
	// when a task is released; distinct from aborting).
	SignalComplete = "complete"
)

// maxErrorBodyLen bounds how much of an engine error response gets logged.
const maxErrorBodyLen = 300

// EngineError describes a non-2xx response from the process engine.
type EngineError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface for EngineError.
func (e *EngineError) Error() string {
	return fmt.Sprintf("process engine returned status %d: %s", e.StatusCode, e.Body)
}

// ProcessVariables is the flat variable map sent when starting a process
// instance; the engine expects each value wrapped in a {"value": ...}
// envelope.
type ProcessVariables map[string]any

// Client is a thin HTTP client for the KIE Server REST API. Every call is
// bounded by the configured timeout and authenticated with basic auth.
// Client methods return errors; the fire-and-forget policy lives one layer
// up in Notifier.
type Client struct {
	serverURL   string
	containerID string
	processID   string
	username    string
	password    string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a KIE Server client from the given configuration.
// If logger is nil, a default logger will be used.
func NewClient(cfg config.KIEConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		serverURL:   strings.TrimRight(cfg.ServerURL, "/"),
		containerID: cfg.ContainerID,
		processID:   cfg.ProcessID,
		username:    cfg.Username,
		password:    cfg.Password,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger.With(slog.String("component", "kie_client")),
	}
}

// StartProcess starts a new instance of the configured process definition
// with the given variables. On success it returns the new process instance
// ID, which the engine sends back as the response body.
func (c *Client) StartProcess(ctx context.Context, vars ProcessVariables) (int64, error) {
	url := fmt.Sprintf("%s/containers/%s/processes/%s/instances",
		c.serverURL, c.containerID, c.processID)

	envelope := make(map[string]map[string]any, 1)
	wrapped := make(map[string]any, len(vars))
	for name, value := range vars {
		wrapped[name] = map[string]any{"value": value}
	}
	envelope["variables"] = wrapped

	body, err := c.do(ctx, http.MethodPost, url, envelope)
	if err != nil {
		return 0, err
	}

	instanceID, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected process start response %q: %w", string(body), err)
	}

	return instanceID, nil
}

// SignalProcess sends a named signal to a running process instance.
// The body is an empty JSON object: the engine rejects empty bodies
// with 415.
func (c *Client) SignalProcess(ctx context.Context, instanceID int64, signal string) error {
	url := fmt.Sprintf("%s/containers/%s/processes/instances/%d/signal/%s",
		c.serverURL, c.containerID, instanceID, signal)

	_, err := c.do(ctx, http.MethodPost, url, map[string]any{})
	return err
}

// AbortProcess aborts a running process instance. Used before deleting a
// task so the engine does not keep tracking work that no longer exists.
func (c *Client) AbortProcess(ctx context.Context, instanceID int64) error {
	url := fmt.Sprintf("%s/containers/%s/processes/instances/%d",
		c.serverURL, c.containerID, instanceID)

	_, err := c.do(ctx, http.MethodDelete, url, nil)
	return err
}

// do issues one authenticated request and returns the response body.
// Any non-2xx status is returned as an *EngineError.
func (c *Client) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("process engine request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", slog.String("error", err.Error()))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > maxErrorBodyLen {
			snippet = snippet[:maxErrorBodyLen]
		}
		return nil, &EngineError{StatusCode: resp.StatusCode, Body: snippet}
	}

	return body, nil
}
