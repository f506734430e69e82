// Package upstream exchanges agent identifiers for session credentials with
// the voice platform's authorization service. Each exchange is a single
// stateless call: the gateway adds its bearer credential and relays either
// the success payload or a normalized error.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vango-go/vai-console-lite/pkg/core"
)

// maxErrorBodyBytes bounds how much of an upstream error body is read.
const maxErrorBodyBytes = 32 << 10

// TransportError represents HTTP transport-level failures (DNS, timeouts,
// connection reset, TLS handshake) while talking to the upstream service.
//
// Use errors.As to distinguish transport failures from canonical API
// errors (*core.Error).
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Op != "" && e.URL != "":
		return fmt.Sprintf("transport error during %s %s: %v", e.Op, redactURLUserInfo(e.URL), e.Err)
	case e.Op != "":
		return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("transport error: %v", e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func redactURLUserInfo(raw string) string {
	if raw == "" {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}
	parsed.User = nil
	return parsed.String()
}

// Client calls the upstream authorization service.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: httpClient,
	}
}

// ExchangeSession exchanges an agent id for a session credential. On
// success the upstream payload is relayed verbatim. Failures come back as
// *core.Error (upstream said no) or *TransportError (we never got an
// answer); the balance-exhausted condition is detected by substring match
// on the upstream error and remapped to its fixed type and code.
func (c *Client) ExchangeSession(ctx context.Context, agentID string) (json.RawMessage, error) {
	endpoint := c.BaseURL + "/v1/convai/sessions"
	body, err := json.Marshal(map[string]string{"agent_id": agentID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "POST", URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &TransportError{Op: "POST", URL: endpoint, Err: err}
		}
		return payload, nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return nil, normalizeError(resp.StatusCode, raw)
}

// normalizeError converts an upstream failure into a canonical error,
// preserving the upstream status and message.
func normalizeError(status int, body []byte) *core.Error {
	message := extractMessage(body)
	if message == "" {
		message = fmt.Sprintf("upstream returned status %d", status)
	}

	if strings.Contains(strings.ToLower(message), "insufficient balance") {
		return core.NewInsufficientBalanceError(message)
	}

	errType := core.ErrUpstream
	switch {
	case status == http.StatusUnauthorized:
		errType = core.ErrAuthentication
	case status == http.StatusForbidden:
		errType = core.ErrPermission
	case status == http.StatusNotFound:
		errType = core.ErrNotFound
	case status == http.StatusTooManyRequests:
		errType = core.ErrRateLimit
	case status >= 400 && status < 500:
		errType = core.ErrInvalidRequest
	}

	return &core.Error{
		Type:          errType,
		Message:       message,
		UpstreamError: map[string]any{"status": status, "message": message},
	}
}

// extractMessage pulls a human-readable message out of the common upstream
// error shapes, falling back to the raw text.
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Error.Message != "":
			return envelope.Error.Message
		case envelope.Detail != "":
			return envelope.Detail
		case envelope.Message != "":
			return envelope.Message
		}
	}
	return trimmed
}
