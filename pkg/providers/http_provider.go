package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrorFormat tells the base provider where a vendor puts the error code and
// message inside a non-success response body (gjson paths).
type ErrorFormat struct {
	CodePath    string
	MessagePath string
}

// HTTPProvider is the base implementation for HTTP-based provider adapters.
// It owns the HTTP client, enforces the per-call wall-clock budget and turns
// vendor failures into *Error values.
//
// Concrete adapters embed this struct and implement CountTokens.
type HTTPProvider struct {
	// config contains the provider configuration
	config ProviderConfig

	// client is the HTTP client with connection pooling
	client *http.Client
}

// NewHTTPProvider creates a new base HTTP provider with connection pooling.
func NewHTTPProvider(config ProviderConfig) *HTTPProvider {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	client := config.Client
	if client == nil {
		transport := &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			MaxIdleConns:      config.MaxIdleConns,
			IdleConnTimeout:   config.IdleConnTimeout,
			ForceAttemptHTTP2: true,
		}
		// The budget is enforced per call through the request context.
		client = &http.Client{Transport: transport}
	}

	return &HTTPProvider{
		config: config,
		client: client,
	}
}

// ID returns the provider identifier.
func (p *HTTPProvider) ID() ProviderID {
	return p.config.Name
}

// GetConfig returns the provider's configuration.
func (p *HTTPProvider) GetConfig() ProviderConfig {
	return p.config
}

// Client returns the underlying HTTP client.
func (p *HTTPProvider) Client() *http.Client {
	return p.client
}

// DoRequest performs one HTTP call within the configured timeout and returns
// the body of a 2xx response. There are no retries: every failure is
// returned to the caller as an *Error.
func (p *HTTPProvider) DoRequest(ctx context.Context, method, endpoint string, body []byte, headers map[string]string, format ErrorFormat) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, NewRequestError(p.config.Name, fmt.Errorf("failed to create request: %w", err))
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("sending request to provider",
		"provider", p.config.Name,
		"method", method,
		"url", StripQuery(endpoint),
	)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.transportError(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, p.transportError(ctx, fmt.Errorf("failed to read response: %w", err))
	}

	slog.Debug("provider responded",
		"provider", p.config.Name,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, p.apiError(resp, respBody, format)
	}

	return respBody, nil
}

// DoJSONRequest marshals reqBody, performs the call and decodes a 2xx
// response into respBody.
func (p *HTTPProvider) DoJSONRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, headers map[string]string, format ErrorFormat) error {
	var bodyBytes []byte
	if reqBody != nil {
		var err error
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return NewRequestError(p.config.Name, fmt.Errorf("failed to marshal request: %w", err))
		}
	}

	responseBytes, err := p.DoRequest(ctx, method, endpoint, bodyBytes, headers, format)
	if err != nil {
		return err
	}

	if respBody != nil {
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			return NewRequestError(p.config.Name, fmt.Errorf("failed to decode response: %w", err))
		}
	}

	return nil
}

// transportError classifies a failure that happened before a complete
// response was read. Only the expiry of our own budget is a timeout; a
// caller cancellation is reported as a failed request.
func (p *HTTPProvider) transportError(ctx context.Context, err error) *Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		slog.Warn("provider request timed out",
			"provider", p.config.Name,
			"timeout", p.config.Timeout,
		)
		timeoutErr := NewTimeoutError(p.config.Name, p.config.Timeout)
		timeoutErr.Cause = err
		return timeoutErr
	}
	return NewRequestError(p.config.Name, err)
}

// apiError extracts the vendor code and message from a non-success body.
// When the body carries no message, "HTTP <status>: <status text>" is used.
func (p *HTTPProvider) apiError(resp *http.Response, body []byte, format ErrorFormat) *Error {
	message := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, statusText(resp))
	var code string

	if gjson.ValidBytes(body) {
		if format.MessagePath != "" {
			if m := gjson.GetBytes(body, format.MessagePath); m.Exists() && m.String() != "" {
				message = m.String()
			}
		}
		if format.CodePath != "" {
			if c := gjson.GetBytes(body, format.CodePath); c.Exists() {
				code = c.String()
			}
		}
	}

	slog.Warn("provider returned error status",
		"provider", p.config.Name,
		"status", resp.StatusCode,
		"code", code,
	)

	return NewAPIError(p.config.Name, resp.StatusCode, code, message)
}

// statusText returns the reason phrase of resp, falling back to the
// standard text for its code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// StripQuery removes the query string from a URL so credentials passed as
// query parameters never reach the logs.
func StripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			return raw[:i]
		}
		return raw
	}
	u.RawQuery = ""
	u.ForceQuery = false
	return u.String()
}
