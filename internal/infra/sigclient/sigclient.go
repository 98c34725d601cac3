// Package sigclient is the HTTP client for signed casino/provider calls.
// Every request carries the HMAC signature and timestamp headers the
// receiving side's middleware verifies, plus an explicit request id; there
// is no ambient per-call state.
package sigclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/juanwalsh/backendtest/pkg/hmacsig"
)

const defaultTimeout = 10 * time.Second

// UpstreamError is a non-2xx reply from the peer service.
type UpstreamError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %d %s: %s", e.StatusCode, e.Code, e.Message)
}

type Client struct {
	baseURL   string
	secret    string
	sigHeader string
	http      *http.Client
}

// New builds a client for one peer. sigHeader is the signature header the
// peer expects, e.g. "X-Casino-Signature".
func New(baseURL, secret, sigHeader string) *Client {
	return &Client{
		baseURL:   baseURL,
		secret:    secret,
		sigHeader: sigHeader,
		http:      &http.Client{Timeout: defaultTimeout},
	}
}

// PostJSON signs and sends body to path and decodes the JSON reply into out
// (which may be nil). Non-2xx replies come back as *UpstreamError.
func (c *Client) PostJSON(ctx context.Context, path, requestID string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Timestamp", timestamp)
	req.Header.Set(c.sigHeader, hmacsig.Sign(c.secret, timestamp, raw))

	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}

		_ = json.NewDecoder(resp.Body).Decode(&errBody)

		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Code:       errBody.Error,
			Message:    errBody.Message,
		}
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}
