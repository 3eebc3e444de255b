package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Kind classifies adapter failures for the handler layer. Provider-specific
// detail stays inside the wrapped error and is only ever logged server-side.
type Kind string

const (
	KindUnavailable Kind = "upstream_unavailable"
	KindRateLimited Kind = "upstream_rate_limited"
	KindMalformed   Kind = "upstream_malformed_response"
)

type Error struct {
	Source string
	Kind   Kind
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(source string, kind Kind, err error) *Error {
	return &Error{Source: source, Kind: kind, Err: err}
}

func KindOf(err error) (Kind, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind, true
	}
	return "", false
}

const (
	defaultTimeout = 10 * time.Second
	maxRetries     = 2
	baseBackoff    = 500 * time.Millisecond
)

// Client is the shared HTTP substrate for every adapter: bounded per-call
// timeout, at most two retries with exponential backoff on transient
// failures, never a retry on a 4xx response.
type Client struct {
	source     string
	httpClient *http.Client
}

func NewClient(source string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		source:     source,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Source() string { return c.source }

// GetJSON fetches rawURL with query params and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return NewError(c.source, KindUnavailable, err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return NewError(c.source, KindUnavailable, ctx.Err())
			case <-time.After(backoff):
			}
		}

		body, retryable, err := c.once(ctx, u.String())
		if err == nil {
			if uErr := json.Unmarshal(body, out); uErr != nil {
				return NewError(c.source, KindMalformed, uErr)
			}
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, fullURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, false, NewError(c.source, KindUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network failure or timeout: transient, retry.
		return nil, true, NewError(c.source, KindUnavailable, err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if readErr != nil {
		return nil, true, NewError(c.source, KindUnavailable, readErr)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, false, NewError(c.source, KindRateLimited, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode >= 500:
		return nil, true, NewError(c.source, KindUnavailable, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		// Client-side problem with the upstream call; retrying cannot help.
		return nil, false, NewError(c.source, KindUnavailable, fmt.Errorf("status %d", resp.StatusCode))
	}

	return raw, false, nil
}
