// internal/httpcall/httpcall.go
package httpcall

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Response is one completed HTTP exchange. Headers are exposed because some
// sources (UniProt) carry the next-page cursor in a response header; the body
// is returned unmodified.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// StatusError is a non-success, non-rate-limit HTTP outcome. It is never
// retried.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d from %s", e.Status, e.URL)
}

// RateLimitError reports exhausted backoff attempts against a throttling
// endpoint.
type RateLimitError struct {
	Attempts int
	URL      string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: gave up after %d attempts: %s", e.Attempts, e.URL)
}

// Client issues single HTTP requests with bounded exponential backoff on
// rate-limit signals. What counts as a rate-limit signal is a per-source
// predicate; everything else non-2xx fails immediately.
type Client struct {
	HTTP          *http.Client
	RetryAttempts int           // total tries before giving up (min 1)
	Backoff       time.Duration // first backoff wait; doubles per retry
	RateLimited   func(status int, body []byte) bool // nil = HTTP 429
	Log           zerolog.Logger

	sleep func(context.Context, time.Duration) error // test seam
}

// New returns a Client with the default transport and backoff schedule.
func New(retryAttempts int, log zerolog.Logger) *Client {
	return &Client{
		HTTP:          &http.Client{Timeout: 60 * time.Second},
		RetryAttempts: retryAttempts,
		Backoff:       time.Second,
		Log:           log,
	}
}

// Do performs req, classifying the response. On a rate-limit signal it waits
// with geometrically increasing delays and retries, up to RetryAttempts tries
// in total; any other non-success status fails at once with a *StatusError.
func (c *Client) Do(ctx context.Context, req *http.Request) (Response, error) {
	limited := c.RateLimited
	if limited == nil {
		limited = func(status int, _ []byte) bool { return status == http.StatusTooManyRequests }
	}
	tries := c.RetryAttempts
	if tries < 1 {
		tries = 1
	}
	wait := c.Backoff
	if wait <= 0 {
		wait = time.Second
	}

	for attempt := 1; ; attempt++ {
		if attempt > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return Response{}, fmt.Errorf("request %s: rewind body: %w", req.URL, err)
			}
			req.Body = body
		}
		resp, err := c.do(ctx, req)
		if err != nil {
			return Response{}, fmt.Errorf("request %s: %w", req.URL, err)
		}
		switch {
		case limited(resp.Status, resp.Body):
			if attempt >= tries {
				return Response{}, &RateLimitError{Attempts: attempt, URL: req.URL.String()}
			}
			c.Log.Warn().
				Int("attempt", attempt).
				Dur("wait", wait).
				Str("url", req.URL.String()).
				Msg("rate limited; backing off")
			if err := c.sleepCtx(ctx, wait); err != nil {
				return Response{}, err
			}
			wait *= 2
		case resp.Status < 200 || resp.Status > 299:
			return Response{}, &StatusError{Status: resp.Status, URL: req.URL.String()}
		default:
			return resp, nil
		}
	}
}

func (c *Client) do(ctx context.Context, req *http.Request) (Response, error) {
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req.WithContext(ctx))
	if err != nil {
		return Response{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}
	return Response{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body}, nil
}

func (c *Client) sleepCtx(ctx context.Context, d time.Duration) error {
	if c.sleep != nil {
		return c.sleep(ctx, d)
	}
	return Sleep(ctx, d)
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
