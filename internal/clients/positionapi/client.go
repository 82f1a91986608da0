// Package positionapi fetches raw position records from the remote API with
// bounded, fixed-delay retries and typed error classification.
package positionapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Defaults used when Options leaves a field zero
const (
	DefaultMaxRetries     = 3
	DefaultRetryDelay     = 2 * time.Second
	DefaultAttemptTimeout = 10 * time.Second

	maxBodyBytes = 32 << 20
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Clock waits between attempts
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Progress describes an upcoming retry wait
type Progress struct {
	FetchID    uint64 // Caller's fetch identifier, see WithFetchID
	Attempt    int    // Attempt that just failed
	MaxRetries int
	Delay      time.Duration
	Err        error
}

type fetchIDKey struct{}

// WithFetchID tags ctx so that progress reported for fetches using it
// carries id. Callers use it to tell overlapping fetches apart.
func WithFetchID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, fetchIDKey{}, id)
}

// FetchID returns the identifier set by WithFetchID, or zero
func FetchID(ctx context.Context) uint64 {
	id, _ := ctx.Value(fetchIDKey{}).(uint64)
	return id
}

// ProgressFunc is notified before every wait between attempts. It must not block.
type ProgressFunc func(Progress)

// Options configures retry behaviour
type Options struct {
	MaxRetries     int           // Total attempts
	RetryDelay     time.Duration // Zero retries immediately, negative uses the default
	AttemptTimeout time.Duration
	Doer           Doer
	Clock          Clock
	OnProgress     ProgressFunc
}

// Client fetches positions from a single endpoint
type Client struct {
	url  string
	opts Options
	log  zerolog.Logger
}

// NewClient creates a positions client for url
func NewClient(url string, opts Options, log zerolog.Logger) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = DefaultAttemptTimeout
	}
	if opts.Doer == nil {
		// Timeouts are enforced per attempt through the request context
		opts.Doer = &http.Client{}
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	return &Client{
		url:  url,
		opts: opts,
		log:  log.With().Str("client", "positionapi").Logger(),
	}
}

// URL returns the configured endpoint
func (c *Client) URL() string {
	return c.url
}

// FetchPositions returns the decoded JSON array from the endpoint.
//
// 4xx responses fail immediately with *ClientError. 5xx responses, transport
// failures, timeouts and non-array bodies are retried after a fixed delay until
// MaxRetries attempts have been made, then fail with *ExhaustedRetriesError.
func (c *Client) FetchPositions(ctx context.Context) ([]any, error) {
	state := Start(c.opts.MaxRetries)
	var records []any

	for !state.Terminal() {
		switch state.Phase {
		case PhaseAttempting:
			var err error
			records, err = c.attempt(ctx, state.Attempt)
			state = Next(state, err)

		case PhaseWaiting:
			c.log.Warn().
				Err(state.Err).
				Int("attempt", state.Attempt).
				Int("max_retries", state.MaxRetries).
				Dur("wait", c.opts.RetryDelay).
				Msg("Positions fetch failed, retrying")
			if c.opts.OnProgress != nil {
				c.opts.OnProgress(Progress{
					FetchID:    FetchID(ctx),
					Attempt:    state.Attempt,
					MaxRetries: state.MaxRetries,
					Delay:      c.opts.RetryDelay,
					Err:        state.Err,
				})
			}
			state = Next(state, c.opts.Clock.Sleep(ctx, c.opts.RetryDelay))
		}
	}

	if state.Phase == PhaseFailed {
		c.log.Error().Err(state.Err).Int("attempts", state.Attempt).Msg("Positions fetch failed")
		return nil, state.Err
	}

	c.log.Info().Int("records", len(records)).Int("attempts", state.Attempt).Msg("Positions fetched")
	return records, nil
}

// attempt performs one GET with its own timeout
func (c *Client) attempt(ctx context.Context, n int) ([]any, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.opts.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log := c.log.With().Str("request_id", requestID).Int("attempt", n).Logger()
	log.Debug().Str("url", c.url).Msg("Fetching positions")

	resp, err := c.opts.Doer.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &NetworkError{Err: err, Timeout: isTimeout(attemptCtx, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		log.Warn().Int("status", resp.StatusCode).Msg("Positions API rejected request")
		return nil, &ClientError{Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		log.Warn().Int("status", resp.StatusCode).Msg("Positions API returned error")
		return nil, &ServerError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &NetworkError{Err: err, Timeout: isTimeout(attemptCtx, err)}
	}

	return decodeArray(body)
}

// decodeArray requires the body to be a JSON array
func decodeArray(body []byte) ([]any, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &MalformedResponseError{Reason: "invalid JSON: " + err.Error()}
	}
	records, ok := decoded.([]any)
	if !ok {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("expected array, got %s", jsonKind(decoded))}
	}
	return records, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func isTimeout(attemptCtx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
