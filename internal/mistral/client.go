// Package mistral performs chat-completion requests against the Mistral API.
package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrDecode wraps response bodies that are not valid JSON.
var ErrDecode = errors.New("mistral: malformed response body")

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 4096

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mistral: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Endpoint addresses a single request.
type Endpoint struct {
	URL    string
	APIKey string
}

type Options struct {
	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration
	// RequestsPerMinute enables a token-bucket limiter when positive.
	RequestsPerMinute int
	HTTPClient        *http.Client
	UserAgent         string
	Logger            *zap.SugaredLogger
}

type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	timeout   time.Duration
	userAgent string
	logger    *zap.SugaredLogger
}

func NewClient(opts Options) *Client {
	c := &Client{
		http:      opts.HTTPClient,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		logger:    opts.Logger,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = zap.NewNop().Sugar()
	}
	if opts.RequestsPerMinute > 0 {
		r := rate.Limit(float64(opts.RequestsPerMinute) / 60.0)
		c.limiter = rate.NewLimiter(r, 1)
	}
	return c
}

// Complete sends req and decodes the first choice.
func (c *Client) Complete(ctx context.Context, ep Endpoint, req Request) (Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{}, fmt.Errorf("rate limit: %w", err)
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.New().String()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+ep.APIKey)
	httpReq.Header.Set("X-Request-Id", requestID)
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	logger := c.logger.With("request_id", requestID, "model", req.Model)
	logger.Debugw("request_sent", "url", ep.URL, "messages", len(req.Messages))
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Result{}, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	logger.Debugw("response_received", "choices", len(out.Choices), "duration_ms", time.Since(start).Milliseconds())

	if len(out.Choices) == 0 {
		return Result{Empty: true}, nil
	}
	return Result{Content: out.Choices[0].Message.Content}, nil
}
