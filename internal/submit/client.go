// Package submit delivers finished surveys to the survey endpoint over HTTP.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"

	"github.com/AbdelazizMoustafa10m/bacc/internal/buildinfo"
	"github.com/AbdelazizMoustafa10m/bacc/internal/survey"
)

// Request headers set on every submission.
const (
	// DigestHeader carries the xxhash64 of the request body in hex so the
	// receiver can drop duplicate deliveries.
	DigestHeader = "X-Bacc-Digest"
	// SessionHeader carries the survey session ID.
	SessionHeader = "X-Bacc-Session"
)

// DefaultTimeout bounds a single submission when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response body is kept for the
// error message.
const maxErrorBody = 512

// ErrNoEndpoint is returned by Submit when the client has no endpoint.
var ErrNoEndpoint = errors.New("survey endpoint not configured")

// Payload is the JSON body of a submission.
type Payload struct {
	Timestamp string         `json:"timestamp"`
	Responses survey.Answers `json:"responses"`
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("survey endpoint returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("survey endpoint returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Client posts submissions to a survey endpoint. It implements
// survey.Submitter.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *log.Logger
}

var _ survey.Submitter = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-submission timeout. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger attaches a logger. When nil the client is silent.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client that posts to endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Encode returns the JSON body for s.
func Encode(s survey.Submission) ([]byte, error) {
	responses := s.Responses
	if responses == nil {
		responses = survey.Answers{}
	}
	return json.Marshal(Payload{
		Timestamp: s.Timestamp.UTC().Format(time.RFC3339),
		Responses: responses,
	})
}

// Digest returns the hex xxhash64 of body.
func Digest(body []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(body))
}

// Submit posts s as JSON. Any 2xx status is success. Transport errors and
// other statuses are returned; the response body is drained and discarded.
func (c *Client) Submit(ctx context.Context, s survey.Submission) error {
	if c.endpoint == "" {
		return ErrNoEndpoint
	}

	body, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}
	digest := Digest(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set(DigestHeader, digest)
	if s.SessionID != "" {
		req.Header.Set(SessionHeader, s.SessionID)
	}

	if c.logger != nil {
		c.logger.Debug("posting survey", "endpoint", c.endpoint, "bytes", len(body), "digest", digest)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting survey to %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	if c.logger != nil {
		c.logger.Info("survey delivered", "status", resp.StatusCode, "digest", digest)
	}
	return nil
}
