// Package backend talks to the email triage API: fetching the inbox,
// classifying new mail, listing classified and responded emails, and sending
// responses.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ajramos/giztriage/internal/models"
	"github.com/ajramos/giztriage/internal/version"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Endpoint paths
const (
	PathFetch            = "/fetch"
	PathClassify         = "/classify"
	PathClassifiedEmails = "/classified-emails"
	PathRespondedEmails  = "/responded-emails"
	PathRespond          = "/respond"
)

// RequestIDHeader carries a per-call identifier for log correlation
const RequestIDHeader = "X-Request-ID"

const maxErrorBody = 512

var (
	// ErrNetwork reports a request that never got a response
	ErrNetwork = errors.New("backend unreachable")
	// ErrServer reports a non-success HTTP status
	ErrServer = errors.New("backend returned an error status")
	// ErrMalformedResponse reports a body that does not match the contract
	ErrMalformedResponse = errors.New("malformed backend response")
)

// StatusError describes a non-2xx response
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap lets callers match ErrServer
func (e *StatusError) Unwrap() error { return ErrServer }

// Options configures a Client
type Options struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
	// FetchLimit, when positive, caps how many inbox emails /fetch pulls
	FetchLimit int
	// ClassifyLimit, when positive, caps the size of a /classify batch
	ClassifyLimit int
	Logger        *log.Logger
	// HTTPClient overrides the transport, mainly for tests
	HTTPClient *http.Client
}

// Client is a thin JSON client for the triage API
type Client struct {
	base          *url.URL
	http          *http.Client
	fetchLimit    int
	classifyLimit int
	logger        *log.Logger
	newRequestID  func() string
}

// NewClient validates opts and builds a client
func NewClient(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("backend URL is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", raw)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	if tok := strings.TrimSpace(opts.APIToken); tok != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"})
		hc = &http.Client{
			Timeout:       hc.Timeout,
			CheckRedirect: hc.CheckRedirect,
			Jar:           hc.Jar,
			Transport:     &oauth2.Transport{Source: src, Base: hc.Transport},
		}
	}

	return &Client{
		base:          base,
		http:          hc,
		fetchLimit:    opts.FetchLimit,
		classifyLimit: opts.ClassifyLimit,
		logger:        opts.Logger,
		newRequestID:  func() string { return uuid.NewString() },
	}, nil
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string { return c.base.String() }

type fetchResponse struct {
	Emails []models.EmailRecord `json:"emails"`
}

type classifiedResponse struct {
	ClassifiedEmails []models.ClassifiedEmailRecord `json:"classified_emails"`
}

type respondedResponse struct {
	RespondedEmails []models.RespondedEmailRecord `json:"responded_emails"`
}

type fetchRequest struct {
	MaxEmailsToFetch int `json:"max_emails_to_fetch,omitempty"`
}

// orEmpty treats an absent or null list as an empty one
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// FetchInbox pulls the latest inbox emails through the backend. An empty
// mailbox answers without an emails key and yields an empty slice.
func (c *Client) FetchInbox(ctx context.Context) ([]models.EmailRecord, error) {
	var out fetchResponse
	if err := c.do(ctx, http.MethodPost, PathFetch, nil, fetchRequest{MaxEmailsToFetch: c.fetchLimit}, &out); err != nil {
		return nil, err
	}
	return orEmpty(out.Emails), nil
}

// Classify asks the backend to classify whatever is not yet classified and
// returns only the newly classified batch
func (c *Client) Classify(ctx context.Context) ([]models.ClassifiedEmailRecord, error) {
	var query url.Values
	if c.classifyLimit > 0 {
		query = url.Values{"limit": []string{strconv.Itoa(c.classifyLimit)}}
	}
	var out classifiedResponse
	if err := c.do(ctx, http.MethodPost, PathClassify, query, struct{}{}, &out); err != nil {
		return nil, err
	}
	return orEmpty(out.ClassifiedEmails), nil
}

// ClassifiedEmails returns every classified email the backend has stored
func (c *Client) ClassifiedEmails(ctx context.Context) ([]models.ClassifiedEmailRecord, error) {
	var out classifiedResponse
	if err := c.do(ctx, http.MethodGet, PathClassifiedEmails, nil, nil, &out); err != nil {
		return nil, err
	}
	return orEmpty(out.ClassifiedEmails), nil
}

// RespondedEmails returns the responses that were sent
func (c *Client) RespondedEmails(ctx context.Context) ([]models.RespondedEmailRecord, error) {
	var out respondedResponse
	if err := c.do(ctx, http.MethodGet, PathRespondedEmails, nil, nil, &out); err != nil {
		return nil, err
	}
	return orEmpty(out.RespondedEmails), nil
}

// Respond sends draft as the reply to the email with id emailID
func (c *Client) Respond(ctx context.Context, req models.RespondRequest) (*models.RespondResult, error) {
	var out models.RespondResult
	if err := c.do(ctx, http.MethodPost, PathRespond, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := c.newRequestID()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logf("%s %s [%s] failed: %v", method, path, reqID, err)
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()
	c.logf("%s %s [%s] -> %d in %s", method, path, reqID, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: %s %s: expected a JSON object", ErrMalformedResponse, method, path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	return nil
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf("backend: "+format, args...)
	}
}
