// Package backend is the HTTP client for the RepoScribe backend API: the
// GitHub code exchange, the "who am I" check, the repository listing and the
// documentation generator.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/reposcribe/internal/errors"
	"golang.org/x/oauth2"
)

// Route paths on the backend API
const (
	PathLogin        = "/auth/github/login"
	PathCallback     = "/auth/github/callback"
	PathUser         = "/auth/user"
	PathRepositories = "/api/repositories"
	PathGenerateDoc  = "/api/generateDoc"
)

const (
	userAgent       = "RepoScribe"
	maxErrorBodyLen = 64 << 10
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s returned %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// Is lets callers test rejected credentials with errors.Is(err, errors.ErrUnauthorized).
func (e *StatusError) Is(target error) bool {
	return target == errors.ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Client talks to the backend API rooted at baseURL.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	generateTimeout time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the default client (used by tests with httptest servers).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithGenerateTimeout bounds the documentation request separately from the
// shared client timeout.
func WithGenerateTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.generateTimeout = d }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// bearerClient wraps the base client with an oauth2 transport that sets
// "Authorization: Bearer <token>" on every request.
func (c *Client) bearerClient(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, errors.Wrapf(err, "[backend %s] build request", path)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends req and decodes a 2xx JSON body into out.
func do(httpClient *http.Client, req *http.Request, out any) error {
	path := req.URL.Path
	resp, err := httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[backend %s] request failed", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Endpoint: path, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "[backend %s] malformed response", path)
	}
	return nil
}

// errorMessage pulls {"error": "..."} or {"message": "..."} out of an error body.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodyLen))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		switch {
		case payload.ErrorDescription != "":
			return payload.ErrorDescription
		case payload.Error != "":
			return payload.Error
		case payload.Message != "":
			return payload.Message
		}
	}
	text := strings.TrimSpace(string(data))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
