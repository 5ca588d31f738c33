package ghclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/scout/internal/constants"
	"github.com/spiffcs/scout/internal/log"
	"golang.org/x/oauth2"
)

var (
	// ErrUnauthorized is returned when GitHub rejects the token. It aborts a
	// whole analysis run since no later request can succeed.
	ErrUnauthorized = errors.New("GitHub rejected the token")

	// ErrRateLimited is returned when a request is still refused for quota
	// reasons after waiting for the reset and retrying.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound is returned for a 404 response.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned for a 403 response that is not about quota.
	// A single one degrades like any other failure.
	ErrForbidden = errors.New("access forbidden")
)

// Empty is the body Get returns in place of a failed response.
var Empty = json.RawMessage(`{}`)

// ClientConfig holds the settings a Client is built from.
type ClientConfig struct {
	// Token is the GitHub token. GITHUB_TOKEN is used when empty.
	Token string

	// APIURL is the REST API root. Defaults to the public GitHub API.
	APIURL string

	// RequestTimeout bounds each HTTP request. Zero disables it.
	RequestTimeout time.Duration

	// UserAgent overrides the go-github default when set.
	UserAgent string

	// OnRateLimitWait, if set, is called before a request is held back until
	// the quota resets. It receives the time requests resume.
	OnRateLimitWait func(resumeAt time.Time)
}

// session is the lazily built HTTP stack. It is dropped by Release.
type session struct {
	client    *gh.Client
	transport *http.Transport
}

// Client wraps the GitHub REST API with rate limit handling and a
// degrade-to-empty error policy.
type Client struct {
	// token is intentionally unexported. NEVER add String(), MarshalJSON(),
	// or any method that could expose this value in logs or serialized output.
	token     string
	baseURL   *url.URL
	timeout   time.Duration
	userAgent string
	limits    *RateLimitState

	mu      sync.Mutex
	session *session
}

// NewClient creates a new GitHub client using a personal access token.
// No connection is made until the first request.
func NewClient(cfg ClientConfig) (*Client, error) {
	token := cfg.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Set the GITHUB_TOKEN environment variable")
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = constants.DefaultAPIURL
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	baseURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", cfg.APIURL, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q: scheme and host are required", cfg.APIURL)
	}

	limits := NewRateLimitState()
	limits.onWait = cfg.OnRateLimitWait

	return &Client{
		token:     token,
		baseURL:   baseURL,
		timeout:   cfg.RequestTimeout,
		userAgent: cfg.UserAgent,
		limits:    limits,
	}, nil
}

// github returns the session client, building it on first use.
func (c *Client) github() *gh.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return c.session.client
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	httpClient := &http.Client{
		Transport: &rateLimitTransport{
			limits: c.limits,
			base: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token}),
				Base:   transport,
			},
		},
	}

	client := gh.NewClient(httpClient)
	client.BaseURL = c.baseURL
	if c.userAgent != "" {
		client.UserAgent = c.userAgent
	}

	c.session = &session{client: client, transport: transport}
	log.Trace("opened HTTP session", "api", c.baseURL.String())
	return client
}

// Release closes idle connections and drops the session. It is safe to call
// repeatedly; the next request opens a new session.
func (c *Client) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return
	}
	c.session.transport.CloseIdleConnections()
	c.session = nil
	log.Trace("released HTTP session")
}

// RateLimitStatus returns the quota tracked from response headers.
func (c *Client) RateLimitStatus() RateLimitStatus {
	return c.limits.Status()
}

// Get fetches path relative to the API root and returns the raw JSON body.
//
// A failed response never produces an error: 404s, other non-2xx statuses,
// network failures and per-request timeouts are logged and replaced by Empty.
// Errors are returned only for a rejected token (ErrUnauthorized) and for
// cancellation or expiry of ctx.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	raw, err := c.get(ctx, path, params)
	if err != nil {
		if isFatal(ctx, err) {
			return nil, err
		}
		return Empty, nil
	}
	return raw, nil
}

// get is Get without the fallback; the returned error explains the failure.
func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limits.Wait(ctx); err != nil {
			return nil, err
		}

		raw, err := c.do(ctx, path, params)
		if err == nil {
			return raw, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		err = classify(err)
		if errors.Is(err, ErrRateLimited) && attempt < constants.MaxRateLimitRetries {
			log.Warn("rate limit exhausted, retrying after reset", "path", path, "attempt", attempt+1)
			continue
		}

		switch {
		case errors.Is(err, ErrNotFound):
			log.Debug("resource not found", "path", path)
		case errors.Is(err, ErrUnauthorized):
			log.Debug("token rejected", "path", path)
		default:
			log.Warn("API request failed", "path", path, "error", err)
		}
		return nil, err
	}
}

func (c *Client) do(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	client := c.github()

	u := strings.TrimPrefix(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := client.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log.Trace("GET", "path", path, "params", params.Encode())

	var raw json.RawMessage
	if _, err := client.Do(ctx, req, &raw); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("request for %s timed out after %s: %w", path, c.timeout, err)
		}
		return nil, err
	}
	if len(raw) == 0 {
		return Empty, nil
	}
	return raw, nil
}

// classify maps go-github errors onto the package's sentinel errors.
func classify(err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %s", ErrRateLimited, rateErr.Message)
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %s", ErrRateLimited, abuseErr.Message)
	}

	var respErr *gh.ErrorResponse
	if !errors.As(err, &respErr) || respErr.Response == nil {
		return err
	}

	switch status := respErr.Response.StatusCode; {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, respErr.Message)
	case status == http.StatusForbidden && strings.Contains(respErr.Message, "Bad credentials"):
		return fmt.Errorf("%w: %s", ErrUnauthorized, respErr.Message)
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, respErr.Message)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, respErr.Response.Request.URL.Path)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, respErr.Message)
	default:
		return fmt.Errorf("API returned %d: %s", status, respErr.Message)
	}
}

// isFatal reports errors that must not be degraded into empty data.
func isFatal(ctx context.Context, err error) bool {
	return errors.Is(err, ErrUnauthorized) || ctx.Err() != nil
}

// IsFatal reports whether err should stop the whole run rather than a single
// repository. Client methods degrade ErrForbidden; it reaches callers only
// when a repository fetch escalates it.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// AuthenticatedUser returns the authenticated user's login. It is used as a
// token check before a run starts.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.github().Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", classify(err))
	}
	return user.GetLogin(), nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.github().RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", classify(err))
	}
	return limits, nil
}
