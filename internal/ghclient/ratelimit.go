package ghclient

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/spiffcs/scout/internal/constants"
	"github.com/spiffcs/scout/internal/log"
)

// defaultExhaustedWait is used when the server reports an exhausted quota
// without telling us when it resets.
const defaultExhaustedWait = time.Minute

// RateLimitState tracks the rate limit quota reported by the GitHub API.
// It is shared by every request a Client makes, including concurrent ones.
type RateLimitState struct {
	mu        sync.Mutex
	remaining int // -1 until the first response carries the header
	limit     int
	resetAt   time.Time

	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	onWait func(resetAt time.Time)
}

// RateLimitStatus is a point-in-time copy of a RateLimitState.
type RateLimitStatus struct {
	Remaining int
	Limit     int
	ResetAt   time.Time
	Limited   bool
}

// NewRateLimitState creates a state with an unknown quota.
func NewRateLimitState() *RateLimitState {
	return &RateLimitState{
		remaining: -1,
		limit:     -1,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Update records the values of the rate limit headers. Negative counts and a
// zero reset time mean the header was absent and leave the field untouched.
func (s *RateLimitState) Update(remaining, limit int, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if remaining >= 0 {
		s.remaining = remaining
	}
	if limit >= 0 {
		s.limit = limit
	}
	if !resetAt.IsZero() {
		s.resetAt = resetAt
	}
}

// MarkExhausted records that the server refused a request for quota reasons.
// The next Wait blocks until resetAt.
func (s *RateLimitState) MarkExhausted(resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remaining = 0
	if resetAt.IsZero() {
		resetAt = s.now().Add(defaultExhaustedWait)
	}
	s.resetAt = resetAt
}

// Status returns the current rate limit status.
func (s *RateLimitState) Status() RateLimitStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return RateLimitStatus{
		Remaining: s.remaining,
		Limit:     s.limit,
		ResetAt:   s.resetAt,
		Limited:   s.waitLocked() > 0,
	}
}

// Wait blocks until the quota window resets when the remaining quota is below
// the low watermark. It returns early with the context's error.
func (s *RateLimitState) Wait(ctx context.Context) error {
	s.mu.Lock()
	d := s.waitLocked()
	resetAt := s.resetAt
	remaining := s.remaining
	s.mu.Unlock()

	if d <= 0 {
		return nil
	}
	if d > constants.MaxRateLimitWait {
		log.Warn("rate limit reset is far away, capping wait",
			"resets_at", resetAt.Format(time.RFC3339), "wait", constants.MaxRateLimitWait)
		d = constants.MaxRateLimitWait
	}

	log.Info("rate limit reached, waiting for reset",
		"remaining", remaining, "wait", d.Round(100*time.Millisecond))
	if s.onWait != nil {
		s.onWait(s.now().Add(d))
	}
	return s.sleep(ctx, d)
}

func (s *RateLimitState) waitLocked() time.Duration {
	if s.remaining < 0 || s.remaining >= constants.RateLimitLowWatermark {
		return 0
	}
	return s.resetAt.Sub(s.now())
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// rateLimitTransport wraps an http.RoundTripper to record GitHub rate limits
type rateLimitTransport struct {
	limits *RateLimitState
	base   http.RoundTripper
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	// Error responses carry the headers too
	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	t.limits.Update(remaining, limit, resetAt)

	if remaining >= 0 && remaining < constants.RateLimitLowWatermark {
		log.Debug("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
	}

	if quotaExhausted(resp) {
		until := resetAt
		if retryAfter, ok := parseRetryAfter(resp); ok {
			until = t.limits.now().Add(retryAfter)
		}
		log.Debug("rate limit exhausted", "status", resp.StatusCode, "resets_at", until.Format(time.RFC3339))
		t.limits.MarkExhausted(until)
	}

	return resp, nil
}

// quotaExhausted reports a primary (403 with no remaining quota) or secondary
// (429, or 403 with Retry-After) rate limit response.
func quotaExhausted(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.Header.Get("Retry-After") != ""
	default:
		return false
	}
}

// parseRateLimitHeaders extracts rate limit info from response headers.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if remainingStr := resp.Header.Get("X-RateLimit-Remaining"); remainingStr != "" {
		if rem, err := strconv.Atoi(remainingStr); err == nil {
			remaining = rem
		}
	}

	if limitStr := resp.Header.Get("X-RateLimit-Limit"); limitStr != "" {
		if lim, err := strconv.Atoi(limitStr); err == nil {
			limit = lim
		}
	}

	if resetStr := resp.Header.Get("X-RateLimit-Reset"); resetStr != "" {
		if resetTime, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			resetAt = time.Unix(resetTime, 0)
		}
	}

	return remaining, limit, resetAt
}

func parseRetryAfter(resp *http.Response) (time.Duration, bool) {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
