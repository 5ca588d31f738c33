package ghclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{
		Token:          "test-token",
		APIURL:         srv.URL,
		RequestTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(c.Release)
	return c, srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestNewClient(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		_, err := NewClient(ClientConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GITHUB_TOKEN")
	})

	t.Run("token from environment", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")
		c, err := NewClient(ClientConfig{})
		require.NoError(t, err)
		assert.Equal(t, "https://api.github.com/", c.baseURL.String())
	})

	t.Run("trailing slash added", func(t *testing.T) {
		c, err := NewClient(ClientConfig{Token: "x", APIURL: "https://ghe.example.com/api/v3"})
		require.NoError(t, err)
		assert.Equal(t, "https://ghe.example.com/api/v3/", c.baseURL.String())
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := NewClient(ClientConfig{Token: "x", APIURL: "not a url"})
		require.Error(t, err)
	})
}

func TestGetSendsHeaders(t *testing.T) {
	var auth, accept string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		accept = r.Header.Get("Accept")
		writeJSON(w, http.StatusOK, `{"ok":true}`)
	})

	raw, err := c.Get(context.Background(), "/repos/octo/widget", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Equal(t, "Bearer test-token", auth)
	assert.Equal(t, "application/vnd.github.v3+json", accept)
}

func TestGetDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{"message":"Not Found"}`},
		{"server error", http.StatusInternalServerError, `{"message":"boom"}`},
		{"bad gateway", http.StatusBadGateway, ``},
		{"forbidden", http.StatusForbidden, `{"message":"Resource not accessible"}`},
		{"unprocessable", http.StatusUnprocessableEntity, `{"message":"Validation Failed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			raw, err := c.Get(context.Background(), "repos/octo/widget", nil)
			require.NoError(t, err)
			assert.Equal(t, Empty, raw)
		})
	}
}

func TestGetUnauthorized(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"401", http.StatusUnauthorized},
		{"403 bad credentials", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, `{"message":"Bad credentials"}`)
			})

			_, err := c.Get(context.Background(), "repos/octo/widget", nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnauthorized), "got %v", err)
			assert.True(t, IsFatal(err))
		})
	}
}

func TestGetNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	apiURL := srv.URL
	srv.Close()

	c, err := NewClient(ClientConfig{Token: "x", APIURL: apiURL, RequestTimeout: time.Second})
	require.NoError(t, err)

	raw, err := c.Get(context.Background(), "repos/octo/widget", nil)
	require.NoError(t, err)
	assert.Equal(t, Empty, raw)
}

func TestGetRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{Token: "x", APIURL: srv.URL, RequestTimeout: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(c.Release)

	raw, err := c.Get(context.Background(), "repos/octo/widget", nil)
	require.NoError(t, err, "a per-request timeout degrades instead of failing")
	assert.Equal(t, Empty, raw)
}

func TestGetCanceledContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "repos/octo/widget", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.True(t, IsFatal(err))
}

func TestGetUpdatesRateLimitState(t *testing.T) {
	reset := time.Now().Add(time.Hour).Unix()
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "42")
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		writeJSON(w, http.StatusInternalServerError, `{"message":"boom"}`)
	})

	_, err := c.Get(context.Background(), "repos/octo/widget", nil)
	require.NoError(t, err)

	status := c.RateLimitStatus()
	assert.Equal(t, 42, status.Remaining)
	assert.Equal(t, 5000, status.Limit)
	assert.Equal(t, reset, status.ResetAt.Unix())
	assert.False(t, status.Limited)
}

func TestGetMissingHeadersKeepState(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("X-RateLimit-Remaining", "4000")
			w.Header().Set("X-RateLimit-Limit", "5000")
		}
		writeJSON(w, http.StatusOK, `{}`)
	})

	for range 2 {
		_, err := c.Get(context.Background(), "repos/octo/widget", nil)
		require.NoError(t, err)
	}

	status := c.RateLimitStatus()
	assert.Equal(t, 4000, status.Remaining)
	assert.Equal(t, 5000, status.Limit)
}

func TestGetWaitsBelowLowWatermark(t *testing.T) {
	reset := time.Unix(time.Now().Add(2*time.Second).Unix(), 0)
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "5000")
		if calls.Add(1) == 1 {
			w.Header().Set("X-RateLimit-Remaining", "3")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
		} else {
			w.Header().Set("X-RateLimit-Remaining", "4999")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Add(time.Hour).Unix(), 10))
		}
		writeJSON(w, http.StatusOK, `{}`)
	})

	_, err := c.Get(context.Background(), "repos/octo/widget", nil)
	require.NoError(t, err)
	require.True(t, c.RateLimitStatus().Limited)

	before := time.Now()
	_, err = c.Get(context.Background(), "repos/octo/widget", nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(before), reset.Sub(before)-10*time.Millisecond)

	status := c.RateLimitStatus()
	assert.Equal(t, 4999, status.Remaining)
	assert.True(t, status.ResetAt.Equal(reset.Add(time.Hour)), "ResetAt = %v", status.ResetAt)
	assert.False(t, status.Limited)
}

func TestGetRetriesAfterRateLimitReset(t *testing.T) {
	reset := time.Unix(time.Now().Add(2*time.Second).Unix(), 0)
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Limit", "5000")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
			writeJSON(w, http.StatusForbidden, `{"message":"API rate limit exceeded"}`)
			return
		}
		w.Header().Set("X-RateLimit-Remaining", "4999")
		w.Header().Set("X-RateLimit-Limit", "5000")
		writeJSON(w, http.StatusOK, `{"name":"widget"}`)
	})

	before := time.Now()
	raw, err := c.Get(context.Background(), "repos/octo/widget", nil)
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"widget"}`, string(raw))
	assert.Equal(t, int32(2), calls.Load())
	assert.GreaterOrEqual(t, time.Since(before), reset.Sub(before)-10*time.Millisecond)
}

func TestGetWaitHonorsCancellation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})
	c.limits.Update(0, 5000, time.Now().Add(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx, "repos/octo/widget", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestRelease(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"call":%d}`, calls.Load()))
	})

	c.Release() // no session yet

	_, err := c.Get(context.Background(), "repos/octo/widget", nil)
	require.NoError(t, err)
	require.NotNil(t, c.session)

	c.Release()
	c.Release()
	assert.Nil(t, c.session)

	raw, err := c.Get(context.Background(), "repos/octo/widget", nil)
	require.NoError(t, err)

	var body struct{ Call int }
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 2, body.Call)
}

func TestAuthenticatedUser(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			writeJSON(w, http.StatusNotFound, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"login":"octocat"}`)
	})

	login, err := c.AuthenticatedUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octocat", login)
}

func TestAuthenticatedUserRejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"Bad credentials"}`)
	})

	_, err := c.AuthenticatedUser(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}
