package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeLimiterStore struct {
	allowed bool
	count   int64
	err     error
	scopes  []string
}

func (f *fakeLimiterStore) FixedWindowAllow(_ context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	f.scopes = append(f.scopes, scope)
	return f.allowed, f.count, f.err
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	store := &fakeLimiterStore{allowed: true, count: 1}
	policy := NewRateLimitPolicy("api", time.Minute, 10)
	handler := RateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(SessionIDHeader, "sess-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(store.scopes) != 1 || store.scopes[0] != "api:sess-1" {
		t.Fatalf("unexpected scopes %v", store.scopes)
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	store := &fakeLimiterStore{allowed: false, count: 11}
	policy := NewRateLimitPolicy("api", time.Minute, 10)
	called := false
	handler := RateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(SessionIDHeader, "sess-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
	if called {
		t.Fatal("next handler must not run when blocked")
	}
}

func TestRateLimitFallsBackToClientIP(t *testing.T) {
	store := &fakeLimiterStore{allowed: true}
	policy := NewRateLimitPolicy("api", time.Minute, 10)
	handler := RateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if len(store.scopes) != 1 || store.scopes[0] != "api:203.0.113.9" {
		t.Fatalf("unexpected scopes %v", store.scopes)
	}
}

func TestRateLimitDisabledPolicySkipsStore(t *testing.T) {
	store := &fakeLimiterStore{}
	handler := RateLimit(RateLimitPolicy{}, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(store.scopes) != 0 {
		t.Fatalf("store must not be consulted when the policy is disabled")
	}
}
