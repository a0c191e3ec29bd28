package router_test

import (
	"testing"

	"github.com/dinoair/servicerouter/internal/router"
)

func TestRateLimiter_ZeroOrNegativeRPMDisables(t *testing.T) {
	limiter := router.NewRateLimiter()
	for i := 0; i < 20; i++ {
		if err := limiter.Allow("svc", 0); err != nil {
			t.Fatalf("call %d: Allow() error = %v, want nil (rpm<=0 disables limiting)", i, err)
		}
	}
}

func TestRateLimiter_PerServiceIsolation(t *testing.T) {
	limiter := router.NewRateLimiter()
	if err := limiter.Allow("a", 1); err != nil {
		t.Fatalf("Allow(a) error = %v", err)
	}
	if err := limiter.Allow("b", 1); err != nil {
		t.Fatalf("Allow(b) error = %v, want a's admission not to affect b", err)
	}
	if err := limiter.Allow("a", 1); err == nil {
		t.Fatal("Allow(a) second call error = nil, want rate limit exceeded")
	}
}

func TestRateLimiter_ErrorMessageNamesRPM(t *testing.T) {
	limiter := router.NewRateLimiter()
	limiter.Allow("svc", 1)
	err := limiter.Allow("svc", 1)
	if err == nil {
		t.Fatal("Allow() error = nil, want rate limit exceeded")
	}
	if err.Error() != "rate limit exceeded: 1 rpm" {
		t.Errorf("Allow() error = %q, want %q", err.Error(), "rate limit exceeded: 1 rpm")
	}
}
