package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimiter_AdmitsUpToMax(t *testing.T) {
	l := New(20, time.Minute)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		if err := l.Allow(ctx, "token"); err != nil {
			t.Fatalf("request %d rejected: %v", i+1, err)
		}
	}

	if err := l.Allow(ctx, "token"); !errors.Is(err, ErrLimited) {
		t.Errorf("21st request: expected ErrLimited, got %v", err)
	}
}

func TestLimiter_WindowReset(t *testing.T) {
	now := time.Now()
	l := New(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	_ = l.Allow(ctx, "token")
	_ = l.Allow(ctx, "token")
	if err := l.Allow(ctx, "token"); !errors.Is(err, ErrLimited) {
		t.Fatalf("expected ErrLimited, got %v", err)
	}

	// Window elapses; the next admission opens a fresh window at count 1.
	now = now.Add(61 * time.Second)
	if err := l.Allow(ctx, "token"); err != nil {
		t.Fatalf("expected admission after window reset, got %v", err)
	}
	if err := l.Allow(ctx, "token"); err != nil {
		t.Fatalf("expected second admission in fresh window, got %v", err)
	}
	if err := l.Allow(ctx, "token"); !errors.Is(err, ErrLimited) {
		t.Errorf("expected ErrLimited in fresh window, got %v", err)
	}
}

func TestLimiter_TokensAreIndependent(t *testing.T) {
	l := New(1, time.Minute)
	ctx := context.Background()

	if err := l.Allow(ctx, "a"); err != nil {
		t.Fatalf("token a rejected: %v", err)
	}
	if err := l.Allow(ctx, "a"); !errors.Is(err, ErrLimited) {
		t.Fatalf("expected token a limited, got %v", err)
	}
	if err := l.Allow(ctx, "b"); err != nil {
		t.Errorf("token b should be unaffected, got %v", err)
	}
}
