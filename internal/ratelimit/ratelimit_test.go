package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestKeyedRateLimiter_BurstThenBlock(t *testing.T) {
	// OTP issuance policy shape: slow refill, small burst per phone.
	rl := New(1.0/60, 3)
	defer rl.Stop()

	phone := "0521234567"
	for i := 0; i < 3; i++ {
		if !rl.Allow(phone) {
			t.Fatalf("request %d within burst should pass", i+1)
		}
	}
	if rl.Allow(phone) {
		t.Error("fourth request should be blocked until refill")
	}
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	rl.Allow("0521111111")
	if rl.Allow("0521111111") {
		t.Error("exhausted phone should be blocked")
	}
	if !rl.Allow("0522222222") {
		t.Error("a different phone must not share the bucket")
	}
}

func TestKeyedRateLimiter_Wait(t *testing.T) {
	rl := New(10, 1)
	defer rl.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := rl.Wait(ctx, "login:host@example.com"); err != nil {
		t.Fatalf("first Wait() failed: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("first Wait() should be immediate")
	}

	// Second call refills at 10 rps, so roughly 100ms.
	start = time.Now()
	if err := rl.Wait(ctx, "login:host@example.com"); err != nil {
		t.Fatalf("second Wait() failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond || elapsed > 200*time.Millisecond {
		t.Errorf("second Wait() took %v, want ~100ms", elapsed)
	}
}

func TestKeyedRateLimiter_WaitContextCancelled(t *testing.T) {
	rl := New(0.1, 1)
	defer rl.Stop()

	rl.Allow("0521234567") // exhaust the burst

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "0521234567"); err == nil {
		t.Error("Wait() should fail when the context is canceled")
	}
}
