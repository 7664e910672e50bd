package signal

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	rl := NewJoinRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !rl.Allow("u1") {
			t.Fatalf("attempt %d blocked under the limit", i+1)
		}
	}
	if rl.Allow("u1") {
		t.Error("attempt over the limit allowed")
	}
}

func TestRateLimiterIsPerIdentity(t *testing.T) {
	rl := NewJoinRateLimiter(1, time.Minute)
	if !rl.Allow("u1") {
		t.Fatal("first attempt blocked")
	}
	if !rl.Allow("u2") {
		t.Error("other identity throttled by u1's attempts")
	}
}

func TestRateLimiterWindowExpires(t *testing.T) {
	rl := NewJoinRateLimiter(1, 30*time.Millisecond)
	if !rl.Allow("u1") {
		t.Fatal("first attempt blocked")
	}
	if rl.Allow("u1") {
		t.Fatal("second attempt inside the window allowed")
	}
	time.Sleep(40 * time.Millisecond)
	if !rl.Allow("u1") {
		t.Error("attempt after the window expired still blocked")
	}
}

func TestRateLimiterZeroLimitDisables(t *testing.T) {
	rl := NewJoinRateLimiter(0, time.Minute)
	for i := 0; i < 10; i++ {
		if !rl.Allow("u1") {
			t.Fatal("disabled limiter blocked an attempt")
		}
	}
}
