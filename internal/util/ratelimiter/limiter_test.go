package ratelimiter

import (
	"sync"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		keys     []string
		delays   []time.Duration // delays before each Allow() call
		want     []bool          // expected Allow() results
	}{
		{
			name:     "first call always allowed",
			interval: 100 * time.Millisecond,
			keys:     []string{"a"},
			delays:   []time.Duration{0},
			want:     []bool{true},
		},
		{
			name:     "second call for same key is blocked",
			interval: 100 * time.Millisecond,
			keys:     []string{"a", "a"},
			delays:   []time.Duration{0, 0},
			want:     []bool{true, false},
		},
		{
			name:     "keys are independent",
			interval: 100 * time.Millisecond,
			keys:     []string{"a", "b", "a", "b"},
			delays:   []time.Duration{0, 0, 0, 0},
			want:     []bool{true, true, false, false},
		},
		{
			name:     "call after interval is allowed",
			interval: 50 * time.Millisecond,
			keys:     []string{"a", "a"},
			delays:   []time.Duration{0, 60 * time.Millisecond},
			want:     []bool{true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := New(tt.interval)

			for i, delay := range tt.delays {
				if delay > 0 {
					time.Sleep(delay)
				}

				allowed, waitTime := limiter.Allow(tt.keys[i])
				if allowed != tt.want[i] {
					t.Errorf("call %d: Allow(%q) = %v, want %v", i, tt.keys[i], allowed, tt.want[i])
				}

				if !allowed && waitTime <= 0 {
					t.Errorf("call %d: blocked but waitTime = %v, want > 0", i, waitTime)
				}
				if allowed && waitTime != 0 {
					t.Errorf("call %d: allowed but waitTime = %v, want 0", i, waitTime)
				}
			}
		})
	}
}

func TestLimiter_Forget(t *testing.T) {
	limiter := New(time.Second)

	if allowed, _ := limiter.Allow("view-1"); !allowed {
		t.Fatal("first call should be allowed")
	}
	if allowed, _ := limiter.Allow("view-1"); allowed {
		t.Fatal("second call should be blocked")
	}

	limiter.Forget("view-1")

	if allowed, _ := limiter.Allow("view-1"); !allowed {
		t.Fatal("call after Forget should be allowed")
	}
}

func TestLimiter_PrunesExpiredKeys(t *testing.T) {
	limiter := New(20 * time.Millisecond)
	limiter.Allow("a")
	limiter.Allow("b")
	if got := limiter.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	time.Sleep(30 * time.Millisecond)
	limiter.Allow("c")

	if got := limiter.Len(); got != 1 {
		t.Errorf("Len() after prune = %d, want 1", got)
	}
}

func TestLimiter_Interval(t *testing.T) {
	interval := 42 * time.Second
	limiter := New(interval)

	if got := limiter.Interval(); got != interval {
		t.Errorf("Interval() = %v, want %v", got, interval)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := New(100 * time.Millisecond)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	// Launch 100 goroutines simultaneously
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _ := limiter.Allow("shared")
			if allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	// Only one should be allowed
	if allowedCount != 1 {
		t.Errorf("concurrent calls: %d allowed, want exactly 1", allowedCount)
	}
}

func TestLimiter_WaitTimeAccuracy(t *testing.T) {
	limiter := New(100 * time.Millisecond)

	limiter.Allow("a")

	allowed, waitTime := limiter.Allow("a")
	if allowed {
		t.Fatal("second call should be blocked")
	}

	// Wait time should be close to interval
	if waitTime < 80*time.Millisecond || waitTime > 110*time.Millisecond {
		t.Errorf("waitTime = %v, want close to 100ms", waitTime)
	}
}
