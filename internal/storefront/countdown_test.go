package storefront

import (
	"math"
	"sync"
	"testing"
	"time"
)

func TestNormalizeEndTime(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{1_700_000_000_000, 1_700_000_000},
		{1_700_000_000, 1_700_000_000},
		{1_700_000_000_999, 1_700_000_000},
		{0, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tc := range cases {
		if got := NormalizeEndTime(tc.in); got != tc.want {
			t.Errorf("NormalizeEndTime(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSoldPercentages(t *testing.T) {
	check := func(in, want []int) {
		t.Helper()
		got := SoldPercentages(in)
		if len(got) != len(want) {
			t.Fatalf("SoldPercentages(%v) = %v, want %v", in, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("SoldPercentages(%v) = %v, want %v", in, got, want)
			}
		}
	}
	check([]int{10, 50, 100}, []int{10, 50, 100})
	check([]int{0, 0, 0}, []int{0, 0, 0})
	check([]int{1, 3}, []int{33, 100})
	check(nil, []int{})
}

func TestFormatHMS(t *testing.T) {
	cases := map[int64]string{
		0:      "00:00:00",
		59:     "00:00:59",
		3600:   "01:00:00",
		3661:   "01:01:01",
		100000: "27:46:40",
	}
	for in, want := range cases {
		if got := FormatHMS(in); got != want {
			t.Errorf("FormatHMS(%d) = %q, want %q", in, got, want)
		}
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestCountdownRealEndTimeDecreases(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := NewCountdown(clock.Now)
	end := clock.Now().Unix() + 3600

	prev, fallback := c.Remaining(end)
	if fallback || prev != 3600 {
		t.Fatalf("expected 3600 real seconds, got %d (fallback=%v)", prev, fallback)
	}
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		c.Tick()
		got, fallback := c.Remaining(end)
		if fallback {
			t.Fatal("real end time should not use the fallback")
		}
		if got >= prev {
			t.Fatalf("countdown did not decrease: %d -> %d", prev, got)
		}
		prev = got
	}
}

func TestCountdownFallback(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := NewCountdown(clock.Now)

	got, fallback := c.Remaining(0)
	if !fallback || got != FallbackSeconds {
		t.Fatalf("expected fallback %d, got %d", FallbackSeconds, got)
	}

	// An end time in the past also uses the fallback.
	c.Tick()
	got, fallback = c.Remaining(clock.Now().Unix() - 10)
	if !fallback || got != FallbackSeconds-1 {
		t.Fatalf("expected fallback %d, got %d", FallbackSeconds-1, got)
	}

	c.ResetFallback()
	if s := c.Snapshot(); s.Fallback != FallbackSeconds {
		t.Fatalf("ResetFallback left %d", s.Fallback)
	}
}

func TestCountdownFallbackWraps(t *testing.T) {
	c := NewCountdown(nil)
	for i := 0; i < int(FallbackSeconds)-1; i++ {
		c.Tick()
	}
	if s := c.Snapshot(); s.Fallback != 1 {
		t.Fatalf("expected fallback 1, got %d", s.Fallback)
	}
	if s := c.Tick(); s.Fallback != FallbackSeconds {
		t.Fatalf("expected reset to %d, got %d", FallbackSeconds, s.Fallback)
	}
}
