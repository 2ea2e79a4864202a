package storefront

import (
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	// FallbackSeconds is the shared countdown shown for items without a live
	// end time.
	FallbackSeconds int64 = 3600

	// msThreshold separates millisecond from second timestamps. Second values
	// after roughly 2033 are misread as milliseconds.
	msThreshold = 2_000_000_000
)

// NormalizeEndTime converts a flash-sale end timestamp to epoch seconds.
// Non-finite input yields 0.
func NormalizeEndTime(raw float64) int64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0
	}
	if raw > msThreshold {
		return int64(math.Floor(raw / 1000))
	}
	return int64(raw)
}

// SoldPercentages expresses each sales count relative to the largest one,
// rounded and clamped to [0,100].
func SoldPercentages(sales []int) []int {
	maxSales := 1
	for _, s := range sales {
		if s > maxSales {
			maxSales = s
		}
	}
	out := make([]int, len(sales))
	for i, s := range sales {
		pct := int(math.Round(100 * float64(s) / float64(maxSales)))
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		out[i] = pct
	}
	return out
}

// FormatHMS renders seconds as HH:MM:SS. Hours are not capped at 24.
func FormatHMS(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// CountdownState is a point-in-time view of the countdown clock.
type CountdownState struct {
	Now      int64 `json:"now"`
	Fallback int64 `json:"fallback"`
}

// Countdown is the process-wide flash-sale clock: wall-clock seconds plus the
// shared fallback countdown. It is safe for concurrent use.
type Countdown struct {
	mu       sync.RWMutex
	clock    func() time.Time
	now      int64
	fallback int64
}

// NewCountdown creates a countdown reading time from clock (time.Now if nil).
func NewCountdown(clock func() time.Time) *Countdown {
	if clock == nil {
		clock = time.Now
	}
	return &Countdown{
		clock:    clock,
		now:      clock().Unix(),
		fallback: FallbackSeconds,
	}
}

// Tick advances the clock. It is called once per second.
func (c *Countdown) Tick() CountdownState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.clock().Unix()
	if c.fallback <= 1 {
		c.fallback = FallbackSeconds
	} else {
		c.fallback--
	}
	return CountdownState{Now: c.now, Fallback: c.fallback}
}

// ResetFallback restarts the shared fallback. Every flash-sale fetch calls it.
func (c *Countdown) ResetFallback() {
	c.mu.Lock()
	c.fallback = FallbackSeconds
	c.mu.Unlock()
}

// Snapshot returns the current clock state.
func (c *Countdown) Snapshot() CountdownState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CountdownState{Now: c.now, Fallback: c.fallback}
}

// Remaining returns the seconds left for an item ending at periodEnd (epoch
// seconds). Items without a future end time get the shared fallback, in which
// case fallback is true.
func (c *Countdown) Remaining(periodEnd int64) (remaining int64, fallback bool) {
	return c.Snapshot().Remaining(periodEnd)
}

// Remaining applies the countdown rule against a fixed state.
func (s CountdownState) Remaining(periodEnd int64) (int64, bool) {
	if periodEnd > 0 && periodEnd > s.Now {
		return periodEnd - s.Now, false
	}
	if s.Fallback > 0 {
		return s.Fallback, true
	}
	return FallbackSeconds, true
}
