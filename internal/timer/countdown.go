package timer

import (
	"fmt"
	"sync"
	"time"
)

// Options configures a Countdown. Interval defaults to one second; tests
// shrink it so timer-driven behavior can be exercised quickly.
type Options struct {
	Interval time.Duration
	OnTick   func(remaining int)
	OnExpire func()
}

// Countdown emits decrementing remaining-seconds ticks once per interval,
// stops at zero, and invokes the expiry action exactly once. Stop is safe
// to call at any time, from any goroutine, and more than once; after Stop
// returns no further tick or expiry callback fires.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	stopped   bool
	expired   bool
	done      chan struct{}

	onTick   func(remaining int)
	onExpire func()
}

// Start arms a countdown of the given number of seconds. A non-positive
// duration is treated as already expired and fires the expiry action
// immediately.
func Start(seconds int, opts Options) *Countdown {
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}

	c := &Countdown{
		remaining: seconds,
		done:      make(chan struct{}),
		onTick:    opts.OnTick,
		onExpire:  opts.OnExpire,
	}

	if seconds <= 0 {
		c.remaining = 0
		c.expire()
		return c
	}

	go c.run(interval)
	return c
}

func (c *Countdown) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.stopped {
				c.mu.Unlock()
				return
			}
			c.remaining--
			remaining := c.remaining
			onTick := c.onTick
			c.mu.Unlock()

			if onTick != nil {
				onTick(remaining)
			}
			if remaining <= 0 {
				c.expire()
				return
			}
		}
	}
}

func (c *Countdown) expire() {
	c.mu.Lock()
	if c.stopped || c.expired {
		c.mu.Unlock()
		return
	}
	c.expired = true
	c.stopped = true
	close(c.done)
	onExpire := c.onExpire
	c.mu.Unlock()

	if onExpire != nil {
		onExpire()
	}
}

// Stop halts the countdown without firing the expiry action.
func (c *Countdown) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	close(c.done)
	c.mu.Unlock()
}

// Remaining returns the seconds left on the countdown.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining < 0 {
		return 0
	}
	return c.remaining
}

// Expired reports whether the countdown ran to zero.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

// FormatSeconds renders a second count as M:SS. Zero and negative values
// render as 0:00.
func FormatSeconds(total int) string {
	if total <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
