// Package clock provides the per-session heartbeat that drives game time.
// Each running session owns exactly one Clock ticking once per interval; the
// tick callback reports whether the session still needs a heartbeat, letting
// terminal sessions stop their own clock.
package clock

import (
	"sync"
	"time"
)

// Clock drives a session's recurring tick on its own goroutine
type Clock struct {
	cancel   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Start begins ticking at the given interval, invoking tick until it returns
// false or the clock is stopped. tick returning false means the session no
// longer needs a heartbeat and the goroutine exits on its own.
func Start(interval time.Duration, tick func() bool) *Clock {
	c := &Clock{
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go c.run(interval, tick)
	return c
}

func (c *Clock) run(interval time.Duration, tick func() bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			if !tick() {
				return
			}
		case <-c.cancel:
			return
		}
	}
}

// Stop halts the clock. Safe to call repeatedly and after the clock has
// already stopped itself.
func (c *Clock) Stop() {
	c.stopOnce.Do(func() { close(c.cancel) })
}

// Done returns a channel closed once the clock goroutine has exited
func (c *Clock) Done() <-chan struct{} {
	return c.done
}
