package service

import "time"

// SetTimingForTest shrinks the heartbeat and celebration timers so tests can
// observe timer-driven behavior quickly. It returns a restore function.
func SetTimingForTest(tick, celebration time.Duration) (restore func()) {
	prevTick, prevCelebration := tickInterval, celebrationDelay
	tickInterval = tick
	celebrationDelay = celebration
	return func() {
		tickInterval = prevTick
		celebrationDelay = prevCelebration
	}
}
