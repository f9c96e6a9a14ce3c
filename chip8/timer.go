package chip8

import "time"

// TimerHz is the rate at which the delay and sound timers count down.
const TimerHz = 60

const tickPeriod = time.Second / TimerHz

// Clock is the time source for the timers. Implementations must be
// monotonic; the default uses time.Now, whose readings carry Go's monotonic
// clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// timer is one of the two 8-bit countdown registers together with the
// moment it was last decremented (or written).
type timer struct {
	value byte
	last  time.Time
}

// set stores a new value and restarts the reference clock.
func (t *timer) set(value byte, now time.Time) {
	t.value = value
	t.last = now
}

// decay removes one unit once a full tick has elapsed since the reference
// timestamp, and restarts the reference at now. A single call never takes
// off more than one unit.
func (t *timer) decay(now time.Time) {
	if t.value == 0 {
		return
	}

	if now.Sub(t.last) < tickPeriod {
		return
	}
	t.value--
	t.last = now
}
