package flash

import (
	"math"
	"time"
)

// Default progress timing: flashing the gateway image takes about 12 minutes
// 50 seconds, advanced in 10 second ticks of 100/77 points each.
const (
	DefaultProgressTotal = 770 * time.Second
	DefaultProgressTick  = 10 * time.Second
)

// Estimator produces a monotonically increasing percentage from elapsed
// wall-clock time. It is a heuristic clock, not a measured confirmation: the
// percentage tracks how long a flash usually takes, never how far this one
// actually got. Do not replace it with a throughput-based measure without
// flagging the change; consumers depend on the current timing.
type Estimator struct {
	tick       time.Duration
	step       float64
	totalTicks int
	ticks      int
	percent    float64
}

// NewEstimator builds an estimator that reaches 100 after total has elapsed
// in increments of one tick. Non-positive arguments fall back to the
// defaults.
func NewEstimator(total, tick time.Duration) *Estimator {
	if total <= 0 {
		total = DefaultProgressTotal
	}
	if tick <= 0 {
		tick = DefaultProgressTick
	}
	totalTicks := int(math.Ceil(float64(total) / float64(tick)))
	return &Estimator{
		tick:       tick,
		step:       100 / float64(totalTicks),
		totalTicks: totalTicks,
	}
}

// TickInterval returns the interval between ticks, after defaulting.
func (e *Estimator) TickInterval() time.Duration { return e.tick }

// Tick advances one interval and returns the new percentage. The final tick
// lands on exactly 100; once there the estimator stops permanently and
// further ticks have no effect.
func (e *Estimator) Tick() float64 {
	if e.ticks >= e.totalTicks {
		return e.percent
	}
	e.ticks++
	if e.ticks == e.totalTicks {
		e.percent = 100
	} else {
		e.percent += e.step
	}
	return e.percent
}

// Percent returns the current percentage, in [0, 100].
func (e *Estimator) Percent() float64 { return e.percent }

// Done reports whether the estimator has reached 100.
func (e *Estimator) Done() bool { return e.ticks >= e.totalTicks }
