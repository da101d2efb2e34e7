package meshgradient

import (
	"fmt"
	"math"
	"time"
)

// Animation selects how a Clock produces time values.
// It is either Animated or Static.
type Animation interface {
	fmt.Stringer
	animation()
}

// Animated advances time with the wall clock. Speed scales the rate;
// 1 is normal speed and 0 freezes the field at time 0.
type Animated struct {
	Speed float64
}

// Static pins time to a fixed value.
type Static struct {
	Time float64
}

func (Animated) animation() {}
func (Static) animation()   {}

// String implements fmt.Stringer.
func (a Animated) String() string { return fmt.Sprintf("animated(speed=%g)", a.Speed) }

// String implements fmt.Stringer.
func (s Static) String() string { return fmt.Sprintf("static(time=%g)", s.Time) }

// Clock converts wall-clock instants into field time values.
// A Clock is immutable; switch modes with WithMode.
type Clock struct {
	mode  Animation
	epoch time.Time
}

// NewClock creates a clock whose epoch is the current instant.
// A nil mode means Animated{Speed: 1}.
func NewClock(mode Animation) *Clock {
	return NewClockAt(mode, time.Now())
}

// NewClockAt creates a clock with an explicit epoch.
func NewClockAt(mode Animation, epoch time.Time) *Clock {
	if mode == nil {
		mode = Animated{Speed: 1}
	}
	return &Clock{mode: mode, epoch: epoch}
}

// Mode returns the clock's animation mode.
func (c *Clock) Mode() Animation { return c.mode }

// Epoch returns the instant animated time is measured from.
func (c *Clock) Epoch() time.Time { return c.epoch }

// WithMode returns a clock with the same epoch and a different mode.
func (c *Clock) WithMode(mode Animation) *Clock {
	return NewClockAt(mode, c.epoch)
}

// Time returns the field time at now.
//
// In Animated mode this is (seconds since epoch × speed) wrapped into
// [0, WrapPeriod). Wrapping after scaling keeps the animation seamless at
// any speed because the field itself repeats every WrapPeriod. A
// non-finite speed is treated as 1.
//
// Two details differ from a renderer that computes
// (seconds since a fixed reference date mod WrapPeriod) × speed. Elapsed
// time is measured from the clock's own epoch, so two clocks started at
// different instants show different phases. Wrapping happens after the
// speed is applied, so at a fractional speed such as 0.5 the result runs
// through the whole [0, WrapPeriod) range instead of jumping back at
// every wrap of the elapsed seconds.
//
// In Static mode the pinned time is returned unchanged.
func (c *Clock) Time(now time.Time) float64 {
	switch m := c.mode.(type) {
	case Static:
		return m.Time
	case Animated:
		speed := m.Speed
		if !isFinite(speed) {
			speed = 1
		}
		return WrapTime(now.Sub(c.epoch).Seconds() * speed)
	}
	return 0
}

// WrapTime maps t into [0, WrapPeriod). Non-finite input yields 0.
func WrapTime(t float64) float64 {
	if !isFinite(t) {
		return 0
	}
	t = math.Mod(t, WrapPeriod)
	if t < 0 {
		t += WrapPeriod
	}
	if t >= WrapPeriod {
		t = 0
	}
	return t
}
