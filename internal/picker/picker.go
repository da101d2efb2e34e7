// Package picker holds the interactive state shared by the demo
// commands: the selected preset palette and the animation clock.
package picker

import (
	"slices"
	"time"

	"github.com/gogpu/meshgradient"
)

// Speed limits for Faster and Slower.
const (
	MinSpeed = 0.125
	MaxSpeed = 8
)

// State is the picker selection. The zero value is not usable; call New.
//
// State is NOT safe for concurrent use.
type State struct {
	preset int
	speed  float64
	clock  *meshgradient.Clock
}

// New returns a picker showing the default preset, animated at normal
// speed from now.
func New(now time.Time) *State {
	return &State{
		preset: meshgradient.DefaultPreset,
		speed:  1,
		clock:  meshgradient.NewClockAt(meshgradient.Animated{Speed: 1}, now),
	}
}

// Preset returns the selected preset size.
func (s *State) Preset() int {
	return s.preset
}

// Select chooses the preset with n colors. Sizes without a preset select
// the default preset.
func (s *State) Select(n int) {
	if _, ok := meshgradient.Preset(n); !ok {
		n = meshgradient.DefaultPreset
	}
	s.preset = n
}

// Next selects the following preset, wrapping from the last to the first.
func (s *State) Next() {
	s.step(1)
}

// Prev selects the previous preset, wrapping from the first to the last.
func (s *State) Prev() {
	s.step(-1)
}

func (s *State) step(d int) {
	counts := meshgradient.PresetCounts()
	i := slices.Index(counts, s.preset)
	if i < 0 {
		s.preset = meshgradient.DefaultPreset
		return
	}
	s.preset = counts[(i+d+len(counts))%len(counts)]
}

// Colors returns the palette of the selected preset.
func (s *State) Colors() []meshgradient.Color {
	colors, _ := meshgradient.Preset(s.preset)
	return colors
}

// Animated reports whether the clock follows the wall clock.
func (s *State) Animated() bool {
	_, ok := s.clock.Mode().(meshgradient.Animated)
	return ok
}

// Speed returns the animation speed. It is kept while paused.
func (s *State) Speed() float64 {
	return s.speed
}

// Clock returns the current animation clock.
func (s *State) Clock() *meshgradient.Clock {
	return s.clock
}

// Time returns the field time at now.
func (s *State) Time(now time.Time) float64 {
	return s.clock.Time(now)
}

// ToggleAnimation pauses or resumes the animation at now. Pausing pins
// the current time; resuming continues from it without a jump.
func (s *State) ToggleAnimation(now time.Time) {
	t := s.clock.Time(now)
	if s.Animated() {
		s.clock = s.clock.WithMode(meshgradient.Static{Time: t})
		return
	}
	s.clock = resume(t, s.speed, now)
}

// Faster doubles the speed up to MaxSpeed.
func (s *State) Faster(now time.Time) {
	s.setSpeed(min(s.speed*2, MaxSpeed), now)
}

// Slower halves the speed down to MinSpeed.
func (s *State) Slower(now time.Time) {
	s.setSpeed(max(s.speed/2, MinSpeed), now)
}

func (s *State) setSpeed(speed float64, now time.Time) {
	s.speed = speed
	if s.Animated() {
		s.clock = resume(s.clock.Time(now), speed, now)
	}
}

// resume returns an animated clock that reads t at now.
func resume(t, speed float64, now time.Time) *meshgradient.Clock {
	epoch := now.Add(-time.Duration(t / speed * float64(time.Second)))
	return meshgradient.NewClockAt(meshgradient.Animated{Speed: speed}, epoch)
}
