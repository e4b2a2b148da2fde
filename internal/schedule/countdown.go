// Package schedule implements the auto-refresh countdown.
//
// The countdown holds no timer of its own. The UI asks it for a Tick token
// when enabling, delivers that token back once per second, and asks Advance
// whether a fetch is due. Disabling or re-enabling invalidates every token
// already handed out, so a tick scheduled before the change is dropped
// instead of firing.
package schedule

import (
	"fmt"
	"time"
)

// DefaultPeriod is the refresh period used when none is configured.
const DefaultPeriod = 10 * time.Second

// Step is how often the countdown is advanced.
const Step = time.Second

// Tick identifies the countdown generation a scheduled step belongs to.
type Tick uint64

// Countdown is the toggle-controlled refresh countdown. The zero value is
// disabled with DefaultPeriod.
type Countdown struct {
	period    time.Duration
	enabled   bool
	remaining int
	gen       Tick
}

// New returns a disabled countdown. Periods shorter than one step are
// rounded up to one step.
func New(period time.Duration) *Countdown {
	return &Countdown{period: period}
}

// Period returns the refresh period.
func (c *Countdown) Period() time.Duration {
	if c.period <= 0 {
		return DefaultPeriod
	}
	if c.period < Step {
		return Step
	}
	return c.period
}

func (c *Countdown) steps() int {
	return int(c.Period() / Step)
}

// SetPeriod changes the refresh period. A running countdown keeps its
// generation but never waits longer than the new period.
func (c *Countdown) SetPeriod(d time.Duration) {
	c.period = d
	if c.enabled && c.remaining > c.steps() {
		c.remaining = c.steps()
	}
}

// Enable starts a fresh countdown at the full period and returns the token
// to schedule the first step with. Enabling an enabled countdown restarts it.
func (c *Countdown) Enable() Tick {
	c.gen++
	c.enabled = true
	c.remaining = c.steps()
	return c.gen
}

// Disable stops the countdown. Steps already scheduled become stale.
func (c *Countdown) Disable() {
	c.gen++
	c.enabled = false
	c.remaining = 0
}

// Toggle flips the countdown. It returns the token to schedule and true when
// the countdown was turned on.
func (c *Countdown) Toggle() (Tick, bool) {
	if c.enabled {
		c.Disable()
		return 0, false
	}
	return c.Enable(), true
}

// Advance consumes one step. ok is false when t is stale or the countdown is
// disabled; the caller must then stop scheduling steps. fire is true when
// the countdown reached zero, in which case it has already been reset.
func (c *Countdown) Advance(t Tick) (fire, ok bool) {
	if !c.enabled || t != c.gen {
		return false, false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = c.steps()
		return true, true
	}
	return false, true
}

// Enabled reports whether the countdown is running.
func (c *Countdown) Enabled() bool {
	return c.enabled
}

// Remaining returns the seconds left until the next fetch.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Label describes the countdown for the status bar.
func (c *Countdown) Label() string {
	if !c.enabled {
		return "Auto-refresh Disabled"
	}
	return fmt.Sprintf("Refreshing in %d seconds...", c.remaining)
}
