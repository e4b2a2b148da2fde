package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownFiresOncePerPeriod(t *testing.T) {
	c := New(DefaultPeriod)
	tick := c.Enable()
	assert.Equal(t, 10, c.Remaining())

	fires := 0
	for i := 0; i < 30; i++ {
		fire, ok := c.Advance(tick)
		require.True(t, ok)
		if fire {
			fires++
			assert.Equal(t, 10, c.Remaining(), "resets after firing")
		}
	}
	assert.Equal(t, 3, fires)
}

func TestCountdownDisableDropsPendingTicks(t *testing.T) {
	c := New(DefaultPeriod)
	tick := c.Enable()

	c.Disable()
	fire, ok := c.Advance(tick)
	assert.False(t, fire)
	assert.False(t, ok)
	assert.False(t, c.Enabled())
}

func TestCountdownReenableRestarts(t *testing.T) {
	c := New(DefaultPeriod)
	old := c.Enable()
	for i := 0; i < 7; i++ {
		c.Advance(old)
	}
	require.Equal(t, 3, c.Remaining())

	c.Disable()
	fresh := c.Enable()

	assert.Equal(t, 10, c.Remaining(), "re-enabling starts from the full period")
	_, ok := c.Advance(old)
	assert.False(t, ok, "tick from the earlier run is stale")
	_, ok = c.Advance(fresh)
	assert.True(t, ok)
	assert.Equal(t, 9, c.Remaining())
}

func TestCountdownToggle(t *testing.T) {
	c := New(0)

	tick, on := c.Toggle()
	assert.True(t, on)
	assert.NotZero(t, tick)

	_, on = c.Toggle()
	assert.False(t, on)
	_, ok := c.Advance(tick)
	assert.False(t, ok)
}

func TestCountdownPeriod(t *testing.T) {
	assert.Equal(t, DefaultPeriod, New(0).Period())
	assert.Equal(t, Step, New(200*time.Millisecond).Period())
	assert.Equal(t, 3*time.Second, New(3*time.Second).Period())
}

func TestCountdownLabel(t *testing.T) {
	c := New(DefaultPeriod)
	assert.Equal(t, "Auto-refresh Disabled", c.Label())

	tick := c.Enable()
	assert.Equal(t, "Refreshing in 10 seconds...", c.Label())
	c.Advance(tick)
	assert.Equal(t, "Refreshing in 9 seconds...", c.Label())
}

func TestCountdownSetPeriod(t *testing.T) {
	c := New(DefaultPeriod)
	tick := c.Enable()

	c.SetPeriod(3 * time.Second)
	assert.Equal(t, 3, c.Remaining(), "shortened period caps the wait")

	_, ok := c.Advance(tick)
	assert.True(t, ok, "changing the period keeps pending ticks valid")

	c.SetPeriod(time.Minute)
	assert.Equal(t, 2, c.Remaining(), "lengthened period applies from the next cycle")
	assert.Equal(t, time.Minute, c.Period())
}
