package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeClock_StartsAtEpoch(t *testing.T) {
	c := NewFakeClock(time.Time{})
	assert.Equal(t, Epoch, c.Now())
	assert.Equal(t, time.Duration(0), c.Elapsed())
}

func TestFakeClock_AdvanceMovesTime(t *testing.T) {
	c := NewFakeClock(time.Time{})

	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, Epoch.Add(1500*time.Millisecond), c.Now())
	assert.Equal(t, 1500*time.Millisecond, c.Elapsed())
}

func TestFakeClock_FiresDueTimersInOrder(t *testing.T) {
	c := NewFakeClock(time.Time{})

	var fired []string
	c.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "c") })
	c.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "a") })
	c.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "b") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "late") })

	c.Advance(500 * time.Millisecond)

	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Equal(t, 1, c.Pending())
}

func TestFakeClock_CallbackSeesDeadline(t *testing.T) {
	c := NewFakeClock(time.Time{})

	var at time.Time
	c.AfterFunc(200*time.Millisecond, func() { at = c.Now() })
	c.Advance(time.Second)

	assert.Equal(t, Epoch.Add(200*time.Millisecond), at)
	assert.Equal(t, Epoch.Add(time.Second), c.Now())
}

func TestFakeClock_RescheduleFromCallback(t *testing.T) {
	c := NewFakeClock(time.Time{})

	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(3500 * time.Millisecond)

	assert.Equal(t, 3, ticks)
	assert.Equal(t, 1, c.Pending())
}

func TestFakeClock_Stop(t *testing.T) {
	c := NewFakeClock(time.Time{})

	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	require.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestFakeClock_Reset(t *testing.T) {
	c := NewFakeClock(time.Time{})
	c.AfterFunc(time.Second, func() {})
	c.Advance(500 * time.Millisecond)

	c.Reset()

	assert.Equal(t, Epoch, c.Now())
	assert.Equal(t, 0, c.Pending())
}
