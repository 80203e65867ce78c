package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountdown_TicksDownAndExpiresOnce(t *testing.T) {
	var expirations int32
	var lastTick int32 = -1

	c := Start(3, Options{
		Interval: 5 * time.Millisecond,
		OnTick:   func(remaining int) { atomic.StoreInt32(&lastTick, int32(remaining)) },
		OnExpire: func() { atomic.AddInt32(&expirations, 1) },
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&expirations) == 1
	}, time.Second, time.Millisecond)

	assert.Equal(t, 0, c.Remaining())
	assert.True(t, c.Expired())
	assert.Equal(t, int32(0), atomic.LoadInt32(&lastTick))

	// No second expiry after the fact.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&expirations))
}

func TestCountdown_StopSuppressesExpiry(t *testing.T) {
	var expirations int32

	c := Start(2, Options{
		Interval: 5 * time.Millisecond,
		OnExpire: func() { atomic.AddInt32(&expirations, 1) },
	})

	c.Stop()
	c.Stop() // idempotent

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&expirations))
	assert.False(t, c.Expired())
}

func TestCountdown_NonPositiveDurationExpiresImmediately(t *testing.T) {
	var expirations int32

	c := Start(0, Options{
		OnExpire: func() { atomic.AddInt32(&expirations, 1) },
	})

	assert.Equal(t, int32(1), atomic.LoadInt32(&expirations))
	assert.Equal(t, 0, c.Remaining())
}

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0:00"},
		{-5, "0:00"},
		{9, "0:09"},
		{60, "1:00"},
		{75, "1:15"},
		{1800, "30:00"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatSeconds(tc.in), "FormatSeconds(%d)", tc.in)
	}
}
