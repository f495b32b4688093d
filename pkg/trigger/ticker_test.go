package trigger

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1 kHz
var fastConfig = Config{ClockHz: 1_000_000, Prescale: 4, Period: 249, Mode: NormalPWM}

func TestTicker_FiresWhileEnabled(t *testing.T) {
	tk := NewTicker(Width8)
	var count atomic.Int64
	tk.OnExpire(func() { count.Add(1) })
	require.NoError(t, tk.Configure(fastConfig))

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, count.Load(), "no callbacks before enable")

	require.NoError(t, tk.Enable())
	assert.True(t, tk.Enabled())
	assert.Eventually(t, func() bool { return count.Load() >= 5 }, time.Second, time.Millisecond)

	tk.Disable()
	assert.False(t, tk.Enabled())
	stopped := count.Load()
	assert.Equal(t, uint64(stopped), tk.Expired())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, count.Load(), "no callbacks after disable")
}

func TestTicker_EnableErrors(t *testing.T) {
	tk := NewTicker(Width16)
	assert.ErrorIs(t, tk.Enable(), ErrNotConfigured)

	require.NoError(t, tk.Configure(fastConfig))
	assert.ErrorIs(t, tk.Enable(), ErrNoCallback)
}

func TestTicker_Idempotent(t *testing.T) {
	tk := NewTicker(Width8)
	tk.OnExpire(func() {})
	require.NoError(t, tk.Configure(fastConfig))

	tk.Disable()
	require.NoError(t, tk.Enable())
	require.NoError(t, tk.Enable())
	tk.Disable()
	tk.Disable()
	assert.False(t, tk.Enabled())
}

func TestTicker_DisableWaitsForCallback(t *testing.T) {
	tk := NewTicker(Width8)
	var running, finished atomic.Bool
	tk.OnExpire(func() {
		if finished.Load() {
			return
		}
		running.Store(true)
		time.Sleep(30 * time.Millisecond)
		finished.Store(true)
	})
	require.NoError(t, tk.Configure(fastConfig))
	require.NoError(t, tk.Enable())

	require.Eventually(t, running.Load, time.Second, time.Millisecond)
	tk.Disable()
	assert.True(t, finished.Load(), "disable returned before the callback completed")
}

func TestTicker_NoSelfOverlap(t *testing.T) {
	tk := NewTicker(Width8)
	var active, overlaps, calls atomic.Int32
	tk.OnExpire(func() {
		if active.Add(1) > 1 {
			overlaps.Add(1)
		}
		// longer than the period
		time.Sleep(3 * time.Millisecond)
		active.Add(-1)
		calls.Add(1)
	})
	require.NoError(t, tk.Configure(fastConfig))
	require.NoError(t, tk.Enable())

	assert.Eventually(t, func() bool { return calls.Load() >= 5 }, 2*time.Second, time.Millisecond)
	tk.Disable()
	assert.Zero(t, overlaps.Load())
}
