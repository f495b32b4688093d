package history

import (
	"sync"
	"testing"
	"time"

	"github.com/itohio/golpf/pkg/config"
	"github.com/itohio/golpf/pkg/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(r *Recorder, samples []sample.Sample) {
	in := make(chan sample.Sample, len(samples))
	for _, s := range samples {
		in <- s
	}
	close(in)
	r.Process(in)
}

func TestNew_WindowFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Display.WindowSeconds = 2.5
	r := New(cfg)
	assert.Equal(t, 2500*time.Millisecond, r.Window())
	assert.Empty(t, r.Samples())
}

func TestRecorder_WindowTrim(t *testing.T) {
	r := NewWindow(time.Second)
	now := time.Now()

	samples := make([]sample.Sample, 30)
	for i := range samples {
		samples[i] = sample.Sample{
			Timestamp: now.Add(time.Duration(i) * 100 * time.Millisecond),
			Input:     float64(i),
		}
	}
	feed(r, samples)

	got := r.Samples()
	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, samples[29], last)
	for _, s := range got {
		assert.True(t, s.Timestamp.After(last.Timestamp.Add(-time.Second)),
			"sample %v outside window", s.Timestamp)
	}
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].Timestamp.After(got[i-1].Timestamp))
	}
	assert.LessOrEqual(t, len(got), 11)
}

func TestRecorder_SamplesIsCopy(t *testing.T) {
	r := NewWindow(time.Minute)
	feed(r, []sample.Sample{{Timestamp: time.Now(), Input: 1}})

	got := r.Samples()
	got[0].Input = 42
	assert.Equal(t, 1.0, r.Samples()[0].Input)
}

func TestRecorder_Stats(t *testing.T) {
	r := NewWindow(time.Minute)
	now := time.Now()
	feed(r, []sample.Sample{
		{Timestamp: now, Input: 1.0, Output: 1.4},
		{Timestamp: now.Add(time.Millisecond), Input: 2.0, Output: 1.5},
		{Timestamp: now.Add(2 * time.Millisecond), Input: 3.0, Output: 1.6},
	})

	st := r.Stats()
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, 1.0, st.InputMin)
	assert.Equal(t, 3.0, st.InputMax)
	assert.InDelta(t, 2.0, st.InputAvg, 1e-9)
	assert.InDelta(t, 1.5, st.OutputAvg, 1e-9)
	assert.InDelta(t, 2.0, st.InputRipple(), 1e-9)
	assert.InDelta(t, 0.2, st.OutputRipple(), 1e-9)
	assert.InDelta(t, 0.1, st.Attenuation(), 1e-9)
}

func TestStats_Empty(t *testing.T) {
	st := NewWindow(time.Second).Stats()
	assert.Zero(t, st.Count)
	assert.Zero(t, st.Attenuation())
}

func TestRecorder_Clear(t *testing.T) {
	r := NewWindow(time.Minute)
	feed(r, []sample.Sample{{Timestamp: time.Now()}})
	r.Clear()
	assert.Empty(t, r.Samples())
}

func TestRecorder_OnUpdate(t *testing.T) {
	r := NewWindow(time.Minute)

	var mu sync.Mutex
	var counts []int
	r.OnUpdate(func(samples []sample.Sample, stats Stats) {
		mu.Lock()
		defer mu.Unlock()
		counts = append(counts, stats.Count)
		assert.Equal(t, len(samples), stats.Count)
	})

	now := time.Now()
	feed(r, []sample.Sample{
		{Timestamp: now},
		{Timestamp: now.Add(time.Millisecond)},
		{Timestamp: now.Add(2 * time.Millisecond)},
	})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3}, counts)
}

func TestRecorder_NonPositiveWindowStaysBounded(t *testing.T) {
	for _, window := range []time.Duration{0, -time.Second} {
		r := NewWindow(window)
		now := time.Now()

		samples := make([]sample.Sample, 1000)
		for i := range samples {
			samples[i] = sample.Sample{Timestamp: now.Add(time.Duration(i) * time.Millisecond)}
		}
		feed(r, samples)

		got := r.Samples()
		require.Len(t, got, 1, "window %v", window)
		assert.Equal(t, samples[999], got[0])
	}
}

func TestRecorder_SetWindow(t *testing.T) {
	r := NewWindow(10 * time.Second)
	now := time.Now()

	samples := make([]sample.Sample, 50)
	for i := range samples {
		samples[i] = sample.Sample{Timestamp: now.Add(time.Duration(i) * 100 * time.Millisecond)}
	}
	feed(r, samples)
	require.Len(t, r.Samples(), 50)

	r.SetWindow(time.Second)
	assert.Equal(t, time.Second, r.Window())

	got := r.Samples()
	assert.Len(t, got, 10)
	assert.Equal(t, samples[49], got[len(got)-1])
}
