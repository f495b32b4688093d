package history

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/itohio/golpf/pkg/sample"
	"github.com/stretchr/testify/assert"
)

// TestRecorder_GracefulShutdown_NoCallbacksAfterClose tests that the recorder
// stops sending callbacks after the input channel is closed.
func TestRecorder_GracefulShutdown_NoCallbacksAfterClose(t *testing.T) {
	r := NewWindow(10 * time.Second)

	var callbackCount atomic.Int32
	r.OnUpdate(func(samples []sample.Sample, stats Stats) {
		callbackCount.Add(1)
	})

	input := make(chan sample.Sample, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Process(input)
	}()

	now := time.Now()
	for i := 0; i < 3; i++ {
		input <- sample.Sample{
			Timestamp: now.Add(time.Duration(i) * time.Second),
			Input:     float64(i) * 0.1,
		}
	}
	close(input)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Process did not return after input closed")
	}
	assert.Equal(t, int32(3), callbackCount.Load())

	// A new chain without ResetShutdown stores samples but stays silent
	input2 := make(chan sample.Sample, 1)
	input2 <- sample.Sample{Timestamp: now.Add(3 * time.Second)}
	close(input2)
	r.Process(input2)

	assert.Equal(t, int32(3), callbackCount.Load())
	assert.Len(t, r.Samples(), 4)
}

// TestRecorder_ResetShutdown tests that callbacks resume after ResetShutdown.
func TestRecorder_ResetShutdown(t *testing.T) {
	r := NewWindow(10 * time.Second)

	var callbackCount atomic.Int32
	r.OnUpdate(func(samples []sample.Sample, stats Stats) {
		callbackCount.Add(1)
	})

	input := make(chan sample.Sample)
	close(input)
	r.Process(input)

	r.ResetShutdown()

	input2 := make(chan sample.Sample, 1)
	input2 <- sample.Sample{Timestamp: time.Now()}
	close(input2)
	r.Process(input2)

	assert.Equal(t, int32(1), callbackCount.Load())
}
