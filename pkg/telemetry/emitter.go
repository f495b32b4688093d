package telemetry

import (
	"context"
	"io"
	"time"

	"github.com/itohio/golpf/pkg/display"
	"github.com/itohio/golpf/pkg/sampling"
)

// Source is the part of a running voltmeter the emitter reads.
type Source interface {
	Snapshot() sampling.Snapshot
	Digits() display.Digits
}

// Emitter periodically writes telemetry lines. It only reads published
// snapshots and never blocks the sampling path.
type Emitter struct {
	w   io.Writer
	src Source
	buf []byte
}

// NewEmitter creates an emitter writing to w.
func NewEmitter(w io.Writer, src Source) *Emitter {
	return &Emitter{
		w:   w,
		src: src,
		buf: make([]byte, 0, 48),
	}
}

// Emit writes one line stamped with now.
func (e *Emitter) Emit(now time.Time) error {
	e.buf = AppendLine(e.buf[:0], FrameOf(now, e.src.Snapshot(), e.src.Digits()))
	_, err := e.w.Write(e.buf)
	return err
}

// Run emits a line every interval until ctx is done or a write fails.
func (e *Emitter) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := e.Emit(now); err != nil {
				return err
			}
		}
	}
}
