//go:build !tinygo

package telemetry

// Device defines the interface for telemetry sources (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Frames() <-chan Frame
	IsConnected() bool
}

var _ Device = (*Serial)(nil)

var _ Device = (*Mock)(nil)
