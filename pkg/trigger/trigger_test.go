package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Interval(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		width Width
		want  time.Duration
		freq  float64
	}{
		{
			name:  "sampling 1 kHz",
			cfg:   Config{ClockHz: 1_000_000, Prescale: 4, Period: 249, Mode: NormalPWM},
			width: Width8,
			want:  time.Millisecond,
			freq:  1000,
		},
		{
			name:  "display match frequency",
			cfg:   Config{ClockHz: 8_000_000, Prescale: 32, Period: 0x50, Mode: MatchFrequency},
			width: Width16,
			want:  324 * time.Microsecond,
			freq:  3086.42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Interval(tt.width))
			assert.InDelta(t, tt.freq, tt.cfg.Frequency(tt.width), 0.01)
		})
	}
}

func TestConfig_IntervalPerMode(t *testing.T) {
	tests := []struct {
		mode  Mode
		width Width
		want  time.Duration
	}{
		{mode: NormalFrequency, width: Width8, want: 256 * time.Microsecond},
		{mode: NormalFrequency, width: Width16, want: 65536 * time.Microsecond},
		{mode: MatchFrequency, width: Width8, want: 10 * time.Microsecond},
		{mode: NormalPWM, width: Width8, want: 10 * time.Microsecond},
		{mode: MatchPWM, width: Width16, want: 10 * time.Microsecond},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			cfg := Config{ClockHz: 1_000_000, Prescale: 1, Period: 9, Mode: tt.mode}
			assert.Equal(t, tt.want, cfg.Interval(tt.width))
			assert.InDelta(t, float64(time.Second)/float64(tt.want), cfg.Frequency(tt.width), 1e-6)
		})
	}
}

func TestMode_Top(t *testing.T) {
	assert.Equal(t, uint32(255), NormalFrequency.Top(Width8, 9))
	assert.Equal(t, uint32(65535), NormalFrequency.Top(Width16, 9))
	assert.Equal(t, uint32(9), MatchFrequency.Top(Width16, 9))
	assert.Equal(t, uint32(9), NormalPWM.Top(Width8, 9))
	assert.Equal(t, uint32(9), MatchPWM.Top(Width8, 9))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		width   Width
		wantErr error
	}{
		{
			name:  "8-bit fits",
			cfg:   Config{ClockHz: 1_000_000, Prescale: 4, Period: 255},
			width: Width8,
		},
		{
			name:    "8-bit overflow",
			cfg:     Config{ClockHz: 1_000_000, Prescale: 4, Period: 256},
			width:   Width8,
			wantErr: ErrPeriodRange,
		},
		{
			name:  "16-bit fits",
			cfg:   Config{ClockHz: 1_000_000, Prescale: 4, Period: 256},
			width: Width16,
		},
		{
			name:    "16-bit overflow",
			cfg:     Config{ClockHz: 1_000_000, Prescale: 4, Period: 1 << 16},
			width:   Width16,
			wantErr: ErrPeriodRange,
		},
		{
			name:    "zero clock",
			cfg:     Config{Prescale: 4, Period: 10},
			width:   Width16,
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "zero prescale",
			cfg:     Config{ClockHz: 1000, Period: 10},
			width:   Width16,
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "unknown mode",
			cfg:     Config{ClockHz: 1000, Prescale: 1, Period: 10, Mode: 9},
			width:   Width16,
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.width)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWidth_Max(t *testing.T) {
	assert.Equal(t, uint32(255), Width8.Max())
	assert.Equal(t, uint32(65535), Width16.Max())
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "MFRQ", MatchFrequency.String())
	assert.Equal(t, "unknown", Mode(42).String())
}
