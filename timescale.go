package timescale

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-timescale/internal/wsola"
)

// Config holds stream configuration. SampleRate and Channels are fixed
// for the stream's lifetime; the scaling factors may be changed at any
// time through the Stream setters.
type Config struct {
	// SampleRate is the PCM sample rate in Hz. Must be positive.
	SampleRate int

	// Channels is the number of interleaved channels. Must be positive.
	Channels int

	// Speed is the time-scale factor. 2.0 halves the duration while
	// preserving pitch. Zero means the default of 1.0.
	Speed float64

	// Pitch is the pitch scaling factor. 1.3 raises the pitch 30%
	// without changing duration. Zero means the default of 1.0.
	Pitch float64

	// Rate is the playback rate factor: a classic tape-speed change
	// affecting both duration and pitch. Zero means the default of 1.0.
	Rate float64

	// Volume is the output scale factor, clamped to the 16-bit range.
	// Zero means the default of 1.0.
	Volume float64
}

// Common errors returned by the package.
var (
	// ErrInvalidConfig indicates invalid stream configuration.
	ErrInvalidConfig = errors.New("invalid timescale configuration")

	// ErrInvalidFactor indicates a non-positive scaling factor.
	ErrInvalidFactor = errors.New("invalid scaling factor")

	// ErrFrameAlignment indicates a sample slice that does not hold
	// whole interleaved frames.
	ErrFrameAlignment = errors.New("samples not aligned to whole frames")

	// ErrStreamClosed indicates use of a stream after Close.
	ErrStreamClosed = errors.New("stream is closed")
)

// Validate checks the configuration and normalizes zero-valued factors
// to their defaults.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("%w: channels must be positive, got %d", ErrInvalidConfig, c.Channels)
	}
	if c.Channels > maxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, maxChannels)
	}

	if c.Speed == 0 {
		c.Speed = defaultFactor
	}
	if c.Pitch == 0 {
		c.Pitch = defaultFactor
	}
	if c.Rate == 0 {
		c.Rate = defaultFactor
	}
	if c.Volume == 0 {
		c.Volume = defaultFactor
	}

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"speed", c.Speed},
		{"pitch", c.Pitch},
		{"rate", c.Rate},
		{"volume", c.Volume},
	} {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, f.name, f.value)
		}
	}

	return nil
}

// New creates a stream with the specified configuration.
func New(config *Config) (*Stream, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	engine := wsola.NewEngine(config.SampleRate, config.Channels)
	engine.SetSpeed(config.Speed)
	engine.SetPitch(config.Pitch)
	engine.SetRate(config.Rate)
	engine.SetVolume(config.Volume)

	return &Stream{engine: engine}, nil
}

// NewStream creates a stream with default scaling factors (1.0).
// It is the conventional entry point for incremental processing.
func NewStream(sampleRate, channels int) (*Stream, error) {
	return New(&Config{SampleRate: sampleRate, Channels: channels})
}
