package timescale

import (
	"fmt"

	"github.com/tphakala/go-audio-timescale/internal/wsola"
)

// Stream is an incremental time-scale modification pipeline. Frames
// written to it are processed eagerly; time-scaled output accumulates
// in an internal buffer drained by Read or ReadTo.
//
// A Stream is not safe for concurrent use; see the package
// documentation for the concurrency contract.
type Stream struct {
	engine *wsola.Engine
}

// SampleRate returns the fixed stream sample rate in Hz.
func (s *Stream) SampleRate() int {
	if s.engine == nil {
		return 0
	}
	return s.engine.SampleRate()
}

// Channels returns the fixed stream channel count.
func (s *Stream) Channels() int {
	if s.engine == nil {
		return 0
	}
	return s.engine.Channels()
}

// Speed returns the current speed factor.
func (s *Stream) Speed() float64 {
	if s.engine == nil {
		return 0
	}
	return s.engine.Speed()
}

// Pitch returns the current pitch factor.
func (s *Stream) Pitch() float64 {
	if s.engine == nil {
		return 0
	}
	return s.engine.Pitch()
}

// Rate returns the current rate factor.
func (s *Stream) Rate() float64 {
	if s.engine == nil {
		return 0
	}
	return s.engine.Rate()
}

// Volume returns the current volume factor.
func (s *Stream) Volume() float64 {
	if s.engine == nil {
		return 0
	}
	return s.engine.Volume()
}

// SetSpeed changes the speed factor. The new factor applies to input
// processed after this call; already-produced output is unaffected.
func (s *Stream) SetSpeed(factor float64) error {
	return s.setFactor("speed", factor, s.engine.SetSpeed)
}

// SetPitch changes the pitch scaling factor.
func (s *Stream) SetPitch(factor float64) error {
	return s.setFactor("pitch", factor, s.engine.SetPitch)
}

// SetRate changes the playback rate factor.
func (s *Stream) SetRate(factor float64) error {
	return s.setFactor("rate", factor, s.engine.SetRate)
}

// SetVolume changes the output volume factor.
func (s *Stream) SetVolume(factor float64) error {
	return s.setFactor("volume", factor, s.engine.SetVolume)
}

func (s *Stream) setFactor(name string, factor float64, set func(float64)) error {
	if s.engine == nil {
		return ErrStreamClosed
	}
	if factor <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidFactor, name, factor)
	}
	set(factor)
	return nil
}

// Write appends interleaved 16-bit PCM frames to the stream and
// processes as much buffered input as the analysis window allows.
// len(samples) must be a multiple of the channel count. Write never
// blocks; output produced by this call is available to Read
// immediately.
func (s *Stream) Write(samples []int16) error {
	if s.engine == nil {
		return ErrStreamClosed
	}
	if len(samples)%s.engine.Channels() != 0 {
		return fmt.Errorf("%w: %d samples for %d channels",
			ErrFrameAlignment, len(samples), s.engine.Channels())
	}
	s.engine.Write(samples)
	return nil
}

// WriteFloat64 is like Write but for float64 samples in [-1, 1].
// Samples are converted to 16-bit PCM at the boundary; the engine core
// processes a single representation so the pipeline logic is not
// duplicated per sample format.
func (s *Stream) WriteFloat64(samples []float64) error {
	if s.engine == nil {
		return ErrStreamClosed
	}
	converted := make([]int16, len(samples))
	for i, v := range samples {
		switch {
		case v >= 1.0:
			converted[i] = sampleMax
		case v <= -1.0:
			converted[i] = sampleMin
		default:
			converted[i] = int16(v * sampleScale)
		}
	}
	return s.Write(converted)
}

// Read removes and returns up to maxFrames frames from the front of
// the output buffer. An empty result means no output is available yet,
// not an error; write more input or flush, then read again.
func (s *Stream) Read(maxFrames int) []int16 {
	if s.engine == nil {
		return nil
	}
	return s.engine.Read(maxFrames)
}

// ReadTo fills dst with output frames, FIFO order, and returns the
// number of frames written. dst should hold whole frames; 0 means no
// output was available.
func (s *Stream) ReadTo(dst []int16) int {
	if s.engine == nil {
		return 0
	}
	return s.engine.ReadTo(dst)
}

// ReadFloat64 is like Read but returns float64 samples in [-1, 1].
func (s *Stream) ReadFloat64(maxFrames int) []float64 {
	if s.engine == nil {
		return nil
	}
	raw := s.engine.Read(maxFrames)
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v) / sampleScale
	}
	return out
}

// Flush marks end of input for the current run and forces the engine
// to emit its terminal segment from any sub-window remainder. After
// Flush, repeated Read calls drain the remaining output until they
// return 0 frames. The stream may be reused for a new run afterwards.
func (s *Stream) Flush() error {
	if s.engine == nil {
		return ErrStreamClosed
	}
	s.engine.Flush()
	return nil
}

// InputFrames returns the number of frames buffered but not yet
// consumed by synthesis.
func (s *Stream) InputFrames() int {
	if s.engine == nil {
		return 0
	}
	return s.engine.InputFrames()
}

// OutputFrames returns the number of frames currently available to Read.
func (s *Stream) OutputFrames() int {
	if s.engine == nil {
		return 0
	}
	return s.engine.OutputFrames()
}

// Latency returns the input-side latency in frames: the most input the
// engine holds back before producing output.
func (s *Stream) Latency() int {
	if s.engine == nil {
		return 0
	}
	return s.engine.Latency()
}

// Close releases the stream's buffers. Further operations return
// ErrStreamClosed; closing an already-closed stream does too, so a
// double close is detectable rather than silently ignored.
func (s *Stream) Close() error {
	if s.engine == nil {
		return ErrStreamClosed
	}
	s.engine = nil
	return nil
}
