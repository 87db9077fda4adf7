// Package wsola implements the waveform-similarity overlap-add engine
// behind the public timescale API. It consumes period-aligned segments
// from an input buffer and synthesizes time-scaled output by skipping
// or repeating pitch periods with a cross-faded splice, preserving the
// perceived pitch of the material while changing its duration.
package wsola

import (
	"github.com/tphakala/go-audio-timescale/internal/buffer"
	"github.com/tphakala/go-audio-timescale/internal/period"
)

// Engine drives one stream's processing pipeline. It owns the input
// and output frame buffers, the period estimator, and the current
// speed/pitch/rate/volume factors. All methods are synchronous and
// bounded by the amount of buffered data; an Engine is not safe for
// concurrent use.
type Engine struct {
	sampleRate int
	channels   int

	speed  float64
	pitch  float64
	rate   float64
	volume float64

	input   *buffer.FrameBuffer[int16]
	output  *buffer.FrameBuffer[int16]
	rateBuf *buffer.FrameBuffer[int16]

	estimator *period.Estimator

	// window is the reference-channel scratch for period estimation,
	// reused across analysis windows.
	window []float64

	// maxRequired is the analysis window length in frames: enough
	// input for the estimator plus one synthesis step.
	maxRequired int

	// remainingInputToCopy spreads moderate speed factors (between
	// 0.5x and 2x) over copy runs between splices.
	remainingInputToCopy int

	// Rate-conversion positions, in reduced sample-rate units.
	oldRatePosition int
	newRatePosition int
}

// NewEngine creates an engine for the given stream configuration.
// Arguments are validated by the public package; sampleRate and
// channels must be positive.
func NewEngine(sampleRate, channels int) *Engine {
	est := period.NewEstimator(sampleRate)
	maxRequired := est.WindowFrames()
	return &Engine{
		sampleRate:  sampleRate,
		channels:    channels,
		speed:       1.0,
		pitch:       1.0,
		rate:        1.0,
		volume:      1.0,
		input:       buffer.New[int16](channels, maxRequired),
		output:      buffer.New[int16](channels, maxRequired),
		rateBuf:     buffer.New[int16](channels, 0),
		estimator:   est,
		window:      make([]float64, maxRequired),
		maxRequired: maxRequired,
	}
}

// SetSpeed changes the speed factor applied to input processed from now
// on. Already-produced output is unaffected.
func (e *Engine) SetSpeed(speed float64) { e.speed = speed }

// SetPitch changes the pitch scaling factor. Pitch shifting composes a
// compensating speed change with a rate change, so duration stays fixed
// while the spectrum moves.
func (e *Engine) SetPitch(pitch float64) { e.pitch = pitch }

// SetRate changes the playback rate factor (classic tape-speed change:
// affects both duration and pitch).
func (e *Engine) SetRate(rate float64) { e.rate = rate }

// SetVolume changes the output volume scale factor.
func (e *Engine) SetVolume(volume float64) { e.volume = volume }

// Speed returns the current speed factor.
func (e *Engine) Speed() float64 { return e.speed }

// Pitch returns the current pitch factor.
func (e *Engine) Pitch() float64 { return e.pitch }

// Rate returns the current rate factor.
func (e *Engine) Rate() float64 { return e.rate }

// Volume returns the current volume factor.
func (e *Engine) Volume() float64 { return e.volume }

// SampleRate returns the fixed stream sample rate.
func (e *Engine) SampleRate() int { return e.sampleRate }

// Channels returns the fixed stream channel count.
func (e *Engine) Channels() int { return e.channels }

// Latency returns the input-side latency in frames: the engine holds
// back at most one analysis window before producing output.
func (e *Engine) Latency() int { return e.maxRequired }

// InputFrames returns the number of frames buffered but not yet consumed.
func (e *Engine) InputFrames() int { return e.input.Len() }

// OutputFrames returns the number of frames available to read.
func (e *Engine) OutputFrames() int { return e.output.Len() }

// Write appends interleaved frames to the input buffer and immediately
// processes as much as the buffered input supports. Read-side callers
// only ever observe already-produced output.
func (e *Engine) Write(samples []int16) {
	e.input.Append(samples)
	e.processInput()
}

// ReadTo drains up to len(dst)/channels frames from the output buffer
// into dst, FIFO order, returning the frame count. 0 means no output
// is available yet, which is starvation, not failure.
func (e *Engine) ReadTo(dst []int16) int {
	return e.output.ReadTo(dst)
}

// Read drains up to maxFrames frames from the output buffer.
func (e *Engine) Read(maxFrames int) []int16 {
	return e.output.Read(maxFrames)
}

// Flush marks end of input for the current run and forces the engine
// to emit its best terminal segment from the remaining sub-window
// input. The input is padded with silence so a final full analysis
// window exists, then the output is trimmed to the frame count the
// consumed input actually accounts for, discarding synthesis of the
// padding. After Flush the output buffer drains to empty via Read.
func (e *Engine) Flush() {
	speed := e.speed / e.pitch
	rate := e.rate * e.pitch
	remaining := e.input.Len()
	expected := e.output.Len() +
		int((float64(remaining)/speed+float64(e.rateBuf.Len()))/rate+flushRounding)

	e.input.AppendZero(2 * e.maxRequired)
	e.processInput()

	e.output.Truncate(expected)

	e.input.Clear()
	e.rateBuf.Clear()
	e.estimator.Reset()
	e.remainingInputToCopy = 0
	e.oldRatePosition = 0
	e.newRatePosition = 0
}

// processInput runs the pipeline over all currently satisfiable
// analysis windows: time-scale synthesis, then rate conversion, then
// volume scaling, each applied only to newly produced frames.
func (e *Engine) processInput() {
	producedBefore := e.output.Len()
	speed := e.speed / e.pitch
	rate := e.rate * e.pitch

	if speed > 1.0+speedEpsilon || speed < 1.0-speedEpsilon {
		e.changeSpeed(speed)
	} else {
		// Identity speed: pass frames through unchanged, consuming
		// input at the rate it is produced.
		n := e.input.Len()
		if n > 0 {
			e.output.Append(e.input.Slice(0, n))
			e.input.Drop(n)
		}
	}

	if rate != 1.0 {
		e.adjustRate(rate, producedBefore)
	}
	if e.volume != 1.0 {
		e.scaleOutput(producedBefore)
	}
}

// changeSpeed synthesizes time-scaled output one pitch period at a
// time while a full analysis window remains buffered, then drops the
// consumed frames from the input buffer in one bulk removal.
func (e *Engine) changeSpeed(speed float64) {
	frames := e.input.Len()
	if frames < e.maxRequired {
		return
	}

	pos := 0
	for {
		if e.remainingInputToCopy > 0 {
			pos += e.copyRun(pos)
		} else {
			p := e.findPitchPeriod(pos)
			if speed > 1.0 {
				pos += p + e.skipPitchPeriod(pos, speed, p)
			} else {
				pos += e.insertPitchPeriod(pos, speed, p)
			}
		}
		if pos+e.maxRequired > frames {
			break
		}
	}
	e.input.Drop(pos)
}

// copyRun copies pending unmodified frames during a moderate-speed
// copy run, bounded by one analysis window per step.
func (e *Engine) copyRun(pos int) int {
	n := e.remainingInputToCopy
	if n > e.maxRequired {
		n = e.maxRequired
	}
	e.output.Append(e.input.Slice(pos, pos+n))
	e.remainingInputToCopy -= n
	return n
}

// findPitchPeriod extracts the reference channel (channel 0) of the
// analysis window starting at pos and runs the period estimator on it.
// Boundary decisions derived from this single channel are applied
// identically to every channel, which keeps multichannel output
// phase-locked (a monaural signal and its N-channel duplicate produce
// bit-identical per-channel output).
func (e *Engine) findPitchPeriod(pos int) int {
	window := e.input.Slice(pos, pos+e.maxRequired)
	ref := e.window[:e.maxRequired]
	ch := e.channels
	for i := range ref {
		ref[i] = float64(window[i*ch])
	}
	p, _ := e.estimator.Estimate(ref)
	return p
}

// scaleOutput applies the volume factor to frames produced after the
// from frame index, clamping to the int16 range.
func (e *Engine) scaleOutput(from int) {
	samples := e.output.Slice(from, e.output.Len())
	for i, s := range samples {
		v := float64(s) * e.volume
		switch {
		case v > maxSampleValue:
			samples[i] = maxSampleValue
		case v < minSampleValue:
			samples[i] = minSampleValue
		default:
			samples[i] = int16(v)
		}
	}
}
