// Package testutil provides the test-side collaborators of the
// time-scale engine: synthesized input signals and the statistical
// operators used to verify pitch preservation without exact waveform
// matching. Nothing here is used by the engine itself.
package testutil

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Default amplitude for synthesized 16-bit test signals, kept below
// full scale to leave headroom for cross-fade rounding.
const DefaultAmplitude = 32000

// SineCycle returns exactly one cycle of a sinusoid with the given
// period in frames. Repeating the cycle yields a perfectly periodic
// signal, which keeps the period estimator's task unambiguous.
func SineCycle(amplitude float64, periodFrames int) []int16 {
	cycle := make([]int16, periodFrames)
	for i := range cycle {
		cycle[i] = int16(amplitude * math.Sin(float64(i)*2*math.Pi/float64(periodFrames)))
	}
	return cycle
}

// Repeat concatenates count copies of the given frames.
func Repeat(frames []int16, count int) []int16 {
	out := make([]int16, 0, len(frames)*count)
	for i := 0; i < count; i++ {
		out = append(out, frames...)
	}
	return out
}

// Chirp returns a linear chirp sweeping from f0 Hz to f1 Hz over
// seconds seconds, mono 16-bit PCM.
func Chirp(sampleRate int, f0, f1, seconds, amplitude float64) []int16 {
	frames := int(seconds * float64(sampleRate))
	out := make([]int16, frames)
	for i := range out {
		t := float64(i) / float64(sampleRate)
		// Phase in cycles: f0*t + (f1-f0)/duration * t^2/2.
		phase := f0*t + (f1-f0)/seconds*t*t/2
		out[i] = int16(amplitude * math.Sin(2*math.Pi*phase))
	}
	return out
}

// GaussianNoise returns frames of zero-mean Gaussian noise with the
// given standard deviation in sample units, clamped to the 16-bit
// range. The seed makes runs reproducible.
func GaussianNoise(frames int, sigma float64, seed uint64) []int16 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: sigma,
		Src:   rand.NewPCG(seed, seed),
	}
	out := make([]int16, frames)
	for i := range out {
		v := dist.Rand()
		switch {
		case v > 32000:
			out[i] = 32000
		case v < -32000:
			out[i] = -32000
		default:
			out[i] = int16(v)
		}
	}
	return out
}

// Duplicate interleaves a mono signal into an N-channel signal with
// every channel identical, the input shape for channel phase-lock
// verification.
func Duplicate(mono []int16, channels int) []int16 {
	out := make([]int16, 0, len(mono)*channels)
	for _, s := range mono {
		for c := 0; c < channels; c++ {
			out = append(out, s)
		}
	}
	return out
}

// Deinterleave extracts one channel from an interleaved signal.
func Deinterleave(interleaved []int16, channels, channel int) []int16 {
	frames := len(interleaved) / channels
	out := make([]int16, frames)
	for i := range out {
		out[i] = interleaved[i*channels+channel]
	}
	return out
}
