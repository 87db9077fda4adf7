// Package period estimates the local fundamental pitch period of an
// audio signal by normalized lag correlation over a plausible pitch
// range. The estimate drives the overlap-synthesis engine's segment
// boundaries; for aperiodic (noise-like) input, where no lag shows
// strong periodicity, the estimator falls back to the most recent
// confident estimate so the engine still advances in stable steps.
package period

import (
	"github.com/tphakala/simd/f64"
)

// Pitch search range and fallback defaults. The range covers typical
// speech and musical fundamentals; frequencies outside it are treated
// as harmonics or noise.
const (
	// MinPitchHz is the lowest fundamental frequency searched for.
	MinPitchHz = 50

	// MaxPitchHz is the highest fundamental frequency searched for.
	MaxPitchHz = 400

	// fallbackPitchHz sets the default period used before any
	// confident estimate has been made.
	fallbackPitchHz = 100

	// minConfidence is the normalized correlation a lag must reach to
	// be accepted as a true period. Below it the input is treated as
	// aperiodic and the previous estimate is reused.
	minConfidence = 0.25
)

// Estimator finds the local pitch period of a reference-channel window.
// One Estimator belongs to one stream; it carries the fallback state
// between analysis windows and is not safe for concurrent use.
type Estimator struct {
	minPeriod  int
	maxPeriod  int
	lastPeriod int // most recent confident estimate, 0 if none yet
	fallback   int
}

// NewEstimator creates an estimator for the given sample rate.
// Period bounds are derived from the pitch search range and clamped so
// the lag search is always well-formed, even at very low sample rates.
func NewEstimator(sampleRate int) *Estimator {
	minPeriod := sampleRate / MaxPitchHz
	if minPeriod < 2 {
		minPeriod = 2
	}
	maxPeriod := sampleRate / MinPitchHz
	if maxPeriod <= minPeriod {
		maxPeriod = minPeriod + 1
	}
	fallback := sampleRate / fallbackPitchHz
	if fallback < minPeriod {
		fallback = minPeriod
	} else if fallback > maxPeriod {
		fallback = maxPeriod
	}
	return &Estimator{
		minPeriod: minPeriod,
		maxPeriod: maxPeriod,
		fallback:  fallback,
	}
}

// MinPeriod returns the shortest period considered, in frames.
func (e *Estimator) MinPeriod() int {
	return e.minPeriod
}

// MaxPeriod returns the longest period considered, in frames.
func (e *Estimator) MaxPeriod() int {
	return e.maxPeriod
}

// WindowFrames returns the analysis window length the estimator needs:
// two candidate periods at the longest searched lag.
func (e *Estimator) WindowFrames() int {
	return 2 * e.maxPeriod
}

// Estimate returns the pitch period in frames for the given reference
// channel window, along with the normalized correlation of the chosen
// lag. The window must hold at least WindowFrames() samples.
//
// For each candidate lag p the window's first p samples are correlated
// against the following p samples; the lag with the strongest
// normalized correlation wins. When no lag clears the confidence
// threshold the previous confident estimate is returned (or the
// default period when none exists yet), keeping synthesis stable over
// unvoiced or noise-like input.
func (e *Estimator) Estimate(window []float64) (int, float64) {
	bestPeriod := 0
	bestCorr := 0.0

	for p := e.minPeriod; p <= e.maxPeriod; p++ {
		a := window[:p]
		b := window[p : 2*p]

		cross := f64.DotProductUnsafe(a, b)
		if cross <= 0 {
			continue
		}
		energyA := f64.DotProductUnsafe(a, a)
		energyB := f64.DotProductUnsafe(b, b)
		if energyA == 0 || energyB == 0 {
			continue
		}

		// Normalized correlation without the sqrt: compare
		// cross^2/(energyA*energyB) to avoid a sqrt per lag.
		corr := cross * cross / (energyA * energyB)
		if corr > bestCorr {
			bestCorr = corr
			bestPeriod = p
		}
	}

	// bestCorr holds the squared normalized correlation; the threshold
	// is defined on the unsquared value.
	if bestPeriod == 0 || bestCorr < minConfidence*minConfidence {
		if e.lastPeriod != 0 {
			return e.lastPeriod, 0
		}
		return e.fallback, 0
	}

	e.lastPeriod = bestPeriod
	return bestPeriod, bestCorr
}

// Reset clears the fallback state, as when a stream is flushed and
// reused for unrelated material.
func (e *Estimator) Reset() {
	e.lastPeriod = 0
}
