package testutil

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Number constrains the sample types the analysis operators accept.
type Number interface {
	~int16 | ~float64
}

// TeagerVariance returns the mean and variance of the discrete Teager
// energy operator
//
//	x[n]^2 - x[n-1]*x[n+1]
//
// over the signal. For a pure sinusoid the operator is constant, so
// mean and variance act as a quick sinusoidal-quality check: splicing
// artifacts show up as variance, a frequency shift as a mean change.
// Variance is computed with Welford's online algorithm to stay stable
// over long signals.
func TeagerVariance[S Number](data []S) (mean, variance float64) {
	var m2 float64
	for n := 1; n < len(data)-1; n++ {
		teager := float64(data[n])*float64(data[n]) -
			float64(data[n-1])*float64(data[n+1])
		delta := teager - mean
		mean += delta / float64(n)
		m2 += delta * (teager - mean)
	}
	// First and last samples are skipped by the operator.
	variance = m2 / float64(len(data)-3)
	return mean, variance
}

// TeagerTrace returns the Teager operator evaluated at every interior
// sample, preserving the time course for trend analysis.
func TeagerTrace[S Number](data []S) []float64 {
	if len(data) < 3 {
		return nil
	}
	out := make([]float64, 0, len(data)-2)
	for n := 1; n < len(data)-1; n++ {
		out = append(out, float64(data[n])*float64(data[n])-
			float64(data[n-1])*float64(data[n+1]))
	}
	return out
}

// FrequencyProxy returns the square root of the Teager trace, which is
// proportional to local frequency for a constant-amplitude signal.
// Negative operator values (rounding noise around splices) clamp to 0.
func FrequencyProxy[S Number](data []S) []float64 {
	trace := TeagerTrace(data)
	for i, v := range trace {
		if v < 0 {
			trace[i] = 0
		} else {
			trace[i] = math.Sqrt(v)
		}
	}
	return trace
}

// LinearSlope fits y against its sample index by least squares and
// returns the slope per sample.
func LinearSlope(y []float64) float64 {
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}
	_, slope := stat.LinearRegression(x, y, nil, false)
	return slope
}
