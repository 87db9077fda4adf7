package timescale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-timescale/internal/testutil"
)

// flushTailFrames is excluded from statistical checks: the terminal
// segment emitted by flush blends into the zero padding.
const flushTailFrames = 300

// TestSinusoidPitchPreserved feeds a pure 100 Hz sinusoid, speeds it up
// 3x, and verifies the output is still a sinusoid at the original
// frequency: the Teager energy operator (x[n]^2 - x[n-1]*x[n+1]) is
// constant for a sinusoid, so the output's operator statistics must
// match the original single cycle's within a few percent. A pitch
// shift or audible splice discontinuity would move the mean or blow up
// the variance.
func TestSinusoidPitchPreserved(t *testing.T) {
	const (
		sampleRate = 22050
		pitchHz    = 100
		numPeriods = 100
		speed      = 3.0
	)
	periodFrames := sampleRate / pitchHz
	cycle := testutil.SineCycle(testutil.DefaultAmplitude, periodFrames)
	input := testutil.Repeat(cycle, numPeriods)

	s, err := NewStream(sampleRate, 1)
	require.NoError(t, err)
	require.NoError(t, s.SetSpeed(speed))

	out := processAll(t, s, input, periodFrames)
	expected := float64(len(input)) / speed
	require.InDelta(t, expected, float64(len(out)), expected/100+float64(s.Latency()))

	cycleMean, cycleVar := testutil.TeagerVariance(cycle)
	outMean, outVar := testutil.TeagerVariance(out[:len(out)-flushTailFrames])

	assert.InDelta(t, cycleMean, outMean, 0.02*cycleMean,
		"frequency content must be preserved, not shifted")
	assert.InDelta(t, cycleVar, outVar, 0.05*cycleVar,
		"splices must not introduce discontinuities")
}

// TestChirpSpeedSchedule verifies reaction to mid-stream speed changes.
// A 3-second linear chirp is processed in three 1-second segments at
// speeds 3.0, 1.5, 3.0, so the output quarters map to the input
// thirds. The local frequency trend (slope of the sqrt-Teager proxy)
// of the first and last output quarters must match, and the middle
// half's slope must be half of that: the same frequency span is spread
// over twice the output duration.
func TestChirpSpeedSchedule(t *testing.T) {
	const (
		sampleRate = 22050
		f0         = 137.0
		f1         = f0 + 47.0
		speedFast  = 3.0
	)

	chirp := testutil.Chirp(sampleRate, f0, f1, 3.0, testutil.DefaultAmplitude)
	third := sampleRate // frames per 1-second segment

	s, err := NewStream(sampleRate, 1)
	require.NoError(t, err)

	require.NoError(t, s.SetSpeed(speedFast))
	require.NoError(t, s.Write(chirp[:third]))
	require.NoError(t, s.SetSpeed(speedFast/2))
	require.NoError(t, s.Write(chirp[third:2*third]))
	require.NoError(t, s.SetSpeed(speedFast))
	require.NoError(t, s.Write(chirp[2*third:]))
	require.NoError(t, s.Flush())

	out := s.Read(s.OutputFrames())
	expected := float64(third)/speedFast*2 + float64(third)/(speedFast/2)
	require.InDelta(t, expected, float64(len(out)), expected/50+float64(s.Latency()))

	proxy := testutil.FrequencyProxy(out[:len(out)-flushTailFrames])
	quarter := len(proxy) / 4

	slope1 := testutil.LinearSlope(proxy[:quarter])
	slope2 := testutil.LinearSlope(proxy[quarter : 3*quarter])
	slope3 := testutil.LinearSlope(proxy[3*quarter:])

	t.Logf("chirp slopes: %g -- %g -- %g", slope1, slope2, slope3)

	assert.InDelta(t, slope1, slope3, 0.05*slope1,
		"outer segments at equal speed must show equal frequency trends")
	assert.InDelta(t, slope1/2, slope2, 0.05*slope1,
		"half-speed middle segment spreads the trend over twice the time")
}
