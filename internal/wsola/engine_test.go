package wsola

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sineFrames builds count repetitions of one exact sinusoid cycle.
func sineFrames(periodFrames, count int) []int16 {
	out := make([]int16, 0, periodFrames*count)
	cycle := make([]int16, periodFrames)
	for i := range cycle {
		cycle[i] = int16(30000 * math.Sin(float64(i)*2*math.Pi/float64(periodFrames)))
	}
	for i := 0; i < count; i++ {
		out = append(out, cycle...)
	}
	return out
}

// drain writes input, flushes, and returns the complete output.
func drain(e *Engine, input []int16) []int16 {
	e.Write(input)
	e.Flush()
	return e.Read(e.OutputFrames())
}

// TestOverlapAdd verifies the linear cross-fade ramp endpoints and that
// equal segments blend to themselves exactly.
func TestOverlapAdd(t *testing.T) {
	t.Run("endpoints", func(t *testing.T) {
		down := []int16{1000, 1000, 1000, 1000}
		up := []int16{-1000, -1000, -1000, -1000}
		out := make([]int16, 4)
		overlapAdd(out, down, up, 4, 1)

		assert.Equal(t, int16(1000), out[0], "fade starts at the down segment")
		assert.Equal(t, int16(-500), out[3], "fade nearly reaches the up segment")
		assert.Equal(t, int16(500), out[1])
		assert.Equal(t, int16(0), out[2])
	})

	t.Run("identical segments pass through", func(t *testing.T) {
		seg := []int16{123, -456, 789, -321}
		out := make([]int16, 4)
		overlapAdd(out, seg, seg, 4, 1)
		assert.Equal(t, seg, out)
	})

	t.Run("stereo shares ramp positions", func(t *testing.T) {
		down := []int16{100, 100, 200, 200}
		up := []int16{-100, -100, -200, -200}
		out := make([]int16, 4)
		overlapAdd(out, down, up, 2, 2)
		assert.Equal(t, out[0], out[1], "both channels at same ramp position")
		assert.Equal(t, out[2], out[3])
	})
}

// TestEngine_IdentitySpeed verifies that speed 1.0 passes frames
// through unchanged with no latency.
func TestEngine_IdentitySpeed(t *testing.T) {
	e := NewEngine(22050, 1)
	input := sineFrames(220, 10)

	e.Write(input)
	out := e.Read(e.OutputFrames())
	assert.Equal(t, input, out, "identity speed must be a bit-exact passthrough")

	e.Flush()
	assert.Zero(t, e.OutputFrames(), "flush after full drain adds nothing")
}

// TestEngine_OutputLength verifies the scaled output length across
// speed factors, within one analysis window of the ideal length.
func TestEngine_OutputLength(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
	}{
		{"slow_0.5x", 0.5},
		{"slow_0.7x", 0.7},
		{"fast_1.5x", 1.5},
		{"fast_2x", 2.0},
		{"fast_3x", 3.0},
		{"fast_6x", 6.0},
	}

	const period = 220
	input := sineFrames(period, 150) // 33000 frames at 22050 Hz

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(22050, 1)
			e.SetSpeed(tt.speed)

			out := drain(e, input)
			expected := float64(len(input)) / tt.speed
			tolerance := float64(e.Latency()) + expected/100
			assert.InDelta(t, expected, float64(len(out)), tolerance,
				"speed %v: got %d frames, want about %.0f", tt.speed, len(out), expected)
		})
	}
}

// TestEngine_EagerProcessing verifies that write drives synthesis as
// soon as one analysis window is buffered and never leaves more than a
// window unprocessed.
func TestEngine_EagerProcessing(t *testing.T) {
	e := NewEngine(22050, 1)
	e.SetSpeed(2.0)

	short := sineFrames(220, 1)
	e.Write(short) // 220 frames, below the analysis window
	assert.Zero(t, e.OutputFrames(), "sub-window input produces nothing")
	assert.Equal(t, 220, e.InputFrames())

	e.Write(sineFrames(220, 20)) // now well past one window
	assert.Positive(t, e.OutputFrames(), "write past one window produces output")
	assert.Less(t, e.InputFrames(), e.Latency(),
		"no more than one analysis window stays buffered")
}

// TestEngine_FlushRemainder verifies that flush emits scaled output
// from a sub-window remainder instead of discarding it.
func TestEngine_FlushRemainder(t *testing.T) {
	e := NewEngine(22050, 1)
	e.SetSpeed(2.0)

	input := sineFrames(220, 2) // 440 frames, half an analysis window
	e.Write(input)
	require.Zero(t, e.OutputFrames())

	e.Flush()
	out := e.Read(e.OutputFrames())
	assert.InDelta(t, float64(len(input))/2, float64(len(out)), float64(len(input))/8,
		"flush of a partial window still scales by the speed factor")

	assert.Zero(t, e.InputFrames(), "flush consumes all input")
}

// TestEngine_FlushResetsPeriodFallback verifies flush clears the
// estimator's carried estimate, so a reused stream splices unrelated
// material from the default period rather than the previous run's.
func TestEngine_FlushResetsPeriodFallback(t *testing.T) {
	e := NewEngine(16000, 1)
	e.SetSpeed(2.0)
	e.Write(sineFrames(50, 64)) // 320 Hz, well inside the search range

	rng := rand.New(rand.NewPCG(7, 11))
	noise := make([]float64, e.estimator.WindowFrames())
	for i := range noise {
		noise[i] = rng.Float64()*2 - 1
	}

	got, _ := e.estimator.Estimate(noise)
	require.Zero(t, got%50, "carried estimate tracks the processed material")

	e.Flush()
	e.Read(e.OutputFrames())

	got, conf := e.estimator.Estimate(noise)
	assert.Zero(t, conf)
	assert.Equal(t, 160, got, "reused stream starts from the default period")
}

// TestEngine_RateChangesDuration verifies the playback-rate stage
// changes duration by 1/rate (pitch moves with it; duration is what is
// asserted here).
func TestEngine_RateChangesDuration(t *testing.T) {
	tests := []struct {
		name string
		rate float64
	}{
		{"rate_2x", 2.0},
		{"rate_0.5x", 0.5},
		{"rate_1.5x", 1.5},
	}

	input := sineFrames(220, 100)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(22050, 1)
			e.SetRate(tt.rate)

			out := drain(e, input)
			expected := float64(len(input)) / tt.rate
			assert.InDelta(t, expected, float64(len(out)), expected/50,
				"rate %v: got %d frames, want about %.0f", tt.rate, len(out), expected)
		})
	}
}

// TestEngine_PitchPreservesDuration verifies that pitch scaling shifts
// frequency while keeping the output length near the input length.
func TestEngine_PitchPreservesDuration(t *testing.T) {
	const period = 220
	input := sineFrames(period, 100)

	e := NewEngine(22050, 1)
	e.SetPitch(2.0)
	out := drain(e, input)

	expected := float64(len(input))
	assert.InDelta(t, expected, float64(len(out)), float64(e.Latency())+expected/50,
		"pitch change must not change duration")

	// The sinusoid's frequency should have doubled: count zero
	// crossings per frame on the steady-state interior.
	interior := out[len(out)/4 : 3*len(out)/4]
	inputCrossings := zeroCrossings(input[len(input)/4 : 3*len(input)/4])
	outputCrossings := zeroCrossings(interior)
	ratio := float64(outputCrossings) / float64(inputCrossings) *
		float64(len(input)/2) / float64(len(interior))
	assert.InDelta(t, 2.0, ratio, 0.1, "pitch 2.0 should double the frequency")
}

// zeroCrossings counts sign changes, ignoring exact zeros.
func zeroCrossings(data []int16) int {
	count := 0
	prev := int16(0)
	for _, s := range data {
		if s == 0 {
			continue
		}
		if (prev > 0 && s < 0) || (prev < 0 && s > 0) {
			count++
		}
		prev = s
	}
	return count
}

// TestEngine_VolumeScalesAndClamps verifies volume scaling saturates at
// the 16-bit range rather than wrapping.
func TestEngine_VolumeScalesAndClamps(t *testing.T) {
	e := NewEngine(8000, 1)
	e.SetVolume(0.5)

	e.Write([]int16{20000, -20000, 100})
	out := e.Read(e.OutputFrames())
	require.Len(t, out, 3)
	assert.Equal(t, []int16{10000, -10000, 50}, out)

	e2 := NewEngine(8000, 1)
	e2.SetVolume(4.0)
	e2.Write([]int16{20000, -20000, 100})
	out = e2.Read(e2.OutputFrames())
	require.Len(t, out, 3)
	assert.Equal(t, []int16{32767, -32768, 400}, out, "scaling clamps at full scale")
}

// TestEngine_SpeedChangeMidStream verifies a new speed factor applies
// to input processed after the change without disturbing prior output.
func TestEngine_SpeedChangeMidStream(t *testing.T) {
	const period = 220
	segment := sineFrames(period, 50) // 11000 frames

	e := NewEngine(22050, 1)
	e.SetSpeed(2.0)
	e.Write(segment)
	firstPhase := e.OutputFrames()
	assert.InDelta(t, float64(len(segment))/2, float64(firstPhase),
		float64(e.Latency()), "first segment compressed 2x")

	e.SetSpeed(4.0)
	e.Write(segment)
	e.Flush()

	expected := float64(len(segment))/2 + float64(len(segment))/4
	assert.InDelta(t, expected, float64(e.OutputFrames()),
		float64(e.Latency())*2+expected/50)
}
