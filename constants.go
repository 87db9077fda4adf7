package timescale

// Stream limits.
const (
	// maxChannels is the maximum supported channel count.
	maxChannels = 256

	// defaultFactor is the neutral value for all scaling factors.
	defaultFactor = 1.0
)

// 16-bit PCM conversion constants for the float entry points.
const (
	sampleScale = 32767.0
	sampleMax   = 32767
	sampleMin   = -32768
)
