package wsola

// Synthesis scheduling constants.
const (
	// speedEpsilon bounds the band around 1.0 treated as identity
	// speed, where frames pass through unchanged.
	speedEpsilon = 1e-5

	// copyRunThresholdUp is the speed at and above which every pitch
	// period is spliced; below it splices alternate with copy runs.
	copyRunThresholdUp = 2.0

	// copyRunThresholdDown is the speed at and below which every pitch
	// period is doubled; above it doublings alternate with copy runs.
	copyRunThresholdDown = 0.5

	// flushRounding rounds the expected output length to the nearest
	// frame when trimming flush padding.
	flushRounding = 0.5
)

// Rate conversion constants.
const (
	// rateReductionLimit caps the reduced sample-rate bases used for
	// integer interpolation positions.
	rateReductionLimit = 1 << 14
)

// 16-bit PCM sample range, used when scaling volume.
const (
	maxSampleValue = 32767
	minSampleValue = -32768
)
