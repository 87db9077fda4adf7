package timescale

// ChangeSpeed runs one-shot time-scale modification over a complete
// buffer of interleaved 16-bit PCM samples, returning the sped-up or
// slowed-down result. For incremental processing use NewStream.
func ChangeSpeed(samples []int16, sampleRate, channels int, speed float64) ([]int16, error) {
	return process(samples, &Config{
		SampleRate: sampleRate,
		Channels:   channels,
		Speed:      speed,
	})
}

// ChangeSpeedFloat64 is like ChangeSpeed but for float64 samples in
// [-1, 1].
func ChangeSpeedFloat64(samples []float64, sampleRate, channels int, speed float64) ([]float64, error) {
	stream, err := New(&Config{
		SampleRate: sampleRate,
		Channels:   channels,
		Speed:      speed,
	})
	if err != nil {
		return nil, err
	}
	if err := stream.WriteFloat64(samples); err != nil {
		return nil, err
	}
	if err := stream.Flush(); err != nil {
		return nil, err
	}
	return stream.ReadFloat64(stream.OutputFrames()), nil
}

// Process runs one-shot processing with a full configuration, applying
// speed, pitch, rate, and volume in a single pass.
func Process(samples []int16, config *Config) ([]int16, error) {
	return process(samples, config)
}

func process(samples []int16, config *Config) ([]int16, error) {
	stream, err := New(config)
	if err != nil {
		return nil, err
	}
	if err := stream.Write(samples); err != nil {
		return nil, err
	}
	if err := stream.Flush(); err != nil {
		return nil, err
	}
	return stream.Read(stream.OutputFrames()), nil
}
