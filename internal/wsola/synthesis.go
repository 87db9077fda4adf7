package wsola

// skipPitchPeriod speeds up by removing most of one pitch period,
// cross-fading the retained material against the start of the next
// period. It appends newFrames frames of output and reports the count;
// the caller advances the input cursor by period + newFrames.
//
// For speeds at or above 2x every period is spliced. Below 2x a full
// period is spliced and the balance of the input is scheduled as an
// unmodified copy run, which spreads the splices evenly and keeps the
// long-run output length at input/speed.
func (e *Engine) skipPitchPeriod(pos int, speed float64, p int) int {
	var newFrames int
	if speed >= copyRunThresholdUp {
		newFrames = int(float64(p) / (speed - 1.0))
	} else {
		newFrames = p
		e.remainingInputToCopy = int(float64(p) * (2.0 - speed) / (speed - 1.0))
	}
	if newFrames == 0 {
		return 0
	}

	out := e.output.Extend(newFrames)
	down := e.input.Slice(pos, pos+newFrames)
	up := e.input.Slice(pos+p, pos+p+newFrames)
	overlapAdd(out, down, up, newFrames, e.channels)
	return newFrames
}

// insertPitchPeriod slows down by repeating one pitch period: the
// period is emitted verbatim, then newFrames frames of its start are
// emitted again, cross-faded against the following period so the seam
// is continuous. It reports the input advance (newFrames).
//
// For speeds at or below 0.5x every period is doubled. Above 0.5x one
// period is doubled and the balance is scheduled as a copy run.
func (e *Engine) insertPitchPeriod(pos int, speed float64, p int) int {
	var newFrames int
	if speed <= copyRunThresholdDown {
		newFrames = int(float64(p) * speed / (1.0 - speed))
		if newFrames == 0 {
			// Extreme slowdowns truncate to zero; always consume at
			// least one frame so the loop advances.
			newFrames = 1
		}
	} else {
		newFrames = p
		e.remainingInputToCopy = int(float64(p) * (2.0*speed - 1.0) / (1.0 - speed))
	}

	e.output.Append(e.input.Slice(pos, pos+p))

	out := e.output.Extend(newFrames)
	down := e.input.Slice(pos+p, pos+p+newFrames)
	up := e.input.Slice(pos, pos+newFrames)
	overlapAdd(out, down, up, newFrames, e.channels)
	return newFrames
}

// overlapAdd writes a linear cross-fade of two equal-length segments
// into out: down ramps from full to zero while up ramps from zero to
// full over frames frames. The same ramp position is used for every
// channel of a frame, so channels stay phase-locked. Integer
// arithmetic keeps the blend exactly reproducible across channel
// layouts.
func overlapAdd(out, down, up []int16, frames, channels int) {
	for t := 0; t < frames; t++ {
		base := t * channels
		for c := 0; c < channels; c++ {
			d := int(down[base+c])
			u := int(up[base+c])
			out[base+c] = int16((d*(frames-t) + u*t) / frames)
		}
	}
}
