package wsola

// adjustRate applies the playback-rate factor to frames produced after
// the from frame index. The frames are moved to the rate buffer and
// re-emitted at sampleRate/rate by linear interpolation between
// neighboring frames, using shared integer positions for every channel
// so multichannel output stays phase-locked.
//
// Pitch scaling rides on this stage: the public pitch factor composes
// as speed/pitch into the synthesis stage and rate*pitch into this one,
// shifting the spectrum while the synthesis stage restores duration.
func (e *Engine) adjustRate(rate float64, from int) {
	newRate := int(float64(e.sampleRate) / rate)
	oldRate := e.sampleRate

	// Reduce the position bases so the integer products stay small
	// over long streams.
	for newRate > rateReductionLimit || oldRate > rateReductionLimit {
		newRate >>= 1
		oldRate >>= 1
	}
	if newRate < 1 || oldRate < 1 {
		return
	}

	produced := e.output.Len() - from
	if produced == 0 {
		return
	}

	// Move the new frames to the rate buffer; interpolation needs one
	// frame of lookahead, so at least one frame always stays behind.
	e.rateBuf.Append(e.output.Slice(from, e.output.Len()))
	e.output.Truncate(from)

	ch := e.channels
	pos := 0
	for ; pos < e.rateBuf.Len()-1; pos++ {
		for (e.oldRatePosition+1)*newRate > e.newRatePosition*oldRate {
			out := e.output.Extend(1)
			frame := e.rateBuf.Slice(pos, pos+2)
			for c := 0; c < ch; c++ {
				out[c] = interpolate(frame[c], frame[ch+c],
					e.oldRatePosition, e.newRatePosition, oldRate, newRate)
			}
			e.newRatePosition++
		}
		e.oldRatePosition++
		if e.oldRatePosition == oldRate {
			e.oldRatePosition = 0
			e.newRatePosition = 0
		}
	}
	e.rateBuf.Drop(pos)
}

// interpolate blends two neighboring samples of one channel according
// to the current rate positions. All arithmetic is integer so the
// result is identical for identical channels.
func interpolate(left, right int16, oldPos, newPos, oldRate, newRate int) int16 {
	position := newPos * oldRate
	leftPosition := oldPos * newRate
	rightPosition := (oldPos + 1) * newRate
	ratio := rightPosition - position
	width := rightPosition - leftPosition
	return int16((ratio*int(left) + (width-ratio)*int(right)) / width)
}
