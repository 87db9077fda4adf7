// Package buffer implements the growable sample buffers used by the
// time-scale engine. A FrameBuffer holds interleaved multichannel PCM
// frames (one sample per channel) and supports append at the back,
// bulk removal from the front, and random access, with amortized
// doubling growth so the total copy cost over a stream's lifetime is
// linear in the number of frames processed.
package buffer

// Sample is the type constraint for supported PCM sample representations.
// The engine core works on int16; float64 instantiations serve the
// floating-point entry points and analysis windows.
type Sample interface {
	~int16 | ~float64
}

// FrameBuffer is a growable FIFO of interleaved audio frames.
// Frames are never reordered and channel alignment is preserved:
// sample c of frame i is always at flat index i*channels + c.
//
// A FrameBuffer is not safe for concurrent use. Each stream owns its
// buffers exclusively and serializes access (see the package timescale
// concurrency contract).
type FrameBuffer[S Sample] struct {
	data     []S
	channels int
}

// New creates an empty FrameBuffer for the given channel count with
// capacity for capacityFrames frames. The channel count is fixed for
// the buffer's lifetime.
func New[S Sample](channels, capacityFrames int) *FrameBuffer[S] {
	if channels < 1 {
		channels = 1
	}
	if capacityFrames < 0 {
		capacityFrames = 0
	}
	return &FrameBuffer[S]{
		data:     make([]S, 0, capacityFrames*channels),
		channels: channels,
	}
}

// Channels returns the number of interleaved channels per frame.
func (b *FrameBuffer[S]) Channels() int {
	return b.channels
}

// Len returns the number of whole frames currently buffered.
func (b *FrameBuffer[S]) Len() int {
	return len(b.data) / b.channels
}

// Append adds interleaved samples to the back of the buffer.
// len(samples) must be a multiple of the channel count; the caller
// validates frame alignment before appending.
func (b *FrameBuffer[S]) Append(samples []S) {
	b.data = append(b.data, samples...)
}

// AppendZero adds frames of silence to the back of the buffer.
func (b *FrameBuffer[S]) AppendZero(frames int) {
	if frames <= 0 {
		return
	}
	region := b.Extend(frames)
	for i := range region {
		region[i] = 0
	}
}

// Extend grows the buffer by frames whole frames and returns the newly
// added region for the caller to fill. The returned slice is valid
// until the next mutating call.
func (b *FrameBuffer[S]) Extend(frames int) []S {
	n := frames * b.channels
	oldLen := len(b.data)
	need := oldLen + n
	if need > cap(b.data) {
		// Double until sufficient, same growth policy as the
		// pipeline ring buffers.
		newCap := cap(b.data)
		if newCap < minGrowSamples {
			newCap = minGrowSamples
		}
		for newCap < need {
			newCap *= growthFactor
		}
		grown := make([]S, oldLen, newCap)
		copy(grown, b.data)
		b.data = grown
	}
	b.data = b.data[:need]
	return b.data[oldLen:]
}

// Drop removes frames whole frames from the front of the buffer.
// Dropping more than Len() frames empties the buffer.
func (b *FrameBuffer[S]) Drop(frames int) {
	if frames <= 0 {
		return
	}
	n := frames * b.channels
	if n >= len(b.data) {
		b.data = b.data[:0]
		return
	}
	remaining := copy(b.data, b.data[n:])
	b.data = b.data[:remaining]
}

// Truncate discards frames from the back so that at most frames whole
// frames remain. Used by flush to trim synthesis produced from zero
// padding.
func (b *FrameBuffer[S]) Truncate(frames int) {
	if frames < 0 {
		frames = 0
	}
	n := frames * b.channels
	if n < len(b.data) {
		b.data = b.data[:n]
	}
}

// Slice returns the interleaved samples of frames [from, to) as a view
// into the buffer. The view is valid until the next mutating call.
func (b *FrameBuffer[S]) Slice(from, to int) []S {
	return b.data[from*b.channels : to*b.channels]
}

// Read removes up to maxFrames frames from the front and returns them
// as a newly allocated interleaved slice. Returns an empty slice when
// the buffer is empty.
func (b *FrameBuffer[S]) Read(maxFrames int) []S {
	frames := b.Len()
	if maxFrames < frames {
		frames = maxFrames
	}
	if frames <= 0 {
		return []S{}
	}
	out := make([]S, frames*b.channels)
	copy(out, b.data)
	b.Drop(frames)
	return out
}

// ReadTo removes frames from the front into dst, which must hold whole
// frames. It returns the number of frames copied; 0 means no frames
// were available (or dst was too small for a single frame).
func (b *FrameBuffer[S]) ReadTo(dst []S) int {
	frames := len(dst) / b.channels
	if avail := b.Len(); frames > avail {
		frames = avail
	}
	if frames <= 0 {
		return 0
	}
	copy(dst, b.data[:frames*b.channels])
	b.Drop(frames)
	return frames
}

// Clear empties the buffer, retaining capacity for reuse.
func (b *FrameBuffer[S]) Clear() {
	b.data = b.data[:0]
}

// Growth policy constants.
const (
	// growthFactor doubles capacity on growth for amortized O(1) appends.
	growthFactor = 2

	// minGrowSamples is the smallest capacity allocated on first growth.
	minGrowSamples = 64
)
