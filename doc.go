// Package timescale provides streaming, pitch-preserving time-scale
// modification of PCM audio in pure Go.
//
// Given interleaved 16-bit PCM frames and a speed factor, the library
// produces output that is shorter or longer in duration by that factor
// while preserving the perceived pitch and timbre of the input. The
// engine is incremental: audio may be written in chunks of any size,
// the speed factor may change mid-stream, and output becomes available
// as soon as enough input is buffered for one analysis window.
//
// # Features
//
//   - Pitch-preserving speed change via waveform-similarity overlap-add
//     (WSOLA) splicing aligned to the detected pitch period
//   - Independent pitch, playback-rate, and volume scaling factors
//   - Streaming write/read/flush API with bounded internal latency
//   - Multi-channel support with strict channel phase-lock: splice
//     boundaries are computed once from the reference channel and
//     applied identically to every channel
//   - SIMD-accelerated period search via github.com/tphakala/simd
//   - Pure Go implementation with no CGO dependencies
//
// # Quick Start
//
// For simple one-shot processing:
//
//	output, err := timescale.ChangeSpeed(input, 44100, 2, 1.5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For streaming use with a reusable stream:
//
//	stream, err := timescale.NewStream(44100, 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := stream.SetSpeed(1.5); err != nil {
//	    log.Fatal(err)
//	}
//
//	for chunk := range audioChunks {
//	    if err := stream.Write(chunk); err != nil {
//	        log.Fatal(err)
//	    }
//	    writeOutput(stream.Read(maxFrames))
//	}
//
//	// Signal end of input and drain the remainder
//	if err := stream.Flush(); err != nil {
//	    log.Fatal(err)
//	}
//	for out := stream.Read(maxFrames); len(out) > 0; out = stream.Read(maxFrames) {
//	    writeOutput(out)
//	}
//
// # Architecture
//
// Written frames accumulate in an input buffer. Once a full analysis
// window is available, a period estimator finds the local pitch period
// on the reference channel by normalized lag correlation over a 50-400
// Hz search range, and the synthesis engine consumes period-aligned
// segments: speeding up skips most of each period, slowing down repeats
// a trailing portion, in both cases cross-fading the splice so no
// audible discontinuity remains. Aperiodic input (noise, unvoiced
// speech) falls back to the most recent stable period estimate and is
// still scaled to the correct output length.
//
//	Input frames -> [Input Buffer] -> [Period Estimator]
//	                                      |
//	                              [Overlap-Add Synthesis]
//	                                      |
//	                    [Rate Conversion] -> [Volume] -> [Output Buffer]
//
// The optional pitch factor composes speed and rate changes so the
// spectrum shifts while duration is preserved; the optional rate factor
// is a classic tape-speed change affecting both.
//
// # Reading Output
//
// [Stream.Read] and [Stream.ReadTo] drain the output buffer FIFO-style
// and return 0 frames when nothing is available yet. That is
// starvation, not an error: write more input or flush, then read again.
//
// # Thread Safety
//
// A Stream is not safe for concurrent use; the caller must ensure at
// most one in-flight operation per stream. Distinct streams share no
// state and may be driven concurrently without coordination.
//
// # Attribution
//
// The synthesis schedule follows the approach of the libsonic library
// (https://github.com/waywardgeek/sonic) by Bill Cox: one pitch
// period is spliced or doubled per step, with moderate speed factors
// spread over unmodified copy runs between splices.
package timescale
