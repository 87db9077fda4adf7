// Command speed-wav applies time-scale modification to WAV files.
//
// Usage:
//
//	speed-wav -speed 2.0 input.wav output.wav
//	speed-wav -speed 0.75 -volume 1.2 input.wav output.wav
//	speed-wav -pitch 1.3 input.wav output.wav   # raise pitch, keep duration
//	speed-wav -rate 1.5 input.wav output.wav    # tape-style speed change
//
// The speed factor changes duration while preserving pitch; the pitch
// factor shifts pitch while preserving duration; the rate factor
// changes both, like playing a tape faster.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	timescale "github.com/tphakala/go-audio-timescale"
)

const (
	// bufferFrames is the number of frames processed per chunk.
	bufferFrames = 4096

	// bitDepth is the output PCM bit depth; the engine core is 16-bit.
	bitDepth = 16

	// wavAudioFormat is the PCM format tag for the WAV encoder.
	wavAudioFormat = 1

	// minRequiredArgs is input and output path.
	minRequiredArgs = 2
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	speed := flag.Float64("speed", 1.0, "Speed factor: 2.0 plays twice as fast at the same pitch")
	pitch := flag.Float64("pitch", 1.0, "Pitch factor: 1.3 raises pitch 30% at the same duration")
	rate := flag.Float64("rate", 1.0, "Playback rate factor: 2.0 doubles speed and pitch")
	volume := flag.Float64("volume", 1.0, "Volume scale factor")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}

	inputFile, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = inputFile.Close() }()

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		return fmt.Errorf("invalid WAV file: %s", args[0])
	}
	format := decoder.Format()
	if *verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit",
			format.SampleRate, format.NumChannels, decoder.BitDepth)
	}
	if decoder.BitDepth > bitDepth {
		return fmt.Errorf("unsupported bit depth %d (max %d)", decoder.BitDepth, bitDepth)
	}

	stream, err := timescale.New(&timescale.Config{
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		Speed:      *speed,
		Pitch:      *pitch,
		Rate:       *rate,
		Volume:     *volume,
	})
	if err != nil {
		return err
	}

	outputFile, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = outputFile.Close() }()

	encoder := wav.NewEncoder(outputFile, format.SampleRate, bitDepth,
		format.NumChannels, wavAudioFormat)
	defer func() { _ = encoder.Close() }()

	start := time.Now()
	framesIn, framesOut, err := processWAV(stream, decoder, encoder, format)
	if err != nil {
		return err
	}

	if *verbose {
		log.Printf("Processed %d frames into %d frames in %v",
			framesIn, framesOut, time.Since(start))
	}
	return nil
}

// processWAV streams decoded PCM through the timescale engine into the
// encoder, then flushes and drains the terminal segment.
func processWAV(stream *timescale.Stream, decoder *wav.Decoder, encoder *wav.Encoder, format *audio.Format) (framesIn, framesOut int, err error) {
	channels := format.NumChannels
	intBuf := &audio.IntBuffer{
		Format: format,
		Data:   make([]int, bufferFrames*channels),
	}
	samples := make([]int16, bufferFrames*channels)

	for {
		n, err := decoder.PCMBuffer(intBuf)
		if err != nil {
			return framesIn, framesOut, fmt.Errorf("decode error: %w", err)
		}
		if n == 0 {
			break
		}

		chunk := samples[:n]
		for i := 0; i < n; i++ {
			chunk[i] = int16(intBuf.Data[i])
		}
		if err := stream.Write(chunk); err != nil {
			return framesIn, framesOut, err
		}
		framesIn += n / channels

		written, err := drainTo(stream, encoder, format)
		if err != nil {
			return framesIn, framesOut, err
		}
		framesOut += written
	}

	if err := stream.Flush(); err != nil {
		return framesIn, framesOut, err
	}
	written, err := drainTo(stream, encoder, format)
	framesOut += written
	return framesIn, framesOut, err
}

// drainTo moves all currently available output frames to the encoder.
func drainTo(stream *timescale.Stream, encoder *wav.Encoder, format *audio.Format) (int, error) {
	frames := 0
	out := &audio.IntBuffer{Format: format, SourceBitDepth: bitDepth}
	for {
		chunk := stream.Read(bufferFrames)
		if len(chunk) == 0 {
			return frames, nil
		}

		data := make([]int, len(chunk))
		for i, s := range chunk {
			data[i] = int(s)
		}
		out.Data = data
		if err := encoder.Write(out); err != nil {
			return frames, fmt.Errorf("encode error: %w", err)
		}
		frames += len(chunk) / format.NumChannels
	}
}
