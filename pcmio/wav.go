// Package pcmio stores decimator PCM output as WAV so it can be inspected
// with ordinary audio tools.
//
// Samples are held as full-scale int32 values, the decimator's output
// format. Writing at a lower bit depth keeps the most significant bits;
// reading scales samples back up to 32 bits.
package pcmio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1 // WAVE_FORMAT_PCM

// Errors returned by the reader and writer.
var (
	ErrInvalidFormat = errors.New("pcmio: invalid format")
	ErrInvalidFile   = errors.New("pcmio: invalid WAV file")
)

// Stream is a block of multi-channel PCM audio.
type Stream struct {
	SampleRate int       // Samples per second per channel
	BitDepth   int       // Stored bits per sample: 16, 24 or 32
	Channels   [][]int32 // One slice per channel, all the same length
}

// Frames returns the number of samples per channel.
func (s Stream) Frames() int {
	if len(s.Channels) == 0 {
		return 0
	}
	return len(s.Channels[0])
}

// Validate checks the rate, bit depth and channel layout.
func (s Stream) Validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, s.SampleRate)
	}
	if !slices.Contains([]int{16, 24, 32}, s.BitDepth) {
		return fmt.Errorf("%w: bit depth %d", ErrInvalidFormat, s.BitDepth)
	}
	if len(s.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidFormat)
	}
	for ch, c := range s.Channels {
		if len(c) != s.Frames() {
			return fmt.Errorf("%w: channel %d has %d samples, expected %d",
				ErrInvalidFormat, ch, len(c), s.Frames())
		}
	}
	return nil
}

// WriteWAV encodes s to w.
func WriteWAV(w io.WriteSeeker, s Stream) error {
	if err := s.Validate(); err != nil {
		return err
	}

	numChannels := len(s.Channels)
	shift := 32 - s.BitDepth
	data := make([]int, s.Frames()*numChannels)
	for ch, c := range s.Channels {
		for i, v := range c {
			data[i*numChannels+ch] = int(v >> shift)
		}
	}

	enc := wav.NewEncoder(w, s.SampleRate, s.BitDepth, numChannels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChannels, SampleRate: s.SampleRate},
		Data:           data,
		SourceBitDepth: s.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}

// ReadWAV decodes a PCM WAV stream.
func ReadWAV(r io.ReadSeeker) (Stream, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Stream{}, ErrInvalidFile
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Stream{}, fmt.Errorf("failed to read samples: %w", err)
	}

	s := Stream{
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
	}
	numChannels := int(dec.NumChans)
	if numChannels == 0 || !slices.Contains([]int{16, 24, 32}, s.BitDepth) {
		return Stream{}, fmt.Errorf("%w: %d channels at %d bits", ErrInvalidFormat, numChannels, s.BitDepth)
	}

	frames := len(buf.Data) / numChannels
	shift := 32 - s.BitDepth
	s.Channels = make([][]int32, numChannels)
	for ch := range s.Channels {
		s.Channels[ch] = make([]int32, frames)
		for i := range frames {
			s.Channels[ch][i] = int32(buf.Data[i*numChannels+ch]) << shift
		}
	}
	return s, nil
}

// WriteFile writes s to a new WAV file at path.
func WriteFile(path string, s Stream) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return WriteWAV(f, s)
}

// ReadFile reads the WAV file at path.
func ReadFile(path string) (Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stream{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadWAV(f)
}
