// SPDX-License-Identifier: EPL-2.0

// Package awgtest holds test doubles shared across packages.
package awgtest

import (
	"io"
	"math"
)

// Source plays back fixed per-channel samples through the
// audio.Source method set. It does not import audio.
type Source struct {
	rate     int
	channels [][]float32
	pos      int
	closed   bool

	// Chunk caps the frames returned per read when positive.
	Chunk int
}

// NewSource returns a Source over channels. All channels must have the
// same length.
func NewSource(rate int, channels ...[]float32) *Source {
	return &Source{rate: rate, channels: channels}
}

// Sine returns one channel of n samples of a sine at freq Hz.
func Sine(rate, n int, freq, amp float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}

	return out
}

// Constant returns n copies of v.
func Constant(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return len(s.channels) }
func (s *Source) BufSize() int    { return 64 }
func (s *Source) Closed() bool    { return s.closed }

func (s *Source) Close() error {
	s.closed = true
	return nil
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(s.channels) == 0 || s.pos >= len(s.channels[0]) {
		return 0, io.EOF
	}

	ch := len(s.channels)
	frames := min(len(dst)/ch, len(s.channels[0])-s.pos)
	if s.Chunk > 0 {
		frames = min(frames, s.Chunk)
	}
	for f := range frames {
		for c := range ch {
			dst[f*ch+c] = s.channels[c][s.pos+f]
		}
	}
	s.pos += frames

	return frames * ch, nil
}
