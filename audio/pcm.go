// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"

	goaudio "github.com/go-audio/audio"
)

// PCMToFloat normalises a signed integer sample of bitDepth bits into
// [-1, 1). Unknown depths are treated as 16 bit.
func PCMToFloat(v, bitDepth int) float32 {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		bitDepth = 16
	}

	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}

// PCMReader is the part of the go-audio decoders a Source needs.
type PCMReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type pcmSource struct {
	dec      PCMReader
	format   *goaudio.Format
	bitDepth int
	intBuf   *goaudio.IntBuffer
}

// NewPCMSource adapts a go-audio integer decoder into a Source.
func NewPCMSource(dec PCMReader, format *goaudio.Format, bitDepth int) Source {
	return &pcmSource{dec: dec, format: format, bitDepth: bitDepth}
}

func (s *pcmSource) SampleRate() int { return s.format.SampleRate }
func (s *pcmSource) Channels() int   { return s.format.NumChannels }
func (s *pcmSource) Close() error    { return nil }

func (s *pcmSource) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}

	return defaultBufSize
}

func (s *pcmSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.format,
			SourceBitDepth: s.bitDepth,
		}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	for i, v := range s.intBuf.Data[:n] {
		dst[i] = PCMToFloat(v, s.bitDepth)
	}

	return n, err
}
