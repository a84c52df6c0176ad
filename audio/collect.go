// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

const defaultBufSize = 4096

// Clip is a fully decoded Source split into per-channel sample slices.
type Clip struct {
	SampleRate int
	Channels   [][]float64
}

// Len is the number of frames.
func (c *Clip) Len() int {
	if len(c.Channels) == 0 {
		return 0
	}

	return len(c.Channels[0])
}

// Collect drains src into a Clip. bufSize <= 0 uses src.BufSize() and
// then a default. src is not closed.
func Collect(src Source, bufSize int) (*Clip, error) {
	channels := src.Channels()
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrChannels, channels)
	}
	if bufSize <= 0 {
		bufSize = src.BufSize()
	}
	if bufSize <= 0 {
		bufSize = defaultBufSize
	}
	bufSize -= bufSize % channels
	if bufSize == 0 {
		bufSize = channels
	}

	clip := &Clip{SampleRate: src.SampleRate(), Channels: make([][]float64, channels)}
	buf := make([]float32, bufSize)
	for {
		n, err := src.ReadSamples(buf)
		for i, v := range buf[:n-n%channels] {
			clip.Channels[i%channels] = append(clip.Channels[i%channels], float64(v))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("collect: %w", err)
		}
		if n == 0 {
			break
		}
	}

	if clip.Len() == 0 {
		return nil, ErrEmptyClip
	}

	return clip, nil
}
