// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/awgkit/utils"
	"github.com/ik5/awgkit/waveform"
)

// WriteEntry stores the analog channels of e as 16-bit PCM, one WAV
// channel per waveform channel. Markers have no WAV representation and
// are dropped. Samples use the same quantisation as device memory.
func WriteEntry(w io.WriteSeeker, e *waveform.Entry, sampleRate int) error {
	if sampleRate <= 0 {
		return ErrSampleRate
	}

	channels := e.Channels()
	waves := []*waveform.Wave{e.Channel1(), e.Channel2()}[:channels]

	data := make([]int, e.Len()*channels)
	for c, wave := range waves {
		for i, v := range wave.Samples() {
			q, _ := utils.Quantize(v)
			data[i*channels+c] = int(q)
		}
	}

	enc := gowav.NewEncoder(w, sampleRate, 16, channels, formatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav: %w", err)
	}

	return nil
}
