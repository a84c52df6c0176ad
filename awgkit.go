// SPDX-License-Identifier: EPL-2.0

package awgkit

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ik5/awgkit/audio"
	"github.com/ik5/awgkit/formats/aiff"
	"github.com/ik5/awgkit/formats/mp3"
	"github.com/ik5/awgkit/formats/vorbis"
	"github.com/ik5/awgkit/formats/wav"
	"github.com/ik5/awgkit/seqc"
	"github.com/ik5/awgkit/waveform"
)

// Registry returns a registry with every bundled decoder.
func Registry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})

	return reg
}

// LoadOptions controls LoadFile.
type LoadOptions struct {
	// Length fits every channel to this many samples. Zero keeps the
	// decoded length.
	Length int
	// Mono averages all channels into one.
	Mono bool
}

// LoadFile decodes path into at most two channels. Samples pushed past
// full scale by fitting are clamped.
func LoadFile(reg *audio.Registry, path string, opts LoadOptions) (ch1, ch2 []float64, err error) {
	src, err := reg.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	var s audio.Source = src
	if opts.Mono {
		s = audio.NewMonoMixer(src)
	}

	clip, err := audio.Collect(s, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(clip.Channels) > 2 {
		return nil, nil, fmt.Errorf("%s: %w: %d", path, audio.ErrChannels, len(clip.Channels))
	}

	out := clip.Channels
	if opts.Length > 0 {
		for c, samples := range out {
			fitted, err := audio.Fit(samples, opts.Length)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", path, err)
			}
			if n := audio.Clamp(fitted); n > 0 {
				log.Warn().Str("file", path).Int("channel", c+1).Int("clamped", n).Msg("fitted samples clamped")
			}
			out[c] = fitted
		}
	}

	ch1 = out[0]
	if len(out) == 2 {
		ch2 = out[1]
	}

	return ch1, ch2, nil
}

// Bundle is everything a sequencer upload needs for one table.
type Bundle struct {
	Snippet *seqc.Snippet
	// Vectors are the encoded entries, keyed by waveform index.
	Vectors map[int]waveform.Native
}

// Compile generates the declarations for t and encodes each entry at its
// declared length.
func Compile(t *waveform.Table, target seqc.Target) (*Bundle, error) {
	snippet, err := seqc.Generator{Target: target}.Generate(t)
	if err != nil {
		return nil, fmt.Errorf("generate declarations: %w", err)
	}

	b := &Bundle{Snippet: snippet, Vectors: make(map[int]waveform.Native, t.Len())}
	for _, d := range snippet.Declarations {
		n, err := t.RawVector(d.Index, d.Length)
		if err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
		b.Vectors[d.Index] = n
	}

	return b, nil
}
