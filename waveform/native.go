// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"encoding/binary"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ik5/awgkit/utils"
)

// Layout describes how a native buffer is organised.
type Layout struct {
	// Channels is 1 or 2. With 2 channels words alternate ch1, ch2.
	Channels int
	// Markers is set when the low bits of the last word of each sample
	// position carry marker data.
	Markers bool
	// MarkerBits is the number of low bits reserved for markers.
	// Zero means DefaultMarkerBits.
	MarkerBits int
}

func (l Layout) markerBits() int {
	if l.MarkerBits == 0 {
		return DefaultMarkerBits
	}

	return l.MarkerBits
}

func (l Layout) markerMask() uint16 {
	if !l.Markers {
		return 0
	}

	return uint16(1)<<l.markerBits() - 1
}

func (l Layout) validate() error {
	if l.Channels != 1 && l.Channels != 2 {
		return fmt.Errorf("%w: %d channels", ErrLayout, l.Channels)
	}
	if bits := l.markerBits(); !validMarkerBits(bits) {
		return fmt.Errorf("%w: %d marker bits", ErrLayout, bits)
	}

	return nil
}

// Native is a waveform in the device memory format.
type Native struct {
	Words  []uint16
	Layout Layout
	// Clamped counts samples that were forced into [-1, 1].
	Clamped int
}

// Len returns the number of sample positions.
func (n Native) Len() int {
	if n.Layout.Channels == 0 {
		return 0
	}

	return len(n.Words) / n.Layout.Channels
}

// Bytes serialises the words little endian, as written to a vector node.
func (n Native) Bytes() []byte {
	out := make([]byte, len(n.Words)*2)
	for i, w := range n.Words {
		binary.LittleEndian.PutUint16(out[2*i:], w)
	}

	return out
}

// ParseWords splits a little endian vector node value into words.
func ParseWords(raw []byte) ([]uint16, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("%w: odd byte count %d", ErrLayout, len(raw))
	}

	words := make([]uint16, len(raw)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}

	return words, nil
}

// Encoder converts between entries and native buffers.
// The zero value uses DefaultMarkerBits.
type Encoder struct {
	MarkerBits int
}

func (enc Encoder) layout(channels int, markers bool) Layout {
	return Layout{Channels: channels, Markers: markers, MarkerBits: enc.MarkerBits}
}

// Encode quantizes and interleaves e.
func (enc Encoder) Encode(e *Entry) (Native, error) {
	var ch2 []float64
	if e.channel2 != nil {
		ch2 = e.channel2.samples
	}

	return enc.EncodeArrays(e.channel1.samples, ch2, e.markers)
}

// EncodeTarget encodes e and zero pads it to target sample positions, the
// size of the placeholder reserved on the device. target <= 0 disables
// padding.
func (enc Encoder) EncodeTarget(e *Entry, target int) (Native, error) {
	if target > 0 && e.Len() > target {
		return Native{}, fmt.Errorf("%w: %d > %d", ErrTargetLength, e.Len(), target)
	}

	n, err := enc.Encode(e)
	if err != nil {
		return Native{}, err
	}
	if want := target * n.Layout.Channels; target > 0 && len(n.Words) < want {
		padded := make([]uint16, want)
		copy(padded, n.Words)
		n.Words = padded
	}

	return n, nil
}

// EncodeArrays encodes raw arrays without range validation. Out of range
// samples are clamped and counted in Native.Clamped.
func (enc Encoder) EncodeArrays(ch1, ch2 []float64, markers []uint16) (Native, error) {
	channels := 1
	if ch2 != nil {
		channels = 2
		if len(ch2) != len(ch1) {
			return Native{}, &ShapeError{What: "channel 2", Got: len(ch2), Want: len(ch1)}
		}
	}
	if markers != nil && len(markers) != len(ch1) {
		return Native{}, &ShapeError{What: "markers", Got: len(markers), Want: len(ch1)}
	}

	layout := enc.layout(channels, markers != nil)
	if err := layout.validate(); err != nil {
		return Native{}, err
	}
	if markers != nil {
		if err := validateMarkers(markers, layout.markerBits()); err != nil {
			return Native{}, err
		}
	}

	mask := layout.markerMask()
	words := make([]uint16, len(ch1)*channels)
	clamped := 0

	for i := range ch1 {
		q, c := utils.Quantize(ch1[i])
		if c {
			clamped++
		}
		words[i*channels] = uint16(q)

		if channels == 2 {
			q, c = utils.Quantize(ch2[i])
			if c {
				clamped++
			}
			words[i*2+1] = uint16(q)
		}

		if markers != nil {
			last := i*channels + channels - 1
			words[last] = words[last]&^mask | markers[i]&mask
		}
	}

	if clamped > 0 {
		log.Warn().Int("clamped", clamped).Int("samples", len(ch1)).Msg("waveform samples clamped into [-1, 1]")
	}

	return Native{Words: words, Layout: layout, Clamped: clamped}, nil
}

// Decode is the inverse of Encode.
func (enc Encoder) Decode(words []uint16, layout Layout) (*Entry, error) {
	if layout.MarkerBits == 0 {
		layout.MarkerBits = enc.MarkerBits
	}
	if err := layout.validate(); err != nil {
		return nil, err
	}
	if len(words)%layout.Channels != 0 {
		return nil, fmt.Errorf("%w: %d words for %d channels", ErrLayout, len(words), layout.Channels)
	}

	n := len(words) / layout.Channels
	mask := layout.markerMask()
	chans := make([][]float64, layout.Channels)
	for c := range chans {
		chans[c] = make([]float64, n)
	}

	var markers []uint16
	if layout.Markers {
		markers = make([]uint16, n)
	}

	for i := range n {
		for c := range layout.Channels {
			w := words[i*layout.Channels+c]
			if c == layout.Channels-1 && layout.Markers {
				markers[i] = w & mask
				w &^= mask
			}
			chans[c][i] = utils.Dequantize(int16(w))
		}
	}

	var w2 *Wave
	if layout.Channels == 2 {
		w2 = newWave(chans[1])
	}

	return NewEntryFromWaves(newWave(chans[0]), w2, markers)
}
