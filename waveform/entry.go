// SPDX-License-Identifier: EPL-2.0

package waveform

import "slices"

// Entry pairs the analog channels of one waveform slot with its marker bits.
// Channel2 may be absent for single-channel slots.
type Entry struct {
	channel1 *Wave
	channel2 *Wave
	markers  []uint16
}

// NewEntry builds an Entry from raw arrays. ch2 and markers may be nil.
func NewEntry(ch1, ch2 []float64, markers []uint16) (*Entry, error) {
	if err := ValidateSamples(1, ch1); err != nil {
		return nil, err
	}

	var w2 *Wave
	if ch2 != nil {
		if err := ValidateSamples(2, ch2); err != nil {
			return nil, err
		}
		w2 = newWave(slices.Clone(ch2))
	}

	return NewEntryFromWaves(newWave(slices.Clone(ch1)), w2, markers)
}

// NewEntryFromWaves pairs existing descriptors. w2 and markers may be nil.
func NewEntryFromWaves(w1, w2 *Wave, markers []uint16) (*Entry, error) {
	if w1 == nil || w1.Len() == 0 {
		return nil, ErrEmpty
	}
	if w2 != nil && w2.Len() != w1.Len() {
		return nil, &ShapeError{What: "channel 2", Got: w2.Len(), Want: w1.Len()}
	}
	if markers != nil && len(markers) != w1.Len() {
		return nil, &ShapeError{What: "markers", Got: len(markers), Want: w1.Len()}
	}

	return &Entry{channel1: w1, channel2: w2, markers: slices.Clone(markers)}, nil
}

// NewComplexEntry splits samples into real (channel 1) and imaginary
// (channel 2) parts.
func NewComplexEntry(samples []complex128, markers []uint16) (*Entry, error) {
	re := make([]float64, len(samples))
	im := make([]float64, len(samples))
	for i, s := range samples {
		re[i], im[i] = real(s), imag(s)
	}
	if err := ValidateSamples(1, re); err != nil {
		return nil, err
	}
	if err := ValidateSamples(2, im); err != nil {
		return nil, err
	}

	return NewEntryFromWaves(newWave(re), newWave(im), markers)
}

func (e *Entry) Channel1() *Wave { return e.channel1 }

// Channel2 returns nil for single-channel entries.
func (e *Entry) Channel2() *Wave { return e.channel2 }

// Markers returns nil when the entry carries no marker data.
func (e *Entry) Markers() []uint16 { return e.markers }

func (e *Entry) Len() int { return e.channel1.Len() }

func (e *Entry) Channels() int {
	if e.channel2 == nil {
		return 1
	}

	return 2
}

func (e *Entry) HasMarkers() bool { return e.markers != nil }

func (e *Entry) waves() []*Wave {
	if e.channel2 == nil {
		return []*Wave{e.channel1}
	}

	return []*Wave{e.channel1, e.channel2}
}
