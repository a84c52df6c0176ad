// SPDX-License-Identifier: EPL-2.0

package waveform

import "slices"

// Wave describes a single analog channel.
//
// The samples are fixed when the wave is created; only the name may be
// changed afterwards.
type Wave struct {
	samples []float64
	name    string
	outputs OutputSet
}

// WaveOption customises a Wave at construction.
type WaveOption func(*Wave)

// WithName sets the symbolic identifier used in generated sequencer code.
func WithName(name string) WaveOption {
	return func(w *Wave) { w.name = name }
}

// WithOutputs routes the wave to the given outputs.
func WithOutputs(set OutputSet) WaveOption {
	return func(w *Wave) { w.outputs = set }
}

// NewWave copies samples into a new Wave. It fails with a *RangeError when
// a sample leaves [-1, 1].
func NewWave(samples []float64, opts ...WaveOption) (*Wave, error) {
	if err := ValidateSamples(1, samples); err != nil {
		return nil, err
	}

	return newWave(slices.Clone(samples), opts...), nil
}

func newWave(samples []float64, opts ...WaveOption) *Wave {
	w := &Wave{samples: samples}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Samples returns the wave data. The slice must not be modified.
func (w *Wave) Samples() []float64 { return w.samples }

func (w *Wave) Len() int { return len(w.samples) }

func (w *Wave) Name() string { return w.name }

// SetName patches the symbolic name after the wave was paired.
func (w *Wave) SetName(name string) { w.name = name }

func (w *Wave) Outputs() OutputSet { return w.outputs }
