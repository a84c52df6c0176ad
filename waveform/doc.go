// SPDX-License-Identifier: EPL-2.0

// Package waveform models the waveform memory of an arbitrary waveform
// generator and converts it to the device's native format.
//
// # Building a table
//
// A Table maps firmware waveform indices to entries. Each Entry pairs one or
// two analog channels with optional marker bits:
//
//	table := waveform.NewTable()
//	err := table.SetArrays(0, ch1, ch2, markers)
//
// Samples are validated on assignment: every value must lie in [-1, 1] and
// both channels and the markers must have the same length. A failed
// assignment leaves the table unchanged.
//
// Complex arrays are split into real (channel 1) and imaginary (channel 2)
// parts with SetComplex.
//
// # Native format
//
// The Encoder quantizes analog samples to signed 16-bit codes (full scale
// 32767) and interleaves the channels sample by sample. Markers are packed
// into the lowest MarkerBits bits of the last word of each sample position,
// so the analog resolution of that channel drops by the same number of bits.
//
//	enc := waveform.Encoder{MarkerBits: 2}
//	native, err := enc.Encode(entry)
//	back, err := enc.Decode(native.Words, native.Layout)
//
// Markers survive the round trip exactly; analog samples within the
// quantization step.
package waveform
