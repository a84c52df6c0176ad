// SPDX-License-Identifier: EPL-2.0

// Package seqc generates sequencer source text for waveform tables.
//
// Generate walks a waveform.Table in ascending index order and produces one
// Declaration per entry: a placeholder per channel, sized to the entry, and
// the assignWaveIndex statement binding them to the firmware index.
// Identifiers come from the wave names or are generated (w<index>_<channel>).
// Two waves with the same explicit name are reported as a
// *NameCollisionError.
//
// Program is a small statement builder for the surrounding program text.
// Compiling the result is left to the device toolchain.
package seqc
