// SPDX-License-Identifier: EPL-2.0

// Package awg drives one AWG core through a node Connection. It writes
// waveform tables to the waveform memory, reads them back, uploads command
// tables and loads compiled sequencer programs.
//
// Compilation of sequencer source is left to a Compiler supplied by the
// caller.
package awg
