// SPDX-License-Identifier: EPL-2.0

// Package nodestore keeps device nodes in memory. It implements the
// connection the awg package drives, so waveform and command table
// uploads can be exercised without hardware, and serves the same nodes
// over HTTP for the awgpack emulator.
package nodestore
