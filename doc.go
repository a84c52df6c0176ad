// SPDX-License-Identifier: EPL-2.0

// Package awgkit prepares waveform memory and command tables for
// arbitrary waveform generators.
//
// The sub packages do the work:
//   - waveform encodes float sample arrays into the device's native
//     interleaved 16-bit words with marker bits.
//   - seqc generates the placeholder and assignWaveIndex declarations a
//     sequencer program needs for a waveform table.
//   - commandtable builds command-table documents against the device's
//     JSON schema and validates every write.
//   - awg uploads tables and programs to one AWG core through any node
//     connection.
//   - audio, formats/... and wavegen produce sample arrays from sound
//     files, built-in shapes and Lua scripts.
//
// This package wires them together for the common path:
//
//	t := waveform.NewTable()
//	t.SetArrays(0, wavegen.Ones(64, 0.5), nil, nil)
//
//	b, err := awgkit.Compile(t, seqc.HDAWG)
//	if err != nil {
//		return err
//	}
//	fmt.Print(b.Snippet)
//	os.WriteFile("wave0.bin", b.Vectors[0].Bytes(), 0o644)
package awgkit
