// SPDX-License-Identifier: EPL-2.0

// Package wav reads integer PCM WAV files into an audio.Source and writes
// waveform entries back out as 16-bit WAV for inspection.
//
//	f, _ := os.Open("pulse.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// Reading accepts 8, 16, 24 and 32 bit integer PCM in any channel count.
// WriteEntry needs an io.WriteSeeker because the RIFF sizes are patched
// on Close.
package wav
