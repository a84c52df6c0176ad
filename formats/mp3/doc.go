// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer 3 files through go-mp3.
//
// go-mp3 always produces 16-bit stereo, so the Source reports two
// channels. Wrap it in audio.NewMonoMixer to fill a single-channel slot.
package mp3
