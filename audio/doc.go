// SPDX-License-Identifier: EPL-2.0

// Package audio turns decoded sound files into sample arrays that fit a
// waveform slot.
//
// Decoders in formats/ produce a Source. Collect drains it into a Clip
// of per-channel float64 samples, MonoMixer folds stereo into one
// channel, and Fit stretches a channel to the slot length with cubic
// interpolation:
//
//	src, err := reg.Open("pulse.wav")
//	if err != nil {
//		return err
//	}
//	defer src.Close()
//
//	clip, err := audio.Collect(audio.NewMonoMixer(src), 0)
//	if err != nil {
//		return err
//	}
//	samples, err := audio.Fit(clip.Channels[0], 1024)
//
// A Registry maps file extensions to decoders.
package audio
