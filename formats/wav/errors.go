// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile       = errors.New("not a WAV file")
	ErrUnsupportedDepth = errors.New("unsupported WAV bit depth")
	ErrNotPCM           = errors.New("only integer PCM WAV is supported")
	ErrSampleRate       = errors.New("sample rate must be positive")
)
