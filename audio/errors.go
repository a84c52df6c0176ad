// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrUnknownFormat  = errors.New("no decoder for format")
	ErrEmptyClip      = errors.New("source produced no samples")
	ErrChannels       = errors.New("unsupported channel count")
	ErrLength         = errors.New("target length must be positive")
)
