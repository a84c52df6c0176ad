// SPDX-License-Identifier: EPL-2.0

package wavegen

import "errors"

var (
	ErrLength       = errors.New("waveform length must be positive")
	ErrUnknownShape = errors.New("unknown shape")
	ErrWidth        = errors.New("width must be positive")
	ErrNoSample     = errors.New("script defines no sample function")
	ErrScriptResult = errors.New("sample must return one or two numbers")
)
