// SPDX-License-Identifier: EPL-2.0

package awg

import "errors"

var (
	ErrIndexOutOfRange   = errors.New("waveform index beyond device slots")
	ErrFillerSlot        = errors.New("waveform slot is a filler")
	ErrCommandTableParse = errors.New("device rejected command table while parsing")
	ErrEmptyProgram      = errors.New("sequencer program is empty")
	ErrNoCompiler        = errors.New("no sequencer compiler")
)
