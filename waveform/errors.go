// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"errors"
	"fmt"
)

var (
	ErrRange          = errors.New("sample out of range")
	ErrShape          = errors.New("length mismatch")
	ErrEmpty          = errors.New("waveform has no samples")
	ErrNegativeIndex  = errors.New("waveform index must not be negative")
	ErrNoEntry        = errors.New("no waveform at index")
	ErrDeclaredLength = errors.New("length differs from declared placeholder")
	ErrMarkerBits     = errors.New("marker value exceeds marker bits")
	ErrTargetLength   = errors.New("waveform longer than target length")
	ErrLayout         = errors.New("invalid native layout")
)

// RangeError reports the first sample outside [-1, 1].
type RangeError struct {
	Channel  int
	Position int
	Value    float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("channel %d sample %d = %v: %s", e.Channel, e.Position, e.Value, ErrRange)
}

func (e *RangeError) Is(target error) bool { return target == ErrRange }

// ShapeError reports arrays that should have equal length but do not.
type ShapeError struct {
	What string
	Got  int
	Want int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s has %d samples, want %d: %s", e.What, e.Got, e.Want, ErrShape)
}

func (e *ShapeError) Is(target error) bool { return target == ErrShape }
