// SPDX-License-Identifier: EPL-2.0

package seqc

import (
	"errors"
	"fmt"
)

var (
	ErrNameCollision = errors.New("duplicate waveform name")
	ErrInvalidName   = errors.New("invalid sequencer identifier")
	ErrTooShort      = errors.New("length below device minimum")
	ErrGranularity   = errors.New("length not a multiple of device granularity")
	ErrNegative      = errors.New("value must not be negative")
	ErrUnknownTarget = errors.New("unknown target")
	ErrUnknownName   = errors.New("unknown waveform name")
)

// NameCollisionError reports two waves that share an explicit name.
type NameCollisionError struct {
	Name   string
	First  int
	Second int
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("%s %q at indices %d and %d", ErrNameCollision, e.Name, e.First, e.Second)
}

func (e *NameCollisionError) Is(target error) bool { return target == ErrNameCollision }
